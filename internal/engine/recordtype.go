package engine

import (
	"regexp"

	"github.com/orthodoxmetrics/record-extractor/constants"
)

// Record-type vocabulary across the supported languages. Patterns score 2
// per hit; the anchor words ("baptism certificate" etc.) would be caught
// twice, which is intended — explicit certificate titles should dominate.
var recordTypeTerms = map[constants.RecordType][]*regexp.Regexp{
	constants.RecordTypeBaptism: {
		regexp.MustCompile(`(?i)baptis|christen|chrismation`),
		regexp.MustCompile(`(?i)βαπτ[ίι]|ανάδοχ|νον[όα]`),
		regexp.MustCompile(`(?i)крещен|крестн|восприемник`),
		regexp.MustCompile(`(?i)метрическая\s+книга|о\s+рождениях`),
		regexp.MustCompile(`(?i)botez|krštenj|крштењ`),
		regexp.MustCompile(`(?i)godparent|sponsor`),
		regexp.MustCompile(`(?i)received\s+into\s+the\s+holy\s+orthodox\s+church`),
	},
	constants.RecordTypeMarriage: {
		regexp.MustCompile(`(?i)marri|matrimony|wedding`),
		regexp.MustCompile(`(?i)γάμ|νύμφη|γαμπρ|στεφάν`),
		regexp.MustCompile(`(?i)венчан|брак|жених|невест`),
		regexp.MustCompile(`(?i)căsător|mire|venčanj|венчањ|младожењ`),
		regexp.MustCompile(`(?i)\bgroom\b|\bbride\b|best\s+man`),
	},
	constants.RecordTypeFuneral: {
		regexp.MustCompile(`(?i)funeral|burial|interment|deceased|fell\s+asleep`),
		regexp.MustCompile(`(?i)κηδεί|θάνατ|ταφή|μακαρίτ`),
		regexp.MustCompile(`(?i)похорон|смерт|погребен|покойн|упокоен`),
		regexp.MustCompile(`(?i)înmormânt|deces|sahran|сахран|опело`),
	},
}

// detectRecordType scans the text for record-type vocabulary and returns
// the winner. ok is false when nothing matched or two types tie for the
// top score, so callers can fall back to the hint.
func detectRecordType(text string) (constants.RecordType, bool) {
	best := constants.RecordTypeUnknown
	bestScore, runnerUp := 0, 0
	for _, rt := range constants.RecordTypes {
		score := 0
		for _, re := range recordTypeTerms[rt] {
			score += 2 * len(re.FindAllStringIndex(text, -1))
		}
		switch {
		case score > bestScore:
			runnerUp = bestScore
			bestScore = score
			best = rt
		case score > runnerUp:
			runnerUp = score
		}
	}
	if bestScore == 0 || bestScore == runnerUp {
		return constants.RecordTypeUnknown, false
	}
	return best, true
}

// resolveRecordType combines the advisory hint with what the text itself
// says. A clear detection overrides a conflicting hint (a narrative that
// calls itself a baptismal certificate wins over a "marriage" hint); an
// ambiguous scan keeps the hint.
func resolveRecordType(hint constants.RecordType, text string) constants.RecordType {
	detected, ok := detectRecordType(text)
	if ok {
		return detected
	}
	return hint
}
