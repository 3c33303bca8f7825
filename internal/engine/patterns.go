package engine

import "regexp"

// valueKind tells the extractor how to post-process a raw pattern capture.
type valueKind int

const (
	kindText valueKind = iota
	kindDate
	kindPerson // capture decomposes into firstName/middleName/lastName
	kindPair   // capture splits into fatherName/motherName
	kindNumber
	kindClergy // capture loses leading honorific tokens
)

// fieldPattern is one entry of an ordered, first-match-wins pattern list.
// Specificity is the base confidence a match earns; specific phrasings
// outrank generic fallbacks by construction, not by accident of ordering.
type fieldPattern struct {
	field       string
	re          *regexp.Regexp
	specificity float64
	kind        valueKind
}

// Reusable capture fragments.
const (
	nameToken = `\p{Lu}[\p{L}.'\-]*(?:\s+\p{Lu}[\p{L}.'\-]*)*`
	restLine  = `([^\n]+)`
)

var baptismNarrativePatterns = []fieldPattern{
	{FieldBaptismDate, regexp.MustCompile(`(?i)received\s+into\s+the\s+holy\s+orthodox\s+church[^\n]*?by\s+chrismation[^\n]*?\bon\s+(` + dateToken + `)`), 0.95, kindDate},
	{FieldBaptismDate, regexp.MustCompile(`(?i)was\s+baptized\s+on\s+(` + dateToken + `)`), 0.90, kindDate},
	{FieldBaptismDate, regexp.MustCompile(`(?i)baptiz\w+[^\n]*?\bon\s+(` + dateToken + `)`), 0.85, kindDate},
	{FieldBaptismDate, regexp.MustCompile(`(?i)date\s+of\s+baptism[:\s]+` + restLine), 0.80, kindDate},
	{FieldBirthDate, regexp.MustCompile(`(?i)(?:was\s+)?born\s+(?:on\s+|in\s+[^\n]+?\bon\s+)(` + dateToken + `)`), 0.85, kindDate},
	{FieldBirthDate, regexp.MustCompile(`(?i)date\s+of\s+birth[:\s]+` + restLine), 0.80, kindDate},
	{FieldFirstName, regexp.MustCompile(`(?i:certify\s+that)\s+(` + nameToken + `)`), 0.85, kindPerson},
	{FieldFirstName, regexp.MustCompile(`(?i)name\s+of\s+child[:\s]+` + restLine), 0.85, kindPerson},
	{FieldFirstName, regexp.MustCompile(`(` + nameToken + `)\s+(?i:was\s+baptized)`), 0.75, kindPerson},
	{FieldFatherName, regexp.MustCompile(`(?i)(?:son|daughter|child)\s+of\s+([^\n.;]+)`), 0.85, kindPair},
	{FieldFatherName, regexp.MustCompile(`(?i)parents[:\s]+([^\n.;]+)`), 0.80, kindPair},
	{FieldGodparents, regexp.MustCompile(`(?i)(?:godparents?|sponsors?|ανάδοχοι|ανάδοχος|крестные|восприемники)(?:\s+(?:was|were))?[:\s]+([^\n.;]+)`), 0.80, kindText},
	{FieldClergy, regexp.MustCompile(`(?i)officiating(?:\s+priest)?[:\s]+` + restLine), 0.90, kindClergy},
	{FieldClergy, regexp.MustCompile(`(?im)^by\s+((?:the\s+)?(?:rt\.?\s+rev\.?|v\.?\s+rev\.?|rev\.?|fr\.?|father)\s+[^\n,]+)`), 0.85, kindClergy},
	{FieldClergy, regexp.MustCompile(`(?i:\bby)\s+((?i:rt\.?\s+rev\.?|v\.?\s+rev\.?|rev\.?|fr\.?|father)\s+` + nameToken + `)`), 0.80, kindClergy},
	{FieldClergy, regexp.MustCompile(`(?i)priest[:\s]+` + restLine), 0.70, kindClergy},
}

var marriageNarrativePatterns = []fieldPattern{
	{FieldMarriageDate, regexp.MustCompile(`(?i)united\s+in\s+(?:holy\s+)?matrimony[^\n]*?\bon\s+(` + dateToken + `)`), 0.95, kindDate},
	{FieldMarriageDate, regexp.MustCompile(`(?i)were\s+married\s+on\s+(` + dateToken + `)`), 0.90, kindDate},
	{FieldMarriageDate, regexp.MustCompile(`(?i)date\s+of\s+marriage[:\s]+` + restLine), 0.80, kindDate},
	{FieldGroomName, regexp.MustCompile(`(?i)groom[:\s]+` + restLine), 0.85, kindText},
	{FieldBrideName, regexp.MustCompile(`(?i)bride[:\s]+` + restLine), 0.85, kindText},
	{FieldGroomName, regexp.MustCompile(`(?i:between)\s+(` + nameToken + `)\s+(?i:and)\s+` + nameToken), 0.75, kindText},
	{FieldBrideName, regexp.MustCompile(`(?i:between)\s+` + nameToken + `\s+(?i:and)\s+(` + nameToken + `)`), 0.75, kindText},
	{FieldWitnesses, regexp.MustCompile(`(?i)witness(?:es)?(?:\s+(?:was|were))?[:\s]+([^\n.;]+)`), 0.80, kindText},
	{FieldWitnesses, regexp.MustCompile(`(?i)best\s+man[:\s]+([^\n.;]+)`), 0.70, kindText},
	{FieldLicense, regexp.MustCompile(`(?i)(?:marriage\s+)?license(?:\s+(?:no\.?|number))?[:\s]+` + restLine), 0.80, kindText},
	{FieldClergy, regexp.MustCompile(`(?i)officiating(?:\s+priest)?[:\s]+` + restLine), 0.90, kindClergy},
	{FieldClergy, regexp.MustCompile(`(?i:\bby)\s+((?i:rt\.?\s+rev\.?|rev\.?|fr\.?|father)\s+` + nameToken + `)`), 0.80, kindClergy},
}

var funeralNarrativePatterns = []fieldPattern{
	{FieldDeathDate, regexp.MustCompile(`(?i)fell\s+asleep\s+in\s+the\s+lord\s+on\s+(` + dateToken + `)`), 0.95, kindDate},
	{FieldDeathDate, regexp.MustCompile(`(?i)died\s+on\s+(` + dateToken + `)`), 0.90, kindDate},
	{FieldDeathDate, regexp.MustCompile(`(?i)date\s+of\s+death[:\s]+` + restLine), 0.80, kindDate},
	{FieldFuneralDate, regexp.MustCompile(`(?i)funeral(?:\s+service)?(?:\s+was)?(?:\s+held)?\s+on\s+(` + dateToken + `)`), 0.85, kindDate},
	{FieldFuneralDate, regexp.MustCompile(`(?i)date\s+of\s+funeral[:\s]+` + restLine), 0.80, kindDate},
	{FieldFirstName, regexp.MustCompile(`(?i:funeral\s+service\s+for)\s+(` + nameToken + `)`), 0.85, kindPerson},
	{FieldFirstName, regexp.MustCompile(`(?i:the\s+servant\s+of\s+god)[,\s]+(` + nameToken + `)`), 0.85, kindPerson},
	{FieldAgeAtDeath, regexp.MustCompile(`(?i)in\s+the\s+(\d{1,3})(?:st|nd|rd|th)?\s+year`), 0.85, kindNumber},
	{FieldAgeAtDeath, regexp.MustCompile(`(?i)aged\s+(\d{1,3})`), 0.80, kindNumber},
	{FieldPlaceOfBurial, regexp.MustCompile(`(?i)(?:buried|interred|laid\s+to\s+rest)\s+(?:at|in)\s+([^\n.;]+)`), 0.85, kindText},
	{FieldPlaceOfBurial, regexp.MustCompile(`(?i)place\s+of\s+burial[:\s]+` + restLine), 0.80, kindText},
	{FieldClergy, regexp.MustCompile(`(?i)officiating(?:\s+priest)?[:\s]+` + restLine), 0.90, kindClergy},
	{FieldClergy, regexp.MustCompile(`(?i:\bby)\s+((?i:rt\.?\s+rev\.?|rev\.?|fr\.?|father)\s+` + nameToken + `)`), 0.80, kindClergy},
}

// Age pattern family for registry free text: "(Age: 26)", "Age 26",
// "26 years old", "aged 26". First numeric group wins.
var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\(\s*age[:\s]*(\d{1,3})\s*\)`),
	regexp.MustCompile(`(?i)\bage[:\s]+(\d{1,3})\b`),
	regexp.MustCompile(`(?i)\b(\d{1,3})\s*(?:years?\s*old|yrs?\.?\s*old)\b`),
	regexp.MustCompile(`(?i)\baged\s+(\d{1,3})\b`),
}

// parseAge pulls an age out of free cell text.
func parseAge(s string) (int, bool) {
	for _, re := range agePatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			return atoi(m[1]), true
		}
	}
	return 0, false
}

// Residence wants a street number, a street-type keyword, and a trailing
// two-letter region code; bare town names are too ambiguous in OCR noise.
var reResidence = regexp.MustCompile(`\b(\d+\s+[\p{L}][\p{L} .'\-]*\s(?:Street|St\.?|Avenue|Ave\.?|Road|Rd\.?|Drive|Dr\.?|Boulevard|Blvd\.?)[\p{L} ,.'\-]*\b[A-Z]{2})\b`)

func parseResidence(s string) (string, bool) {
	if m := reResidence.FindStringSubmatch(s); m != nil {
		return collapseSpaces(m[1]), true
	}
	return "", false
}
