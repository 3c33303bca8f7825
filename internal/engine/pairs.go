package engine

import (
	"regexp"
	"strings"
)

// Conjunctions joining two people in one cell, in the languages the
// registries mix: English, ampersand, Russian/Serbian "и", Greek "και",
// Romanian "și". Comma is the last resort since it also appears inside
// "Last, First" names.
var pairSeparators = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s+and\s+`),
	regexp.MustCompile(`\s+&\s+`),
	regexp.MustCompile(`(?i)\s+и\s+`),
	regexp.MustCompile(`(?i)\s+και\s+`),
	regexp.MustCompile(`(?i)\s+și\s+`),
	regexp.MustCompile(`(?i)\s+si\s+`),
	regexp.MustCompile(`\s*,\s*`),
}

// splitPair splits a compound string such as "George and Maria Kostas"
// into two person references. When the left name has no surname of its
// own and the right one does, the surname is shared ("George Kostas",
// "Maria Kostas"). A string with no recognizable conjunction yields only
// the first person (registries often record just the father).
func splitPair(s string) (first, second PersonNameParts) {
	s = collapseSpaces(s)
	if s == "" {
		return PersonNameParts{}, PersonNameParts{}
	}

	for i, sep := range pairSeparators {
		halves := sep.Split(s, 2)
		if len(halves) != 2 || halves[0] == "" || halves[1] == "" {
			continue
		}
		// the comma fallback must not shred a single "Last, First" name
		if i == len(pairSeparators)-1 && (!strings.Contains(halves[0], " ") || !strings.Contains(halves[1], " ")) {
			continue
		}
		first = parsePersonName(halves[0])
		second = parsePersonName(halves[1])
		if first.LastName == "" && second.LastName != "" {
			first.LastName = second.LastName
		} else if second.LastName == "" && first.LastName != "" {
			second.LastName = first.LastName
		}
		return first, second
	}

	return parsePersonName(s), PersonNameParts{}
}
