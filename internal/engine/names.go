package engine

import "strings"

// PersonNameParts is a decomposed person name. MiddleName may be empty.
// A non-empty input always yields at least a FirstName: a bare single
// token is treated as a given name, never as a surname on its own.
type PersonNameParts struct {
	FirstName  string
	MiddleName string
	LastName   string
}

func (p PersonNameParts) IsZero() bool {
	return p.FirstName == "" && p.MiddleName == "" && p.LastName == ""
}

// Full reassembles the name in First [Middle] Last order.
func (p PersonNameParts) Full() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.FirstName, p.MiddleName, p.LastName} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// parsePersonName decomposes a name string. A comma means registry order
// ("Last, First Middle"); otherwise the last whitespace token is the
// surname and everything before it is given/middle names. Splitting is
// whitespace and punctuation based, so Latin, Greek, and Cyrillic input
// all take the same path.
func parsePersonName(s string) PersonNameParts {
	s = collapseSpaces(strings.Trim(s, " .,;"))
	if s == "" {
		return PersonNameParts{}
	}

	if last, rest, found := strings.Cut(s, ","); found {
		given := strings.Fields(strings.Trim(rest, " .,"))
		parts := PersonNameParts{LastName: strings.TrimSpace(last)}
		if len(given) > 0 {
			parts.FirstName = given[0]
		}
		if len(given) > 1 {
			parts.MiddleName = strings.Join(given[1:], " ")
		}
		if parts.FirstName == "" {
			// never return a surname-only name
			parts.FirstName = parts.LastName
			parts.LastName = ""
		}
		return parts
	}

	tokens := strings.Fields(s)
	switch len(tokens) {
	case 1:
		return PersonNameParts{FirstName: tokens[0]}
	case 2:
		return PersonNameParts{FirstName: tokens[0], LastName: tokens[1]}
	default:
		return PersonNameParts{
			FirstName:  tokens[0],
			MiddleName: strings.Join(tokens[1:len(tokens)-1], " "),
			LastName:   tokens[len(tokens)-1],
		}
	}
}

// honorifics are clergy title tokens stripped before a clergy name is
// stored. Matching is case-insensitive and dot-tolerant.
var honorifics = map[string]struct{}{
	"rev": {}, "fr": {}, "father": {}, "rt": {}, "v": {}, "very": {},
	"protopresbyter": {}, "archimandrite": {}, "hieromonk": {},
	"deacon": {}, "protodeacon": {}, "bishop": {}, "archbishop": {}, "metropolitan": {},
	"πατήρ": {}, "π": {}, "αρχιμανδρίτης": {}, "επίσκοπος": {}, "αρχιεπίσκοπος": {},
	"отец": {}, "о": {}, "иерей": {}, "протоиерей": {}, "священник": {}, "диакон": {},
	"preot": {}, "pr": {}, "свештеник": {}, "otac": {},
}

// stripHonorifics removes leading title tokens from a clergy string.
// If nothing but titles remain, the original string is returned so the
// field is still reviewable.
func stripHonorifics(s string) string {
	tokens := strings.Fields(collapseSpaces(s))
	i := 0
	for i < len(tokens) {
		key := strings.ToLower(strings.Trim(tokens[i], "."))
		if _, ok := honorifics[key]; !ok {
			break
		}
		i++
	}
	if i == len(tokens) {
		return collapseSpaces(s)
	}
	return strings.Join(tokens[i:], " ")
}
