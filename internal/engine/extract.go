package engine

import "strings"

// candidate is a pre-scoring extracted value. parsed is false when the
// source clearly carried the field but the value did not normalize (an
// unparseable date keeps its slot with a nil value and reduced confidence
// instead of being discarded).
type candidate struct {
	value       any
	specificity float64
	parsed      bool
}

// candidateSet accumulates extraction output; first match per field wins.
type candidateSet map[string]candidate

func (c candidateSet) add(field string, value any, specificity float64, parsed bool) {
	if _, exists := c[field]; exists {
		return
	}
	c[field] = candidate{value: value, specificity: specificity, parsed: parsed}
}

func (c candidateSet) has(field string) bool {
	_, ok := c[field]
	return ok
}

// applyPatterns runs an ordered pattern list over narrative text,
// first-match-wins per field. penalty scales every specificity and is 1.0
// except when the generic pattern set runs as a fallback for an
// unidentified record type.
func applyPatterns(text string, patterns []fieldPattern, penalty float64, out candidateSet) {
	for _, p := range patterns {
		if out.has(p.field) {
			continue
		}
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		capture := collapseSpaces(strings.Trim(m[1], " \t.,;"))
		if capture == "" {
			continue
		}
		weight := p.specificity * penalty

		switch p.kind {
		case kindDate:
			if iso, ok := parseDate(capture); ok {
				out.add(p.field, iso, weight, true)
			} else if iso, ok := findDate(capture); ok {
				out.add(p.field, iso, weight, true)
			} else {
				out.add(p.field, nil, weight, false)
			}
		case kindPerson:
			addPersonParts(out, parsePersonName(capture), weight)
		case kindPair:
			father, mother := splitPair(capture)
			if !father.IsZero() {
				out.add(FieldFatherName, father.Full(), weight, true)
			}
			if !mother.IsZero() {
				out.add(FieldMotherName, mother.Full(), weight, true)
			}
		case kindNumber:
			out.add(p.field, atoi(m[1]), weight, true)
		case kindClergy:
			out.add(p.field, stripHonorifics(capture), weight, true)
		default:
			out.add(p.field, capture, weight, true)
		}
	}
}

// addPersonParts fans a decomposed name out to the name fields, guarded by
// firstName so a later, less specific match cannot mix names together.
func addPersonParts(out candidateSet, parts PersonNameParts, weight float64) {
	if parts.IsZero() || out.has(FieldFirstName) {
		return
	}
	out.add(FieldFirstName, parts.FirstName, weight, true)
	if parts.MiddleName != "" {
		out.add(FieldMiddleName, parts.MiddleName, weight, true)
	}
	if parts.LastName != "" {
		out.add(FieldLastName, parts.LastName, weight, true)
	}
}

// Tabular cell specificities: a value sitting under a matched header is
// strong evidence; values derived by splitting a cell are a notch weaker.
const (
	specCell    = 0.85
	specDerived = 0.75
)

// addDateCell normalizes a date cell, keeping an unparseable one as a nil
// value so review sees the slot existed.
func addDateCell(out candidateSet, field, cell string) {
	if cell == "" {
		return
	}
	if iso, ok := parseDate(cell); ok {
		out.add(field, iso, specCell, true)
	} else if iso, ok := findDate(cell); ok {
		out.add(field, iso, specCell, true)
	} else {
		out.add(field, nil, specCell, false)
	}
}
