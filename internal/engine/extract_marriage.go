package engine

import "strings"

func extractMarriageNarrative(text string, penalty float64) candidateSet {
	out := candidateSet{}
	applyPatterns(text, marriageNarrativePatterns, penalty, out)
	return out
}

// extractMarriageTabular maps one registry row to marriage fields. Groom
// and bride are the two name-typed columns in header order — left is the
// groom, right is the bride; that is how the ledgers are ruled, so no
// content heuristic is applied. Ages come out of free cell text, the
// residence must match the street-address pattern, and every
// witness-typed cell concatenates into one witnesses value.
func extractMarriageTabular(row tableRow, columns []ColumnSpec) candidateSet {
	out := candidateSet{}

	if entry := row.firstByType(columns, ColEntryNumber); entry != "" {
		if num := leadingNumber(entry); num != "" {
			out.add(FieldEntryNumber, atoi(num), specCell, true)
		}
	}

	names := row.cellsByType(columns, ColPersonName)
	if len(names) > 0 {
		addSpouse(out, FieldGroomName, FieldGroomAge, names[0])
	}
	if len(names) > 1 {
		addSpouse(out, FieldBrideName, FieldBrideAge, names[1])
	}

	if date := row.firstByType(columns, ColDate); date != "" {
		addDateCell(out, FieldMarriageDate, date)
	}

	if cells := row.cellsByType(columns, ColWitnessNames); len(cells) > 0 {
		out.add(FieldWitnesses, strings.Join(cells, " "), specCell, true)
	}

	if license := row.firstByType(columns, ColLicense); license != "" {
		out.add(FieldLicense, license, specCell, true)
	}

	if ageCell := row.firstByType(columns, ColAge); ageCell != "" {
		if age, ok := parseAge(ageCell); ok {
			out.add(FieldAge, age, specCell, true)
		} else if num := leadingNumber(ageCell); num != "" {
			out.add(FieldAge, atoi(num), specCell, true)
		}
	}

	if clergy := row.firstByType(columns, ColClergy); clergy != "" {
		out.add(FieldClergy, stripHonorifics(clergy), specCell, true)
	}

	// residence and a stray age can hide in any free-text cell
	for _, cell := range rowCellsLeftToRight(row, columns) {
		if !out.has(FieldResidence) {
			if addr, ok := parseResidence(cell); ok {
				out.add(FieldResidence, addr, specDerived, true)
			}
		}
		if !out.has(FieldAge) && !out.has(FieldGroomAge) {
			if age, ok := parseAge(cell); ok {
				out.add(FieldAge, age, specDerived, true)
			}
		}
	}

	return out
}

// addSpouse records a spouse name plus the age annotation riding in the
// same cell ("John Smith (Age: 26), Orthodox Christian").
func addSpouse(out candidateSet, nameField, ageField, cell string) {
	if age, ok := parseAge(cell); ok {
		out.add(ageField, age, specDerived, true)
	}
	name := spouseName(cell)
	if name != "" {
		out.add(nameField, name, specCell, true)
	}
}

// spouseName trims the annotations ledgers append after a spouse's name.
func spouseName(cell string) string {
	if i := strings.IndexAny(cell, "(,"); i >= 0 {
		cell = cell[:i]
	}
	return parsePersonName(cell).Full()
}

func rowCellsLeftToRight(row tableRow, columns []ColumnSpec) []string {
	var cells []string
	for i := range columns {
		if v := strings.TrimSpace(row[i]); v != "" {
			cells = append(cells, v)
		}
	}
	return cells
}
