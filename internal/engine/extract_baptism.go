package engine

import "strings"

// extractBaptismNarrative scans certificate prose with the ordered
// baptism pattern list. penalty is 1.0 for a recognized baptism record
// and <1 when this set runs as the generic fallback.
func extractBaptismNarrative(text string, penalty float64) candidateSet {
	out := candidateSet{}
	applyPatterns(text, baptismNarrativePatterns, penalty, out)
	return out
}

// extractBaptismTabular maps one reconstructed registry row to baptism
// fields: the name column is the child, date columns are birth then
// baptism in ledger order (a single date column is the baptism), parents
// and godparents split into individuals, clergy loses its honorifics.
func extractBaptismTabular(row tableRow, columns []ColumnSpec) candidateSet {
	out := candidateSet{}

	if entry := row.firstByType(columns, ColEntryNumber); entry != "" {
		if num := leadingNumber(entry); num != "" {
			out.add(FieldEntryNumber, atoi(num), specCell, true)
		}
	}

	addPersonParts(out, parsePersonName(row.firstByType(columns, ColPersonName)), specCell)

	dates := row.cellsByType(columns, ColDate)
	switch len(dates) {
	case 0:
	case 1:
		addDateCell(out, FieldBaptismDate, dates[0])
	default:
		addDateCell(out, FieldBirthDate, dates[0])
		addDateCell(out, FieldBaptismDate, dates[1])
	}

	if parents := row.firstByType(columns, ColParentNames); parents != "" {
		father, mother := splitPair(parents)
		if !father.IsZero() {
			out.add(FieldFatherName, father.Full(), specDerived, true)
		}
		if !mother.IsZero() {
			out.add(FieldMotherName, mother.Full(), specDerived, true)
		}
	}

	if cells := row.cellsByType(columns, ColGodparentNames); len(cells) > 0 {
		out.add(FieldGodparents, strings.Join(cells, " "), specCell, true)
	}

	if clergy := row.firstByType(columns, ColClergy); clergy != "" {
		out.add(FieldClergy, stripHonorifics(clergy), specCell, true)
	}

	return out
}
