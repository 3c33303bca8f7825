package engine

// Per-field importance for the overall aggregate. Names carry the most
// review weight, clergy and witness attribution the least.
var fieldImportance = map[string]float64{
	FieldFirstName:     1.0,
	FieldLastName:      1.0,
	FieldGroomName:     1.0,
	FieldBrideName:     1.0,
	FieldMiddleName:    0.6,
	FieldBirthDate:     0.9,
	FieldBaptismDate:   0.9,
	FieldMarriageDate:  0.9,
	FieldDeathDate:     0.9,
	FieldFuneralDate:   0.8,
	FieldFatherName:    0.7,
	FieldMotherName:    0.7,
	FieldAge:           0.6,
	FieldGroomAge:      0.6,
	FieldBrideAge:      0.6,
	FieldAgeAtDeath:    0.6,
	FieldResidence:     0.6,
	FieldLicense:       0.6,
	FieldPlaceOfBurial: 0.6,
	FieldGodparents:    0.5,
	FieldWitnesses:     0.5,
	FieldClergy:        0.4,
	FieldEntryNumber:   0.3,
}

const (
	unparsedFactor     = 0.5  // attempted but unnormalized values
	corroborationBonus = 0.05 // dates that sit in a plausible mutual range
	contradictionMalus = 0.30 // dates in an impossible order
)

// score turns accumulated candidates into final fields and confidences.
// Per-field confidence starts at the match's specificity, is halved for
// values that did not parse, and moves with cross-field date consistency.
// Overall is the importance-weighted mean of present fields; no fields
// means overall 0.
func score(cands candidateSet) (map[string]Field, Confidence) {
	fields := make(map[string]Field, len(cands))
	perField := make(map[string]float64, len(cands))

	for name, c := range cands {
		conf := c.specificity
		if !c.parsed {
			conf *= unparsedFactor
		}
		fields[name] = Field{Name: name, Value: c.value, Confidence: conf}
	}

	applyDateConsistency(fields, FieldBirthDate, FieldBaptismDate)
	applyDateConsistency(fields, FieldDeathDate, FieldFuneralDate)

	var weighted, weights float64
	for name, f := range fields {
		w, ok := fieldImportance[name]
		if !ok {
			w = 0.5
		}
		perField[name] = f.Confidence
		weighted += f.Confidence * w
		weights += w
	}

	overall := 0.0
	if weights > 0 {
		overall = weighted / weights
	}
	return fields, Confidence{Overall: round2(overall), PerField: perField}
}

// applyDateConsistency corroborates or penalizes a pair of ordered dates:
// the second event cannot precede the first (a baptism before the birth
// is an OCR misread), while a plausible ordering slightly raises both.
func applyDateConsistency(fields map[string]Field, earlier, later string) {
	a, okA := fields[earlier]
	b, okB := fields[later]
	if !okA || !okB {
		return
	}
	isoA, okA := a.Value.(string)
	isoB, okB := b.Value.(string)
	if !okA || !okB || isoA == "" || isoB == "" {
		return
	}
	// ISO dates order lexicographically
	if isoB < isoA {
		a.Confidence = clamp01(a.Confidence - contradictionMalus)
		b.Confidence = clamp01(b.Confidence - contradictionMalus)
	} else {
		a.Confidence = clamp01(a.Confidence + corroborationBonus)
		b.Confidence = clamp01(b.Confidence + corroborationBonus)
	}
	fields[earlier] = a
	fields[later] = b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
