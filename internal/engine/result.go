package engine

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/orthodoxmetrics/record-extractor/constants"
)

// Canonical field names shared by every extractor. Inapplicable fields are
// omitted from results entirely; a present field with a nil value means the
// source text carried it but it did not parse.
const (
	FieldEntryNumber   = "entryNumber"
	FieldFirstName     = "firstName"
	FieldMiddleName    = "middleName"
	FieldLastName      = "lastName"
	FieldBirthDate     = "birthDate"
	FieldBaptismDate   = "baptismDate"
	FieldFatherName    = "fatherName"
	FieldMotherName    = "motherName"
	FieldGodparents    = "godparents"
	FieldClergy        = "clergy"
	FieldMarriageDate  = "marriageDate"
	FieldGroomName     = "groomName"
	FieldBrideName     = "brideName"
	FieldGroomAge      = "groomAge"
	FieldBrideAge      = "brideAge"
	FieldAge           = "age"
	FieldResidence     = "residence"
	FieldWitnesses     = "witnesses"
	FieldLicense       = "license"
	FieldDeathDate     = "deathDate"
	FieldFuneralDate   = "funeralDate"
	FieldAgeAtDeath    = "ageAtDeath"
	FieldPlaceOfBurial = "placeOfBurial"
)

// Field is one extracted value with its confidence.
// Value is a string, an int, or nil (attempted but unparsed).
type Field struct {
	Name       string
	Value      any
	Confidence float64
}

// Confidence carries the overall score and the per-field breakdown.
type Confidence struct {
	Overall  float64
	PerField map[string]float64
}

// Metadata describes how the extraction ran.
type Metadata struct {
	Language       string
	ExtractionDate time.Time
	NeedsReview    bool
}

// Result is the structured output of one extraction call.
type Result struct {
	RecordType constants.RecordType
	Fields     map[string]Field
	Confidence Confidence
	Metadata   Metadata
}

// resultJSON is the wire shape handed to the persistence/review layer:
// field values flattened to their raw values, confidences merged into a
// single object keyed by "overall" plus field names.
type resultJSON struct {
	RecordType string             `json:"recordType"`
	Fields     map[string]any     `json:"fields"`
	Confidence map[string]float64 `json:"confidence"`
	Metadata   metadataJSON       `json:"metadata"`
}

type metadataJSON struct {
	Language       string `json:"language"`
	ExtractionDate string `json:"extractionDate"`
	NeedsReview    bool   `json:"needsReview"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(r.Fields))
	conf := make(map[string]float64, len(r.Fields)+1)
	conf["overall"] = r.Confidence.Overall
	for name, f := range r.Fields {
		fields[name] = f.Value
		conf[name] = f.Confidence
	}
	return json.Marshal(resultJSON{
		RecordType: string(r.RecordType),
		Fields:     fields,
		Confidence: conf,
		Metadata: metadataJSON{
			Language:       r.Metadata.Language,
			ExtractionDate: r.Metadata.ExtractionDate.UTC().Format(time.RFC3339),
			NeedsReview:    r.Metadata.NeedsReview,
		},
	})
}

// FieldNames returns the present field names in stable sorted order.
func (r Result) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
