package engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildResultJSONSchema returns a JSON-Schema (draft 2020-12 subset) for the
// serialized Result, as a generic map. The worker validates every result
// against it before persisting.
func BuildResultJSONSchema() map[string]any {
	fieldProps := map[string]any{}
	confProps := map[string]any{
		"overall": scoreProp(),
	}
	for _, name := range allFieldNames {
		fieldProps[name] = fieldValueProp(name)
		confProps[name] = scoreProp()
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"recordType", "fields", "confidence", "metadata"},
		"properties": map[string]any{
			"recordType": map[string]any{
				"type": "string",
				"enum": []string{"baptism", "marriage", "funeral", "unknown"},
			},
			"fields": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           fieldProps,
			},
			"confidence": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"overall"},
				"properties":           confProps,
			},
			"metadata": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"language", "extractionDate", "needsReview"},
				"properties": map[string]any{
					"language":       map[string]any{"type": "string", "minLength": 2},
					"extractionDate": map[string]any{"type": "string", "format": "date-time"},
					"needsReview":    map[string]any{"type": "boolean"},
				},
			},
		},
	}
}

var allFieldNames = []string{
	FieldEntryNumber, FieldFirstName, FieldMiddleName, FieldLastName,
	FieldBirthDate, FieldBaptismDate, FieldFatherName, FieldMotherName,
	FieldGodparents, FieldClergy, FieldMarriageDate, FieldGroomName,
	FieldBrideName, FieldGroomAge, FieldBrideAge, FieldAge, FieldResidence,
	FieldWitnesses, FieldLicense, FieldDeathDate, FieldFuneralDate,
	FieldAgeAtDeath, FieldPlaceOfBurial,
}

var intFields = map[string]bool{
	FieldEntryNumber: true,
	FieldAge:         true,
	FieldGroomAge:    true,
	FieldBrideAge:    true,
	FieldAgeAtDeath:  true,
}

var dateFields = map[string]bool{
	FieldBirthDate:    true,
	FieldBaptismDate:  true,
	FieldMarriageDate: true,
	FieldDeathDate:    true,
	FieldFuneralDate:  true,
}

// fieldValueProp types one field slot; every slot also admits null, the
// marker for a present-but-unparsed value.
func fieldValueProp(name string) map[string]any {
	switch {
	case intFields[name]:
		return map[string]any{"type": []string{"integer", "null"}, "minimum": 0}
	case dateFields[name]:
		return map[string]any{
			"type":    []string{"string", "null"},
			"pattern": `^\d{4}-\d{2}-\d{2}$`,
		}
	default:
		return map[string]any{"type": []string{"string", "null"}, "minLength": 1}
	}
}

func scoreProp() map[string]any {
	return map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0}
}

// ValidateResultJSON validates a serialized Result against the schema.
func ValidateResultJSON(data []byte) error {
	b, err := json.Marshal(BuildResultJSONSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("result.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("result.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("result does not match schema: %w", err)
	}
	return nil
}
