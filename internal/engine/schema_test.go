package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateResultJSONAcceptsEngineOutput(t *testing.T) {
	e := newTestExtractor()
	for name, text := range map[string]string{
		"baptism": baptismCertificate,
		"empty":   "",
		"garbage": "%%%% not a record %%%%",
	} {
		t.Run(name, func(t *testing.T) {
			data, err := json.Marshal(e.Extract(Input{Text: text}))
			require.NoError(t, err)
			assert.NoError(t, ValidateResultJSON(data))
		})
	}
}

func TestValidateResultJSONRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing sections", `{"recordType":"baptism"}`},
		{"bad record type", `{"recordType":"census","fields":{},"confidence":{"overall":0},"metadata":{"language":"en","extractionDate":"2024-03-01T12:00:00Z","needsReview":true}}`},
		{"unknown field name", `{"recordType":"baptism","fields":{"shoeSize":44},"confidence":{"overall":0},"metadata":{"language":"en","extractionDate":"2024-03-01T12:00:00Z","needsReview":true}}`},
		{"confidence out of range", `{"recordType":"baptism","fields":{},"confidence":{"overall":1.5},"metadata":{"language":"en","extractionDate":"2024-03-01T12:00:00Z","needsReview":true}}`},
		{"date field not iso", `{"recordType":"baptism","fields":{"baptismDate":"August 15, 1950"},"confidence":{"overall":0.5,"baptismDate":0.5},"metadata":{"language":"en","extractionDate":"2024-03-01T12:00:00Z","needsReview":true}}`},
		{"not json", `{{{{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateResultJSON([]byte(tt.in)))
		})
	}
}

func TestBuildResultJSONSchemaCoversEveryField(t *testing.T) {
	schema := BuildResultJSONSchema()
	fields := schema["properties"].(map[string]any)["fields"].(map[string]any)["properties"].(map[string]any)
	for _, name := range allFieldNames {
		assert.Contains(t, fields, name)
	}
}
