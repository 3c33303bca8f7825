package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orthodoxmetrics/record-extractor/constants"
)

func TestDetectRecordType(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want constants.RecordType
		ok   bool
	}{
		{"baptism certificate", "Certificate of Baptism. Godparents: N. Pappas", constants.RecordTypeBaptism, true},
		{"marriage narrative", "were united in holy matrimony; the groom and the bride", constants.RecordTypeMarriage, true},
		{"funeral narrative", "funeral service for the deceased, who fell asleep in the Lord", constants.RecordTypeFuneral, true},
		{"greek baptism", "Βάπτιση· ανάδοχος Νικόλαος", constants.RecordTypeBaptism, true},
		{"russian marriage", "Венчание: жених Иван, невеста Мария", constants.RecordTypeMarriage, true},
		{"nothing recognizable", "quarterly parish finance report", constants.RecordTypeUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := detectRecordType(tt.in)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRecordType(t *testing.T) {
	// a clear detection overrides a conflicting hint
	got := resolveRecordType(constants.RecordTypeMarriage, "Certificate of Baptism. Godparents: Anna")
	assert.Equal(t, constants.RecordTypeBaptism, got)

	// ambiguous text keeps the hint
	got = resolveRecordType(constants.RecordTypeFuneral, "illegible page, entry 14")
	assert.Equal(t, constants.RecordTypeFuneral, got)

	// no hint, no detection
	got = resolveRecordType(constants.RecordTypeUnknown, "illegible page, entry 14")
	assert.Equal(t, constants.RecordTypeUnknown, got)
}
