package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orthodoxmetrics/record-extractor/constants"
)

func TestClassifyLayoutPipeTable(t *testing.T) {
	lines := []string{
		"No. | Name of Child | Date of Baptism | Parents | Godparents",
		"1.  | Maria Kostas  | 05/15/1949      | George and Anna Kostas | N. Pappas",
		"2.  | John Economou | 06/02/1949      | Peter and Eleni Economou | D. Alexiou",
	}
	layout := classifyLayout(lines, constants.RecordTypeBaptism)
	require.True(t, layout.Tabular)
	assert.True(t, layout.Pipe)
	assert.Equal(t, 0, layout.HeaderLine)
	require.Len(t, layout.Columns, 5)
	assert.Equal(t, ColEntryNumber, layout.Columns[0].Type)
	assert.Equal(t, ColPersonName, layout.Columns[1].Type)
	assert.Equal(t, ColDate, layout.Columns[2].Type)
	assert.Equal(t, ColParentNames, layout.Columns[3].Type)
	assert.Equal(t, ColGodparentNames, layout.Columns[4].Type)
}

func TestClassifyLayoutFixedWidthTable(t *testing.T) {
	// no delimiters at all: the ledger survives OCR as space-aligned columns
	lines := []string{
		"No.   Name of Child       Date of Birth     Date of Baptism   Parents",
		"3.    Doe, John           04/12/1948        05/15/1948        George and Anna Doe",
		"4.    Smith, Peter        06/01/1949        07/10/1949        Nick and Eleni Smith",
	}
	layout := classifyLayout(lines, constants.RecordTypeBaptism)
	require.True(t, layout.Tabular)
	assert.False(t, layout.Pipe)
	assert.Equal(t, 0, layout.HeaderLine)
	require.Len(t, layout.Columns, 5)
	assert.Equal(t, ColEntryNumber, layout.Columns[0].Type)
	assert.Equal(t, ColPersonName, layout.Columns[1].Type)
	assert.Equal(t, ColDate, layout.Columns[2].Type)
	assert.Equal(t, ColDate, layout.Columns[3].Type)
	assert.Equal(t, ColParentNames, layout.Columns[4].Type)

	rows := reconstructRows(lines, layout)
	require.Len(t, rows, 2)
	assert.Equal(t, "Doe, John", rows[0][1])
	assert.Equal(t, "04/12/1948", rows[0][2])
	assert.Equal(t, "George and Anna Doe", rows[0][4])
	assert.Equal(t, "Smith, Peter", rows[1][1])
	assert.Equal(t, "Nick and Eleni Smith", rows[1][4])
}

func TestClassifyLayoutNarrativeProse(t *testing.T) {
	lines := []string{
		"This is to certify that John Peter Doe",
		"was baptized on August 15, 1950 at Holy Trinity.",
	}
	layout := classifyLayout(lines, constants.RecordTypeBaptism)
	assert.False(t, layout.Tabular)
}

func TestClassifyLayoutSingleLineNeverTabular(t *testing.T) {
	layout := classifyLayout([]string{"No. | Name | Date"}, constants.RecordTypeBaptism)
	assert.False(t, layout.Tabular)
}

func TestClassifyLayoutPipeNoiseWithoutHeader(t *testing.T) {
	// delimiter noise without a recognizable header row stays narrative
	lines := []string{
		"xx | yy | zz",
		"aa | bb | cc",
	}
	layout := classifyLayout(lines, constants.RecordTypeBaptism)
	assert.False(t, layout.Tabular)
}

func TestMatchColumnType(t *testing.T) {
	tests := []struct {
		header string
		rt     constants.RecordType
		want   ColumnType
	}{
		{"#", constants.RecordTypeBaptism, ColEntryNumber},
		{"No.", constants.RecordTypeBaptism, ColEntryNumber},
		{"Name of Child", constants.RecordTypeBaptism, ColPersonName},
		{"Date of Birth", constants.RecordTypeBaptism, ColDate},
		{"Parents", constants.RecordTypeBaptism, ColParentNames},
		{"Godparents", constants.RecordTypeBaptism, ColGodparentNames},
		// marriage license is a license column even though "marriage" is date vocabulary
		{"Marriage License", constants.RecordTypeMarriage, ColLicense},
		{"Groom's Age", constants.RecordTypeMarriage, ColAge},
		{"Officiating Priest", constants.RecordTypeMarriage, ColClergy},
		{"Residence", constants.RecordTypeMarriage, ColResidence},
		{"Ηλικία", constants.RecordTypeFuneral, ColAge},
		{"Имя", constants.RecordTypeBaptism, ColPersonName},
		{"Remarks", constants.RecordTypeBaptism, ColFreeText},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchColumnType(tt.header, tt.rt), "header %q", tt.header)
	}
}

func TestMatchColumnTypeRemapsByRecordType(t *testing.T) {
	// baptism ledgers write "Witnesses" for godparents
	assert.Equal(t, ColGodparentNames, matchColumnType("Witnesses", constants.RecordTypeBaptism))
	assert.Equal(t, ColWitnessNames, matchColumnType("Witnesses", constants.RecordTypeMarriage))
	// marriage ledgers write "Sponsors" for witnesses
	assert.Equal(t, ColWitnessNames, matchColumnType("Sponsors", constants.RecordTypeMarriage))
	assert.Equal(t, ColGodparentNames, matchColumnType("Sponsors", constants.RecordTypeBaptism))
}

func TestReconstructRowsMergesContinuations(t *testing.T) {
	lines := []string{
		"No. | Name of Child | Date of Baptism | Parents",
		"1.  | Maria Kostas  | 05/15/1949      | George and",
		"    |               |                 | Anna Kostas",
		"2.  | John Economou | 06/02/1949      | Peter Economou",
	}
	layout := classifyLayout(lines, constants.RecordTypeBaptism)
	require.True(t, layout.Tabular)

	rows := reconstructRows(lines, layout)
	require.Len(t, rows, 2)
	assert.Equal(t, "Maria Kostas", rows[0][1])
	assert.Equal(t, "George and Anna Kostas", rows[0][3])
	assert.Equal(t, "John Economou", rows[1][1])
}

func TestReconstructRowsDropsRowsWithoutName(t *testing.T) {
	lines := []string{
		"No. | Name of Child | Date of Baptism",
		"1.  |               | 05/15/1949",
	}
	layout := classifyLayout(lines, constants.RecordTypeBaptism)
	require.True(t, layout.Tabular)

	rows := reconstructRows(lines, layout)
	assert.Empty(t, rows)
}

func TestLeadingNumber(t *testing.T) {
	assert.Equal(t, "14", leadingNumber("14"))
	assert.Equal(t, "14", leadingNumber("14."))
	assert.Equal(t, "", leadingNumber("14a"))
	assert.Equal(t, "", leadingNumber("Maria"))
	assert.Equal(t, "", leadingNumber(""))
}
