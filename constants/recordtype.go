package constants

import "strings"

// RecordType identifies the kind of parish record being extracted.
type RecordType string

// Stable values (store these exact strings in DB).
const (
	RecordTypeBaptism  RecordType = "baptism"
	RecordTypeMarriage RecordType = "marriage"
	RecordTypeFuneral  RecordType = "funeral"
	RecordTypeUnknown  RecordType = "unknown"
)

// RecordTypes holds the record types a hint is allowed to carry.
var RecordTypes = []RecordType{RecordTypeBaptism, RecordTypeMarriage, RecordTypeFuneral}

// ParseRecordType maps a free-form hint to a known record type.
// Unrecognized hints come back as RecordTypeUnknown.
func ParseRecordType(s string) RecordType {
	switch RecordType(strings.ToLower(strings.TrimSpace(s))) {
	case RecordTypeBaptism:
		return RecordTypeBaptism
	case RecordTypeMarriage:
		return RecordTypeMarriage
	case RecordTypeFuneral:
		return RecordTypeFuneral
	case "death": // ledgers sometimes label funeral pages as death records
		return RecordTypeFuneral
	}
	return RecordTypeUnknown
}
