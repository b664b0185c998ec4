package lab

import (
	"errors"
	"fmt"
)

var (
	ErrStorageConnection   = errors.New("storage connection failed")
	ErrSchemaDefinition    = errors.New("schema definition invalid")
	ErrSchemaConflict      = errors.New("schema conflicts with existing store")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrNotFound            = errors.New("record not found")

	ErrInvalidCalibrationType = errors.New("invalid calibration type")
	ErrInvalidIntegrationType = errors.New("invalid integration type")
	ErrInvalidRegressionType  = errors.New("invalid regression type")
	ErrInvalidControlType     = errors.New("invalid control type")
	ErrDateOutOfRange         = errors.New("date year outside 0000-9999")
)

// ConstraintKind names which declared constraint a write broke.
type ConstraintKind string

const (
	ConstraintNotNull    ConstraintKind = "not_null"
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintEnum       ConstraintKind = "enum"
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintRestrict   ConstraintKind = "restrict"
	ConstraintCheck      ConstraintKind = "check"
)

// ConstraintError is returned for writes rejected by a declared constraint.
// errors.Is(err, ErrConstraintViolation) holds for every ConstraintError.
type ConstraintError struct {
	Entity string
	Field  string
	Kind   ConstraintKind
	Detail string
	Cause  error
}

func (e *ConstraintError) Error() string {
	msg := fmt.Sprintf("%s: %s constraint on %s", ErrConstraintViolation, e.Kind, e.Entity)
	if e.Field != "" {
		msg += "." + e.Field
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraintViolation
}

func (e *ConstraintError) Unwrap() error { return e.Cause }

func violation(entity, field string, kind ConstraintKind, detail string, cause error) *ConstraintError {
	return &ConstraintError{Entity: entity, Field: field, Kind: kind, Detail: detail, Cause: cause}
}

// Violation builds a ConstraintError for adapters that detect it outside this package.
func Violation(entity, field string, kind ConstraintKind, detail string, cause error) error {
	return violation(entity, field, kind, detail, cause)
}
