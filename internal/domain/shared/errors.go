// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// Data quality errors. These mark records the engine excludes but does
	// not fail on: registrar exports always contain some orphan codes.
	ErrUnknownCourseCode = errors.New("course code not in weight index")
	ErrUnparseableGrade  = errors.New("grade token cannot be parsed")
	ErrMissingTestScore  = errors.New("test score not on file")

	// Structural errors indicate the upstream loader contract was violated.
	// These propagate to the caller instead of being absorbed as warnings.
	ErrMalformedRecord = errors.New("malformed record shape")

	// Degenerate inputs
	ErrEmptyCohort = errors.New("cohort has no members")

	// Infrastructure errors
	ErrStorageFailure = errors.New("storage operation failed")
	ErrCacheMiss      = errors.New("cache miss")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "gpa", "rank", "awards", "layout"
	Op      string // Operation that failed, e.g., "Compute", "RankCohort"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// GPA domain errors
var (
	ErrInvalidStudentID   = NewDomainError("gpa", "Validate", ErrInvalidID, "invalid student ID")
	ErrRecordShape        = NewDomainError("gpa", "Compute", ErrMalformedRecord, "record set is structurally invalid")
	ErrIndexEmpty         = NewDomainError("gpa", "Compute", ErrInvalidInput, "course definition index is empty")
	ErrStandingNotFound   = NewDomainError("standing", "Find", ErrNotFound, "computed standing not found")
	ErrGradesNotFound     = NewDomainError("grades", "Find", ErrNotFound, "no grade records for student")
	ErrDefinitionNotFound = NewDomainError("course", "Lookup", ErrUnknownCourseCode, "course definition not found")
)

// Rank domain errors
var (
	ErrCohortEmpty     = NewDomainError("rank", "RankCohort", ErrEmptyCohort, "no rankable students in cohort")
	ErrInvalidGradYear = NewDomainError("rank", "Validate", ErrValueOutOfRange, "invalid graduation year")
)

// Awards domain errors
var (
	ErrInvalidTestScore = NewDomainError("awards", "TestRecognition", ErrInvalidInput, "test score is not numeric or out of range")
	ErrNoAwardRules     = NewDomainError("awards", "CalculateAll", ErrInvalidInput, "no award rules configured")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsDataGap checks if the error is a non-fatal data quality gap: logged,
// computation continues with the item excluded.
func IsDataGap(err error) bool {
	return errors.Is(err, ErrUnknownCourseCode) ||
		errors.Is(err, ErrUnparseableGrade) ||
		errors.Is(err, ErrMissingTestScore)
}

// IsStructural checks if the error indicates a violated loader contract.
// Structural errors must abort the computation for the affected student.
func IsStructural(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}
