package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflicts with an existing record")
	ErrDuplicateMapping   = errors.New("mapping already exists")
	ErrValidation         = errors.New("validation failed")
	ErrTransport          = errors.New("transport failure")
	ErrPartialBatch       = errors.New("some changes could not be saved")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError lists the fields that made an upsert unacceptable.
type ValidationError struct {
	Fields []string
}

func NewValidation(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Add records a field and returns the receiver so checks can be chained.
func (e *ValidationError) Add(field string) *ValidationError {
	e.Fields = append(e.Fields, field)
	return e
}

// OrNil returns nil when no field was recorded.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// DuplicateError carries the active record that already holds the pair.
type DuplicateError struct {
	Existing any
}

func (e *DuplicateError) Error() string {
	return ErrDuplicateMapping.Error()
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicateMapping
}

// ItemError is one failed write of a batch.
type ItemError struct {
	SubskillID int64  `json:"subskillId"`
	GradeID    int64  `json:"gradeId"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

// BatchError reports the items of a multi-item save that did not apply.
type BatchError struct {
	Failed    []ItemError
	Succeeded int
}

func (e *BatchError) Error() string {
	if e == nil {
		return ErrPartialBatch.Error()
	}
	return fmt.Sprintf("%s: %d failed, %d saved", ErrPartialBatch.Error(), len(e.Failed), e.Succeeded)
}

func (e *BatchError) Is(target error) bool {
	return target == ErrPartialBatch
}

// IsItemFailure reports whether err is scoped to a single item (bad input or
// unknown reference) rather than the store or the network.
func IsItemFailure(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound)
}
