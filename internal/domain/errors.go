package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error for transport-level mapping.
type Kind int

const (
	KindValidation Kind = iota
	KindForbidden
	KindNotFound
	KindConflict
)

// Stable machine-readable codes. The code doubles as the localizable
// message key for downstream consumers.
const (
	CodeInvalidInput  = "invalidInput"
	CodeInvalidPeriod = "invalidPeriod"
	CodePastPeriod    = "pastPeriod"
	CodePeriodFull    = "periodFull"
	CodeBookingExists = "bookingExists"
	CodeForbidden     = "forbidden"
	CodeNotFound      = "notFound"
	CodeConflict      = "conflict"
)

// DomainError is a business-rule failure with a stable code and a
// human-readable message. Validation errors are never retried.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError creates a validation failure with the given code.
func NewValidationError(code, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: message}
}

// NewForbiddenError creates an authorization failure.
func NewForbiddenError(message string) *DomainError {
	return &DomainError{Kind: KindForbidden, Code: CodeForbidden, Message: message}
}

// NewNotFoundError creates a missing-entity failure.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{
		Kind:    KindNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s not found", entity, id),
	}
}

// NewConflictError signals a concurrent-modification conflict.
func NewConflictError(message string) *DomainError {
	return &DomainError{Kind: KindConflict, Code: CodeConflict, Message: message}
}

// AsDomainError unwraps err into a *DomainError, or nil.
func AsDomainError(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return nil
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	de := AsDomainError(err)
	return de != nil && de.Kind == KindValidation
}

// IsForbidden reports whether err is an authorization failure.
func IsForbidden(err error) bool {
	de := AsDomainError(err)
	return de != nil && de.Kind == KindForbidden
}

// IsNotFound reports whether err is a missing-entity failure.
func IsNotFound(err error) bool {
	de := AsDomainError(err)
	return de != nil && de.Kind == KindNotFound
}

// IsConflict reports whether err is a concurrency conflict.
func IsConflict(err error) bool {
	de := AsDomainError(err)
	return de != nil && de.Kind == KindConflict
}
