// Package apperr is the error taxonomy shared by the domain packages. Every
// error a caller can act on carries a Code, and each Code maps to a stable
// HTTP status and public message.
package apperr

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation           Code = "VALIDATION_ERROR"
	CodeInvalidPlan          Code = "INVALID_PLAN"
	CodeUnauthorized         Code = "UNAUTHORIZED"
	CodeForbidden            Code = "FORBIDDEN"
	CodeNotFound             Code = "NOT_FOUND"
	CodeNoActiveSubscription Code = "NO_ACTIVE_SUBSCRIPTION"
	CodeSlotConflict         Code = "SLOT_CONFLICT"
	CodeMemberAlreadyBooked  Code = "MEMBER_ALREADY_BOOKED"
	CodeConflict             Code = "CONFLICT"
	CodeInternal             Code = "INTERNAL_ERROR"
)

type Metadata struct {
	HTTPStatus    int
	PublicMessage string
	// DetailsAllowed reports whether the error's own message may be shown to clients.
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:           {http.StatusBadRequest, "validation failed", true},
	CodeInvalidPlan:          {http.StatusBadRequest, "invalid subscription plan", true},
	CodeUnauthorized:         {http.StatusUnauthorized, "authentication required", false},
	CodeForbidden:            {http.StatusForbidden, "access denied", false},
	CodeNotFound:             {http.StatusNotFound, "resource not found", true},
	CodeNoActiveSubscription: {http.StatusConflict, "no active subscription", true},
	CodeSlotConflict:         {http.StatusConflict, "slot already booked", true},
	CodeMemberAlreadyBooked:  {http.StatusConflict, "member already has an active booking", true},
	CodeConflict:             {http.StatusConflict, "conflict detected", true},
	CodeInternal:             {http.StatusInternalServerError, "internal server error", false},
}

func MetadataFor(code Code) Metadata {
	if md, ok := metadataByCode[code]; ok {
		return md
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{code: code, message: message, cause: cause}
}

func Validation(message string) *Error {
	return New(CodeValidation, message)
}

func Internal(message string, cause error) *Error {
	return Wrap(CodeInternal, message, cause)
}

func (e *Error) Code() Code {
	if e == nil {
		return ""
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the code of the first typed error in err's chain, CodeInternal otherwise.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.code
	}
	return CodeInternal
}

// Public returns the HTTP status and client-facing message for err.
func Public(err error) (int, Code, string) {
	code := CodeOf(err)
	md := MetadataFor(code)
	if typed := As(err); typed != nil && md.DetailsAllowed && typed.message != "" {
		return md.HTTPStatus, code, typed.message
	}
	return md.HTTPStatus, code, md.PublicMessage
}
