package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a business error so transports can map it to a status.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "NotFound"
	KindBadRequest   ErrorKind = "BadRequest"
	KindForbidden    ErrorKind = "Forbidden"
	KindUnauthorized ErrorKind = "Unauthorized"
	KindTooMany      ErrorKind = "TooManyRequests"
)

// Machine-checkable error codes.
const (
	CodeInvalidID               = "InvalidID"
	CodeInvalidPackageType      = "InvalidPackageType"
	CodeContactCountryMismatch  = "ContactCountryMismatch"
	CodePackageExpired          = "PackageExpired"
	CodeNoPackage               = "NoPackage"
	CodeNoOffersRemaining       = "NoOffersRemaining"
	CodeOnlyConceptsDeletable   = "OnlyConceptsDeletable"
	CodeInvalidToken            = "InvalidToken"
	CodeEmailTaken              = "EmailTaken"
	CodePackageNameTaken        = "PackageNameTaken"
	CodePackageInUse            = "PackageInUse"
	CodeAlreadyArchived         = "AlreadyArchived"
	CodeNotArchived             = "NotArchived"
	CodeInvalidDateRange        = "InvalidDateRange"
	CodeImageRequired           = "ImageRequired"
	CodeInvalidStatusTransition = "InvalidStatusTransition"
	CodeEmailNotSent            = "EmailNotSent"
	CodeMissingRoleField        = "MissingRoleField"
	CodeInvalidRole             = "InvalidRole"
	CodeInvalidCredentials      = "InvalidCredentials"
	CodeTooManyAttempts         = "TooManyAttempts"
	CodeProfileExists           = "ProfileExists"
)

// Error is the business error returned by services.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" && t.Code != e.Code {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrBadRequest   = &Error{Kind: KindBadRequest}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
)

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func BadRequest(code, message string) *Error {
	return &Error{Kind: KindBadRequest, Code: code, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Unauthorized(code, message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: message}
}

func TooManyRequests(message string) *Error {
	return &Error{Kind: KindTooMany, Code: CodeTooManyAttempts, Message: message}
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// ErrInvalidOrExpiredToken is shared by every one-time token check.
func ErrInvalidOrExpiredToken() *Error {
	return BadRequest(CodeInvalidToken, "Invalid or expired token")
}
