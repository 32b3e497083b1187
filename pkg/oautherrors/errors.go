// Package oautherrors defines the coded protocol errors surfaced by the
// authorization engine, plus the typed control-flow signals (login required,
// consent required, account selection) that callers branch on with errors.As.
//
// Protocol errors are facts about the request and are surfaced to the caller
// verbatim. Signals are not failures: they instruct the transport layer to
// redirect the end user into a different flow.
package oautherrors

import (
	"errors"
	"fmt"
)

// Code is a stable OAuth2/OIDC error code string.
type Code string

const (
	CodeInvalidRequest              Code = "invalid_request"
	CodeUnsupportedResponseType     Code = "unsupported_response_type"
	CodeInvalidClient               Code = "invalid_client"
	CodeInvalidGrant                Code = "invalid_grant"
	CodeInvalidTarget               Code = "invalid_target"
	CodeInvalidAuthorizationDetails Code = "invalid_authorization_details"
	CodeUnauthorizedClient          Code = "unauthorized_client"
	CodeAccessDenied                Code = "access_denied"
	CodeLoginRequired               Code = "login_required"
	CodeConsentRequired             Code = "consent_required"
	CodeAccountSelectionRequired    Code = "account_selection_required"
	CodeAuthorizationPending        Code = "authorization_pending"
	CodeSlowDown                    Code = "slow_down"
	CodeExpiredToken                Code = "expired_token"
	CodeServerError                 Code = "server_error"
)

// Error is a coded OAuth protocol error.
type Error struct {
	Code        Code
	Description string
	err         error
}

func (e *Error) Error() string {
	if e.Description == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Description
}

func (e *Error) Unwrap() error { return e.err }

// New builds a protocol error with the given code and description.
func New(code Code, description string) *Error {
	return &Error{Code: code, Description: description}
}

// Newf builds a protocol error with a formatted description.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Description: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and description to an underlying error.
func Wrap(err error, code Code, description string) *Error {
	return &Error{Code: code, Description: description, err: err}
}

// HasCode reports whether err carries the given protocol code.
func HasCode(err error, code Code) bool {
	var oErr *Error
	if errors.As(err, &oErr) {
		return oErr.Code == code
	}
	return false
}

// CodeOf extracts the protocol code from err, or server_error when err is not
// a protocol error.
func CodeOf(err error) Code {
	var oErr *Error
	if errors.As(err, &oErr) {
		return oErr.Code
	}
	return CodeServerError
}

// AuthenticationError marks a client authentication failure. The transport
// layer maps it to 401 regardless of the wrapped protocol code.
type AuthenticationError struct {
	Err *Error
}

func (e *AuthenticationError) Error() string { return e.Err.Error() }

func (e *AuthenticationError) Unwrap() error { return e.Err }

// NewAuthentication wraps a protocol error as a client authentication failure.
func NewAuthentication(code Code, description string) *AuthenticationError {
	return &AuthenticationError{Err: New(code, description)}
}
