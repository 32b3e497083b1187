package oautherrors

import "strings"

// LoginRequiredError signals that the end user must (re-)authenticate. Amr
// carries the first acceptable authentication method so the caller can steer
// the login screen; SessionExpired distinguishes "authenticated but the
// session lapsed" from "never authenticated".
type LoginRequiredError struct {
	Amr            string
	SessionExpired bool
}

func (e *LoginRequiredError) Error() string { return string(CodeLoginRequired) }

// ConsentRequiredError signals that the end user must be sent to the consent
// screen before the request can proceed.
type ConsentRequiredError struct{}

func (e *ConsentRequiredError) Error() string { return string(CodeConsentRequired) }

// SelectAccountRequiredError signals that the end user must pick an account.
type SelectAccountRequiredError struct{}

func (e *SelectAccountRequiredError) Error() string { return string(CodeAccountSelectionRequired) }

// AmrMissingError reports that the authenticated session does not satisfy
// every authentication method required by the resolved ACR.
type AmrMissingError struct {
	Acr          string
	MissingAmr   string
	RequiredAmrs []string
}

func (e *AmrMissingError) Error() string {
	return "acr " + e.Acr + " requires amr " + e.MissingAmr +
		" (required: " + strings.Join(e.RequiredAmrs, ",") + ")"
}

// BadRedirectURIError reports a redirect_uri that matches none of the client's
// configured patterns. It is deliberately distinct from invalid_request: the
// caller must not redirect the user agent to the offending URI.
type BadRedirectURIError struct {
	URI string
}

func (e *BadRedirectURIError) Error() string { return "invalid redirect uri " + e.URI }
