package models

import (
	"net/url"
	"strconv"
	"strings"

	pstrings "aegis/pkg/platform/strings"
)

// Authorization request parameter names.
const (
	ParamClientID              = "client_id"
	ParamResponseType          = "response_type"
	ParamResponseMode          = "response_mode"
	ParamRedirectURI           = "redirect_uri"
	ParamScope                 = "scope"
	ParamResource              = "resource"
	ParamAuthorizationDetails  = "authorization_details"
	ParamNonce                 = "nonce"
	ParamState                 = "state"
	ParamPrompt                = "prompt"
	ParamMaxAge                = "max_age"
	ParamIDTokenHint           = "id_token_hint"
	ParamAcrValues             = "acr_values"
	ParamClaims                = "claims"
	ParamRequest               = "request"
	ParamGrantID               = "grant_id"
	ParamGrantManagementAction = "grant_management_action"
	ParamGrantType             = "grant_type"
	ParamAuthReqID             = "auth_req_id"
)

// Prompt parameter values.
const (
	PromptNone          = "none"
	PromptLogin         = "login"
	PromptConsent       = "consent"
	PromptSelectAccount = "select_account"
)

// Parameters holds the raw request parameters. The request-object extraction
// helper may overwrite entries in place before validation runs.
type Parameters map[string][]string

// ParametersFromQuery copies query values into Parameters.
func ParametersFromQuery(q url.Values) Parameters {
	p := make(Parameters, len(q))
	for k, v := range q {
		p[k] = append([]string(nil), v...)
	}
	return p
}

// Get returns the first value for key, or "".
func (p Parameters) Get(key string) string {
	if vs, ok := p[key]; ok && len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

// Set replaces all values for key.
func (p Parameters) Set(key, value string) {
	p[key] = []string{value}
}

// All returns every value for key (used for repeatable parameters such as
// resource).
func (p Parameters) All(key string) []string {
	return pstrings.DedupeAndTrim(p[key])
}

func (p Parameters) ClientID() string    { return p.Get(ParamClientID) }
func (p Parameters) RedirectURI() string { return p.Get(ParamRedirectURI) }
func (p Parameters) Nonce() string       { return p.Get(ParamNonce) }
func (p Parameters) State() string       { return p.Get(ParamState) }
func (p Parameters) Prompt() string      { return p.Get(ParamPrompt) }
func (p Parameters) IDTokenHint() string { return p.Get(ParamIDTokenHint) }
func (p Parameters) ResponseMode() string {
	return p.Get(ParamResponseMode)
}
func (p Parameters) GrantID() string { return p.Get(ParamGrantID) }
func (p Parameters) GrantManagementAction() string {
	return p.Get(ParamGrantManagementAction)
}
func (p Parameters) GrantType() string { return p.Get(ParamGrantType) }
func (p Parameters) AuthReqID() string { return p.Get(ParamAuthReqID) }

// ResponseTypes returns the space-separated response types in request order.
func (p Parameters) ResponseTypes() []string {
	return pstrings.DedupeAndTrim(strings.Fields(p.Get(ParamResponseType)))
}

// Scopes returns the space-separated scopes in request order.
func (p Parameters) Scopes() []string {
	return pstrings.DedupeAndTrim(strings.Fields(p.Get(ParamScope)))
}

// AcrValues returns the space-separated acr_values in preference order.
func (p Parameters) AcrValues() []string {
	return pstrings.DedupeAndTrim(strings.Fields(p.Get(ParamAcrValues)))
}

// Resources returns every resource indicator on the request.
func (p Parameters) Resources() []string {
	return p.All(ParamResource)
}

// MaxAge returns the requested max_age in seconds, or nil when absent or not
// a non-negative integer.
func (p Parameters) MaxAge() *int {
	raw := p.Get(ParamMaxAge)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// Claims parses the OIDC claims parameter. A missing parameter yields nil.
func (p Parameters) Claims() ([]AuthorizedClaim, error) {
	return ParseClaims(p.Get(ParamClaims))
}

// AuthorizationDetails parses the RFC 9396 authorization_details parameter.
// A missing parameter yields nil.
func (p Parameters) AuthorizationDetails() ([]AuthorizationDetail, error) {
	return ParseAuthorizationDetails(p.Get(ParamAuthorizationDetails))
}
