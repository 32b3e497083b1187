package models

import "fmt"

// RequestContext is the single-owner aggregate for one inbound request. It is
// created by the transport layer, mutated in place by each validation and
// token-building step, and discarded once the response is emitted. It must
// never be shared across goroutines.
type RequestContext struct {
	Realm  string
	Issuer string
	Params Parameters

	Client  *Client
	User    *User
	Session *Session

	// FromConsentScreen marks requests resumed from the consent screen,
	// which is the only origin allowed to carry a grant id with action
	// create.
	FromConsentScreen bool

	response map[string]string
}

// NewRequestContext builds a request context for the given realm and issuer.
func NewRequestContext(realm, issuer string, params Parameters) *RequestContext {
	if params == nil {
		params = Parameters{}
	}
	return &RequestContext{
		Realm:    realm,
		Issuer:   issuer,
		Params:   params,
		response: map[string]string{},
	}
}

func (rc *RequestContext) SetClient(c *Client)   { rc.Client = c }
func (rc *RequestContext) SetUser(u *User)       { rc.User = u }
func (rc *RequestContext) SetSession(s *Session) { rc.Session = s }

// Amrs returns the authentication method references asserted by the current
// session, or nil when no session is bound.
func (rc *RequestContext) Amrs() []string {
	if rc.Session == nil {
		return nil
	}
	return rc.Session.Amrs
}

// SetResponseParameter records one named response parameter. Token builders
// own disjoint key sets; a second write to an existing key is a programming
// error and is rejected.
func (rc *RequestContext) SetResponseParameter(key, value string) error {
	if rc.response == nil {
		rc.response = map[string]string{}
	}
	if _, exists := rc.response[key]; exists {
		return fmt.Errorf("response parameter %q already written", key)
	}
	rc.response[key] = value
	return nil
}

// ResponseParameters returns a copy of the accumulated response parameters.
func (rc *RequestContext) ResponseParameters() map[string]string {
	out := make(map[string]string, len(rc.response))
	for k, v := range rc.response {
		out[k] = v
	}
	return out
}

// ResetResponse discards any accumulated response parameters. Used when a
// pipeline stage fails so partial output never reaches the caller.
func (rc *RequestContext) ResetResponse() {
	rc.response = map[string]string{}
}
