package models

import (
	"time"

	oerrors "aegis/pkg/oautherrors"
)

// TokenProfile names the post-processing strategy applied to built tokens.
type TokenProfile string

const (
	TokenProfileBearer TokenProfile = "bearer"
	TokenProfileMac    TokenProfile = "mac"
)

// Client is the immutable per-request view of an OAuth 2.0 client
// registration within a realm.
//
// Invariants:
//   - ClientID is non-empty
//   - Realm is non-empty
//   - ResponseTypes and GrantedScopes are non-empty
//   - RedirectURIPatterns hold regular expressions; matching is unanchored
//     (regexp.Match semantics), so patterns must be anchored by configuration
//     when exact matching is intended
//   - DefaultMaxAge, when set, is a positive number of seconds
type Client struct {
	ClientID                  string       `json:"client_id"`
	Realm                     string       `json:"realm"`
	SecretHash                string       `json:"-"` // bcrypt hash, never serialized
	ResponseTypes             []string     `json:"response_types"`
	RedirectURIPatterns       []string     `json:"redirect_uris"`
	RedirectURICaseSensitive  bool         `json:"redirect_uri_case_sensitive"`
	GrantedScopes             []string     `json:"scopes"`
	AuthorizationDataTypes    []string     `json:"authorization_data_types"`
	DefaultMaxAge             *int         `json:"default_max_age,omitempty"`
	DefaultAcrValues          []string     `json:"default_acr_values,omitempty"`
	ConsentDisabled           bool         `json:"consent_disabled"`
	RefreshTokenAllowed       bool         `json:"refresh_token_allowed"`
	PreferredTokenProfile     TokenProfile `json:"preferred_token_profile"`
	ResourceParameterRequired bool         `json:"resource_parameter_required"`
	CreatedAt                 time.Time    `json:"created_at"`
	UpdatedAt                 time.Time    `json:"updated_at"`
}

func NewClient(
	clientID string,
	realm string,
	secretHash string,
	responseTypes []string,
	redirectURIPatterns []string,
	grantedScopes []string,
	now time.Time,
) (*Client, error) {
	if clientID == "" {
		return nil, oerrors.New(oerrors.CodeInvalidClient, "client_id cannot be empty")
	}
	if realm == "" {
		return nil, oerrors.New(oerrors.CodeInvalidClient, "realm cannot be empty")
	}
	if len(responseTypes) == 0 {
		return nil, oerrors.New(oerrors.CodeInvalidClient, "response_types cannot be empty")
	}
	if len(grantedScopes) == 0 {
		return nil, oerrors.New(oerrors.CodeInvalidClient, "scopes cannot be empty")
	}
	return &Client{
		ClientID:              clientID,
		Realm:                 realm,
		SecretHash:            secretHash,
		ResponseTypes:         responseTypes,
		RedirectURIPatterns:   redirectURIPatterns,
		GrantedScopes:         grantedScopes,
		PreferredTokenProfile: TokenProfileBearer,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

// HasScope reports whether the client is granted the named scope.
func (c *Client) HasScope(name string) bool {
	for _, s := range c.GrantedScopes {
		if s == name {
			return true
		}
	}
	return false
}

// AllowsResponseType reports whether the client may use the response type.
func (c *Client) AllowsResponseType(responseType string) bool {
	for _, rt := range c.ResponseTypes {
		if rt == responseType {
			return true
		}
	}
	return false
}

// AllowsAuthorizationDataType reports whether the client may request details
// of the given authorization_details type.
func (c *Client) AllowsAuthorizationDataType(detailType string) bool {
	for _, t := range c.AuthorizationDataTypes {
		if t == detailType {
			return true
		}
	}
	return false
}
