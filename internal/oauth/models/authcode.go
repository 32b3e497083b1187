package models

import "time"

// AuthorizationCode binds a one-time code to the grant it authorizes.
type AuthorizationCode struct {
	Code        string
	Realm       string
	ClientID    string
	UserID      string
	RedirectURI string
	Nonce       string
	Grant       *GrantRequest
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// IsExpired reports whether the code is past its lifetime.
func (c *AuthorizationCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
