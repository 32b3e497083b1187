package models

import "time"

// UserClaim is one claim value carried on a user record.
type UserClaim struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// User is the read-only view of an end user bound to a request.
type User struct {
	ID      string      `json:"id"`
	Subject string      `json:"subject"`
	Realm   string      `json:"realm"`
	Claims  []UserClaim `json:"claims"`
}

// ClaimValue returns the user's value for the named claim and whether the
// claim exists.
func (u *User) ClaimValue(name string) (string, bool) {
	for _, c := range u.Claims {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// SatisfiesClaim reports whether the user carries the named claim and, when
// allowed values are listed, whether the user's value is among them.
func (u *User) SatisfiesClaim(name string, allowed []string) bool {
	value, ok := u.ClaimValue(name)
	if !ok {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	for _, v := range allowed {
		if v == value {
			return true
		}
	}
	return false
}

// Session is the read-only view of an authenticated browser session. Its
// lifetime is managed by the authentication subsystem.
type Session struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Realm           string    `json:"realm"`
	AuthenticatedAt time.Time `json:"authenticated_at"`
	Amrs            []string  `json:"amrs"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// SatisfiesAmr reports whether the session satisfied the named
// authentication method.
func (s *Session) SatisfiesAmr(amr string) bool {
	for _, a := range s.Amrs {
		if a == amr {
			return true
		}
	}
	return false
}
