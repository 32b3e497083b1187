package models

import "time"

// ConsentGrant is one recorded consent decision for a (user, realm, client)
// triple. The engine never stores these directly; it only checks coverage.
type ConsentGrant struct {
	ID                       string     `json:"id"`
	UserID                   string     `json:"user_id"`
	Realm                    string     `json:"realm"`
	ClientID                 string     `json:"client_id"`
	Scopes                   []string   `json:"scopes"`
	ClaimNames               []string   `json:"claim_names"`
	AuthorizationDetailTypes []string   `json:"authorization_detail_types"`
	GrantedAt                time.Time  `json:"granted_at"`
	RevokedAt                *time.Time `json:"revoked_at,omitempty"`
}

// IsActive reports whether the grant is still in force.
func (g *ConsentGrant) IsActive() bool {
	return g.RevokedAt == nil
}
