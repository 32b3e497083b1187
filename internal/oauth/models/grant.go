package models

// ScopeOpenID is the fixed OIDC scope exempt from the client scope-grant
// check and the trigger for id_token issuance.
const ScopeOpenID = "openid"

// Grant management actions per the OAuth 2.0 Grant Management draft.
const (
	GrantManagementCreate  = "create"
	GrantManagementMerge   = "merge"
	GrantManagementReplace = "replace"
)

// StandardGrantManagementActions lists every action a request may carry.
var StandardGrantManagementActions = []string{
	GrantManagementCreate, GrantManagementMerge, GrantManagementReplace,
}

// IsStandardGrantManagementAction reports whether action is one of the
// standard actions.
func IsStandardGrantManagementAction(action string) bool {
	for _, a := range StandardGrantManagementActions {
		if a == action {
			return true
		}
	}
	return false
}

// GrantRequest is the normalized output of scope/resource/authorization-
// details resolution.
//
// Invariants: every scope except "openid" is a subset of the client's granted
// scopes; every authorization-detail type is in the client's allowed set.
// Both are enforced by the authorization request validator.
type GrantRequest struct {
	Scopes               []string
	Audiences            []string
	AuthorizationDetails []AuthorizationDetail
}

// IsEmpty reports whether the grant resolved to nothing at all.
func (g *GrantRequest) IsEmpty() bool {
	return len(g.Scopes) == 0 && len(g.Audiences) == 0 && len(g.AuthorizationDetails) == 0
}

// HasScope reports whether the grant includes the named scope.
func (g *GrantRequest) HasScope(name string) bool {
	for _, s := range g.Scopes {
		if s == name {
			return true
		}
	}
	return false
}
