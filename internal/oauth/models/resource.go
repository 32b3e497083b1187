package models

// Scope is one scope registered in a realm. Only registered scopes survive
// grant resolution.
type Scope struct {
	Name  string `json:"name"`
	Realm string `json:"realm"`
}

// APIResource maps an RFC 8707 resource indicator onto the audience stamped
// into issued tokens.
type APIResource struct {
	Identifier string   `json:"identifier"`
	Realm      string   `json:"realm"`
	Audience   string   `json:"audience"`
	Scopes     []string `json:"scopes"`
}

// Acr is a named bundle of authentication method references.
type Acr struct {
	Name                           string   `json:"name"`
	Realm                          string   `json:"realm"`
	AuthenticationMethodReferences []string `json:"amrs"`
}
