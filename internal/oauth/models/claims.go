package models

import (
	"encoding/json"

	oerrors "aegis/pkg/oautherrors"
)

// ClaimTarget identifies which token a requested claim is aimed at.
type ClaimTarget string

const (
	ClaimTargetIDToken  ClaimTarget = "id_token"
	ClaimTargetUserInfo ClaimTarget = "userinfo"
)

// ClaimAcr is the authentication context class claim name.
const ClaimAcr = "acr"

// StandardUserClaims lists the OIDC standard claims recognized for essential
// claim enforcement against the user record.
var StandardUserClaims = []string{
	"sub", "name", "given_name", "family_name", "middle_name", "nickname",
	"preferred_username", "profile", "picture", "website", "email",
	"email_verified", "gender", "birthdate", "zoneinfo", "locale",
	"phone_number", "phone_number_verified", "address", "updated_at",
}

// IsStandardUserClaim reports whether name is a recognized standard claim.
func IsStandardUserClaim(name string) bool {
	for _, c := range StandardUserClaims {
		if c == name {
			return true
		}
	}
	return false
}

// AuthorizedClaim is one claim requested via the OIDC claims parameter.
type AuthorizedClaim struct {
	Name      string
	Target    ClaimTarget
	Essential bool
	Values    []string
}

type rawClaimRequest struct {
	Essential bool     `json:"essential"`
	Value     string   `json:"value"`
	Values    []string `json:"values"`
}

// ParseClaims decodes the claims request parameter, e.g.
//
//	{"id_token":{"email":{"essential":true},"acr":{"values":["gold"]}}}
//
// An empty raw string yields nil without error.
func ParseClaims(raw string) ([]AuthorizedClaim, error) {
	if raw == "" {
		return nil, nil
	}
	var decoded map[string]map[string]*rawClaimRequest
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, oerrors.Wrap(err, oerrors.CodeInvalidRequest, "claims parameter is not valid JSON")
	}
	var claims []AuthorizedClaim
	for target, members := range decoded {
		t := ClaimTarget(target)
		if t != ClaimTargetIDToken && t != ClaimTargetUserInfo {
			continue
		}
		for name, req := range members {
			claim := AuthorizedClaim{Name: name, Target: t}
			if req != nil {
				claim.Essential = req.Essential
				claim.Values = req.Values
				if req.Value != "" {
					claim.Values = append(claim.Values, req.Value)
				}
			}
			claims = append(claims, claim)
		}
	}
	return claims, nil
}

// AcrValuesFromClaims extracts the requested acr values, if any, from parsed
// claims. Used as the second source for ACR resolution after acr_values.
func AcrValuesFromClaims(claims []AuthorizedClaim) []string {
	for _, c := range claims {
		if c.Name == ClaimAcr && c.Target == ClaimTargetIDToken {
			return c.Values
		}
	}
	return nil
}
