// Package consent re-derives the consent decision for a request from the
// stored consent grants. Consent capture itself (the consent screen) lives
// outside this engine.
package consent

import (
	"context"

	"aegis/internal/oauth/models"
	pstrings "aegis/pkg/platform/strings"
)

// Store lists the consent grants recorded for a user and client.
type Store interface {
	ListByUserAndClient(ctx context.Context, realm, userID, clientID string) ([]models.ConsentGrant, error)
}

// Checker answers whether existing consent covers a grant request.
type Checker struct {
	store Store
}

func NewChecker(store Store) *Checker {
	return &Checker{store: store}
}

// HasConsent reports whether the union of the user's active consent grants
// for the client covers every requested scope (the openid scope needs no
// consent), every requested claim name, and every authorization-detail type.
func (c *Checker) HasConsent(
	ctx context.Context,
	user *models.User,
	realm string,
	clientID string,
	request *models.GrantRequest,
	claims []models.AuthorizedClaim,
	authDetails []models.AuthorizationDetail,
) (bool, error) {
	grants, err := c.store.ListByUserAndClient(ctx, realm, user.ID, clientID)
	if err != nil {
		return false, err
	}

	coveredScopes := []string{models.ScopeOpenID}
	var coveredClaims, coveredTypes []string
	for _, grant := range grants {
		if !grant.IsActive() {
			continue
		}
		coveredScopes = append(coveredScopes, grant.Scopes...)
		coveredClaims = append(coveredClaims, grant.ClaimNames...)
		coveredTypes = append(coveredTypes, grant.AuthorizationDetailTypes...)
	}

	claimNames := make([]string, 0, len(claims))
	for _, claim := range claims {
		claimNames = append(claimNames, claim.Name)
	}
	detailTypes := make([]string, 0, len(authDetails))
	for _, detail := range authDetails {
		detailTypes = append(detailTypes, detail.Type)
	}

	covered := pstrings.ContainsAll(coveredScopes, request.Scopes) &&
		pstrings.ContainsAll(coveredClaims, claimNames) &&
		pstrings.ContainsAll(coveredTypes, detailTypes)
	return covered, nil
}
