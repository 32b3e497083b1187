package consent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aegis/internal/oauth/models"
	consentstore "aegis/internal/oauth/store/consent"
)

const testRealm = "master"

func checkerWithGrants(t *testing.T, grants ...*models.ConsentGrant) *Checker {
	t.Helper()
	store := consentstore.NewInMemory()
	for i, grant := range grants {
		if grant.ID == "" {
			grant.ID = string(rune('a' + i))
		}
		grant.UserID = "user-1"
		grant.Realm = testRealm
		grant.ClientID = "client-1"
		require.NoError(t, store.Save(context.Background(), grant))
	}
	return NewChecker(store)
}

func hasConsent(t *testing.T, checker *Checker, request *models.GrantRequest, claims []models.AuthorizedClaim, details []models.AuthorizationDetail) bool {
	t.Helper()
	ok, err := checker.HasConsent(context.Background(),
		&models.User{ID: "user-1", Realm: testRealm}, testRealm, "client-1",
		request, claims, details)
	require.NoError(t, err)
	return ok
}

func TestHasConsent_OpenIDNeedsNoConsent(t *testing.T) {
	checker := checkerWithGrants(t)
	assert.True(t, hasConsent(t, checker, &models.GrantRequest{Scopes: []string{"openid"}}, nil, nil))
}

func TestHasConsent_UncoveredScope(t *testing.T) {
	checker := checkerWithGrants(t, &models.ConsentGrant{Scopes: []string{"profile"}})
	assert.False(t, hasConsent(t, checker, &models.GrantRequest{Scopes: []string{"profile", "email"}}, nil, nil))
}

func TestHasConsent_UnionAcrossGrants(t *testing.T) {
	checker := checkerWithGrants(t,
		&models.ConsentGrant{Scopes: []string{"profile"}},
		&models.ConsentGrant{Scopes: []string{"email"}, AuthorizationDetailTypes: []string{"payment_initiation"}},
	)
	assert.True(t, hasConsent(t, checker,
		&models.GrantRequest{Scopes: []string{"openid", "profile", "email"}},
		nil,
		[]models.AuthorizationDetail{{Type: "payment_initiation"}}))
}

func TestHasConsent_RevokedGrantIgnored(t *testing.T) {
	revokedAt := time.Now()
	checker := checkerWithGrants(t, &models.ConsentGrant{Scopes: []string{"profile"}, RevokedAt: &revokedAt})
	assert.False(t, hasConsent(t, checker, &models.GrantRequest{Scopes: []string{"profile"}}, nil, nil))
}

func TestHasConsent_ClaimNames(t *testing.T) {
	checker := checkerWithGrants(t, &models.ConsentGrant{ClaimNames: []string{"email"}})
	assert.True(t, hasConsent(t, checker, &models.GrantRequest{},
		[]models.AuthorizedClaim{{Name: "email", Target: models.ClaimTargetIDToken}}, nil))
	assert.False(t, hasConsent(t, checker, &models.GrantRequest{},
		[]models.AuthorizedClaim{{Name: "phone_number", Target: models.ClaimTargetIDToken}}, nil))
}

func TestHasConsent_AuthorizationDetailTypes(t *testing.T) {
	checker := checkerWithGrants(t, &models.ConsentGrant{Scopes: []string{"profile"}})
	assert.False(t, hasConsent(t, checker, &models.GrantRequest{Scopes: []string{"profile"}},
		nil, []models.AuthorizationDetail{{Type: "payment_initiation"}}))
}
