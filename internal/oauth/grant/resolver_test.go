package grant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aegis/internal/oauth/models"
	resourcestore "aegis/internal/oauth/store/resource"
	scopestore "aegis/internal/oauth/store/scope"
	oerrors "aegis/pkg/oautherrors"
)

const testRealm = "master"

func newTestResolver(t *testing.T) (*Resolver, *resourcestore.InMemoryStore) {
	t.Helper()
	ctx := context.Background()
	scopes := scopestore.NewInMemory()
	for _, name := range []string{"openid", "profile", "email"} {
		require.NoError(t, scopes.Save(ctx, models.Scope{Name: name, Realm: testRealm}))
	}
	resources := resourcestore.NewInMemory()
	return NewResolver(scopes, resources), resources
}

func TestExtract_FiltersUnregisteredScopes(t *testing.T) {
	resolver, _ := newTestResolver(t)

	request, err := resolver.Extract(context.Background(), testRealm,
		[]string{"openid", "profile", "profile", "galaxy"}, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"openid", "profile"}, request.Scopes)
	assert.Empty(t, request.Audiences)
	assert.True(t, request.HasScope("openid"))
	assert.False(t, request.HasScope("galaxy"))
}

func TestExtract_EmptyRequest(t *testing.T) {
	resolver, _ := newTestResolver(t)

	request, err := resolver.Extract(context.Background(), testRealm, nil, nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, request.IsEmpty())
}

func TestExtract_ResolvesResourcesToAudiences(t *testing.T) {
	resolver, resources := newTestResolver(t)
	ctx := context.Background()
	require.NoError(t, resources.Save(ctx, &models.APIResource{
		Identifier: "https://api.example.com", Realm: testRealm, Audience: "api",
	}))
	require.NoError(t, resources.Save(ctx, &models.APIResource{
		Identifier: "https://billing.example.com", Realm: testRealm, Audience: "billing",
	}))

	request, err := resolver.Extract(ctx, testRealm, nil,
		[]string{"https://api.example.com", "https://billing.example.com"}, nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"api", "billing"}, request.Audiences)
}

func TestExtract_UnknownResourceFailsWhole(t *testing.T) {
	resolver, resources := newTestResolver(t)
	ctx := context.Background()
	require.NoError(t, resources.Save(ctx, &models.APIResource{
		Identifier: "https://api.example.com", Realm: testRealm, Audience: "api",
	}))

	_, err := resolver.Extract(ctx, testRealm, []string{"profile"},
		[]string{"https://api.example.com", "https://nope.example.com"}, nil, nil)
	require.Error(t, err)
	assert.True(t, oerrors.HasCode(err, oerrors.CodeInvalidTarget))
	assert.Contains(t, err.Error(), "unknown resource https://nope.example.com")
}

func TestExtract_SeedAudiencesAreKept(t *testing.T) {
	resolver, _ := newTestResolver(t)

	request, err := resolver.Extract(context.Background(), testRealm, nil, nil,
		[]string{"preset", "preset"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"preset"}, request.Audiences)
}

func TestExtract_AuthorizationDetailsPassThrough(t *testing.T) {
	resolver, _ := newTestResolver(t)
	details := []models.AuthorizationDetail{{Type: "payment_initiation"}}

	request, err := resolver.Extract(context.Background(), testRealm, nil, nil, nil, details)
	require.NoError(t, err)
	assert.Equal(t, details, request.AuthorizationDetails)
	assert.False(t, request.IsEmpty())
}
