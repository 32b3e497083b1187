//go:build integration

package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aegis/internal/oauth/models"
	"aegis/pkg/platform/sentinel"
	"aegis/pkg/testutil/containers"
)

const clientsTableDDL = `
CREATE TABLE IF NOT EXISTS clients (
	client_id                   TEXT        NOT NULL,
	realm                       TEXT        NOT NULL,
	secret_hash                 TEXT        NOT NULL DEFAULT '',
	response_types              TEXT[]      NOT NULL DEFAULT '{}',
	redirect_uri_patterns       TEXT[]      NOT NULL DEFAULT '{}',
	redirect_uri_case_sensitive BOOLEAN     NOT NULL DEFAULT FALSE,
	granted_scopes              TEXT[]      NOT NULL DEFAULT '{}',
	authorization_data_types    TEXT[]      NOT NULL DEFAULT '{}',
	default_max_age             BIGINT,
	default_acr_values          TEXT[]      NOT NULL DEFAULT '{}',
	consent_disabled            BOOLEAN     NOT NULL DEFAULT FALSE,
	refresh_token_allowed       BOOLEAN     NOT NULL DEFAULT FALSE,
	preferred_token_profile     TEXT        NOT NULL DEFAULT 'bearer',
	resource_parameter_required BOOLEAN     NOT NULL DEFAULT FALSE,
	created_at                  TIMESTAMPTZ NOT NULL,
	updated_at                  TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (client_id, realm)
)`

func newPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	pg := containers.NewPostgresContainer(t)
	_, err := pg.DB.ExecContext(context.Background(), clientsTableDDL)
	require.NoError(t, err)
	return NewPostgres(pg.DB)
}

func TestPostgresStore_SaveAndGet(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	maxAge := 300

	saved := &models.Client{
		ClientID:                  "client-1",
		Realm:                     "master",
		SecretHash:                "$2a$10$hash",
		ResponseTypes:             []string{"code", "id_token"},
		RedirectURIPatterns:       []string{`^https://app\.example\.com/cb$`},
		RedirectURICaseSensitive:  true,
		GrantedScopes:             []string{"profile", "email"},
		AuthorizationDataTypes:    []string{"payment_initiation"},
		DefaultMaxAge:             &maxAge,
		DefaultAcrValues:          []string{"gold"},
		ConsentDisabled:           true,
		RefreshTokenAllowed:       true,
		PreferredTokenProfile:     models.TokenProfileMac,
		ResourceParameterRequired: true,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}
	require.NoError(t, store.Save(ctx, saved))

	got, err := store.GetByClientID(ctx, "master", "client-1")
	require.NoError(t, err)
	assert.Equal(t, saved.ClientID, got.ClientID)
	assert.Equal(t, saved.Realm, got.Realm)
	assert.Equal(t, saved.SecretHash, got.SecretHash)
	assert.Equal(t, saved.ResponseTypes, got.ResponseTypes)
	assert.Equal(t, saved.RedirectURIPatterns, got.RedirectURIPatterns)
	assert.True(t, got.RedirectURICaseSensitive)
	assert.Equal(t, saved.GrantedScopes, got.GrantedScopes)
	assert.Equal(t, saved.AuthorizationDataTypes, got.AuthorizationDataTypes)
	require.NotNil(t, got.DefaultMaxAge)
	assert.Equal(t, 300, *got.DefaultMaxAge)
	assert.Equal(t, saved.DefaultAcrValues, got.DefaultAcrValues)
	assert.True(t, got.ConsentDisabled)
	assert.True(t, got.RefreshTokenAllowed)
	assert.Equal(t, models.TokenProfileMac, got.PreferredTokenProfile)
	assert.True(t, got.ResourceParameterRequired)
}

func TestPostgresStore_GetUnknownClient(t *testing.T) {
	store := newPostgresStore(t)

	_, err := store.GetByClientID(context.Background(), "master", "ghost")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresStore_UpsertReplacesRegistration(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	client := &models.Client{
		ClientID:              "client-1",
		Realm:                 "master",
		ResponseTypes:         []string{"code"},
		GrantedScopes:         []string{"profile"},
		PreferredTokenProfile: models.TokenProfileBearer,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	require.NoError(t, store.Save(ctx, client))

	client.GrantedScopes = []string{"profile", "email"}
	client.RefreshTokenAllowed = true
	client.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, store.Save(ctx, client))

	got, err := store.GetByClientID(ctx, "master", "client-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"profile", "email"}, got.GrantedScopes)
	assert.True(t, got.RefreshTokenAllowed)
}

func TestPostgresStore_RealmIsolation(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Save(ctx, &models.Client{
		ClientID: "client-1", Realm: "master",
		ResponseTypes: []string{"code"}, GrantedScopes: []string{"profile"},
		PreferredTokenProfile: models.TokenProfileBearer,
		CreatedAt:             now, UpdatedAt: now,
	}))

	_, err := store.GetByClientID(ctx, "tenant-b", "client-1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
