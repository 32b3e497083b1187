package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"aegis/internal/oauth/models"
	"aegis/pkg/platform/sentinel"
)

// PostgresStore persists client registrations in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed client store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const upsertClientQuery = `
INSERT INTO clients (
	client_id, realm, secret_hash, response_types, redirect_uri_patterns,
	redirect_uri_case_sensitive, granted_scopes, authorization_data_types,
	default_max_age, default_acr_values, consent_disabled, refresh_token_allowed,
	preferred_token_profile, resource_parameter_required, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (client_id, realm) DO UPDATE SET
	secret_hash = EXCLUDED.secret_hash,
	response_types = EXCLUDED.response_types,
	redirect_uri_patterns = EXCLUDED.redirect_uri_patterns,
	redirect_uri_case_sensitive = EXCLUDED.redirect_uri_case_sensitive,
	granted_scopes = EXCLUDED.granted_scopes,
	authorization_data_types = EXCLUDED.authorization_data_types,
	default_max_age = EXCLUDED.default_max_age,
	default_acr_values = EXCLUDED.default_acr_values,
	consent_disabled = EXCLUDED.consent_disabled,
	refresh_token_allowed = EXCLUDED.refresh_token_allowed,
	preferred_token_profile = EXCLUDED.preferred_token_profile,
	resource_parameter_required = EXCLUDED.resource_parameter_required,
	updated_at = EXCLUDED.updated_at`

func (s *PostgresStore) Save(ctx context.Context, client *models.Client) error {
	if client == nil {
		return fmt.Errorf("client is required")
	}
	var maxAge sql.NullInt64
	if client.DefaultMaxAge != nil {
		maxAge = sql.NullInt64{Int64: int64(*client.DefaultMaxAge), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, upsertClientQuery,
		client.ClientID,
		client.Realm,
		client.SecretHash,
		pq.Array(client.ResponseTypes),
		pq.Array(client.RedirectURIPatterns),
		client.RedirectURICaseSensitive,
		pq.Array(client.GrantedScopes),
		pq.Array(client.AuthorizationDataTypes),
		maxAge,
		pq.Array(client.DefaultAcrValues),
		client.ConsentDisabled,
		client.RefreshTokenAllowed,
		string(client.PreferredTokenProfile),
		client.ResourceParameterRequired,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save client: %w", err)
	}
	return nil
}

const getClientQuery = `
SELECT client_id, realm, secret_hash, response_types, redirect_uri_patterns,
	redirect_uri_case_sensitive, granted_scopes, authorization_data_types,
	default_max_age, default_acr_values, consent_disabled, refresh_token_allowed,
	preferred_token_profile, resource_parameter_required, created_at, updated_at
FROM clients
WHERE realm = $1 AND client_id = $2`

func (s *PostgresStore) GetByClientID(ctx context.Context, realm, clientID string) (*models.Client, error) {
	row := s.db.QueryRowContext(ctx, getClientQuery, realm, clientID)

	var (
		client  models.Client
		maxAge  sql.NullInt64
		profile string
	)
	err := row.Scan(
		&client.ClientID,
		&client.Realm,
		&client.SecretHash,
		pq.Array(&client.ResponseTypes),
		pq.Array(&client.RedirectURIPatterns),
		&client.RedirectURICaseSensitive,
		pq.Array(&client.GrantedScopes),
		pq.Array(&client.AuthorizationDataTypes),
		&maxAge,
		pq.Array(&client.DefaultAcrValues),
		&client.ConsentDisabled,
		&client.RefreshTokenAllowed,
		&profile,
		&client.ResourceParameterRequired,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	if maxAge.Valid {
		v := int(maxAge.Int64)
		client.DefaultMaxAge = &v
	}
	client.PreferredTokenProfile = models.TokenProfile(profile)
	return &client, nil
}
