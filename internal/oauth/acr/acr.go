// Package acr resolves the authentication context class reference that
// applies to a request, and therefore which authentication methods the
// session must have satisfied.
package acr

import (
	"context"
	"errors"

	"aegis/internal/oauth/models"
	"aegis/pkg/platform/sentinel"
)

// Store looks up ACR definitions in a realm.
type Store interface {
	GetByName(ctx context.Context, realm, name string) (*models.Acr, error)
	GetDefault(ctx context.Context, realm string) (*models.Acr, error)
}

// Resolver picks the effective ACR for a request.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// FetchDefaultAcr resolves the ACR in preference order: the first registered
// value in acr_values, then the acr requested via the claims parameter, then
// the client's default acr values, then the realm default. Unregistered
// names are skipped, not failed: acr_values is a preference list.
func (r *Resolver) FetchDefaultAcr(
	ctx context.Context,
	realm string,
	acrValues []string,
	claims []models.AuthorizedClaim,
	client *models.Client,
) (*models.Acr, error) {
	candidates := append([]string(nil), acrValues...)
	candidates = append(candidates, models.AcrValuesFromClaims(claims)...)
	if client != nil {
		candidates = append(candidates, client.DefaultAcrValues...)
	}
	for _, name := range candidates {
		acr, err := r.store.GetByName(ctx, realm, name)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				continue
			}
			return nil, err
		}
		return acr, nil
	}
	return r.store.GetDefault(ctx, realm)
}

// FirstAmr returns the first authentication method of the resolved ACR, used
// as the login hint carried by login-required signals.
func (r *Resolver) FirstAmr(
	ctx context.Context,
	realm string,
	acrValues []string,
	claims []models.AuthorizedClaim,
	client *models.Client,
) (string, error) {
	acr, err := r.FetchDefaultAcr(ctx, realm, acrValues, claims, client)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	if len(acr.AuthenticationMethodReferences) == 0 {
		return "", nil
	}
	return acr.AuthenticationMethodReferences[0], nil
}
