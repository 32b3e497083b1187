// Package grant normalizes raw scope, resource, and authorization-detail
// parameters into a GrantRequest. The resolution is a pure transformation
// aside from realm metadata lookups and is shared by the interactive and
// backchannel flows.
package grant

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"aegis/internal/oauth/models"
	oerrors "aegis/pkg/oautherrors"
	"aegis/pkg/platform/sentinel"
	pstrings "aegis/pkg/platform/strings"
)

// ScopeStore lists the scopes registered in a realm.
type ScopeStore interface {
	ListByRealm(ctx context.Context, realm string) ([]models.Scope, error)
}

// ResourceStore resolves RFC 8707 resource indicators.
type ResourceStore interface {
	GetByIdentifier(ctx context.Context, realm, identifier string) (*models.APIResource, error)
}

// Resolver merges requested scopes, resources, and authorization details into
// a normalized grant request.
type Resolver struct {
	scopes    ScopeStore
	resources ResourceStore
}

func NewResolver(scopes ScopeStore, resources ResourceStore) *Resolver {
	return &Resolver{scopes: scopes, resources: resources}
}

// Extract resolves the request into a GrantRequest. Requested scopes are
// deduplicated and filtered to those registered in the realm; every resource
// indicator must resolve to a registered API resource or the whole request
// fails invalid_target. Resource lookups run concurrently and share
// cancellation.
func (r *Resolver) Extract(
	ctx context.Context,
	realm string,
	scopes []string,
	resources []string,
	audiences []string,
	authDetails []models.AuthorizationDetail,
) (*models.GrantRequest, error) {
	requested := pstrings.DedupeAndTrim(scopes)
	registered, err := r.scopes.ListByRealm(ctx, realm)
	if err != nil {
		return nil, err
	}
	registeredNames := make(map[string]struct{}, len(registered))
	for _, s := range registered {
		registeredNames[s.Name] = struct{}{}
	}
	resolvedScopes := make([]string, 0, len(requested))
	for _, s := range requested {
		if _, ok := registeredNames[s]; ok {
			resolvedScopes = append(resolvedScopes, s)
		}
	}

	resolvedAudiences, err := r.resolveAudiences(ctx, realm, pstrings.DedupeAndTrim(resources), audiences)
	if err != nil {
		return nil, err
	}

	return &models.GrantRequest{
		Scopes:               resolvedScopes,
		Audiences:            resolvedAudiences,
		AuthorizationDetails: authDetails,
	}, nil
}

func (r *Resolver) resolveAudiences(ctx context.Context, realm string, resources, seed []string) ([]string, error) {
	audiences := append([]string(nil), seed...)
	if len(resources) == 0 {
		return pstrings.DedupeAndTrim(audiences), nil
	}

	g, ctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	for _, resource := range resources {
		g.Go(func() error {
			apiResource, err := r.resources.GetByIdentifier(ctx, realm, resource)
			if err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					return oerrors.Newf(oerrors.CodeInvalidTarget, "unknown resource %s", resource)
				}
				return err
			}
			mu.Lock()
			audiences = append(audiences, apiResource.Audience)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pstrings.DedupeAndTrim(audiences), nil
}
