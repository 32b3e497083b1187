// Package token implements the token issuance pipeline: an ordered set of
// builders, one per token kind, followed by a single profile enrichment step
// selected by the client's preferred token profile.
package token

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"aegis/internal/oauth/models"
	"aegis/internal/platform/metrics"
	oerrors "aegis/pkg/oautherrors"
)

// Response parameter names owned by the builders and profiles.
const (
	ParamAccessToken  = "access_token"
	ParamIDToken      = "id_token"
	ParamRefreshToken = "refresh_token"
	ParamExpiresIn    = "expires_in"
	ParamTokenType    = "token_type"
	ParamScope        = "scope"
	ParamMacKey       = "mac_key"
	ParamMacAlgorithm = "mac_algorithm"
)

// Builder contributes one token kind to the response. Builders write only
// under the keys they declare via ResponseKeys; the pipeline asserts at
// construction that no two builders claim the same key.
type Builder interface {
	Name() string
	ResponseKeys() []string
	Build(ctx context.Context, scopes []string, rc *models.RequestContext) error
}

// Profile performs cross-cutting enrichment over the already-built tokens.
type Profile interface {
	Name() models.TokenProfile
	Enrich(rc *models.RequestContext) error
}

// Pipeline runs every builder in registration order, then exactly one
// profile. Its output is committed only when every stage succeeds; any
// failure discards the partial response.
type Pipeline struct {
	builders []Builder
	profiles map[models.TokenProfile]Profile
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewPipeline(builders []Builder, profiles []Profile, logger *slog.Logger, m *metrics.Metrics) (*Pipeline, error) {
	claimed := map[string]string{}
	for _, b := range builders {
		for _, key := range b.ResponseKeys() {
			if owner, ok := claimed[key]; ok {
				return nil, fmt.Errorf("token builders %s and %s both claim response key %q", owner, b.Name(), key)
			}
			claimed[key] = b.Name()
		}
	}
	byProfile := make(map[models.TokenProfile]Profile, len(profiles))
	for _, p := range profiles {
		byProfile[p.Name()] = p
	}
	return &Pipeline{builders: builders, profiles: byProfile, logger: logger, metrics: m}, nil
}

// Run executes the pipeline for the given scopes and returns the assembled
// response parameters. Cancellation is checked before every stage; on any
// failure the request context's partial response is discarded.
func (p *Pipeline) Run(ctx context.Context, scopes []string, rc *models.RequestContext) (map[string]string, error) {
	start := time.Now()
	for _, builder := range p.builders {
		if err := ctx.Err(); err != nil {
			rc.ResetResponse()
			return nil, err
		}
		if err := builder.Build(ctx, scopes, rc); err != nil {
			rc.ResetResponse()
			return nil, err
		}
	}

	profile, ok := p.profiles[rc.Client.PreferredTokenProfile]
	if !ok {
		rc.ResetResponse()
		return nil, oerrors.Newf(oerrors.CodeServerError, "no token profile registered for %s", rc.Client.PreferredTokenProfile)
	}
	if err := profile.Enrich(rc); err != nil {
		rc.ResetResponse()
		return nil, err
	}

	p.metrics.ObserveTokenIssuance(time.Since(start))
	if p.logger != nil {
		p.logger.DebugContext(ctx, "token pipeline completed",
			"client_id", rc.Client.ClientID,
			"profile", string(rc.Client.PreferredTokenProfile),
		)
	}
	return rc.ResponseParameters(), nil
}
