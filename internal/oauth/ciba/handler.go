// Package ciba handles the Client-Initiated Backchannel Authentication grant
// at the token endpoint: it consumes a backchannel request approved out of
// band and drives the token issuance pipeline exactly once per request.
package ciba

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"aegis/internal/oauth/models"
	"aegis/internal/platform/metrics"
	oerrors "aegis/pkg/oautherrors"
	"aegis/pkg/platform/sentinel"
)

// GrantType is the CIBA grant type identifier.
const GrantType = "urn:openid:params:grant-type:ciba"

// ClientAuthenticator authenticates the polling client. Failures come back
// as *oautherrors.AuthenticationError.
type ClientAuthenticator interface {
	Authenticate(ctx context.Context, rc *models.RequestContext) (*models.Client, error)
}

// UserStore resolves the user referenced by an approved request.
type UserStore interface {
	GetByID(ctx context.Context, realm, id string) (*models.User, error)
}

// Validator checks that the referenced backchannel request is ready for
// token issuance.
type Validator interface {
	Validate(ctx context.Context, rc *models.RequestContext) (*models.BCAuthorize, error)
}

// Pipeline is the token issuance pipeline.
type Pipeline interface {
	Run(ctx context.Context, scopes []string, rc *models.RequestContext) (map[string]string, error)
}

// TokenResponse is the assembled token endpoint payload.
type TokenResponse struct {
	Parameters map[string]string
}

// Handler drives one CIBA token request end to end.
type Handler struct {
	auth      ClientAuthenticator
	users     UserStore
	validator Validator
	pipeline  Pipeline
	store     BCAuthorizeStore
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	now       func() time.Time
}

func NewHandler(
	auth ClientAuthenticator,
	users UserStore,
	validator Validator,
	pipeline Pipeline,
	store BCAuthorizeStore,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		auth:      auth,
		users:     users,
		validator: validator,
		pipeline:  pipeline,
		store:     store,
		logger:    logger,
		metrics:   m,
		tracer:    otel.Tracer("aegis/ciba"),
		now:       time.Now,
	}
}

// WithClock overrides the handler's time source. Test use only.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// Handle processes one token request for the CIBA grant. The backchannel
// request transitions to completed and is persisted atomically with the
// issuance; a repeat call for the same auth_req_id fails instead of
// re-issuing tokens.
func (h *Handler) Handle(ctx context.Context, rc *models.RequestContext) (*TokenResponse, error) {
	ctx, span := h.tracer.Start(ctx, "ciba.Handle",
		trace.WithAttributes(attribute.String("realm", rc.Realm)))
	defer span.End()

	response, err := h.handle(ctx, rc)
	if err != nil {
		h.metrics.ObserveBackchannel(string(oerrors.CodeOf(err)))
		h.logError(ctx, err)
		return nil, err
	}
	h.metrics.ObserveBackchannel("ok")
	return response, nil
}

func (h *Handler) handle(ctx context.Context, rc *models.RequestContext) (*TokenResponse, error) {
	client, err := h.auth.Authenticate(ctx, rc)
	if err != nil {
		return nil, err
	}
	rc.SetClient(client)

	authRequest, err := h.validator.Validate(ctx, rc)
	if err != nil {
		return nil, err
	}

	user, err := h.users.GetByID(ctx, rc.Realm, authRequest.UserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, oerrors.New(oerrors.CodeInvalidGrant, "user referenced by the request no longer exists")
		}
		return nil, err
	}
	rc.SetUser(user)

	result, err := h.pipeline.Run(ctx, authRequest.Scopes, rc)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := authRequest.Complete(h.now()); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrAlreadyConsumed):
			return nil, oerrors.New(oerrors.CodeInvalidGrant, "auth_req_id has already been used")
		case errors.Is(err, sentinel.ErrExpired):
			return nil, oerrors.New(oerrors.CodeExpiredToken, "backchannel request has expired")
		default:
			return nil, oerrors.Wrap(err, oerrors.CodeInvalidGrant, "backchannel request cannot be consumed")
		}
	}
	if err := h.store.UpdateAndSave(ctx, authRequest); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyConsumed) {
			return nil, oerrors.New(oerrors.CodeInvalidGrant, "auth_req_id has already been used")
		}
		return nil, oerrors.Wrap(err, oerrors.CodeServerError, "persist backchannel request")
	}

	if h.logger != nil {
		h.logger.InfoContext(ctx, "backchannel request consumed",
			"auth_req_id", authRequest.ID,
			"client_id", client.ClientID,
			"realm", rc.Realm,
		)
	}
	return &TokenResponse{Parameters: result}, nil
}

func (h *Handler) logError(ctx context.Context, err error) {
	if h.logger == nil {
		return
	}
	var authErr *oerrors.AuthenticationError
	if errors.As(err, &authErr) {
		h.logger.WarnContext(ctx, "client authentication failed", "error", err)
		return
	}
	h.logger.ErrorContext(ctx, "backchannel token request failed", "error", err)
}
