package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"aegis/internal/oauth/ciba"
	"aegis/internal/oauth/models"
	oerrors "aegis/pkg/oautherrors"
	audit "aegis/pkg/platform/audit"
)

// GrantHandler serves one grant type on the token endpoint.
type GrantHandler interface {
	Handle(ctx context.Context, rc *models.RequestContext) (*ciba.TokenResponse, error)
}

// TokenHandler serves the token endpoint, dispatching on grant_type.
type TokenHandler struct {
	grants  map[string]GrantHandler
	auditor AuditEmitter
	logger  *slog.Logger

	realm  string
	issuer string
}

func NewTokenHandler(grants map[string]GrantHandler, auditor AuditEmitter, logger *slog.Logger, realm, issuer string) *TokenHandler {
	return &TokenHandler{
		grants:  grants,
		auditor: auditor,
		logger:  logger,
		realm:   realm,
		issuer:  issuer,
	}
}

func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		writeOAuthError(w, oerrors.New(oerrors.CodeInvalidRequest, "request body is not a valid form"))
		return
	}

	params := models.ParametersFromQuery(r.PostForm)
	rc := models.NewRequestContext(h.realm, h.issuer, params)

	grantType := params.GrantType()
	if grantType == "" {
		writeOAuthError(w, oerrors.Newf(oerrors.CodeInvalidRequest, "missing parameter %s", models.ParamGrantType))
		return
	}
	grant, ok := h.grants[grantType]
	if !ok {
		writeOAuthError(w, oerrors.Newf(oerrors.CodeInvalidRequest, "grant type %s is not supported", grantType))
		return
	}

	response, err := grant.Handle(ctx, rc)
	if err != nil {
		h.emitToken(ctx, rc, string(audit.EventBackchannelRejected), "rejected", err.Error())
		writeOAuthError(w, err)
		return
	}

	h.emitToken(ctx, rc, string(audit.EventTokenIssued), "granted", "")
	writeTokenResponse(w, response.Parameters)
}

func (h *TokenHandler) emitToken(ctx context.Context, rc *models.RequestContext, action, decision, reason string) {
	if h.auditor == nil {
		return
	}
	event := audit.Event{
		Realm:    rc.Realm,
		ClientID: rc.Params.ClientID(),
		Action:   action,
		Decision: decision,
		Reason:   reason,
	}
	if err := h.auditor.Emit(ctx, event); err != nil && h.logger != nil {
		h.logger.ErrorContext(ctx, "emit audit event", "error", err)
	}
}
