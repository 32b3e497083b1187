package httptransport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"aegis/internal/oauth/models"
	oerrors "aegis/pkg/oautherrors"
	audit "aegis/pkg/platform/audit"
	"aegis/pkg/platform/sentinel"
)

// ClientAuthenticator verifies client credentials on backchannel
// endpoints.
type ClientAuthenticator interface {
	Authenticate(ctx context.Context, rc *models.RequestContext) (*models.Client, error)
}

// BCAuthorizeStore persists backchannel requests.
type BCAuthorizeStore interface {
	Save(ctx context.Context, request *models.BCAuthorize) error
	GetByID(ctx context.Context, realm, id string) (*models.BCAuthorize, error)
	UpdateAndSave(ctx context.Context, request *models.BCAuthorize) error
}

// BCAuthorizeHandler serves backchannel authentication: clients open
// requests, the authenticated user approves or denies them from the
// device they are signed in on.
type BCAuthorizeHandler struct {
	auth     ClientAuthenticator
	users    UserStore
	sessions SessionStore
	store    BCAuthorizeStore
	auditor  AuditEmitter
	logger   *slog.Logger

	realm    string
	issuer   string
	lifetime time.Duration
	interval int
}

func NewBCAuthorizeHandler(
	auth ClientAuthenticator,
	users UserStore,
	sessions SessionStore,
	store BCAuthorizeStore,
	auditor AuditEmitter,
	logger *slog.Logger,
	realm, issuer string,
	lifetime time.Duration,
	interval int,
) *BCAuthorizeHandler {
	return &BCAuthorizeHandler{
		auth:     auth,
		users:    users,
		sessions: sessions,
		store:    store,
		auditor:  auditor,
		logger:   logger,
		realm:    realm,
		issuer:   issuer,
		lifetime: lifetime,
		interval: interval,
	}
}

// HandleOpen opens a backchannel request for the user named by
// login_hint and hands the client an auth_req_id to poll with.
func (h *BCAuthorizeHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		writeOAuthError(w, oerrors.New(oerrors.CodeInvalidRequest, "request body is not a valid form"))
		return
	}
	params := models.ParametersFromQuery(r.PostForm)
	rc := models.NewRequestContext(h.realm, h.issuer, params)

	client, err := h.auth.Authenticate(ctx, rc)
	if err != nil {
		writeOAuthError(w, err)
		return
	}
	rc.SetClient(client)

	loginHint := params.Get("login_hint")
	if loginHint == "" {
		writeOAuthError(w, oerrors.New(oerrors.CodeInvalidRequest, "missing parameter login_hint"))
		return
	}
	user, err := h.users.GetByID(ctx, rc.Realm, loginHint)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			writeOAuthError(w, oerrors.New(oerrors.CodeInvalidRequest, "login_hint does not reference a known user"))
			return
		}
		writeOAuthError(w, oerrors.Wrap(err, oerrors.CodeServerError, "resolve login_hint"))
		return
	}

	scopes := params.Scopes()
	for _, scope := range scopes {
		if !client.HasScope(scope) {
			writeOAuthError(w, oerrors.Newf(oerrors.CodeInvalidRequest, "scope %s is not granted to the client", scope))
			return
		}
	}

	request, err := models.NewBCAuthorize(user.ID, client.ClientID, rc.Realm, scopes, h.lifetime, h.interval, time.Now())
	if err != nil {
		writeOAuthError(w, err)
		return
	}
	if err := h.store.Save(ctx, request); err != nil {
		writeOAuthError(w, oerrors.Wrap(err, oerrors.CodeServerError, "persist backchannel request"))
		return
	}

	h.emit(ctx, rc.Realm, client.ClientID, user.ID, string(audit.EventBackchannelRequested), "", "")
	writeTokenResponse(w, map[string]string{
		"auth_req_id": request.ID,
		"expires_in":  durationSeconds(h.lifetime),
		"interval":    strconv.Itoa(h.interval),
	})
}

// HandleCallback lets the signed-in user approve or deny a pending
// backchannel request.
func (h *BCAuthorizeHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		writeOAuthError(w, oerrors.New(oerrors.CodeInvalidRequest, "request body is not a valid form"))
		return
	}

	user, err := h.sessionUser(ctx, r)
	if err != nil {
		writeOAuthError(w, err)
		return
	}

	authReqID := r.PostForm.Get(models.ParamAuthReqID)
	if authReqID == "" {
		writeOAuthError(w, oerrors.Newf(oerrors.CodeInvalidRequest, "missing parameter %s", models.ParamAuthReqID))
		return
	}
	request, err := h.store.GetByID(ctx, h.realm, authReqID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			writeOAuthError(w, oerrors.New(oerrors.CodeInvalidGrant, "auth_req_id is not valid"))
			return
		}
		writeOAuthError(w, oerrors.Wrap(err, oerrors.CodeServerError, "load backchannel request"))
		return
	}
	if request.UserID != user.ID {
		writeOAuthError(w, oerrors.New(oerrors.CodeAccessDenied, "request belongs to another user"))
		return
	}

	action := r.PostForm.Get("action")
	now := time.Now()
	switch action {
	case "approve":
		if request.IsExpired(now) {
			err = request.MarkExpired(now)
		} else {
			err = request.Approve(now)
		}
	case "deny":
		err = request.Deny(now)
	default:
		writeOAuthError(w, oerrors.New(oerrors.CodeInvalidRequest, "action must be approve or deny"))
		return
	}
	if err != nil {
		writeOAuthError(w, oerrors.Wrap(err, oerrors.CodeInvalidGrant, "backchannel request is not pending"))
		return
	}
	if err := h.store.UpdateAndSave(ctx, request); err != nil {
		writeOAuthError(w, oerrors.Wrap(err, oerrors.CodeServerError, "persist backchannel request"))
		return
	}

	h.emit(ctx, h.realm, request.ClientID, user.ID, string(audit.EventBackchannelConsumed), action, "")
	w.WriteHeader(http.StatusNoContent)
}

func (h *BCAuthorizeHandler) sessionUser(ctx context.Context, r *http.Request) (*models.User, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, oerrors.NewAuthentication(oerrors.CodeInvalidRequest, "a signed-in session is required")
	}
	session, err := h.sessions.GetByID(ctx, h.realm, cookie.Value)
	if err != nil {
		return nil, oerrors.NewAuthentication(oerrors.CodeInvalidRequest, "a signed-in session is required")
	}
	user, err := h.users.GetByID(ctx, h.realm, session.UserID)
	if err != nil {
		return nil, oerrors.NewAuthentication(oerrors.CodeInvalidRequest, "a signed-in session is required")
	}
	return user, nil
}

func (h *BCAuthorizeHandler) emit(ctx context.Context, realm, clientID, userID, action, decision, reason string) {
	if h.auditor == nil {
		return
	}
	event := audit.Event{
		Realm:    realm,
		ClientID: clientID,
		UserID:   userID,
		Action:   action,
		Decision: decision,
		Reason:   reason,
	}
	if err := h.auditor.Emit(ctx, event); err != nil && h.logger != nil {
		h.logger.ErrorContext(ctx, "emit audit event", "error", err)
	}
}
