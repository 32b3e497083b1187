package httptransport

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"aegis/internal/oauth/authorize"
	"aegis/internal/oauth/models"
	oerrors "aegis/pkg/oautherrors"
	audit "aegis/pkg/platform/audit"
	"aegis/pkg/platform/sentinel"
)

// SessionCookie carries the authenticated browser session ID.
const SessionCookie = "aegis_session"

const authorizationCodeLifetime = 10 * time.Minute

// AuthorizeValidator runs the pre- and post-authentication checks.
type AuthorizeValidator interface {
	Validate(ctx context.Context, rc *models.RequestContext) (*models.GrantRequest, []authorize.ResponseTypeHandler, error)
	ValidateAuthenticated(ctx context.Context, request *models.GrantRequest, rc *models.RequestContext) error
}

// SessionStore resolves the browser session referenced by the cookie.
type SessionStore interface {
	GetByID(ctx context.Context, realm, id string) (*models.Session, error)
}

// UserStore resolves the session's user.
type UserStore interface {
	GetByID(ctx context.Context, realm, id string) (*models.User, error)
}

// CodeStore persists minted authorization codes.
type CodeStore interface {
	Save(ctx context.Context, code *models.AuthorizationCode) error
}

// TokenPipeline assembles token response parameters for implicit-style
// response types.
type TokenPipeline interface {
	Run(ctx context.Context, scopes []string, rc *models.RequestContext) (map[string]string, error)
}

// AuditEmitter records authorization decisions.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

// AuthorizeHandler serves the authorization endpoint.
type AuthorizeHandler struct {
	validator AuthorizeValidator
	sessions  SessionStore
	users     UserStore
	codes     CodeStore
	pipeline  TokenPipeline
	auditor   AuditEmitter
	logger    *slog.Logger

	realm  string
	issuer string
}

func NewAuthorizeHandler(
	validator AuthorizeValidator,
	sessions SessionStore,
	users UserStore,
	codes CodeStore,
	pipeline TokenPipeline,
	auditor AuditEmitter,
	logger *slog.Logger,
	realm, issuer string,
) *AuthorizeHandler {
	return &AuthorizeHandler{
		validator: validator,
		sessions:  sessions,
		users:     users,
		codes:     codes,
		pipeline:  pipeline,
		auditor:   auditor,
		logger:    logger,
		realm:     realm,
		issuer:    issuer,
	}
}

func (h *AuthorizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := models.ParametersFromQuery(r.URL.Query())
	rc := models.NewRequestContext(h.realm, h.issuer, params)
	rc.FromConsentScreen = r.URL.Query().Get("from_consent") == "true"

	h.attachSession(ctx, r, rc)

	request, handlers, err := h.validator.Validate(ctx, rc)
	if err != nil {
		h.writeAuthorizeError(w, r, rc, err)
		return
	}
	if err := h.validator.ValidateAuthenticated(ctx, request, rc); err != nil {
		h.writeAuthorizeError(w, r, rc, err)
		return
	}

	if err := h.assemble(ctx, request, handlers, rc); err != nil {
		h.writeAuthorizeError(w, r, rc, err)
		return
	}

	h.emit(ctx, rc, string(audit.EventAuthorizationGranted), "granted", "")
	h.redirectSuccess(w, r, rc)
}

// attachSession loads the cookie-referenced session and its user onto
// the request context. A missing or stale session leaves both unset;
// the post-authentication validator decides what that means.
func (h *AuthorizeHandler) attachSession(ctx context.Context, r *http.Request, rc *models.RequestContext) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return
	}
	session, err := h.sessions.GetByID(ctx, rc.Realm, cookie.Value)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) && h.logger != nil {
			h.logger.ErrorContext(ctx, "load session", "error", err)
		}
		return
	}
	user, err := h.users.GetByID(ctx, rc.Realm, session.UserID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) && h.logger != nil {
			h.logger.ErrorContext(ctx, "load session user", "error", err)
		}
		return
	}
	rc.SetUser(user)
	rc.SetSession(session)
}

// assemble produces the response parameters for the matched response
// types: a one-time code for "code", pipeline output for the implicit
// types. The pipeline runs at most once.
func (h *AuthorizeHandler) assemble(ctx context.Context, request *models.GrantRequest, handlers []authorize.ResponseTypeHandler, rc *models.RequestContext) error {
	needsTokens := false
	needsCode := false
	for _, handler := range handlers {
		switch handler.ResponseType() {
		case authorize.ResponseTypeCode:
			needsCode = true
		default:
			needsTokens = true
		}
	}

	if needsTokens {
		if _, err := h.pipeline.Run(ctx, request.Scopes, rc); err != nil {
			return err
		}
	}
	if needsCode {
		now := time.Now()
		code := &models.AuthorizationCode{
			Code:        uuid.NewString(),
			Realm:       rc.Realm,
			ClientID:    rc.Client.ClientID,
			UserID:      rc.User.ID,
			RedirectURI: rc.Params.RedirectURI(),
			Nonce:       rc.Params.Nonce(),
			Grant:       request,
			ExpiresAt:   now.Add(authorizationCodeLifetime),
			CreatedAt:   now,
		}
		if err := h.codes.Save(ctx, code); err != nil {
			return oerrors.Wrap(err, oerrors.CodeServerError, "persist authorization code")
		}
		if err := rc.SetResponseParameter("code", code.Code); err != nil {
			rc.ResetResponse()
			return oerrors.Wrap(err, oerrors.CodeServerError, "assemble response")
		}
	}
	return nil
}

func (h *AuthorizeHandler) redirectSuccess(w http.ResponseWriter, r *http.Request, rc *models.RequestContext) {
	params := rc.ResponseParameters()
	if state := rc.Params.State(); state != "" {
		params[models.ParamState] = state
	}
	h.redirect(w, r, rc.Params.RedirectURI(), rc.Params.ResponseMode(), params)
}

// writeAuthorizeError maps the error taxonomy onto the wire: policy
// signals become interaction redirects, protocol errors bounce back to
// the client's redirect_uri, and anything touching the redirect_uri
// itself stays a direct 400.
func (h *AuthorizeHandler) writeAuthorizeError(w http.ResponseWriter, r *http.Request, rc *models.RequestContext, err error) {
	ctx := r.Context()

	var badRedirect *oerrors.BadRedirectURIError
	if errors.As(err, &badRedirect) {
		h.emit(ctx, rc, string(audit.EventAuthorizationRejected), "rejected", badRedirect.Error())
		writeOAuthError(w, oerrors.Newf(oerrors.CodeInvalidRequest, "redirect_uri %s is not valid", badRedirect.URI))
		return
	}

	var loginReq *oerrors.LoginRequiredError
	if errors.As(err, &loginReq) {
		h.redirectInteraction(w, r, rc, "/login", func(q url.Values) {
			if loginReq.Amr != "" {
				q.Set("amr", loginReq.Amr)
			}
			if loginReq.SessionExpired {
				q.Set("session_expired", "true")
			}
		})
		return
	}
	var amrMissing *oerrors.AmrMissingError
	if errors.As(err, &amrMissing) {
		h.redirectInteraction(w, r, rc, "/login", func(q url.Values) {
			q.Set("acr", amrMissing.Acr)
			q.Set("amr", amrMissing.MissingAmr)
		})
		return
	}
	var consentReq *oerrors.ConsentRequiredError
	if errors.As(err, &consentReq) {
		h.redirectInteraction(w, r, rc, "/consent", nil)
		return
	}
	var selectAccount *oerrors.SelectAccountRequiredError
	if errors.As(err, &selectAccount) {
		h.redirectInteraction(w, r, rc, "/select-account", nil)
		return
	}

	h.emit(ctx, rc, string(audit.EventAuthorizationRejected), "rejected", err.Error())
	if h.logger != nil {
		h.logger.WarnContext(ctx, "authorization request rejected",
			"client_id", rc.Params.ClientID(),
			"realm", rc.Realm,
			"error", err,
		)
	}

	// Errors raised after client and redirect_uri validation go back to
	// the client per RFC 6749 §4.1.2.1.
	redirectURI := rc.Params.RedirectURI()
	if rc.Client == nil || redirectURI == "" {
		writeOAuthError(w, err)
		return
	}
	params := map[string]string{"error": string(oerrors.CodeOf(err))}
	var oauthErr *oerrors.Error
	if errors.As(err, &oauthErr) && oauthErr.Description != "" {
		params["error_description"] = oauthErr.Description
	}
	if state := rc.Params.State(); state != "" {
		params[models.ParamState] = state
	}
	h.redirect(w, r, redirectURI, rc.Params.ResponseMode(), params)
}

// redirectInteraction sends the browser to an interaction page with
// the original authorization request preserved for replay.
func (h *AuthorizeHandler) redirectInteraction(w http.ResponseWriter, r *http.Request, rc *models.RequestContext, path string, extra func(url.Values)) {
	q := url.Values{}
	q.Set("realm", rc.Realm)
	q.Set("redirect_url", r.URL.String())
	if extra != nil {
		extra(q)
	}
	http.Redirect(w, r, path+"?"+q.Encode(), http.StatusFound)
}

// redirect delivers params to the redirect URI using the requested
// response mode; query is the default.
func (h *AuthorizeHandler) redirect(w http.ResponseWriter, r *http.Request, redirectURI, mode string, params map[string]string) {
	switch mode {
	case authorize.ResponseModeFormPost:
		h.writeFormPost(w, redirectURI, params)
		return
	case authorize.ResponseModeFragment:
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		http.Redirect(w, r, redirectURI+"#"+values.Encode(), http.StatusFound)
		return
	}

	target, err := url.Parse(redirectURI)
	if err != nil {
		writeOAuthError(w, oerrors.New(oerrors.CodeInvalidRequest, "redirect_uri is not a valid URL"))
		return
	}
	q := target.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	target.RawQuery = q.Encode()
	http.Redirect(w, r, target.String(), http.StatusFound)
}

func (h *AuthorizeHandler) writeFormPost(w http.ResponseWriter, redirectURI string, params map[string]string) {
	w.Header().Set("Content-Type", "text/html;charset=UTF-8")
	fmt.Fprintf(w, "<html><head><title>Submit This Form</title></head><body onload=\"javascript:document.forms[0].submit()\">")
	fmt.Fprintf(w, "<form method=\"post\" action=%q>", redirectURI)
	for k, v := range params {
		fmt.Fprintf(w, "<input type=\"hidden\" name=%q value=%q/>", html.EscapeString(k), html.EscapeString(v))
	}
	fmt.Fprint(w, "</form></body></html>")
}

func (h *AuthorizeHandler) emit(ctx context.Context, rc *models.RequestContext, action, decision, reason string) {
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
	if rc.User != nil {
		event.UserID = rc.User.ID
	}
	if err := h.auditor.Emit(ctx, event); err != nil && h.logger != nil {
		h.logger.ErrorContext(ctx, "emit audit event", "error", err)
	}
}
