// Package authorize implements the authorization-request decision engine:
// pre-authentication request validation and post-authentication policy
// evaluation. Both operate on the request context and short-circuit on the
// first failing step.
package authorize

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"aegis/internal/oauth/models"
	"aegis/internal/platform/metrics"
	oerrors "aegis/pkg/oautherrors"
	"aegis/pkg/platform/sentinel"
)

// ClientStore resolves a client registration within a realm.
type ClientStore interface {
	GetByClientID(ctx context.Context, realm, clientID string) (*models.Client, error)
}

// GrantResolver normalizes scopes, resources, and authorization details.
type GrantResolver interface {
	Extract(ctx context.Context, realm string, scopes, resources, audiences []string, authDetails []models.AuthorizationDetail) (*models.GrantRequest, error)
}

// RequestExtractor expands a JWT-wrapped request object in place.
type RequestExtractor interface {
	Extract(rc *models.RequestContext) error
}

// ConsentChecker answers whether recorded consent covers a grant request.
type ConsentChecker interface {
	HasConsent(ctx context.Context, user *models.User, realm, clientID string, request *models.GrantRequest, claims []models.AuthorizedClaim, authDetails []models.AuthorizationDetail) (bool, error)
}

// AcrResolver resolves the effective ACR and login hints.
type AcrResolver interface {
	FetchDefaultAcr(ctx context.Context, realm string, acrValues []string, claims []models.AuthorizedClaim, client *models.Client) (*models.Acr, error)
	FirstAmr(ctx context.Context, realm string, acrValues []string, claims []models.AuthorizedClaim, client *models.Client) (string, error)
}

// TokenReader verifies and decodes tokens issued by this server.
type TokenReader interface {
	ReadSelfIssued(realm, raw string) (*SelfIssuedClaims, error)
}

// SelfIssuedClaims is the subset of a self-issued token relevant to
// id_token_hint checking.
type SelfIssuedClaims struct {
	Subject   string
	Audiences []string
}

// Options captures host-level validation policy.
type Options struct {
	// GrantManagementActionRequired forces every authorization request to
	// carry a grant_management_action.
	GrantManagementActionRequired bool
}

// Validator orchestrates the pre- and post-authentication validation of
// authorization requests.
type Validator struct {
	clients       ClientStore
	resolver      GrantResolver
	extractor     RequestExtractor
	consent       ConsentChecker
	acr           AcrResolver
	tokens        TokenReader
	responseTypes *ResponseTypeRegistry
	responseModes *ResponseModeRegistry
	opts          Options
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	now           func() time.Time
}

func NewValidator(
	clients ClientStore,
	resolver GrantResolver,
	extractor RequestExtractor,
	consent ConsentChecker,
	acr AcrResolver,
	tokens TokenReader,
	responseTypes *ResponseTypeRegistry,
	responseModes *ResponseModeRegistry,
	opts Options,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Validator {
	return &Validator{
		clients:       clients,
		resolver:      resolver,
		extractor:     extractor,
		consent:       consent,
		acr:           acr,
		tokens:        tokens,
		responseTypes: responseTypes,
		responseModes: responseModes,
		opts:          opts,
		logger:        logger,
		metrics:       m,
		tracer:        otel.Tracer("aegis/authorize"),
		now:           time.Now,
	}
}

// WithClock overrides the validator's time source. Test use only.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// Validate runs the ordered pre-authentication checks over the request
// context. On success it returns the normalized grant request and the
// response-type handlers matching the request; every failure is terminal.
func (v *Validator) Validate(ctx context.Context, rc *models.RequestContext) (*models.GrantRequest, []ResponseTypeHandler, error) {
	ctx, span := v.tracer.Start(ctx, "authorize.Validate",
		trace.WithAttributes(attribute.String("realm", rc.Realm)))
	defer span.End()

	grantRequest, handlers, err := v.validate(ctx, rc)
	if err != nil {
		v.metrics.ObserveAuthorization(string(oerrors.CodeOf(err)))
		return nil, nil, err
	}
	v.metrics.ObserveAuthorization("ok")
	return grantRequest, handlers, nil
}

func (v *Validator) validate(ctx context.Context, rc *models.RequestContext) (*models.GrantRequest, []ResponseTypeHandler, error) {
	client, err := v.authenticateClient(ctx, rc.Realm, rc.Params.ClientID())
	if err != nil {
		return nil, nil, err
	}
	rc.SetClient(client)

	if err := v.extractor.Extract(rc); err != nil {
		return nil, nil, err
	}

	requestedResponseTypes := rc.Params.ResponseTypes()
	if len(requestedResponseTypes) == 0 {
		return nil, nil, oerrors.Newf(oerrors.CodeInvalidRequest, "missing parameter %s", models.ParamResponseType)
	}
	handlers, unsupported := v.responseTypes.Select(requestedResponseTypes)
	if len(unsupported) > 0 {
		return nil, nil, oerrors.Newf(oerrors.CodeUnsupportedResponseType, "response types %s are not supported", strings.Join(unsupported, " "))
	}

	scopes := rc.Params.Scopes()
	resources := rc.Params.Resources()
	authDetails, err := rc.Params.AuthorizationDetails()
	if err != nil {
		return nil, nil, err
	}
	grantRequest, err := v.resolver.Extract(ctx, rc.Realm, scopes, resources, nil, authDetails)
	if err != nil {
		return nil, nil, err
	}
	if grantRequest.IsEmpty() {
		return nil, nil, oerrors.Newf(oerrors.CodeInvalidRequest, "missing parameters %s,%s,%s",
			models.ParamScope, models.ParamResource, models.ParamAuthorizationDetails)
	}

	var unsupportedScopes []string
	for _, scope := range grantRequest.Scopes {
		if scope != models.ScopeOpenID && !client.HasScope(scope) {
			unsupportedScopes = append(unsupportedScopes, scope)
		}
	}
	if len(unsupportedScopes) > 0 {
		return nil, nil, oerrors.Newf(oerrors.CodeInvalidRequest, "scopes %s are not supported", strings.Join(unsupportedScopes, ","))
	}

	var unsupportedDetailTypes []string
	for _, detail := range authDetails {
		if strings.TrimSpace(detail.Type) == "" {
			return nil, nil, oerrors.New(oerrors.CodeInvalidAuthorizationDetails, "authorization detail requires a type")
		}
		if !client.AllowsAuthorizationDataType(detail.Type) {
			unsupportedDetailTypes = append(unsupportedDetailTypes, detail.Type)
		}
	}
	if len(unsupportedDetailTypes) > 0 {
		return nil, nil, oerrors.Newf(oerrors.CodeInvalidAuthorizationDetails, "authorization detail types %s are not supported", strings.Join(unsupportedDetailTypes, ","))
	}

	if err := validateOpenIDCredentials(authDetails); err != nil {
		return nil, nil, err
	}

	if err := v.commonValidate(ctx, rc); err != nil {
		return nil, nil, err
	}

	if rc.Params.RedirectURI() == "" {
		return nil, nil, oerrors.Newf(oerrors.CodeInvalidRequest, "missing parameter %s", models.ParamRedirectURI)
	}
	for _, responseType := range requestedResponseTypes {
		if responseType == ResponseTypeIDToken && rc.Params.Nonce() == "" {
			return nil, nil, oerrors.Newf(oerrors.CodeInvalidRequest, "missing parameter %s", models.ParamNonce)
		}
	}

	if client.ResourceParameterRequired && len(resources) == 0 {
		return nil, nil, oerrors.Newf(oerrors.CodeInvalidTarget, "missing parameter %s", models.ParamResource)
	}

	if err := v.checkGrantIDAndAction(rc); err != nil {
		return nil, nil, err
	}

	return grantRequest, handlers, nil
}

func (v *Validator) authenticateClient(ctx context.Context, realm, clientID string) (*models.Client, error) {
	if clientID == "" {
		return nil, oerrors.Newf(oerrors.CodeInvalidRequest, "missing parameter %s", models.ParamClientID)
	}
	client, err := v.clients.GetByClientID(ctx, realm, clientID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, oerrors.Newf(oerrors.CodeInvalidClient, "unknown client %s", clientID)
		}
		return nil, err
	}
	return client, nil
}

// commonValidate checks the redirect URI, response mode, and client-level
// response types. The redirect URI failure is a dedicated error so the
// transport layer never redirects to an unvetted URI.
func (v *Validator) commonValidate(ctx context.Context, rc *models.RequestContext) error {
	client := rc.Client
	redirectURI := rc.Params.RedirectURI()
	if redirectURI != "" && !matchesRedirectURI(redirectURI, client.RedirectURIPatterns, client.RedirectURICaseSensitive, v.logger) {
		return &oerrors.BadRedirectURIError{URI: redirectURI}
	}

	if mode := rc.Params.ResponseMode(); mode != "" && !v.responseModes.Supports(mode) {
		return oerrors.Newf(oerrors.CodeInvalidRequest, "response mode %s is not supported", mode)
	}

	var unsupported []string
	for _, responseType := range rc.Params.ResponseTypes() {
		if !client.AllowsResponseType(responseType) {
			unsupported = append(unsupported, responseType)
		}
	}
	if len(unsupported) > 0 {
		return oerrors.Newf(oerrors.CodeUnsupportedResponseType, "response types %s are not supported by the client", strings.Join(unsupported, ","))
	}
	return nil
}

// matchesRedirectURI runs each configured pattern as an unanchored regular
// expression match, per the historical behavior: anchoring is a client
// configuration responsibility, not applied here.
func matchesRedirectURI(redirectURI string, patterns []string, caseSensitive bool, logger *slog.Logger) bool {
	for _, pattern := range patterns {
		if !caseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			if logger != nil {
				logger.Warn("skipping invalid redirect uri pattern", "pattern", pattern, "error", err)
			}
			continue
		}
		if re.MatchString(redirectURI) {
			return true
		}
	}
	return false
}

func (v *Validator) checkGrantIDAndAction(rc *models.RequestContext) error {
	grantID := rc.Params.GrantID()
	action := rc.Params.GrantManagementAction()
	if v.opts.GrantManagementActionRequired && action == "" {
		return oerrors.Newf(oerrors.CodeInvalidRequest, "missing parameter %s", models.ParamGrantManagementAction)
	}
	if action != "" && !models.IsStandardGrantManagementAction(action) {
		return oerrors.Newf(oerrors.CodeInvalidRequest, "grant management action %s is not valid", action)
	}
	if !rc.FromConsentScreen && grantID != "" && action == models.GrantManagementCreate {
		return oerrors.New(oerrors.CodeInvalidRequest, "grant_id cannot be specified")
	}
	if grantID != "" && action == "" {
		return oerrors.Newf(oerrors.CodeInvalidRequest, "missing parameter %s", models.ParamGrantManagementAction)
	}
	return nil
}
