package authorize

import (
	"context"
	"errors"
	"strings"
	"time"

	"aegis/internal/oauth/models"
	oerrors "aegis/pkg/oautherrors"
	"aegis/pkg/platform/sentinel"
)

// ValidateAuthenticated enforces post-authentication policy over the request
// context: session freshness, prompt handling, consent coverage, essential
// claims, and ACR/AMR requirements. It either succeeds, fails with a
// protocol error, or returns a policy signal (login, consent, or account
// selection required) for the transport layer to act on.
func (v *Validator) ValidateAuthenticated(ctx context.Context, request *models.GrantRequest, rc *models.RequestContext) error {
	ctx, span := v.tracer.Start(ctx, "authorize.ValidateAuthenticated")
	defer span.End()

	client := rc.Client
	claims, err := rc.Params.Claims()
	if err != nil {
		return err
	}
	acrValues := rc.Params.AcrValues()
	prompt := rc.Params.Prompt()

	if rc.User == nil {
		if prompt == models.PromptNone {
			return oerrors.New(oerrors.CodeLoginRequired, "login is required")
		}
		return v.loginRequired(ctx, rc, acrValues, claims, false)
	}

	session := rc.Session
	if session == nil {
		return v.loginRequired(ctx, rc, acrValues, claims, true)
	}

	now := v.now()
	if maxAge := rc.Params.MaxAge(); maxAge != nil {
		// Boundary is inclusive: a session exactly max_age old is fresh.
		if now.After(session.AuthenticatedAt.Add(time.Duration(*maxAge) * time.Second)) {
			return v.loginRequired(ctx, rc, acrValues, claims, false)
		}
	} else if client.DefaultMaxAge != nil && now.After(session.AuthenticatedAt.Add(time.Duration(*client.DefaultMaxAge)*time.Second)) {
		return v.loginRequired(ctx, rc, acrValues, claims, false)
	}

	if hint := rc.Params.IDTokenHint(); hint != "" {
		payload, err := v.tokens.ReadSelfIssued(rc.Realm, hint)
		if err != nil {
			return err
		}
		if payload.Subject != rc.User.Subject {
			return oerrors.New(oerrors.CodeInvalidRequest, "subject of id_token_hint does not match the authenticated user")
		}
		if !containsString(payload.Audiences, rc.Issuer) {
			return oerrors.New(oerrors.CodeInvalidRequest, "audience of id_token_hint does not include this issuer")
		}
	}

	switch prompt {
	case models.PromptLogin:
		return v.loginRequired(ctx, rc, acrValues, claims, false)
	case models.PromptConsent:
		if err := v.consentRequired(client); err != nil {
			return err
		}
	case models.PromptSelectAccount:
		return &oerrors.SelectAccountRequiredError{}
	}

	if rc.Params.GrantManagementAction() == "" {
		authDetails := request.AuthorizationDetails
		ok, err := v.consent.HasConsent(ctx, rc.User, rc.Realm, client.ClientID, request, claims, authDetails)
		if err != nil {
			return err
		}
		if !ok {
			if err := v.consentRequired(client); err != nil {
				return err
			}
		}
	}

	var invalidClaims []string
	for _, claim := range claims {
		if claim.Target != models.ClaimTargetIDToken || !claim.Essential || !models.IsStandardUserClaim(claim.Name) {
			continue
		}
		if !rc.User.SatisfiesClaim(claim.Name, claim.Values) {
			invalidClaims = append(invalidClaims, claim.Name)
		}
	}
	if len(invalidClaims) > 0 {
		return oerrors.Newf(oerrors.CodeInvalidRequest, "claims %s are not valid", strings.Join(invalidClaims, ","))
	}

	acr, err := v.acr.FetchDefaultAcr(ctx, rc.Realm, acrValues, claims, client)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return err
	}
	var missing []string
	for _, amr := range acr.AuthenticationMethodReferences {
		if !containsString(rc.Amrs(), amr) {
			missing = append(missing, amr)
		}
	}
	if len(missing) > 0 {
		return &oerrors.AmrMissingError{
			Acr:          acr.Name,
			MissingAmr:   missing[0],
			RequiredAmrs: acr.AuthenticationMethodReferences,
		}
	}
	return nil
}

// loginRequired builds the login-required signal carrying the first
// acceptable authentication method for the resolved ACR.
func (v *Validator) loginRequired(ctx context.Context, rc *models.RequestContext, acrValues []string, claims []models.AuthorizedClaim, sessionExpired bool) error {
	amr, err := v.acr.FirstAmr(ctx, rc.Realm, acrValues, claims, rc.Client)
	if err != nil {
		return err
	}
	return &oerrors.LoginRequiredError{Amr: amr, SessionExpired: sessionExpired}
}

// consentRequired raises the consent signal unless the client opted out of
// the consent screen entirely.
func (v *Validator) consentRequired(client *models.Client) error {
	if client.ConsentDisabled {
		return nil
	}
	return &oerrors.ConsentRequiredError{}
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
