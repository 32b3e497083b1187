package token

import (
	"context"
	"time"

	"aegis/internal/jwttoken"
	"aegis/internal/oauth/models"
	oerrors "aegis/pkg/oautherrors"
)

// IDTokenBuilder issues the OIDC id token when the grant carries the openid
// scope. Without a bound user there is nothing to assert, so the builder
// fails rather than mint an empty identity.
type IDTokenBuilder struct {
	tokens   *jwttoken.Service
	lifetime time.Duration
}

func NewIDTokenBuilder(tokens *jwttoken.Service, lifetime time.Duration) *IDTokenBuilder {
	return &IDTokenBuilder{tokens: tokens, lifetime: lifetime}
}

func (b *IDTokenBuilder) Name() string { return "id_token" }

func (b *IDTokenBuilder) ResponseKeys() []string {
	return []string{ParamIDToken}
}

func (b *IDTokenBuilder) Build(ctx context.Context, scopes []string, rc *models.RequestContext) error {
	if !containsScope(scopes, models.ScopeOpenID) {
		return nil
	}
	if rc.User == nil {
		return oerrors.New(oerrors.CodeInvalidRequest, "id token requires an authenticated user")
	}
	signed, err := b.tokens.Sign(rc.User.Subject, []string{rc.Client.ClientID}, b.lifetime, jwttoken.Claims{
		ClientID: rc.Client.ClientID,
		Nonce:    rc.Params.Nonce(),
		Realm:    rc.Realm,
		Amrs:     rc.Amrs(),
	})
	if err != nil {
		return err
	}
	return rc.SetResponseParameter(ParamIDToken, signed)
}

func containsScope(scopes []string, want string) bool {
	for _, s := range scopes {
		if s == want {
			return true
		}
	}
	return false
}
