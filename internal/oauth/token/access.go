package token

import (
	"context"
	"strconv"
	"strings"
	"time"

	"aegis/internal/jwttoken"
	"aegis/internal/oauth/models"
)

// AccessTokenBuilder issues the signed access token. It always runs.
type AccessTokenBuilder struct {
	tokens   *jwttoken.Service
	lifetime time.Duration
}

func NewAccessTokenBuilder(tokens *jwttoken.Service, lifetime time.Duration) *AccessTokenBuilder {
	return &AccessTokenBuilder{tokens: tokens, lifetime: lifetime}
}

func (b *AccessTokenBuilder) Name() string { return "access_token" }

func (b *AccessTokenBuilder) ResponseKeys() []string {
	return []string{ParamAccessToken, ParamExpiresIn, ParamScope}
}

func (b *AccessTokenBuilder) Build(ctx context.Context, scopes []string, rc *models.RequestContext) error {
	subject := rc.Client.ClientID
	if rc.User != nil {
		subject = rc.User.Subject
	}
	signed, err := b.tokens.Sign(subject, []string{rc.Client.ClientID}, b.lifetime, jwttoken.Claims{
		Scope:    strings.Join(scopes, " "),
		ClientID: rc.Client.ClientID,
		Realm:    rc.Realm,
		Amrs:     rc.Amrs(),
	})
	if err != nil {
		return err
	}
	if err := rc.SetResponseParameter(ParamAccessToken, signed); err != nil {
		return err
	}
	if err := rc.SetResponseParameter(ParamExpiresIn, strconv.Itoa(int(b.lifetime.Seconds()))); err != nil {
		return err
	}
	return rc.SetResponseParameter(ParamScope, strings.Join(scopes, " "))
}
