package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"

	"aegis/internal/oauth/models"
)

// RefreshTokenBuilder issues an opaque refresh token when the client's
// registration allows refresh tokens.
type RefreshTokenBuilder struct{}

func NewRefreshTokenBuilder() *RefreshTokenBuilder {
	return &RefreshTokenBuilder{}
}

func (b *RefreshTokenBuilder) Name() string { return "refresh_token" }

func (b *RefreshTokenBuilder) ResponseKeys() []string {
	return []string{ParamRefreshToken}
}

func (b *RefreshTokenBuilder) Build(ctx context.Context, scopes []string, rc *models.RequestContext) error {
	if !rc.Client.RefreshTokenAllowed {
		return nil
	}
	opaque, err := randomToken(32)
	if err != nil {
		return err
	}
	return rc.SetResponseParameter(ParamRefreshToken, opaque)
}

func randomToken(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
