// Package clientauth authenticates clients at the token endpoint. Only the
// client_secret method is implemented here; assertion-based methods plug in
// behind the same interface.
package clientauth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"aegis/internal/oauth/models"
	oerrors "aegis/pkg/oautherrors"
	"aegis/pkg/platform/sentinel"
)

// Parameter names used by the client_secret_post method.
const (
	ParamClientSecret = "client_secret"
)

// ClientStore resolves a client registration within a realm.
type ClientStore interface {
	GetByClientID(ctx context.Context, realm, clientID string) (*models.Client, error)
}

// SecretAuthenticator verifies client_id/client_secret pairs against the
// stored bcrypt hash.
type SecretAuthenticator struct {
	clients ClientStore
}

func NewSecretAuthenticator(clients ClientStore) *SecretAuthenticator {
	return &SecretAuthenticator{clients: clients}
}

// Authenticate resolves and verifies the requesting client. All failures are
// authentication errors: the transport layer answers them with 401.
func (a *SecretAuthenticator) Authenticate(ctx context.Context, rc *models.RequestContext) (*models.Client, error) {
	clientID := rc.Params.ClientID()
	if clientID == "" {
		return nil, oerrors.NewAuthentication(oerrors.CodeInvalidClient, "missing parameter client_id")
	}
	client, err := a.clients.GetByClientID(ctx, rc.Realm, clientID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, oerrors.NewAuthentication(oerrors.CodeInvalidClient, "unknown client "+clientID)
		}
		return nil, err
	}
	secret := rc.Params.Get(ParamClientSecret)
	if secret == "" {
		return nil, oerrors.NewAuthentication(oerrors.CodeUnauthorizedClient, "missing parameter client_secret")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.SecretHash), []byte(secret)); err != nil {
		return nil, oerrors.NewAuthentication(oerrors.CodeUnauthorizedClient, "client secret is not valid")
	}
	return client, nil
}

// HashSecret produces the bcrypt hash stored on client registrations.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
