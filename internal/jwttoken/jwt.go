// Package jwttoken issues and reads the signed tokens produced by this
// server. Key management beyond a per-realm HMAC signing secret is out of
// scope; the rest of the engine consumes this package through small
// interfaces so an asymmetric implementation can be swapped in.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	oerrors "aegis/pkg/oautherrors"
)

// Claims is the claim set carried by self-issued access and id tokens.
type Claims struct {
	Scope    string   `json:"scope,omitempty"`
	ClientID string   `json:"client_id,omitempty"`
	Nonce    string   `json:"nonce,omitempty"`
	Amrs     []string `json:"amr,omitempty"`
	Realm    string   `json:"realm,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies this server's own tokens.
type Service struct {
	signingKey []byte
	issuer     string
}

func NewService(signingKey, issuer string) *Service {
	return &Service{signingKey: []byte(signingKey), issuer: issuer}
}

// Issuer returns the issuer identifier stamped into every token.
func (s *Service) Issuer() string { return s.issuer }

// Sign produces a signed token for the given subject and extra claims.
func (s *Service) Sign(subject string, audience []string, expiresIn time.Duration, extra Claims) (string, error) {
	now := time.Now()
	extra.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.issuer,
		Audience:  audience,
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, extra)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// ReadSelfIssued verifies and decodes a token previously issued by this
// server for the given realm. Used for id_token_hint.
func (s *Service) ReadSelfIssued(realm, raw string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, oerrors.New(oerrors.CodeInvalidRequest, "token has expired")
		}
		return nil, oerrors.Wrap(err, oerrors.CodeInvalidRequest, "token is not valid")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, oerrors.New(oerrors.CodeInvalidRequest, "token claims are not valid")
	}
	if realm != "" && claims.Realm != "" && claims.Realm != realm {
		return nil, oerrors.New(oerrors.CodeInvalidRequest, "token was issued for another realm")
	}
	return claims, nil
}

// ReadUnverified decodes a token without signature verification. Request
// objects signed by the client are structurally decoded here; signature
// enforcement per client registration is a deployment concern.
func ReadUnverified(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, oerrors.Wrap(err, oerrors.CodeInvalidRequest, "request object is not a valid JWT")
	}
	return claims, nil
}
