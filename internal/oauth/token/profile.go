package token

import (
	"aegis/internal/oauth/models"
)

// BearerProfile stamps the standard bearer token type.
type BearerProfile struct{}

func (BearerProfile) Name() models.TokenProfile { return models.TokenProfileBearer }

func (BearerProfile) Enrich(rc *models.RequestContext) error {
	return rc.SetResponseParameter(ParamTokenType, "Bearer")
}

// MacProfile shapes the response for clients requiring MAC-style token
// binding: a per-response mac key and algorithm accompany the tokens.
type MacProfile struct{}

func (MacProfile) Name() models.TokenProfile { return models.TokenProfileMac }

func (MacProfile) Enrich(rc *models.RequestContext) error {
	key, err := randomToken(32)
	if err != nil {
		return err
	}
	if err := rc.SetResponseParameter(ParamTokenType, "mac"); err != nil {
		return err
	}
	if err := rc.SetResponseParameter(ParamMacKey, key); err != nil {
		return err
	}
	return rc.SetResponseParameter(ParamMacAlgorithm, "hmac-sha-256")
}

// DefaultProfiles returns the profiles this server registers.
func DefaultProfiles() []Profile {
	return []Profile{BearerProfile{}, MacProfile{}}
}
