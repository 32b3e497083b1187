// Package request expands JWT-wrapped request objects (the OIDC "request"
// parameter) into plain request parameters before validation runs.
package request

import (
	"encoding/json"
	"strconv"

	"aegis/internal/jwttoken"
	"aegis/internal/oauth/models"
)

// Extractor rewrites the request context parameters from a request object.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract decodes the request object, if present, and overwrites request
// parameters in place with the claims it carries. Parameters not named in
// the request object are left untouched. A request without a request object
// is a no-op.
func (e *Extractor) Extract(rc *models.RequestContext) error {
	raw := rc.Params.Get(models.ParamRequest)
	if raw == "" {
		return nil
	}
	claims, err := jwttoken.ReadUnverified(raw)
	if err != nil {
		return err
	}
	for name, value := range claims {
		switch name {
		case "iss", "aud", "exp", "nbf", "iat", "jti", models.ParamRequest:
			continue
		}
		switch v := value.(type) {
		case string:
			rc.Params.Set(name, v)
		case float64:
			rc.Params.Set(name, strconv.FormatFloat(v, 'f', -1, 64))
		case bool:
			rc.Params.Set(name, strconv.FormatBool(v))
		default:
			// Structured members (claims, authorization_details) are
			// carried as their JSON encoding.
			encoded, err := json.Marshal(v)
			if err != nil {
				continue
			}
			rc.Params.Set(name, string(encoded))
		}
	}
	return nil
}
