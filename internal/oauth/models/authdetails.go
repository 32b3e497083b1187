package models

import (
	"encoding/json"

	oerrors "aegis/pkg/oautherrors"
)

// AuthorizationDetailTypeOpenIDCredential is the RFC 9396 detail type used by
// OpenID for Verifiable Credential Issuance.
const AuthorizationDetailTypeOpenIDCredential = "openid_credential"

// AuthorizationDetail is one typed RFC 9396 authorization detail. Fields
// beyond Type are retained in Raw so downstream consumers keep the full
// object.
type AuthorizationDetail struct {
	Type                      string                     `json:"type"`
	Locations                 []string                   `json:"locations,omitempty"`
	Actions                   []string                   `json:"actions,omitempty"`
	CredentialConfigurationID string                     `json:"credential_configuration_id,omitempty"`
	Format                    string                     `json:"format,omitempty"`
	Raw                       map[string]json.RawMessage `json:"-"`
}

// ParseAuthorizationDetails decodes an authorization_details JSON array. An
// empty raw string yields nil without error.
func ParseAuthorizationDetails(raw string) ([]AuthorizationDetail, error) {
	if raw == "" {
		return nil, nil
	}
	var objects []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &objects); err != nil {
		return nil, oerrors.Wrap(err, oerrors.CodeInvalidAuthorizationDetails, "authorization_details is not a JSON array")
	}
	details := make([]AuthorizationDetail, 0, len(objects))
	for _, obj := range objects {
		var detail AuthorizationDetail
		detail.Raw = obj
		if raw, ok := obj["type"]; ok {
			if err := json.Unmarshal(raw, &detail.Type); err != nil {
				return nil, oerrors.Wrap(err, oerrors.CodeInvalidAuthorizationDetails, "authorization detail type must be a string")
			}
		}
		if raw, ok := obj["locations"]; ok {
			if err := json.Unmarshal(raw, &detail.Locations); err != nil {
				return nil, oerrors.Wrap(err, oerrors.CodeInvalidAuthorizationDetails, "authorization detail locations must be an array of strings")
			}
		}
		if raw, ok := obj["actions"]; ok {
			if err := json.Unmarshal(raw, &detail.Actions); err != nil {
				return nil, oerrors.Wrap(err, oerrors.CodeInvalidAuthorizationDetails, "authorization detail actions must be an array of strings")
			}
		}
		if raw, ok := obj["credential_configuration_id"]; ok {
			if err := json.Unmarshal(raw, &detail.CredentialConfigurationID); err != nil {
				return nil, oerrors.Wrap(err, oerrors.CodeInvalidAuthorizationDetails, "credential_configuration_id must be a string")
			}
		}
		if raw, ok := obj["format"]; ok {
			if err := json.Unmarshal(raw, &detail.Format); err != nil {
				return nil, oerrors.Wrap(err, oerrors.CodeInvalidAuthorizationDetails, "format must be a string")
			}
		}
		details = append(details, detail)
	}
	return details, nil
}
