package authorize

import (
	"aegis/internal/oauth/models"
	oerrors "aegis/pkg/oautherrors"
)

// validateOpenIDCredentials structurally checks openid_credential
// authorization details: each must identify the requested credential either
// by configuration id or by format, and not by both.
func validateOpenIDCredentials(details []models.AuthorizationDetail) error {
	for _, detail := range details {
		if detail.Type != models.AuthorizationDetailTypeOpenIDCredential {
			continue
		}
		hasConfiguration := detail.CredentialConfigurationID != ""
		hasFormat := detail.Format != ""
		if !hasConfiguration && !hasFormat {
			return oerrors.New(oerrors.CodeInvalidAuthorizationDetails,
				"openid_credential requires credential_configuration_id or format")
		}
		if hasConfiguration && hasFormat {
			return oerrors.New(oerrors.CodeInvalidAuthorizationDetails,
				"openid_credential cannot carry both credential_configuration_id and format")
		}
	}
	return nil
}
