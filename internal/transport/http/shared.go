// Package httptransport exposes the authorization and token endpoints
// over HTTP and maps the domain error taxonomy onto wire responses.
package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	oerrors "aegis/pkg/oautherrors"
)

func durationSeconds(d time.Duration) string {
	return strconv.Itoa(int(d.Seconds()))
}

type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// writeOAuthError renders an RFC 6749 error body. Client
// authentication failures get a 401, everything else a 400.
func writeOAuthError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	var authErr *oerrors.AuthenticationError
	if errors.As(err, &authErr) {
		status = http.StatusUnauthorized
	}

	code := oerrors.CodeOf(err)
	body := errorBody{Error: string(code)}
	var oauthErr *oerrors.Error
	if errors.As(err, &oauthErr) {
		body.ErrorDescription = oauthErr.Description
	}
	if code == oerrors.CodeServerError {
		status = http.StatusInternalServerError
		body.ErrorDescription = ""
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeTokenResponse renders the merged pipeline output. expires_in
// goes out as a JSON number per RFC 6749.
func writeTokenResponse(w http.ResponseWriter, params map[string]string) {
	body := make(map[string]any, len(params))
	for k, v := range params {
		if k == "expires_in" {
			if n, err := strconv.Atoi(v); err == nil {
				body[k] = n
				continue
			}
		}
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(body)
}
