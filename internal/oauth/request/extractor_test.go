package request

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aegis/internal/oauth/models"
	oerrors "aegis/pkg/oautherrors"
)

func signedRequestObject(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("extractor-test-key"))
	require.NoError(t, err)
	return raw
}

func TestExtract_NoRequestObjectIsNoOp(t *testing.T) {
	rc := models.NewRequestContext("master", "http://issuer.local", models.Parameters{
		models.ParamScope: {"openid"},
	})

	require.NoError(t, NewExtractor().Extract(rc))
	assert.Equal(t, "openid", rc.Params.Get(models.ParamScope))
}

func TestExtract_OverwritesParameters(t *testing.T) {
	rc := models.NewRequestContext("master", "http://issuer.local", models.Parameters{
		models.ParamScope:        {"openid"},
		models.ParamResponseType: {"code"},
		models.ParamRequest: {signedRequestObject(t, jwt.MapClaims{
			"scope":   "openid profile",
			"max_age": float64(300),
			"iss":     "client-1",
			"aud":     "http://issuer.local",
		})},
	})

	require.NoError(t, NewExtractor().Extract(rc))
	// Named claims replace the plain parameters; untouched ones survive.
	assert.Equal(t, []string{"openid", "profile"}, rc.Params.Scopes())
	assert.Equal(t, []string{"code"}, rc.Params.ResponseTypes())
	// Numeric claims arrive as their decimal encoding.
	maxAge := rc.Params.MaxAge()
	require.NotNil(t, maxAge)
	assert.Equal(t, 300, *maxAge)
	// JWT envelope claims never leak into request parameters.
	assert.Empty(t, rc.Params.Get("iss"))
	assert.Empty(t, rc.Params.Get("aud"))
}

func TestExtract_StructuredClaimsCarriedAsJSON(t *testing.T) {
	rc := models.NewRequestContext("master", "http://issuer.local", models.Parameters{
		models.ParamRequest: {signedRequestObject(t, jwt.MapClaims{
			"claims": map[string]any{
				"id_token": map[string]any{"email": map[string]any{"essential": true}},
			},
		})},
	})

	require.NoError(t, NewExtractor().Extract(rc))
	claims, err := rc.Params.Claims()
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, "email", claims[0].Name)
	assert.True(t, claims[0].Essential)
}

func TestExtract_MalformedRequestObject(t *testing.T) {
	rc := models.NewRequestContext("master", "http://issuer.local", models.Parameters{
		models.ParamRequest: {"not-a-jwt"},
	})

	err := NewExtractor().Extract(rc)
	require.Error(t, err)
	assert.True(t, oerrors.HasCode(err, oerrors.CodeInvalidRequest))
}
