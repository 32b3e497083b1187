package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aegis/internal/jwttoken"
	"aegis/internal/oauth/models"
	oerrors "aegis/pkg/oautherrors"
)

const testRealm = "master"

func testTokens() *jwttoken.Service {
	return jwttoken.NewService("pipeline-test-signing-key", "http://issuer.local")
}

func testContext(mutate func(*models.Client)) *models.RequestContext {
	client := &models.Client{
		ClientID:              "client-1",
		Realm:                 testRealm,
		PreferredTokenProfile: models.TokenProfileBearer,
	}
	if mutate != nil {
		mutate(client)
	}
	rc := models.NewRequestContext(testRealm, "http://issuer.local", models.Parameters{
		models.ParamNonce: {"n-1"},
	})
	rc.SetClient(client)
	rc.SetUser(&models.User{ID: "user-1", Subject: "subject-1", Realm: testRealm})
	return rc
}

func defaultBuilders(t *testing.T) []Builder {
	t.Helper()
	tokens := testTokens()
	return []Builder{
		NewAccessTokenBuilder(tokens, time.Hour),
		NewIDTokenBuilder(tokens, time.Hour),
		NewRefreshTokenBuilder(),
	}
}

func TestNewPipeline_RejectsOverlappingResponseKeys(t *testing.T) {
	tokens := testTokens()
	_, err := NewPipeline(
		[]Builder{
			NewAccessTokenBuilder(tokens, time.Hour),
			NewAccessTokenBuilder(tokens, time.Hour),
		},
		DefaultProfiles(), nil, nil,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `both claim response key "access_token"`)
}

func TestPipeline_BearerResponse(t *testing.T) {
	pipeline, err := NewPipeline(defaultBuilders(t), DefaultProfiles(), nil, nil)
	require.NoError(t, err)
	rc := testContext(nil)

	response, err := pipeline.Run(context.Background(), []string{"openid", "profile"}, rc)
	require.NoError(t, err)

	assert.NotEmpty(t, response[ParamAccessToken])
	assert.NotEmpty(t, response[ParamIDToken])
	assert.Equal(t, "3600", response[ParamExpiresIn])
	assert.Equal(t, "openid profile", response[ParamScope])
	assert.Equal(t, "Bearer", response[ParamTokenType])
	assert.NotContains(t, response, ParamRefreshToken)
	assert.NotContains(t, response, ParamMacKey)
}

func TestPipeline_MacProfileAddsKeyMaterial(t *testing.T) {
	pipeline, err := NewPipeline(defaultBuilders(t), DefaultProfiles(), nil, nil)
	require.NoError(t, err)
	rc := testContext(func(c *models.Client) {
		c.PreferredTokenProfile = models.TokenProfileMac
	})

	response, err := pipeline.Run(context.Background(), []string{"profile"}, rc)
	require.NoError(t, err)

	assert.Equal(t, "mac", response[ParamTokenType])
	assert.NotEmpty(t, response[ParamMacKey])
	assert.Equal(t, "hmac-sha-256", response[ParamMacAlgorithm])
}

func TestPipeline_RefreshTokenOnlyWhenAllowed(t *testing.T) {
	pipeline, err := NewPipeline(defaultBuilders(t), DefaultProfiles(), nil, nil)
	require.NoError(t, err)
	rc := testContext(func(c *models.Client) {
		c.RefreshTokenAllowed = true
	})

	response, err := pipeline.Run(context.Background(), []string{"profile"}, rc)
	require.NoError(t, err)
	assert.NotEmpty(t, response[ParamRefreshToken])
}

func TestPipeline_IDTokenSkippedWithoutOpenIDScope(t *testing.T) {
	pipeline, err := NewPipeline(defaultBuilders(t), DefaultProfiles(), nil, nil)
	require.NoError(t, err)
	rc := testContext(nil)

	response, err := pipeline.Run(context.Background(), []string{"profile"}, rc)
	require.NoError(t, err)
	assert.NotContains(t, response, ParamIDToken)
}

func TestPipeline_IDTokenRequiresUser(t *testing.T) {
	pipeline, err := NewPipeline(defaultBuilders(t), DefaultProfiles(), nil, nil)
	require.NoError(t, err)
	rc := testContext(nil)
	rc.SetUser(nil)

	_, err = pipeline.Run(context.Background(), []string{"openid"}, rc)
	require.Error(t, err)
	assert.True(t, oerrors.HasCode(err, oerrors.CodeInvalidRequest))
	assert.Contains(t, err.Error(), "id token requires an authenticated user")
	assert.Empty(t, rc.ResponseParameters(), "partial output must be discarded")
}

func TestPipeline_AccessTokenSubjectFallsBackToClient(t *testing.T) {
	tokens := testTokens()
	pipeline, err := NewPipeline([]Builder{NewAccessTokenBuilder(tokens, time.Hour)}, DefaultProfiles(), nil, nil)
	require.NoError(t, err)
	rc := testContext(nil)
	rc.SetUser(nil)

	response, err := pipeline.Run(context.Background(), []string{"profile"}, rc)
	require.NoError(t, err)

	claims, err := tokens.ReadSelfIssued(testRealm, response[ParamAccessToken])
	require.NoError(t, err)
	assert.Equal(t, "client-1", claims.Subject)
	assert.Equal(t, "profile", claims.Scope)
}

func TestPipeline_MissingProfileFailsClean(t *testing.T) {
	pipeline, err := NewPipeline(defaultBuilders(t), []Profile{BearerProfile{}}, nil, nil)
	require.NoError(t, err)
	rc := testContext(func(c *models.Client) {
		c.PreferredTokenProfile = models.TokenProfileMac
	})

	_, err = pipeline.Run(context.Background(), []string{"profile"}, rc)
	require.Error(t, err)
	assert.True(t, oerrors.HasCode(err, oerrors.CodeServerError))
	assert.Contains(t, err.Error(), "no token profile registered for mac")
	assert.Empty(t, rc.ResponseParameters())
}

func TestPipeline_CancelledContext(t *testing.T) {
	pipeline, err := NewPipeline(defaultBuilders(t), DefaultProfiles(), nil, nil)
	require.NoError(t, err)
	rc := testContext(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = pipeline.Run(ctx, []string{"profile"}, rc)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rc.ResponseParameters())
}
