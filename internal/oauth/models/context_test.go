package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestContext_ResponseParameterCollision(t *testing.T) {
	rc := NewRequestContext("master", "http://issuer", Parameters{})

	require.NoError(t, rc.SetResponseParameter("access_token", "a"))
	err := rc.SetResponseParameter("access_token", "b")
	require.Error(t, err)

	params := rc.ResponseParameters()
	assert.Equal(t, "a", params["access_token"])
}

func TestRequestContext_ResponseParametersIsACopy(t *testing.T) {
	rc := NewRequestContext("master", "http://issuer", Parameters{})
	require.NoError(t, rc.SetResponseParameter("code", "xyz"))

	params := rc.ResponseParameters()
	params["code"] = "mutated"

	assert.Equal(t, "xyz", rc.ResponseParameters()["code"])
}

func TestRequestContext_ResetResponse(t *testing.T) {
	rc := NewRequestContext("master", "http://issuer", Parameters{})
	require.NoError(t, rc.SetResponseParameter("code", "xyz"))

	rc.ResetResponse()

	assert.Empty(t, rc.ResponseParameters())
	// The key is writable again after a reset.
	assert.NoError(t, rc.SetResponseParameter("code", "abc"))
}

func TestParameters_SpaceSeparatedValues(t *testing.T) {
	params := Parameters{
		ParamResponseType: {"code id_token code"},
		ParamScope:        {" openid  profile openid "},
		ParamMaxAge:       {"120"},
	}

	assert.Equal(t, []string{"code", "id_token"}, params.ResponseTypes())
	assert.Equal(t, []string{"openid", "profile"}, params.Scopes())
	require.NotNil(t, params.MaxAge())
	assert.Equal(t, 120, *params.MaxAge())
}

func TestParameters_MaxAgeRejectsGarbage(t *testing.T) {
	assert.Nil(t, Parameters{ParamMaxAge: {"soon"}}.MaxAge())
	assert.Nil(t, Parameters{ParamMaxAge: {"-1"}}.MaxAge())
	assert.Nil(t, Parameters{}.MaxAge())
}
