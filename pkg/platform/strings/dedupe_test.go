package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	got := DedupeAndTrim([]string{" openid ", "profile", "openid", "", "  "})
	assert.Equal(t, []string{"openid", "profile"}, got)
}

func TestDedupeAndTrim_Empty(t *testing.T) {
	assert.Empty(t, DedupeAndTrim(nil))
	assert.Empty(t, DedupeAndTrim([]string{}))
}

func TestContainsAll(t *testing.T) {
	have := []string{"openid", "profile", "email"}

	assert.True(t, ContainsAll(have, []string{"profile"}))
	assert.True(t, ContainsAll(have, []string{"openid", "email"}))
	assert.True(t, ContainsAll(have, nil))
	assert.False(t, ContainsAll(have, []string{"payments"}))
	assert.False(t, ContainsAll(nil, []string{"openid"}))
}
