package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionHint(t *testing.T) {
	base := PermissionHint("")
	assert.Contains(t, base, "cannot create repositories")
	assert.NotContains(t, base, "It looks like")

	assert.Contains(t, PermissionHint("GITHUB_TOKEN"), "Unset GITHUB_TOKEN before running `gh auth login`")
	assert.Contains(t, PermissionHint("GH_TOKEN"), "Ensure GH_TOKEN references a personal access token")
}

func TestAlreadyExistsHint(t *testing.T) {
	assert.Equal(t,
		"A repository named 'intro' already exists. Either delete the existing repository or choose a different name.",
		AlreadyExistsHint("intro"))
}

func TestAuthenticationAndRateLimitHints(t *testing.T) {
	assert.Contains(t, AuthenticationHint(), "gh auth login")
	assert.Contains(t, RateLimitHint(), "rate limit")
	assert.NotEqual(t, AuthenticationHint(), RateLimitHint())
}
