package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCLIError_Error verifies message formatting with and without a cause.
func TestCLIError_Error(t *testing.T) {
	bare := NewCLIError(KindMissingFile, "notebook not found")
	assert.Equal(t, "notebook not found", bare.Error())

	cause := errors.New("exit status 128")
	wrapped := WrapCLIError(KindGitCommand, "git commit failed", cause)
	assert.Equal(t, "git commit failed: exit status 128", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

// TestIsKind verifies kind detection through fmt.Errorf wrapping.
func TestIsKind(t *testing.T) {
	err := fmt.Errorf("collect: %w", NewCLIErrorf(KindMissingFile, "test file not found for %s", "ex001"))

	assert.True(t, IsKind(err, KindMissingFile))
	assert.False(t, IsKind(err, KindGitCommand))
	assert.False(t, IsKind(errors.New("plain"), KindMissingFile))

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindMissingFile, kind)
}

// TestErrorKind_Category checks the mapping onto the three propagation
// categories.
func TestErrorKind_Category(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want Category
	}{
		{KindInvalidSelection, CategoryInvalidArgument},
		{KindInvalidArgument, CategoryInvalidArgument},
		{KindMissingFile, CategoryMissingResource},
		{KindTemplateSourceMissing, CategoryMissingResource},
		{KindPackageInvalid, CategoryMissingResource},
		{KindHostUnavailable, CategoryExternalCommand},
		{KindNotAuthenticated, CategoryExternalCommand},
		{KindMissingScopes, CategoryExternalCommand},
		{KindHostCommand, CategoryExternalCommand},
		{KindGitCommand, CategoryExternalCommand},
		{KindInvalidResponse, CategoryExternalCommand},
		{KindIdentityUnresolved, CategoryExternalCommand},
		{KindFilesystem, CategoryExternalCommand},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Category())
		})
	}
}

// TestWithHint verifies the hint is appended and the kind preserved.
func TestWithHint(t *testing.T) {
	base := WrapCLIError(KindHostCommand, "failed to create repository r", errors.New("Name already exists"))

	hinted := WithHint(base, "choose a different name")
	assert.Equal(t, "failed to create repository r: Name already exists\n\nchoose a different name", hinted.Error())
	assert.True(t, IsKind(hinted, KindHostCommand))
	assert.Empty(t, base.Hint, "original is not modified")

	plain := WithHint(errors.New("boom"), "try again")
	assert.True(t, IsKind(plain, KindHostCommand))
	assert.Equal(t, "boom\n\ntry again", plain.Error())

	assert.Same(t, base, WithHint(base, "").(*CLIError))
	assert.NoError(t, WithHint(nil, "hint"))
}
