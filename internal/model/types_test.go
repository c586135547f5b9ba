package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConstruct_IsValid checks the closed enumeration, including case
// sensitivity and the empty string.
func TestConstruct_IsValid(t *testing.T) {
	for _, c := range Constructs {
		assert.True(t, c.IsValid(), "construct %q should be valid", c)
	}
	assert.False(t, Construct("Sequence").IsValid())
	assert.False(t, Construct("invalid_construct").IsValid())
	assert.False(t, Construct("").IsValid())
}

// TestParseConstruct verifies that parsing does not fold case.
func TestParseConstruct(t *testing.T) {
	c, err := ParseConstruct("file_handling")
	require.NoError(t, err)
	assert.Equal(t, ConstructFileHandling, c)

	_, err = ParseConstruct("FILE_HANDLING")
	assert.Error(t, err)
}

// TestParseExerciseType verifies string-to-type conversion and error cases.
func TestParseExerciseType(t *testing.T) {
	tests := []struct {
		input    string
		expected ExerciseType
		hasError bool
	}{
		{"debug", TypeDebug, false},
		{"modify", TypeModify, false},
		{"make", TypeMake, false},
		{"Debug", "", true},
		{"invalid_type", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseExerciseType(tt.input)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestIsExerciseID checks the "ex" + three digits prefix rule used by scans.
func TestIsExerciseID(t *testing.T) {
	assert.True(t, IsExerciseID("ex001_sanity"))
	assert.True(t, IsExerciseID("ex123"))
	assert.False(t, IsExerciseID("ex01_short"))
	assert.False(t, IsExerciseID("exercise_001"))
	assert.False(t, IsExerciseID("README"))
}

// TestFileSet_Paths verifies that absent optional roles are omitted.
func TestFileSet_Paths(t *testing.T) {
	fs := FileSet{
		ID:       "ex001_sanity",
		Notebook: "/repo/notebooks/ex001_sanity.ipynb",
		Test:     "/repo/tests/test_ex001_sanity.py",
	}

	paths := fs.Paths()
	assert.Len(t, paths, 2)
	assert.Equal(t, fs.Notebook, paths[RoleNotebook])
	assert.True(t, fs.Has(RoleTest))
	assert.False(t, fs.Has(RoleSolution))
	assert.False(t, fs.Has(RoleMetadata))
	assert.Empty(t, fs.Path(Role("bogus")))
}

// TestSortedIDs verifies deterministic ordering of collected exercises.
func TestSortedIDs(t *testing.T) {
	files := map[string]FileSet{
		"ex010_b": {},
		"ex002_a": {},
		"ex001_c": {},
	}
	assert.Equal(t, []string{"ex001_c", "ex002_a", "ex010_b"}, SortedIDs(files))
	assert.Empty(t, SortedIDs(nil))
}

// TestRepositoryRecord_FullName covers owner-qualified and bare names.
func TestRepositoryRecord_FullName(t *testing.T) {
	assert.Equal(t, "my-org/test-repo", RepositoryRecord{Name: "test-repo", Owner: "my-org"}.FullName())
	assert.Equal(t, "test-repo", RepositoryRecord{Name: "test-repo"}.FullName())
	assert.Equal(t, VisibilityPrivate, VisibilityFor(true))
	assert.Equal(t, VisibilityPublic, VisibilityFor(false))
}
