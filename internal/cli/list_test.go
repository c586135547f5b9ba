package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/template-repo/internal/model"
	"github.com/shinji-kodama/template-repo/internal/testutil"
)

var allExerciseIDs = []string{
	"ex001_sanity",
	"ex002_sequence_modify_basics",
	"ex003_sequence_modify_variables",
	"ex004_sequence_debug_syntax",
	"ex006_selection_make_grades",
	"ex010_iteration_make_loops",
}

func TestList_Default(t *testing.T) {
	repo := testutil.NewExerciseRepo(t)

	res := runCLI(t, "", "--repo-root", repo.Root, "list")
	require.NoError(t, res.err)
	assert.Equal(t, strings.Join(allExerciseIDs, "\n")+"\n", res.stdout)
}

func TestList_Filters(t *testing.T) {
	repo := testutil.NewExerciseRepo(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"construct", []string{"--construct", "sequence"}, allExerciseIDs[1:4]},
		{"type", []string{"--type", "make"}, []string{"ex006_selection_make_grades", "ex010_iteration_make_loops"}},
		{"construct and type", []string{"--construct", "sequence", "--type", "debug"}, []string{"ex004_sequence_debug_syntax"}},
		{"empty combination", []string{"--construct", "selection", "--type", "debug"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", append([]string{"--repo-root", repo.Root, "list"}, tt.args...)...)
			require.NoError(t, res.err)
			assert.Equal(t, tt.want, strings.Fields(res.stdout))
		})
	}
}

func TestList_Formats(t *testing.T) {
	repo := testutil.NewExerciseRepo(t)

	t.Run("json", func(t *testing.T) {
		res := runCLI(t, "", "--repo-root", repo.Root, "list", "--format", "json")
		require.NoError(t, res.err)

		var entries []listEntry
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &entries))
		require.Len(t, entries, len(allExerciseIDs))
		assert.Equal(t, listEntry{ID: "ex001_sanity"}, entries[0])
		assert.Equal(t, listEntry{ID: "ex002_sequence_modify_basics", Construct: "sequence", Type: "modify"}, entries[1])
	})

	t.Run("json empty is an array", func(t *testing.T) {
		res := runCLI(t, "", "--repo-root", repo.Root, "list", "--construct", "selection", "--type", "debug", "--format", "json")
		require.NoError(t, res.err)
		assert.Equal(t, "[]\n", res.stdout)
	})

	t.Run("yaml", func(t *testing.T) {
		res := runCLI(t, "", "--repo-root", repo.Root, "list", "--type", "make", "--format", "yaml")
		require.NoError(t, res.err)

		var entries []listEntry
		require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &entries))
		assert.Equal(t, []listEntry{
			{ID: "ex006_selection_make_grades", Construct: "selection", Type: "make"},
			{ID: "ex010_iteration_make_loops", Construct: "iteration", Type: "make"},
		}, entries)
	})

	t.Run("table", func(t *testing.T) {
		res := runCLI(t, "", "--repo-root", repo.Root, "list", "--format", "table")
		require.NoError(t, res.err)

		lines := strings.Split(strings.TrimRight(res.stdout, "\n"), "\n")
		require.Len(t, lines, len(allExerciseIDs)+1)
		assert.Equal(t, []string{"EXERCISE", "ID", "CONSTRUCT", "TYPE"}, strings.Fields(lines[0]))
		assert.Equal(t, []string{"ex001_sanity", "-", "-"}, strings.Fields(lines[1]))
		assert.Equal(t, []string{"ex004_sequence_debug_syntax", "sequence", "debug"}, strings.Fields(lines[4]))
	})

	t.Run("invalid format", func(t *testing.T) {
		res := runCLI(t, "", "--repo-root", repo.Root, "list", "--format", "xml")
		require.Error(t, res.err)
		assert.True(t, model.IsKind(res.err, model.KindInvalidArgument))
	})
}

func TestList_InvalidFilter(t *testing.T) {
	repo := testutil.NewExerciseRepo(t)

	res := runCLI(t, "", "--repo-root", repo.Root, "list", "--type", "refactor")
	require.Error(t, res.err)
	assert.True(t, model.IsKind(res.err, model.KindInvalidSelection))
}
