package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/template-repo/internal/model"
	"github.com/shinji-kodama/template-repo/internal/selector"
)

func TestValidate_AllPresent(t *testing.T) {
	h := newHarness(t, false)

	report, err := h.orch.Validate(selector.Criteria{Constructs: []string{"sequence"}})
	require.NoError(t, err)
	require.Len(t, report.Checks, 3)
	assert.Empty(t, report.Failed())
	assert.Empty(t, h.host.calls)
}

// TestValidate_ReportsEveryMissing verifies checking continues past the
// first failure.
func TestValidate_ReportsEveryMissing(t *testing.T) {
	h := newHarness(t, false)
	h.repo.Remove("tests/test_ex002_sequence_modify_basics.py")
	h.repo.Remove("notebooks/ex004_sequence_debug_syntax.ipynb")

	report, err := h.orch.Validate(selector.Criteria{Constructs: []string{"sequence"}})
	require.NoError(t, err)

	failed := report.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, "ex002_sequence_modify_basics", failed[0].ID)
	assert.True(t, model.IsKind(failed[0].Err, model.KindMissingFile))
	assert.Equal(t, "ex004_sequence_debug_syntax", failed[1].ID)
	assert.Contains(t, failed[1].Err.Error(), "notebook not found")
}

func TestValidate_SelectionErrors(t *testing.T) {
	h := newHarness(t, false)

	_, err := h.orch.Validate(selector.Criteria{})
	assert.True(t, model.IsKind(err, model.KindInvalidSelection))

	report, err := h.orch.Validate(selector.Criteria{Notebooks: []string{"ex9*"}})
	require.NoError(t, err)
	assert.Empty(t, report.Checks)
}
