package pipeline

import (
	"github.com/shinji-kodama/template-repo/internal/selector"
)

// ExerciseCheck is the outcome of checking one exercise's files.
type ExerciseCheck struct {
	// ID is the exercise id that was checked.
	ID string

	// Err is the collector's error for the first missing required file,
	// or nil when the notebook and the test were both found.
	Err error
}

// OK reports whether every required file was found.
func (c ExerciseCheck) OK() bool { return c.Err == nil }

// ValidationReport lists the checked exercises in selection order.
type ValidationReport struct {
	Checks []ExerciseCheck
}

// Failed returns the checks that found missing files.
func (r ValidationReport) Failed() []ExerciseCheck {
	var failed []ExerciseCheck
	for _, c := range r.Checks {
		if !c.OK() {
			failed = append(failed, c)
		}
	}
	return failed
}

// Validate selects exercises and checks each for its required files.
//
// Unlike Create, which stops at the first exercise with a missing file,
// Validate checks every selected exercise so the report lists all problems
// at once. Only selection errors (bad criteria, unknown construct) are
// returned as an error. An empty selection is an empty report, and the
// caller decides how to present it.
//
// Validate reads the repository only. No workspace is created.
func (o *Orchestrator) Validate(criteria selector.Criteria) (*ValidationReport, error) {
	ids, err := o.selector.Select(criteria)
	if err != nil {
		return nil, err
	}

	report := &ValidationReport{Checks: make([]ExerciseCheck, 0, len(ids))}
	for _, id := range ids {
		_, err := o.collector.CollectFiles(id)
		report.Checks = append(report.Checks, ExerciseCheck{ID: id, Err: err})
	}
	return report, nil
}
