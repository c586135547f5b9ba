package selector

import (
	"reflect"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/shinji-kodama/template-repo/internal/testutil"
)

// TestSelectorProperties checks determinism and that construct selection
// distributes over union.
func TestSelectorProperties(t *testing.T) {
	repo := testutil.NewExerciseRepo(t)
	s := New(repo.Root)

	constructs := gen.OneConstOf("sequence", "selection", "iteration", "lists", "oop")
	properties := gopter.NewProperties(nil)

	properties.Property("construct selection is deterministic", prop.ForAll(
		func(c string) bool {
			first, err1 := s.SelectByConstruct([]string{c})
			second, err2 := s.SelectByConstruct([]string{c})
			return err1 == nil && err2 == nil && reflect.DeepEqual(first, second)
		},
		constructs,
	))

	properties.Property("selection of a union is the union of selections", prop.ForAll(
		func(a, b string) bool {
			left, err := s.SelectByConstruct([]string{a})
			if err != nil {
				return false
			}
			right, err := s.SelectByConstruct([]string{b})
			if err != nil {
				return false
			}
			both, err := s.SelectByConstruct([]string{a, b})
			if err != nil {
				return false
			}
			return reflect.DeepEqual(union(left, right), both)
		},
		constructs,
		constructs,
	))

	properties.Property("results are sorted", prop.ForAll(
		func(pattern string) bool {
			got, err := s.SelectByPattern(pattern)
			return err == nil && sort.StringsAreSorted(got)
		},
		gen.OneConstOf("ex*", "ex00?_*", "*_make_*", "ex[01]*", "zzz*"),
	))

	properties.TestingRun(t)
}

func union(a, b []string) []string {
	return sortUnique(append(append([]string{}, a...), b...))
}
