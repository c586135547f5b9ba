package model

import (
	"fmt"
	"regexp"
	"sort"
)

// Construct is a pedagogical programming-concept category. It forms the
// first axis of the exercise taxonomy and maps to the first directory level
// under exercises/.
type Construct string

// Construct values. Each value is also the directory name used on disk,
// so the spelling is fixed.
const (
	ConstructSequence     Construct = "sequence"
	ConstructSelection    Construct = "selection"
	ConstructIteration    Construct = "iteration"
	ConstructDataTypes    Construct = "data_types"
	ConstructLists        Construct = "lists"
	ConstructDictionaries Construct = "dictionaries"
	ConstructFunctions    Construct = "functions"
	ConstructFileHandling Construct = "file_handling"
	ConstructExceptions   Construct = "exceptions"
	ConstructLibraries    Construct = "libraries"
	ConstructOOP          Construct = "oop"
)

// Constructs lists every valid construct in curriculum order.
// The order is also the order used by the listing commands and by the
// generated README, so new constructs go where they are taught.
var Constructs = []Construct{
	ConstructSequence,
	ConstructSelection,
	ConstructIteration,
	ConstructDataTypes,
	ConstructLists,
	ConstructDictionaries,
	ConstructFunctions,
	ConstructFileHandling,
	ConstructExceptions,
	ConstructLibraries,
	ConstructOOP,
}

// String returns the directory name of the construct.
func (c Construct) String() string {
	return string(c)
}

// IsValid reports whether c is one of the predefined constructs.
// The comparison is case-sensitive: "Sequence" is not a construct.
func (c Construct) IsValid() bool {
	for _, known := range Constructs {
		if c == known {
			return true
		}
	}
	return false
}

// ParseConstruct converts a string to a Construct.
// Unlike the other Parse helpers no case folding is applied, because the
// construct doubles as a directory name on disk.
func ParseConstruct(s string) (Construct, error) {
	c := Construct(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid construct: %q", s)
	}
	return c, nil
}

// ExerciseType is the pedagogical mode of an exercise. It forms the second
// axis of the taxonomy.
type ExerciseType string

const (
	// TypeDebug exercises hand the student broken code to repair.
	TypeDebug ExerciseType = "debug"

	// TypeModify exercises ask the student to change working code.
	TypeModify ExerciseType = "modify"

	// TypeMake exercises start from a blank cell.
	TypeMake ExerciseType = "make"
)

// ExerciseTypes lists every valid exercise type.
var ExerciseTypes = []ExerciseType{TypeDebug, TypeModify, TypeMake}

// String returns the directory name of the exercise type.
func (t ExerciseType) String() string {
	return string(t)
}

// IsValid reports whether t is one of the predefined exercise types.
func (t ExerciseType) IsValid() bool {
	switch t {
	case TypeDebug, TypeModify, TypeMake:
		return true
	default:
		return false
	}
}

// ParseExerciseType converts a string to an ExerciseType (case-sensitive).
func ParseExerciseType(s string) (ExerciseType, error) {
	t := ExerciseType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid type: %q", s)
	}
	return t, nil
}

// exerciseIDRegex recognizes exercise directories and notebook stems during
// directory scans: "ex" followed by exactly three digits, then any slug.
var exerciseIDRegex = regexp.MustCompile(`^ex\d{3}`)

// IsExerciseID reports whether name is recognized as an exercise identifier.
// It only checks the prefix, so "ex001" and "ex001_sanity" both qualify.
// Use ValidateExerciseID for user input, which also rejects path separators.
func IsExerciseID(name string) bool {
	return exerciseIDRegex.MatchString(name)
}

// Role names one constituent file of an exercise.
type Role string

const (
	// RoleNotebook is the student notebook under notebooks/.
	RoleNotebook Role = "notebook"

	// RoleSolution is the worked answer under notebooks/solutions/.
	RoleSolution Role = "solution"

	// RoleTest is the pytest module under tests/.
	RoleTest Role = "test"

	// RoleMetadata is the README inside the exercise directory.
	RoleMetadata Role = "metadata"
)

// FileSet records where each constituent file of one exercise lives.
// Notebook and Test are always set for a FileSet returned by the collector.
// Solution and Metadata are empty strings when the file does not exist.
type FileSet struct {
	// ID is the exercise identifier the files belong to.
	ID string `json:"id" yaml:"id"`

	// Notebook is the path of the student notebook. Always set.
	Notebook string `json:"notebook" yaml:"notebook"`

	// Solution is the path of the solution notebook, or "" when the
	// exercise ships without one.
	Solution string `json:"solution,omitempty" yaml:"solution,omitempty"`

	// Test is the path of the pytest module. Always set.
	Test string `json:"test" yaml:"test"`

	// Metadata is the path of the exercise README, or "" when the exercise
	// directory has none.
	Metadata string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Has reports whether the given role is present in the set.
func (f FileSet) Has(role Role) bool {
	return f.Path(role) != ""
}

// Path returns the path recorded for role, or "" if the role is absent.
func (f FileSet) Path(role Role) string {
	switch role {
	case RoleNotebook:
		return f.Notebook
	case RoleSolution:
		return f.Solution
	case RoleTest:
		return f.Test
	case RoleMetadata:
		return f.Metadata
	default:
		return ""
	}
}

// Paths returns the present roles as a map. Absent roles are omitted.
func (f FileSet) Paths() map[Role]string {
	paths := make(map[Role]string, 4)
	// Role order does not matter for a map; the slice only enumerates them.
	for _, role := range []Role{RoleNotebook, RoleSolution, RoleTest, RoleMetadata} {
		if p := f.Path(role); p != "" {
			paths[role] = p
		}
	}
	return paths
}

// SortedIDs returns the keys of a collected FileSet mapping in ascending
// order. Callers iterate this instead of the map to keep output stable.
func SortedIDs(files map[string]FileSet) []string {
	ids := make([]string, 0, len(files))
	for id := range files {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Location is the taxonomy placement of one exercise.
type Location struct {
	// Construct is the first directory level, or "" when uncategorized.
	Construct Construct `json:"construct,omitempty" yaml:"construct,omitempty"`

	// Type is the second directory level, or "" when uncategorized.
	Type ExerciseType `json:"type,omitempty" yaml:"type,omitempty"`

	// Dir is the exercise directory on disk.
	Dir string `json:"-" yaml:"-"`
}

// Categorized reports whether the location carries a construct and a type.
// Exercises kept directly under exercises/<id>/ are located but uncategorized.
func (l Location) Categorized() bool {
	return l.Construct != "" && l.Type != ""
}
