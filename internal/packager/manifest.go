package packager

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/template-repo/internal/model"
)

// ManifestFile is written at the workspace root. It records the package
// contents for tools; the README is the human-readable counterpart.
const ManifestFile = "exercises.yml"

// manifestHeader marks the manifest as generated so it is not hand-edited
// in the published repository.
const manifestHeader = "# Auto-generated by template-repo. Do not edit.\n"

// Manifest lists the exercises packaged into a workspace.
//
// Example:
//
//	# Auto-generated by template-repo. Do not edit.
//	name: Loops Practice
//	exercises:
//	    - id: ex010_iteration_make_loops
//	      construct: iteration
//	      type: make
//	      solution: true
type Manifest struct {
	// Name is the package's display name, as used in the README.
	Name string `yaml:"name"`

	// Exercises are sorted by id.
	Exercises []ManifestEntry `yaml:"exercises"`
}

// ManifestEntry describes one packaged exercise.
type ManifestEntry struct {
	// ID is the exercise id.
	ID string `yaml:"id"`

	// Construct and Type are the taxonomy placement. Both are omitted for
	// exercises kept outside the taxonomy.
	Construct model.Construct    `yaml:"construct,omitempty"`
	Type      model.ExerciseType `yaml:"type,omitempty"`

	// Solution reports whether notebooks/solutions/<id>.ipynb is in the
	// package.
	Solution bool `yaml:"solution"`
}

// Locator finds the taxonomy placement of an exercise.
type Locator interface {
	Locate(id string) (model.Location, bool)
}

// BuildManifest describes files in id order. Taxonomy placement comes from
// locator and is left empty for exercises it cannot place, or when locator
// is nil.
//
// Solution is true only when includeSolutions is set and the exercise has
// a solution file, which is exactly when CopyExerciseFiles copies one.
func BuildManifest(name string, files map[string]model.FileSet, locator Locator, includeSolutions bool) Manifest {
	m := Manifest{Name: name, Exercises: make([]ManifestEntry, 0, len(files))}
	for _, id := range model.SortedIDs(files) {
		entry := ManifestEntry{
			ID:       id,
			Solution: includeSolutions && files[id].Has(model.RoleSolution),
		}
		if locator != nil {
			if loc, ok := locator.Locate(id); ok && loc.Categorized() {
				entry.Construct = loc.Construct
				entry.Type = loc.Type
			}
		}
		m.Exercises = append(m.Exercises, entry)
	}
	return m
}

// WriteManifest serializes m to exercises.yml at the workspace root,
// preceded by a one-line "generated" header comment. An existing manifest
// is replaced.
func (p *Packager) WriteManifest(workspace string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	content := append([]byte(manifestHeader), data...)
	path := filepath.Join(workspace, ManifestFile)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return model.WrapCLIError(model.KindFilesystem, fmt.Sprintf("failed to write %s", ManifestFile), err)
	}
	return nil
}

// ReadManifest parses exercises.yml from workspace, or from any directory
// holding an exported package. The header comment is ignored by the YAML
// parser. A missing or malformed file is an error.
func ReadManifest(workspace string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(filepath.Join(workspace, ManifestFile))
	if err != nil {
		return m, fmt.Errorf("failed to read %s: %w", ManifestFile, err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to parse %s: %w", ManifestFile, err)
	}
	return m, nil
}
