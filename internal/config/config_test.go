package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/template-repo/internal/model"
)

// noEnv keeps TEMPLATE_REPO_CONFIG from leaking in from the test host.
func noEnv(string) string { return "" }

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoad_DefaultsWhenNoFile verifies a missing default file is not an
// error.
func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(LoadOptions{Getenv: noEnv})
	require.NoError(t, err)

	want := Defaults()
	assert.Equal(t, &want, cfg)
	assert.Empty(t, cfg.Path)
}

// TestLoad_DefaultPath verifies the file in the home directory is read.
func TestLoad_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, FileName), []byte(`{"org": "school"}`), 0o644))

	cfg, err := Load(LoadOptions{Getenv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, "school", cfg.Org)
	assert.Equal(t, filepath.Join(home, FileName), cfg.Path)
}

// TestLoad_JSONC verifies comments and trailing commas are accepted.
func TestLoad_JSONC(t *testing.T) {
	path := writeConfig(t, `{
  // where repositories are created
  "org": "my-org",
  "private": true,
  /* scaffolding */
  "template": false,
  "include_solutions": false,
  "template_files_dir": "scaffold",
  "repo_root": "/srv/exercises",
}`)

	cfg, err := Load(LoadOptions{Path: path, Getenv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Org:              "my-org",
		Private:          true,
		Template:         false,
		IncludeSolutions: false,
		TemplateFilesDir: "scaffold",
		RepoRoot:         "/srv/exercises",
		Path:             path,
	}, cfg)
}

// TestLoad_PartialFileKeepsDefaults verifies unspecified keys fall back.
func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `{"private": true}`)

	cfg, err := Load(LoadOptions{Path: path, Getenv: noEnv})
	require.NoError(t, err)
	assert.True(t, cfg.Private)
	assert.True(t, cfg.Template)
	assert.True(t, cfg.IncludeSolutions)
	assert.Equal(t, Defaults().TemplateFilesDir, cfg.TemplateFilesDir)
}

// TestLoad_EnvOverridesFile verifies TEMPLATE_REPO_* beats the file.
func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"org": "from-file", "private": false}`)
	t.Setenv("TEMPLATE_REPO_ORG", "from-env")
	t.Setenv("TEMPLATE_REPO_PRIVATE", "true")

	cfg, err := Load(LoadOptions{Path: path, Getenv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Org)
	assert.True(t, cfg.Private)
}

// TestLoad_PathFromEnvironment verifies TEMPLATE_REPO_CONFIG selects the
// file when no explicit path is given.
func TestLoad_PathFromEnvironment(t *testing.T) {
	path := writeConfig(t, `{"org": "env-file"}`)
	getenv := func(key string) string {
		if key == PathEnv {
			return path
		}
		return ""
	}

	cfg, err := Load(LoadOptions{Getenv: getenv})
	require.NoError(t, err)
	assert.Equal(t, "env-file", cfg.Org)
	assert.Equal(t, path, cfg.Path)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("explicit path missing", func(t *testing.T) {
		_, err := Load(LoadOptions{Path: filepath.Join(t.TempDir(), "nope.json"), Getenv: noEnv})
		require.Error(t, err)
		assert.True(t, model.IsKind(err, model.KindInvalidArgument))
		assert.Contains(t, err.Error(), "config file not found")
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeConfig(t, `{"org": `)
		_, err := Load(LoadOptions{Path: path, Getenv: noEnv})
		require.Error(t, err)
		assert.True(t, model.IsKind(err, model.KindInvalidArgument))
		assert.Contains(t, err.Error(), "invalid config file")
	})
}
