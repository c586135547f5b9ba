// Package config loads user defaults for the CLI.
//
// Values are layered, lowest precedence first:
//
//  1. built-in defaults (Defaults)
//  2. the config file, JSON with comments allowed (~/.template_repo_cli.json)
//  3. TEMPLATE_REPO_* environment variables, e.g. TEMPLATE_REPO_ORG
//
// Command-line flags are applied on top by the CLI, which only overrides a
// value when the flag was set explicitly.
//
// Example config file:
//
//	{
//	  // Default owner for new repositories
//	  "org": "my-school",
//	  "private": true,
//	  "include_solutions": false
//	}
//
// Unknown keys are ignored.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/template-repo/internal/model"
	"github.com/shinji-kodama/template-repo/internal/packager"
)

const (
	// FileName is the config file looked up in the home directory.
	FileName = ".template_repo_cli.json"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "TEMPLATE_REPO"

	// PathEnv names a config file to use instead of the default one.
	PathEnv = EnvPrefix + "_CONFIG"
)

// Config keys, shared by the file, the environment and SetDefault.
const (
	KeyOrg              = "org"
	KeyPrivate          = "private"
	KeyTemplate         = "template"
	KeyIncludeSolutions = "include_solutions"
	KeyTemplateFilesDir = "template_files_dir"
	KeyRepoRoot         = "repo_root"
)

// Config holds the user defaults for create, list and validate.
type Config struct {
	// Org owns created repositories. Empty means the authenticated user.
	Org string `mapstructure:"org" json:"org"`

	// Private makes created repositories private.
	Private bool `mapstructure:"private" json:"private"`

	// Template marks created repositories as templates.
	Template bool `mapstructure:"template" json:"template"`

	// IncludeSolutions copies solution notebooks into the package.
	IncludeSolutions bool `mapstructure:"include_solutions" json:"include_solutions"`

	// TemplateFilesDir is the scaffold directory, relative to RepoRoot.
	TemplateFilesDir string `mapstructure:"template_files_dir" json:"template_files_dir"`

	// RepoRoot is the exercise repository. Empty means the working directory.
	RepoRoot string `mapstructure:"repo_root" json:"repo_root"`

	// Path is the config file that was read; empty when none was found.
	Path string `mapstructure:"-" json:"-"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Template:         true,
		IncludeSolutions: true,
		TemplateFilesDir: packager.DefaultTemplateDir,
	}
}

// DefaultPath returns ~/.template_repo_cli.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// LoadOptions control Load.
type LoadOptions struct {
	// Path is an explicit config file (--config). It must exist.
	Path string

	// Getenv reads the environment; nil means os.Getenv. Only PathEnv is
	// read through it, TEMPLATE_REPO_* overrides go through viper.
	Getenv func(string) string
}

// Load resolves the configuration. A missing default config file is not an
// error; a missing explicit one is.
//
// The config file is chosen in this order:
//  1. opts.Path (the --config flag)
//  2. the file named by TEMPLATE_REPO_CONFIG
//  3. ~/.template_repo_cli.json
//
// Errors are *model.CLIError values: KindInvalidArgument for a missing
// explicit file or unparseable content, KindFilesystem for read failures.
func Load(opts LoadOptions) (*Config, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	// Step 1: Register defaults so every key is known to viper, which
	// AutomaticEnv needs to resolve TEMPLATE_REPO_* during Unmarshal.
	v := viper.New()
	defaults := Defaults()
	v.SetDefault(KeyOrg, defaults.Org)
	v.SetDefault(KeyPrivate, defaults.Private)
	v.SetDefault(KeyTemplate, defaults.Template)
	v.SetDefault(KeyIncludeSolutions, defaults.IncludeSolutions)
	v.SetDefault(KeyTemplateFilesDir, defaults.TemplateFilesDir)
	v.SetDefault(KeyRepoRoot, defaults.RepoRoot)

	// Step 2: Pick the config file. Only the default location may be absent.
	path, explicit := opts.Path, opts.Path != ""
	if !explicit {
		if p := getenv(PathEnv); p != "" {
			path, explicit = p, true
		}
	}
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	// Step 3: Merge the file, if any.
	resolved, err := readFile(v, path, explicit)
	if err != nil {
		return nil, err
	}

	// Step 4: Environment overrides win over the file.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, model.WrapCLIError(model.KindInvalidArgument, "failed to parse config", err)
	}
	cfg.Path = resolved
	return &cfg, nil
}

// readFile merges path into v and returns it, or returns "" when an
// implicit path does not exist.
func readFile(v *viper.Viper, path string, explicit bool) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return "", nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return "", model.NewCLIErrorf(model.KindInvalidArgument, "config file not found: %s", path)
		}
		return "", model.WrapCLIError(model.KindFilesystem, fmt.Sprintf("failed to read config file %s", path), err)
	}

	v.SetConfigType("json")
	// viper's JSON decoder rejects comments and trailing commas; jsonc
	// strips them first.
	if err := v.ReadConfig(bytes.NewReader(jsonc.ToJSON(data))); err != nil {
		return "", model.WrapCLIError(model.KindInvalidArgument, fmt.Sprintf("invalid config file %s", path), err)
	}
	return path, nil
}
