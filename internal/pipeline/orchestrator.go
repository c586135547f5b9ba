package pipeline

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/shinji-kodama/template-repo/internal/collector"
	"github.com/shinji-kodama/template-repo/internal/github"
	"github.com/shinji-kodama/template-repo/internal/model"
	"github.com/shinji-kodama/template-repo/internal/packager"
	"github.com/shinji-kodama/template-repo/internal/selector"
)

// Request describes one packaging run. It is built by the CLI from flags
// and the user configuration; the orchestrator does not read either.
type Request struct {
	// Criteria selects the exercises. Exactly one selection mode must be
	// set; see selector.Select.
	Criteria selector.Criteria

	// RepoName is the repository slug to create.
	RepoName string

	// Name is the human-readable template name. It is also the repository
	// description. Empty means "<RepoName> Exercises" with no description.
	Name string

	// Private creates a private repository instead of a public one.
	Private bool

	// Org creates the repository under an organization instead of the
	// authenticated user.
	Org string

	// Template marks the created repository as a template.
	Template bool

	// TemplateRepo generates the repository from an existing template.
	TemplateRepo string

	// IncludeSolutions copies solution notebooks into notebooks/solutions/.
	IncludeSolutions bool

	// OutputDir receives a copy of the finished workspace when set.
	OutputDir string
}

// TemplateName returns the name used in the README and manifest.
func (r Request) TemplateName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.RepoName + " Exercises"
}

// Result describes a finished run.
type Result struct {
	// Exercises are the packaged exercise ids, sorted.
	Exercises []string

	// Repository is the created "owner/name" or bare name.
	Repository string

	// Record is the repository as read back from GitHub; nil in dry-run
	// mode or when it could not be read.
	Record *model.RepositoryRecord

	// Retried is set when creation succeeded after re-authentication.
	Retried bool

	// OutputDir is where the workspace was copied, if anywhere.
	OutputDir string

	// DryRun is set when nothing was published.
	DryRun bool
}

// Orchestrator runs packaging requests against one exercise repository.
//
// It owns one selector, one collector and one packager for that
// repository. An Orchestrator holds no per-run state, so one instance may
// serve several sequential runs.
type Orchestrator struct {
	selector  *selector.Selector
	collector *collector.Collector
	packager  *packager.Packager
	host      HostClient
	prompter  Prompter
	env       Environment
	out       io.Writer
	logger    *log.Logger
	dryRun    bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPackager replaces the default packager for the repository.
func WithPackager(p *packager.Packager) Option {
	return func(o *Orchestrator) { o.packager = p }
}

// WithPrompter sets the prompter used for the re-login offer. The default
// declines.
func WithPrompter(p Prompter) Option {
	return func(o *Orchestrator) { o.prompter = p }
}

// WithEnvironment replaces the process environment.
func WithEnvironment(env Environment) Option {
	return func(o *Orchestrator) { o.env = env }
}

// WithOutput sets where progress lines are printed. The default discards
// them.
func WithOutput(w io.Writer) Option {
	return func(o *Orchestrator) { o.out = w }
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDryRun builds and validates without touching GitHub.
func WithDryRun(dryRun bool) Option {
	return func(o *Orchestrator) { o.dryRun = dryRun }
}

// New creates an Orchestrator for the repository at repoRoot.
//
// Parameters:
//   - repoRoot: absolute path of the exercise repository
//   - host: the GitHub client; it is not called in dry-run mode
//   - opts: optional overrides. Without them, progress output and logs are
//     discarded, the prompter always declines, and the process environment
//     is used.
//
// The packager is created after the options are applied so that it shares
// the configured logger.
func New(repoRoot string, host HostClient, opts ...Option) *Orchestrator {
	sel := selector.New(repoRoot)
	o := &Orchestrator{
		selector:  sel,
		collector: collector.New(repoRoot, sel),
		host:      host,
		prompter:  declinePrompter{},
		env:       OSEnvironment{},
		out:       io.Discard,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.packager == nil {
		o.packager = packager.New(repoRoot, packager.WithLogger(o.logger))
	}
	return o
}

// Selector returns the orchestrator's exercise selector.
func (o *Orchestrator) Selector() *selector.Selector {
	return o.selector
}

// Create runs req end to end and returns what was packaged and published.
//
// Anticipated failures are returned as *model.CLIError, so the caller can
// inspect the kind. A panic anywhere below is recovered here and returned
// as a plain "unexpected error" after its stack is logged at debug level.
// In every case the workspace is gone when Create returns.
func (o *Orchestrator) Create(ctx context.Context, req Request) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Debug("recovered panic", "panic", r, "stack", string(debug.Stack()))
			res, err = nil, fmt.Errorf("unexpected error: %v", r)
		}
	}()
	return o.create(ctx, req)
}

// create is the body of Create without the panic boundary.
//
// Steps:
//  1. Check the repository name. The error suggests a sanitized name
//     when one exists.
//  2. Select exercises. An empty selection is an invalid-selection error.
//  3. Collect every exercise's files, failing on the first missing one.
//  4. Create the workspace and schedule its removal.
//  5. Check the output directory, if one was requested.
//  6. Populate and validate the workspace.
//  7. Print the dry-run summary, or publish.
//  8. Copy the workspace to the output directory, if requested.
//
// Steps 1 to 3 only read the repository, so a bad request fails before
// anything is written.
func (o *Orchestrator) create(ctx context.Context, req Request) (*Result, error) {
	// Step 1: repository name.
	if err := model.CheckRepoName(req.RepoName); err != nil {
		return nil, err
	}

	// Step 2: selection.
	exercises, err := o.selector.Select(req.Criteria)
	if err != nil {
		return nil, err
	}
	if len(exercises) == 0 {
		return nil, model.NewCLIError(model.KindInvalidSelection, "No exercises found matching criteria")
	}
	o.logger.Debug("selected exercises", "count", len(exercises), "ids", strings.Join(exercises, ", "))

	// Step 3: collection.
	files, err := o.collector.CollectMultiple(exercises)
	if err != nil {
		return nil, err
	}

	// Step 4: workspace. From here on every return path, including a
	// panic unwinding through Create, removes it.
	ws, err := o.packager.CreateWorkspace()
	if err != nil {
		return nil, err
	}
	defer o.cleanup(ws)

	// Step 5: the output directory is cleared before the copy at the end
	// of the run, so a directory that holds the repository or this
	// workspace has to be refused now, before anything is published.
	if req.OutputDir != "" {
		if err := o.packager.CheckOutputDir(ws, req.OutputDir); err != nil {
			return nil, err
		}
	}

	// Step 6: populate and validate.
	if err := o.populate(ws, req, files, exercises); err != nil {
		return nil, err
	}

	// Step 7: publish, or describe what would be published.

	res := &Result{Exercises: exercises, DryRun: o.dryRun}
	if o.dryRun {
		fmt.Fprintf(o.out, "[DRY RUN] Would create repository: %s\n", github.RepoRef(req.RepoName, req.Org))
		fmt.Fprintf(o.out, "[DRY RUN] Workspace: %s\n", ws)
		fmt.Fprintf(o.out, "[DRY RUN] Exercises: %s\n", strings.Join(exercises, ", "))
	} else {
		if err := o.publish(ctx, req, ws, res); err != nil {
			return nil, err
		}
	}

	// Step 8: keep a copy outside the workspace. In a real run this
	// happens after publishing, so a failed copy does not undo the
	// repository.
	if req.OutputDir != "" {
		if err := o.packager.Externalize(ws, req.OutputDir); err != nil {
			return nil, err
		}
		res.OutputDir = req.OutputDir
		fmt.Fprintf(o.out, "Output saved to: %s\n", req.OutputDir)
	}
	return res, nil
}

// populate fills ws and validates the result.
//
// Exercise files go in first, then the scaffold and grading harness. The
// README and the manifest are generated after both because they list the
// packaged exercises, and the dev container is renamed last because it
// arrives with the scaffold.
//
// A package that is still missing a required entry afterwards (for
// example, a scaffold without pyproject.toml) is a package-invalid error
// naming every missing entry.
func (o *Orchestrator) populate(ws string, req Request, files map[string]model.FileSet, exercises []string) error {
	name := req.TemplateName()

	if err := o.packager.CopyExerciseFiles(ws, files, req.IncludeSolutions); err != nil {
		return err
	}
	if err := o.packager.CopyTemplateBaseFiles(ws); err != nil {
		return err
	}
	if err := o.packager.GenerateReadme(ws, name, exercises); err != nil {
		return err
	}
	manifest := packager.BuildManifest(name, files, o.selector, req.IncludeSolutions)
	if err := o.packager.WriteManifest(ws, manifest); err != nil {
		return err
	}
	if err := o.packager.RenameDevContainer(ws, name); err != nil {
		return err
	}

	if missing := o.packager.MissingEntries(ws); len(missing) > 0 {
		return model.NewCLIErrorf(model.KindPackageInvalid,
			"Package validation failed: missing %s", strings.Join(missing, ", "))
	}
	o.logger.Debug("package validated successfully", "workspace", ws)
	return nil
}

// cleanup removes ws. It is deferred once per run. A failure only warns;
// the run's result or error is returned unchanged.
func (o *Orchestrator) cleanup(ws string) {
	if err := o.packager.Cleanup(ws); err != nil {
		o.logger.Warn("failed to remove workspace", "path", ws, "err", err)
	}
}
