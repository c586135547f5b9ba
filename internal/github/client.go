package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/shinji-kodama/template-repo/internal/model"
)

// DefaultScopes are the token scopes required to create repositories.
// "repo" covers both public and private repositories and pushing to them.
var DefaultScopes = []string{"repo"}

// Client issues gh and git commands through a Runner.
//
// A Client holds no connection or session. Every method starts the
// commands it needs, so the login state it sees is whatever gh reports at
// that moment.
type Client struct {
	// runner executes the commands. ExecRunner in production.
	runner Runner

	// dryRun short-circuits CreateRepository. Read-only checks still run.
	dryRun bool

	// logger receives one debug line per command and per failure.
	logger *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithDryRun makes CreateRepository return a synthetic success without
// running anything.
func WithDryRun(dryRun bool) Option {
	return func(c *Client) { c.dryRun = dryRun }
}

// WithLogger sets the logger used for command tracing.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client. A nil runner selects ExecRunner.
func NewClient(runner Runner, opts ...Option) *Client {
	if runner == nil {
		runner = ExecRunner{}
	}
	c := &Client{runner: runner, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DryRun reports whether the client is in dry-run mode.
func (c *Client) DryRun() bool {
	return c.dryRun
}

// ExecuteCommand runs argv and returns its outcome.
//
// It never returns a Go error: a non-zero exit and an unexecutable command
// are both reported in the Result, and the caller decides whether that is
// a failure. Every command is logged at debug level before it runs, and
// again with its error text when it does not succeed.
func (c *Client) ExecuteCommand(ctx context.Context, argv []string) Result {
	c.logger.Debug("running command", "cmd", strings.Join(argv, " "))
	res := c.runner.Run(ctx, argv)
	if res.Command == nil {
		res.Command = argv
	}
	if !res.Success() {
		c.logger.Debug("command failed", "cmd", strings.Join(argv, " "), "exit", res.ExitCode, "error", res.ErrorText())
	}
	return res
}

// CheckGHInstalled reports whether gh can be executed. "gh --version"
// needs no login and no network.
func (c *Client) CheckGHInstalled(ctx context.Context) bool {
	return c.ExecuteCommand(ctx, []string{"gh", "--version"}).Success()
}

// CheckAuthentication reports whether gh has a logged-in account.
// "gh auth status" exits non-zero when no host is logged in, and also when
// gh itself is missing; both read as false.
func (c *Client) CheckAuthentication(ctx context.Context) bool {
	return c.ExecuteCommand(ctx, []string{"gh", "auth", "status"}).Success()
}

// ScopeCheck is the result of CheckScopes.
type ScopeCheck struct {
	// Authenticated is false when "gh auth status" failed.
	Authenticated bool `json:"authenticated"`

	// HasScopes is true when MissingScopes is empty. It is always false
	// when Authenticated is false.
	HasScopes bool `json:"has_scopes"`

	// Scopes lists the token's scopes as gh printed them, deduplicated.
	Scopes []string `json:"scopes"`

	// MissingScopes lists the required scopes not in Scopes, in the order
	// they were required.
	MissingScopes []string `json:"missing_scopes"`
}

// scopesLineRegex captures the list after the "Token scopes:" label of
// "gh auth status" output.
var scopesLineRegex = regexp.MustCompile(`(?i)token scopes:\s*(.*)`)

// CheckScopes reads the token scopes from "gh auth status" and compares
// them against required (DefaultScopes when empty).
//
// gh prints a block per logged-in host, each with a line such as:
//
//	Token scopes: 'gist', 'read:org', 'repo', 'workflow'
//
// Older releases print the list without quotes, and some print the whole
// status to stderr instead of stdout. Both streams are scanned and every
// "Token scopes:" line contributes. A token from GITHUB_TOKEN or GH_TOKEN
// that gh cannot inspect prints no scopes line at all, which reads as
// "authenticated, no scopes".
//
// When gh reports no login, every required scope is missing. CheckScopes
// never fails.
func (c *Client) CheckScopes(ctx context.Context, required ...string) ScopeCheck {
	if len(required) == 0 {
		required = DefaultScopes
	}

	res := c.ExecuteCommand(ctx, []string{"gh", "auth", "status"})
	check := ScopeCheck{Scopes: []string{}}
	if !res.Success() {
		check.MissingScopes = append([]string{}, required...)
		return check
	}

	check.Authenticated = true
	// gh has printed the status to stderr and stdout in different releases.
	check.Scopes = ParseScopes(res.Stdout + "\n" + res.Stderr)

	// Compare as a set. The missing list keeps the order of required so
	// messages built from it are stable.
	have := make(map[string]bool, len(check.Scopes))
	for _, s := range check.Scopes {
		have[s] = true
	}
	check.MissingScopes = []string{}
	for _, s := range required {
		if !have[s] {
			check.MissingScopes = append(check.MissingScopes, s)
		}
	}
	check.HasScopes = len(check.MissingScopes) == 0
	return check
}

// ParseScopes extracts scope names from status output.
//
// Only the text after a "Token scopes:" label is read, case-insensitively.
// The list is comma separated; each scope may be wrapped in single quotes,
// double quotes, backticks or nothing. Empty items are dropped, and a
// scope repeated across hosts is listed once, in first-seen order.
func ParseScopes(output string) []string {
	scopes := []string{}
	for _, line := range strings.Split(output, "\n") {
		m := scopesLineRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		for _, part := range strings.Split(m[1], ",") {
			scope := strings.Trim(strings.TrimSpace(part), `'"`+"`")
			if scope != "" && !contains(scopes, scope) {
				scopes = append(scopes, scope)
			}
		}
	}
	return scopes
}

// ParseJSONOutput decodes a JSON object from command output. Invalid JSON
// is an invalid-response error, and so is a literal null, which
// json.Unmarshal would otherwise accept as an empty object.
func (c *Client) ParseJSONOutput(output string) (map[string]interface{}, error) {
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		return nil, model.WrapCLIError(model.KindInvalidResponse, "failed to parse gh JSON output", err)
	}
	if parsed == nil {
		return nil, model.NewCLIError(model.KindInvalidResponse, "gh returned null instead of a JSON object")
	}
	return parsed, nil
}

// CreateCommandOptions are the inputs of BuildCreateCommand.
type CreateCommandOptions struct {
	// Name is the repository name without owner.
	Name string

	// Private selects --private; otherwise --public is passed. gh asks
	// interactively when neither is given, so one is always set.
	Private bool

	// Org prefixes the name as "org/name".
	Org string

	// TemplateRepo is an "owner/name" template to generate from.
	TemplateRepo string

	// Description is passed with --description when non-empty.
	Description string

	// SourcePath, when set, adds --source and --push together. gh rejects
	// --push without --source, and a source without a push would leave the
	// new repository empty.
	SourcePath string
}

// RepoRef returns "org/name", or name when org is empty.
func RepoRef(name, org string) string {
	if org == "" {
		return name
	}
	return org + "/" + name
}

// BuildCreateCommand returns the "gh repo create" argument vector for opts.
//
// The output depends only on opts, so it can be logged or printed in dry
// run mode exactly as it would run. Flag order is fixed:
//
//	gh repo create [org/]name --public|--private [--template T]
//	    [--description D] [--source S --push]
func (c *Client) BuildCreateCommand(opts CreateCommandOptions) []string {
	cmd := []string{"gh", "repo", "create", RepoRef(opts.Name, opts.Org)}

	if opts.Private {
		cmd = append(cmd, "--private")
	} else {
		cmd = append(cmd, "--public")
	}
	if opts.TemplateRepo != "" {
		cmd = append(cmd, "--template", opts.TemplateRepo)
	}
	if opts.Description != "" {
		cmd = append(cmd, "--description", opts.Description)
	}
	if opts.SourcePath != "" {
		cmd = append(cmd, "--source", opts.SourcePath, "--push")
	}
	return cmd
}

// CreateOptions control CreateRepository.
type CreateOptions struct {
	// Private creates a private repository.
	Private bool

	// Template marks the new repository as a reusable template.
	Template bool

	// TemplateRepo generates the new repository from an existing template.
	TemplateRepo string

	// Org owns the repository. Empty means the authenticated user.
	Org string

	// Description is the repository description shown on GitHub.
	Description string

	// SkipGitOperations reuses a workspace that an earlier attempt has
	// already initialized and committed.
	SkipGitOperations bool
}

// CreateResult describes a repository creation.
type CreateResult struct {
	// Repository is the "owner/name" (or bare name) reference.
	Repository string

	// Command is the create command that was (or would have been) run.
	Command []string

	// DryRun is set when nothing was executed.
	DryRun bool

	// Output is the create command's stdout, typically the repository URL.
	Output string
}

// CreateRepository publishes workspace as a new repository. See the
// package documentation for the command sequence.
//
// Parameters:
//   - name: the repository name, without owner
//   - workspace: the directory to commit and push
//   - opts: visibility, owner, template options, and whether the git
//     steps have already run
//
// In dry-run mode nothing is executed; the result carries the command that
// would have run. The returned CreateResult is filled in as far as the
// sequence got, so a caller can still name the repository after a late
// failure.
//
// When marking the repository as a template fails, the returned error says
// so and names the repository, which is left in place.
func (c *Client) CreateRepository(ctx context.Context, name, workspace string, opts CreateOptions) (CreateResult, error) {
	cmd := c.BuildCreateCommand(CreateCommandOptions{
		Name:         name,
		Private:      opts.Private,
		Org:          opts.Org,
		TemplateRepo: opts.TemplateRepo,
		Description:  opts.Description,
		SourcePath:   workspace,
	})
	result := CreateResult{Repository: RepoRef(name, opts.Org), Command: cmd}

	if c.dryRun {
		result.DryRun = true
		c.logger.Debug("dry run, not creating repository", "cmd", strings.Join(cmd, " "))
		return result, nil
	}

	// Step 1: local commit. A retry after re-authentication reuses the
	// commit made by the first attempt.
	if !opts.SkipGitOperations {
		if err := c.InitGitRepo(ctx, workspace); err != nil {
			return result, err
		}
		if err := c.CommitFiles(ctx, workspace, "Initial commit"); err != nil {
			return result, err
		}
	}

	// Step 2: create and push. The error text is kept verbatim so the
	// caller can classify it.
	res := c.ExecuteCommand(ctx, cmd)
	if !res.Success() {
		return result, model.WrapCLIError(model.KindHostCommand,
			fmt.Sprintf("failed to create repository %s", result.Repository),
			errors.New(res.ErrorText()))
	}
	result.Output = strings.TrimSpace(res.Stdout)
	c.logger.Info("created repository", "repo", result.Repository)

	// Step 3: template flag. The repository exists from here on.
	if opts.Template {
		if err := c.MarkRepositoryAsTemplate(ctx, name, opts.Org); err != nil {
			return result, model.WrapCLIError(model.KindHostCommand,
				fmt.Sprintf("repository %s was created but could not be marked as a template; "+
					"mark it manually or delete it before retrying", result.Repository),
				err)
		}
	}
	return result, nil
}

// MarkRepositoryAsTemplate runs "gh repo edit <owner/name> --template".
//
// "gh repo edit" needs a fully qualified reference. Without an org the
// owner is the authenticated account, looked up first with CurrentUser;
// a failed lookup is returned as is and nothing is edited.
func (c *Client) MarkRepositoryAsTemplate(ctx context.Context, name, org string) error {
	owner := org
	if owner == "" {
		user, err := c.CurrentUser(ctx)
		if err != nil {
			return err
		}
		owner = user
	}

	ref := RepoRef(name, owner)
	res := c.ExecuteCommand(ctx, []string{"gh", "repo", "edit", ref, "--template"})
	if !res.Success() {
		return model.WrapCLIError(model.KindHostCommand,
			fmt.Sprintf("failed to mark %s as a template", ref), errors.New(res.ErrorText()))
	}
	return nil
}

// CurrentUser returns the login of the authenticated account, read with
// "gh api user --jq .login". Empty output counts as a failure, since gh
// prints nothing when the token cannot read the user.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	res := c.ExecuteCommand(ctx, []string{"gh", "api", "user", "--jq", ".login"})
	login := strings.TrimSpace(res.Stdout)
	if !res.Success() || login == "" {
		return "", model.WrapCLIError(model.KindIdentityUnresolved,
			"Failed to get authenticated user", errors.New(res.ErrorText()))
	}
	return login, nil
}

// repoViewFields are requested from "gh repo view --json".
const repoViewFields = "name,owner,visibility,isTemplate,url,templateRepository"

// executeJSON runs argv and, when it succeeds, decodes stdout into the
// result's JSON field. A failed command is returned as is with a nil
// error so the caller can word its own message; undecodable output is an
// invalid-response error.
func (c *Client) executeJSON(ctx context.Context, argv []string) (Result, error) {
	res := c.ExecuteCommand(ctx, argv)
	if !res.Success() {
		return res, nil
	}
	parsed, err := c.ParseJSONOutput(res.Stdout)
	if err != nil {
		return res, err
	}
	res.JSON = parsed
	return res, nil
}

// ViewRepository reads a repository's current state from the host.
//
// gh reports visibility in upper case ("PRIVATE"); the record stores it
// lower-cased. templateRepository is null for repositories that were not
// generated from a template, which leaves TemplateOf empty.
func (c *Client) ViewRepository(ctx context.Context, ref string) (model.RepositoryRecord, error) {
	res, err := c.executeJSON(ctx, []string{"gh", "repo", "view", ref, "--json", repoViewFields})
	if err != nil {
		return model.RepositoryRecord{}, model.WrapCLIError(model.KindInvalidResponse,
			fmt.Sprintf("invalid response for repository %s", ref), err)
	}
	if !res.Success() {
		return model.RepositoryRecord{}, model.WrapCLIError(model.KindHostCommand,
			fmt.Sprintf("failed to view repository %s", ref), errors.New(res.ErrorText()))
	}

	isTemplate, _ := res.JSON["isTemplate"].(bool)
	record := model.RepositoryRecord{
		Name:       jsonString(res.JSON, "name"),
		Owner:      jsonString(res.JSON, "owner", "login"),
		Visibility: model.Visibility(strings.ToLower(jsonString(res.JSON, "visibility"))),
		IsTemplate: isTemplate,
		URL:        jsonString(res.JSON, "url"),
	}
	if name := jsonString(res.JSON, "templateRepository", "name"); name != "" {
		record.TemplateOf = RepoRef(name, jsonString(res.JSON, "templateRepository", "owner", "login"))
	}
	return record, nil
}

// jsonString follows keys through nested objects and returns the string at
// the end, or "" when any step is missing or has another type.
func jsonString(obj map[string]interface{}, keys ...string) string {
	var cur interface{} = obj
	for _, key := range keys {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return ""
		}
		cur = m[key]
	}
	s, _ := cur.(string)
	return s
}

// Login runs "gh auth login" interactively. The command is attached to
// the terminal so gh can ask its own questions and open the browser.
func (c *Client) Login(ctx context.Context) error {
	argv := []string{"gh", "auth", "login"}
	c.logger.Debug("running interactive command", "cmd", strings.Join(argv, " "))
	res := c.runner.RunInteractive(ctx, argv)
	if !res.Success() {
		return model.WrapCLIError(model.KindNotAuthenticated, "gh auth login failed", errors.New(res.ErrorText()))
	}
	return nil
}

// Logout runs "gh auth logout". Failure is returned but callers usually
// go on to log in regardless.
func (c *Client) Logout(ctx context.Context) error {
	res := c.ExecuteCommand(ctx, []string{"gh", "auth", "logout"})
	if !res.Success() {
		return model.WrapCLIError(model.KindHostCommand, "gh auth logout failed", errors.New(res.ErrorText()))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
