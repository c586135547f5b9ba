package github_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/template-repo/internal/github"
	"github.com/shinji-kodama/template-repo/internal/github/githubtest"
	"github.com/shinji-kodama/template-repo/internal/model"
)

// TestBuildCreateCommand verifies the argument vector for each option.
func TestBuildCreateCommand(t *testing.T) {
	c := github.NewClient(&githubtest.Runner{})

	tests := []struct {
		name string
		opts github.CreateCommandOptions
		want []string
	}{
		{
			name: "basic public",
			opts: github.CreateCommandOptions{Name: "test-repo"},
			want: []string{"gh", "repo", "create", "test-repo", "--public"},
		},
		{
			name: "org prefix",
			opts: github.CreateCommandOptions{Name: "test-repo", Org: "my-org"},
			want: []string{"gh", "repo", "create", "my-org/test-repo", "--public"},
		},
		{
			name: "private with description",
			opts: github.CreateCommandOptions{Name: "test-repo", Private: true, Description: "Intro exercises"},
			want: []string{"gh", "repo", "create", "test-repo", "--private", "--description", "Intro exercises"},
		},
		{
			name: "from template",
			opts: github.CreateCommandOptions{Name: "test-repo", TemplateRepo: "owner/template-repo"},
			want: []string{"gh", "repo", "create", "test-repo", "--public", "--template", "owner/template-repo"},
		},
		{
			name: "with source",
			opts: github.CreateCommandOptions{Name: "test-repo", SourcePath: "/tmp/ws"},
			want: []string{"gh", "repo", "create", "test-repo", "--public", "--source", "/tmp/ws", "--push"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.BuildCreateCommand(tt.opts)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BuildCreateCommand() mismatch (-want +got):\n%s", diff)
			}
			// Deterministic: building twice yields the same vector.
			assert.Equal(t, got, c.BuildCreateCommand(tt.opts))
		})
	}
}

// TestBuildCreateCommand_SourceAndPushCoupled verifies --source and --push
// appear together or not at all.
func TestBuildCreateCommand_SourceAndPushCoupled(t *testing.T) {
	c := github.NewClient(&githubtest.Runner{})

	for _, source := range []string{"", "/tmp/ws"} {
		cmd := c.BuildCreateCommand(github.CreateCommandOptions{Name: "r", SourcePath: source})
		assert.Equal(t, contains(cmd, "--source"), contains(cmd, "--push"), "source=%q", source)
		assert.Equal(t, source != "", contains(cmd, "--source"))
	}
}

// TestExecuteCommand verifies non-zero exits and unexecutable commands are
// reported in the result rather than as a Go error.
func TestExecuteCommand(t *testing.T) {
	runner := &githubtest.Runner{}
	runner.Enqueue(
		githubtest.OK(`{"name": "test-repo"}`),
		githubtest.Fail(1, "authentication required"),
		github.Result{ExitCode: -1, Err: errors.New(`exec: "gh": executable file not found in $PATH`)},
	)
	c := github.NewClient(runner)
	ctx := context.Background()

	ok := c.ExecuteCommand(ctx, []string{"gh", "repo", "create", "test-repo"})
	assert.True(t, ok.Success())
	assert.Equal(t, []string{"gh", "repo", "create", "test-repo"}, ok.Command)

	failed := c.ExecuteCommand(ctx, []string{"gh", "auth", "status"})
	assert.False(t, failed.Success())
	assert.Contains(t, failed.ErrorText(), "authentication")

	missing := c.ExecuteCommand(ctx, []string{"gh", "api", "user"})
	assert.False(t, missing.Success())
	assert.Contains(t, missing.ErrorText(), "executable file not found")

	assert.Equal(t, 3, runner.CallCount())
}

// TestCheckGHInstalled verifies the availability check swallows a missing
// binary as false.
func TestCheckGHInstalled(t *testing.T) {
	runner := &githubtest.Runner{}
	runner.Enqueue(githubtest.OK("gh version 2.0.0"))
	c := github.NewClient(runner)
	assert.True(t, c.CheckGHInstalled(context.Background()))

	runner = &githubtest.Runner{}
	runner.Enqueue(github.Result{ExitCode: -1, Err: errors.New("not found")})
	c = github.NewClient(runner)
	assert.False(t, c.CheckGHInstalled(context.Background()))
}

func TestCheckAuthentication(t *testing.T) {
	runner := &githubtest.Runner{}
	runner.Enqueue(githubtest.OK("Logged in to github.com as testuser"), githubtest.Fail(1, "not logged in"))
	c := github.NewClient(runner)

	assert.True(t, c.CheckAuthentication(context.Background()))
	assert.False(t, c.CheckAuthentication(context.Background()))
	assert.Equal(t, [][]string{{"gh", "auth", "status"}, {"gh", "auth", "status"}}, runner.Calls)
}

// TestCheckScopes covers present, missing and default scopes, the
// unauthenticated case and the output stream the scopes appear on.
func TestCheckScopes(t *testing.T) {
	tests := []struct {
		name     string
		result   github.Result
		required []string
		want     github.ScopeCheck
	}{
		{
			name:     "required scopes present on stderr",
			result:   github.Result{Stderr: "  - Token scopes: 'gist', 'read:org', 'repo', 'workflow'"},
			required: []string{"repo"},
			want: github.ScopeCheck{
				Authenticated: true, HasScopes: true,
				Scopes:        []string{"gist", "read:org", "repo", "workflow"},
				MissingScopes: []string{},
			},
		},
		{
			name:     "missing scopes",
			result:   github.Result{Stderr: "  - Token scopes: 'read:org'"},
			required: []string{"repo", "workflow"},
			want: github.ScopeCheck{
				Authenticated: true,
				Scopes:        []string{"read:org"},
				MissingScopes: []string{"repo", "workflow"},
			},
		},
		{
			name:     "not authenticated",
			result:   githubtest.Fail(1, ""),
			required: []string{"repo"},
			want:     github.ScopeCheck{Scopes: []string{}, MissingScopes: []string{"repo"}},
		},
		{
			name:   "defaults to repo scope",
			result: github.Result{Stderr: "  - Token scopes: 'repo'"},
			want: github.ScopeCheck{
				Authenticated: true, HasScopes: true,
				Scopes: []string{"repo"}, MissingScopes: []string{},
			},
		},
		{
			name:     "mixed quoting on stdout",
			result:   githubtest.OK(`  - Token scopes: 'gist', "read:org", repo`),
			required: []string{"repo"},
			want: github.ScopeCheck{
				Authenticated: true, HasScopes: true,
				Scopes: []string{"gist", "read:org", "repo"}, MissingScopes: []string{},
			},
		},
		{
			name:     "authenticated without a scopes line",
			result:   githubtest.OK("Logged in to github.com as testuser"),
			required: []string{"repo"},
			want: github.ScopeCheck{
				Authenticated: true,
				Scopes:        []string{}, MissingScopes: []string{"repo"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &githubtest.Runner{}
			runner.Enqueue(tt.result)
			c := github.NewClient(runner)

			got := c.CheckScopes(context.Background(), tt.required...)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJSONOutput(t *testing.T) {
	c := github.NewClient(&githubtest.Runner{})

	parsed, err := c.ParseJSONOutput(`{"name": "test-repo", "html_url": "https://github.com/u/test-repo"}`)
	require.NoError(t, err)
	assert.Equal(t, "test-repo", parsed["name"])
	assert.Contains(t, parsed, "html_url")

	_, err = c.ParseJSONOutput("not json")
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindInvalidResponse))

	_, err = c.ParseJSONOutput("null")
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindInvalidResponse))
}

// TestMarkRepositoryAsTemplate_WithOrg verifies the org is used directly.
func TestMarkRepositoryAsTemplate_WithOrg(t *testing.T) {
	runner := &githubtest.Runner{}
	c := github.NewClient(runner)

	require.NoError(t, c.MarkRepositoryAsTemplate(context.Background(), "test-repo", "my-org"))
	assert.Equal(t, [][]string{{"gh", "repo", "edit", "my-org/test-repo", "--template"}}, runner.Calls)
}

// TestMarkRepositoryAsTemplate_ResolvesUser verifies the owner lookup when
// no org is given.
func TestMarkRepositoryAsTemplate_ResolvesUser(t *testing.T) {
	runner := &githubtest.Runner{}
	runner.Enqueue(githubtest.OK("testuser\n"), githubtest.OK(""))
	c := github.NewClient(runner)

	require.NoError(t, c.MarkRepositoryAsTemplate(context.Background(), "test-repo", ""))
	assert.Equal(t, [][]string{
		{"gh", "api", "user", "--jq", ".login"},
		{"gh", "repo", "edit", "testuser/test-repo", "--template"},
	}, runner.Calls)
}

// TestMarkRepositoryAsTemplate_UserLookupFails verifies the distinct
// identity error.
func TestMarkRepositoryAsTemplate_UserLookupFails(t *testing.T) {
	runner := &githubtest.Runner{}
	runner.Enqueue(githubtest.Fail(1, "Not authenticated"))
	c := github.NewClient(runner)

	err := c.MarkRepositoryAsTemplate(context.Background(), "test-repo", "")
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindIdentityUnresolved))
	assert.Contains(t, err.Error(), "Failed to get authenticated user")
	assert.Equal(t, 1, runner.CallCount())
}

// TestCurrentUser_EmptyLogin verifies a successful but empty reply is not
// accepted as an identity.
func TestCurrentUser_EmptyLogin(t *testing.T) {
	runner := &githubtest.Runner{}
	runner.Enqueue(githubtest.OK("\n"))

	_, err := github.NewClient(runner).CurrentUser(context.Background())
	assert.True(t, model.IsKind(err, model.KindIdentityUnresolved))
}

// TestViewRepository verifies the JSON payload is mapped onto a record.
func TestViewRepository(t *testing.T) {
	runner := &githubtest.Runner{}
	runner.Enqueue(githubtest.OK(`{
  "name": "intro",
  "owner": {"login": "instructor"},
  "visibility": "PRIVATE",
  "isTemplate": true,
  "url": "https://github.com/instructor/intro",
  "templateRepository": {"name": "base", "owner": {"login": "school"}}
}`))
	c := github.NewClient(runner)

	got, err := c.ViewRepository(context.Background(), "instructor/intro")
	require.NoError(t, err)
	assert.Equal(t, model.RepositoryRecord{
		Name:       "intro",
		Owner:      "instructor",
		Visibility: model.VisibilityPrivate,
		TemplateOf: "school/base",
		IsTemplate: true,
		URL:        "https://github.com/instructor/intro",
	}, got)
	assert.Equal(t, []string{"gh", "repo", "view", "instructor/intro", "--json", "name,owner,visibility,isTemplate,url,templateRepository"}, runner.Calls[0])
}

// TestViewRepository_NotFromTemplate verifies a null templateRepository
// and missing fields leave the record fields empty.
func TestViewRepository_NotFromTemplate(t *testing.T) {
	runner := &githubtest.Runner{}
	runner.Enqueue(githubtest.OK(`{"name": "intro", "owner": {"login": "school"}, "visibility": "PUBLIC", "templateRepository": null}`))
	c := github.NewClient(runner)

	got, err := c.ViewRepository(context.Background(), "school/intro")
	require.NoError(t, err)
	assert.Equal(t, model.RepositoryRecord{
		Name:       "intro",
		Owner:      "school",
		Visibility: model.VisibilityPublic,
	}, got)
}

func TestViewRepository_Errors(t *testing.T) {
	runner := &githubtest.Runner{}
	runner.Enqueue(githubtest.OK("<html>"), githubtest.Fail(1, "Could not resolve to a Repository"), githubtest.OK("null"))
	c := github.NewClient(runner)

	_, err := c.ViewRepository(context.Background(), "a/b")
	assert.True(t, model.IsKind(err, model.KindInvalidResponse))

	_, err = c.ViewRepository(context.Background(), "a/b")
	assert.True(t, model.IsKind(err, model.KindHostCommand))
	assert.Contains(t, err.Error(), "Could not resolve")

	_, err = c.ViewRepository(context.Background(), "a/b")
	assert.True(t, model.IsKind(err, model.KindInvalidResponse))
}

// TestLoginLogout verifies login is interactive and logout is captured.
func TestLoginLogout(t *testing.T) {
	runner := &githubtest.Runner{}
	c := github.NewClient(runner)

	require.NoError(t, c.Logout(context.Background()))
	require.NoError(t, c.Login(context.Background()))

	assert.Equal(t, [][]string{{"gh", "auth", "logout"}}, runner.Calls)
	assert.Equal(t, [][]string{{"gh", "auth", "login"}}, runner.InteractiveCalls)

	runner = &githubtest.Runner{}
	runner.Enqueue(githubtest.Fail(1, "cancelled"))
	err := github.NewClient(runner).Login(context.Background())
	assert.True(t, model.IsKind(err, model.KindNotAuthenticated))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
