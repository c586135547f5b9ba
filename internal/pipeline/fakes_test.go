package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/shinji-kodama/template-repo/internal/github"
	"github.com/shinji-kodama/template-repo/internal/model"
)

// fakeHost scripts HostClient answers and records every call by name.
type fakeHost struct {
	mu sync.Mutex

	notInstalled bool

	// scopes are answered in order; the last one repeats. Empty means
	// authenticated with the repo scope.
	scopes []github.ScopeCheck

	// createErrs are answered in order; past the end creation succeeds.
	createErrs []error

	viewErr  error
	loginErr error

	// panicOnCreate makes CreateRepository panic.
	panicOnCreate bool

	calls       []string
	createCalls []github.CreateOptions
	workspaces  []string
}

var okScopes = github.ScopeCheck{Authenticated: true, HasScopes: true, Scopes: []string{"repo"}, MissingScopes: []string{}}

func (h *fakeHost) record(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, name)
}

func (h *fakeHost) CheckGHInstalled(context.Context) bool {
	h.record("installed")
	return !h.notInstalled
}

func (h *fakeHost) CheckScopes(context.Context, ...string) github.ScopeCheck {
	h.record("scopes")
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.scopes) == 0 {
		return okScopes
	}
	next := h.scopes[0]
	if len(h.scopes) > 1 {
		h.scopes = h.scopes[1:]
	}
	return next
}

func (h *fakeHost) CreateRepository(_ context.Context, name, workspace string, opts github.CreateOptions) (github.CreateResult, error) {
	h.record("create")
	if h.panicOnCreate {
		panic("host exploded")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.createCalls = append(h.createCalls, opts)
	h.workspaces = append(h.workspaces, workspace)

	res := github.CreateResult{Repository: github.RepoRef(name, opts.Org)}
	if n := len(h.createCalls); n <= len(h.createErrs) && h.createErrs[n-1] != nil {
		return res, h.createErrs[n-1]
	}
	return res, nil
}

func (h *fakeHost) ViewRepository(_ context.Context, ref string) (model.RepositoryRecord, error) {
	h.record("view")
	if h.viewErr != nil {
		return model.RepositoryRecord{}, h.viewErr
	}
	return model.RepositoryRecord{Name: ref, URL: "https://github.com/testuser/" + ref, IsTemplate: true}, nil
}

func (h *fakeHost) Login(context.Context) error {
	h.record("login")
	return h.loginErr
}

func (h *fakeHost) Logout(context.Context) error {
	h.record("logout")
	return nil
}

func (h *fakeHost) count(name string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, c := range h.calls {
		if c == name {
			n++
		}
	}
	return n
}

// fakeEnv is an in-memory Environment.
type fakeEnv map[string]string

func (e fakeEnv) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

func (e fakeEnv) Unset(key string) error {
	delete(e, key)
	return nil
}

// fakePrompter answers every question with answer and records them.
type fakePrompter struct {
	answer    bool
	err       error
	questions []string
}

func (p *fakePrompter) Confirm(q string) (bool, error) {
	p.questions = append(p.questions, q)
	return p.answer, p.err
}

// integrationErr is what a create attempt returns when an app token may not
// create repositories.
func integrationErr() error {
	return model.WrapCLIError(model.KindHostCommand, "failed to create repository intro",
		errors.New("GraphQL: Resource not accessible by integration (createRepository)"))
}
