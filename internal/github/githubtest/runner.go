// Package githubtest provides a scripted github.Runner for tests.
package githubtest

import (
	"context"
	"strings"
	"sync"

	"github.com/shinji-kodama/template-repo/internal/github"
)

// Runner records every command and answers from a script. Rules registered
// with On are consulted first, then queued results in order; anything left
// over succeeds with empty output.
type Runner struct {
	mu sync.Mutex

	// Calls holds every captured command, in order.
	Calls [][]string

	// InteractiveCalls holds every interactive command, in order.
	InteractiveCalls [][]string

	rules []rule
	queue []github.Result
}

// rule is one On or Once registration.
type rule struct {
	prefix []string
	result github.Result
	times  int // remaining uses; negative means unlimited
}

// Enqueue appends results answered in order to commands no rule matches.
func (r *Runner) Enqueue(results ...github.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = append(r.queue, results...)
}

// On answers every command starting with prefix with result.
func (r *Runner) On(result github.Result, prefix ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{prefix: prefix, result: result, times: -1})
}

// Once answers the next command starting with prefix with result.
// Later rules for the same prefix take over once it is used.
func (r *Runner) Once(result github.Result, prefix ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{prefix: prefix, result: result, times: 1})
}

// Run records argv and returns the scripted result.
func (r *Runner) Run(_ context.Context, argv []string) github.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, argv)
	return r.answer(argv)
}

// RunInteractive records argv and returns the scripted result.
func (r *Runner) RunInteractive(_ context.Context, argv []string) github.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.InteractiveCalls = append(r.InteractiveCalls, argv)
	return r.answer(argv)
}

// answer picks the scripted result for argv. The caller holds mu.
//
// Rules are tried in registration order, skipping used-up Once rules. A
// command no rule matches takes the next queued result, and with an empty
// queue it succeeds with no output. The returned result always carries
// argv as its Command.
func (r *Runner) answer(argv []string) github.Result {
	for i := range r.rules {
		rl := &r.rules[i]
		if rl.times == 0 || !hasPrefix(argv, rl.prefix) {
			continue
		}
		if rl.times > 0 {
			rl.times--
		}
		return withCommand(rl.result, argv)
	}
	if len(r.queue) > 0 {
		res := r.queue[0]
		r.queue = r.queue[1:]
		return withCommand(res, argv)
	}
	return github.Result{Command: argv}
}

// CallsMatching returns the recorded commands whose joined form contains
// every one of substrings.
func (r *Runner) CallsMatching(substrings ...string) [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out [][]string
	for _, call := range r.Calls {
		joined := strings.Join(call, " ")
		ok := true
		for _, s := range substrings {
			if !strings.Contains(joined, s) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, call)
		}
	}
	return out
}

// CallCount returns the number of captured commands.
func (r *Runner) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Calls)
}

// OK is a successful result with the given stdout.
func OK(stdout string) github.Result {
	return github.Result{Stdout: stdout}
}

// Fail is a result that exited with code and printed stderr.
func Fail(code int, stderr string) github.Result {
	return github.Result{ExitCode: code, Stderr: stderr}
}

// hasPrefix reports whether argv starts with every element of prefix.
func hasPrefix(argv, prefix []string) bool {
	if len(prefix) > len(argv) {
		return false
	}
	for i, p := range prefix {
		if argv[i] != p {
			return false
		}
	}
	return true
}

// withCommand returns res with Command set to argv.
func withCommand(res github.Result, argv []string) github.Result {
	res.Command = argv
	return res
}
