package model

import (
	"errors"
	"fmt"
)

// ExitCode is the process exit status. The CLI only distinguishes success
// from failure; the failure detail is carried by the printed message.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitFailure indicates any failure, including a declined prompt.
	ExitFailure ExitCode = 1
)

// ErrorKind classifies a CLIError. Each kind belongs to exactly one
// Category, which is what callers branch on when deciding how to report it.
type ErrorKind string

const (
	// KindInvalidSelection: no criteria, unknown construct/type/notebook id,
	// or a malformed glob pattern.
	KindInvalidSelection ErrorKind = "invalid-selection"

	// KindInvalidArgument: any other rejected user input, such as a
	// repository name that is not a valid slug.
	KindInvalidArgument ErrorKind = "invalid-argument"

	// KindMissingFile: a required exercise file (notebook or test) is absent.
	KindMissingFile ErrorKind = "missing-file"

	// KindTemplateSourceMissing: the template-files root does not exist.
	KindTemplateSourceMissing ErrorKind = "template-source-missing"

	// KindPackageInvalid: the assembled workspace failed validation.
	KindPackageInvalid ErrorKind = "package-invalid"

	// KindHostUnavailable: the hosting CLI is not installed.
	KindHostUnavailable ErrorKind = "host-unavailable"

	// KindNotAuthenticated: the hosting CLI has no logged-in account.
	KindNotAuthenticated ErrorKind = "not-authenticated"

	// KindMissingScopes: the token lacks scopes needed to create repositories.
	KindMissingScopes ErrorKind = "missing-scopes"

	// KindHostCommand: a hosting CLI command exited non-zero.
	KindHostCommand ErrorKind = "host-command"

	// KindGitCommand: a local git command exited non-zero.
	KindGitCommand ErrorKind = "git-command"

	// KindInvalidResponse: a command succeeded but its JSON output did not parse.
	KindInvalidResponse ErrorKind = "invalid-response"

	// KindIdentityUnresolved: the authenticated account name could not be read.
	KindIdentityUnresolved ErrorKind = "identity-unresolved"

	// KindFilesystem: a local filesystem operation failed.
	KindFilesystem ErrorKind = "filesystem"
)

// Category groups error kinds by who has to act on them.
type Category string

const (
	// CategoryInvalidArgument errors are fixed by changing the invocation.
	CategoryInvalidArgument Category = "invalid-argument"

	// CategoryMissingResource errors are fixed by adding files on disk.
	CategoryMissingResource Category = "missing-resource"

	// CategoryExternalCommand errors come from git, the hosting CLI or the OS.
	CategoryExternalCommand Category = "external-command"
)

// Category returns the propagation category of the kind.
func (k ErrorKind) Category() Category {
	switch k {
	case KindInvalidSelection, KindInvalidArgument:
		return CategoryInvalidArgument
	case KindMissingFile, KindTemplateSourceMissing, KindPackageInvalid:
		return CategoryMissingResource
	default:
		return CategoryExternalCommand
	}
}

// CLIError is the error type returned across package boundaries.
// The CLI layer prints Error() as a single line and exits with ExitFailure.
type CLIError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error

	// Hint is an optional remediation, printed after a blank line.
	Hint string
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Hint != "" {
		msg += "\n\n" + e.Hint
	}
	return msg
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given kind and message.
func NewCLIError(kind ErrorKind, message string) *CLIError {
	return &CLIError{Kind: kind, Message: message}
}

// NewCLIErrorf is NewCLIError with fmt.Sprintf formatting.
func NewCLIErrorf(kind ErrorKind, format string, args ...any) *CLIError {
	return &CLIError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(kind ErrorKind, message string, err error) *CLIError {
	return &CLIError{Kind: kind, Message: message, Err: err}
}

// WithHint returns err with hint attached to its CLIError. An error that
// carries no CLIError becomes a host-command error. An empty hint returns
// err unchanged.
func WithHint(err error, hint string) error {
	if err == nil || hint == "" {
		return err
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		hinted := *cliErr
		hinted.Hint = hint
		return &hinted
	}
	return &CLIError{Kind: KindHostCommand, Message: err.Error(), Hint: hint}
}

// KindOf returns the kind of the first CLIError in err's chain.
// The second result is false when err carries no CLIError.
func KindOf(err error) (ErrorKind, bool) {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Kind, true
	}
	return "", false
}

// IsKind reports whether err's chain contains a CLIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
