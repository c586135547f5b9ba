package github

import "strings"

// FailureKind classifies the error text of a failed gh command.
//
// gh exits 1 for nearly every API failure, so the kind has to be read from
// the message. The kinds cover the failures a caller can do something
// about; everything else is FailureUnknown and is reported as is.
type FailureKind string

const (
	// FailureUnknown: no rule matched.
	FailureUnknown FailureKind = "unknown"

	// FailureIntegrationPermission: the token belongs to an app or
	// integration that may not create repositories. GitHub reports this
	// from the GraphQL createRepository mutation as
	// "Resource not accessible by integration (createRepository)".
	FailureIntegrationPermission FailureKind = "integration-permission"

	// FailureAlreadyExists: the repository name is taken.
	FailureAlreadyExists FailureKind = "already-exists"

	// FailureAuthentication: gh has no usable login, or the stored token
	// was revoked or expired after the prerequisite check.
	FailureAuthentication FailureKind = "authentication"

	// FailureRateLimit: the primary or secondary API rate limit was hit.
	FailureRateLimit FailureKind = "rate-limit"
)

// failureRule matches when every substring occurs in the lowercased text.
type failureRule struct {
	// kind is returned when the rule matches.
	kind FailureKind

	// all lists lowercase substrings that must all be present.
	all []string
}

// failureRules are checked in order; the first match wins.
//
// The integration rule comes first and needs both parts of GitHub's
// message: "resource not accessible by integration" alone is also
// returned for unrelated mutations, which a re-login would not fix.
// The authentication rules come before the rate-limit rule, so a message
// that mentions both is treated as a login problem.
var failureRules = []failureRule{
	{FailureIntegrationPermission, []string{"resource not accessible by integration", "createrepository"}},
	{FailureAlreadyExists, []string{"already exists"}},
	{FailureAuthentication, []string{"authentication required"}},
	{FailureAuthentication, []string{"gh auth login"}},
	{FailureRateLimit, []string{"rate limit"}},
}

// ClassifyFailure maps error text from gh onto a FailureKind. Matching is
// case-insensitive. Empty text is FailureUnknown.
func ClassifyFailure(text string) FailureKind {
	lower := strings.ToLower(text)
	for _, rule := range failureRules {
		if matchesAll(lower, rule.all) {
			return rule.kind
		}
	}
	return FailureUnknown
}

// matchesAll reports whether text contains every entry of substrings.
func matchesAll(text string, substrings []string) bool {
	for _, s := range substrings {
		if !strings.Contains(text, s) {
			return false
		}
	}
	return true
}
