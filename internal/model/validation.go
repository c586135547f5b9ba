package model

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ValidateConstructName reports whether s names a construct.
// Empty strings and differently-cased names are rejected.
func ValidateConstructName(s string) bool {
	return Construct(s).IsValid()
}

// ValidateTypeName reports whether s names an exercise type.
func ValidateTypeName(s string) bool {
	return ExerciseType(s).IsValid()
}

// repoNameRegex accepts lowercase letters, digits, hyphens and underscores.
// A leading digit is allowed, matching what the hosting service accepts.
var repoNameRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)

// ValidateRepoName reports whether name is an acceptable repository slug.
func ValidateRepoName(name string) bool {
	return repoNameRegex.MatchString(name)
}

var (
	repoNameWhitespace = regexp.MustCompile(`\s+`)
	repoNameDisallowed = regexp.MustCompile(`[^a-z0-9_-]`)
	repoNameHyphenRuns = regexp.MustCompile(`-{2,}`)
)

// SanitizeRepoName rewrites an arbitrary string into a repository slug:
//
//	"My Repo @2024!" -> "my-repo-2024"
//
// It lowercases, turns whitespace runs into hyphens, drops every other
// disallowed character, collapses repeated hyphens and trims hyphens from
// both ends. The result may be empty when nothing usable remains.
// Sanitizing an already sanitized name returns it unchanged.
func SanitizeRepoName(name string) string {
	s := strings.ToLower(name)
	s = repoNameWhitespace.ReplaceAllString(s, "-")
	s = repoNameDisallowed.ReplaceAllString(s, "")
	s = repoNameHyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ValidateNotebookPattern reports whether pattern can be used to filter
// notebook stems. It must be non-empty, contain no path separator, and be
// syntactically valid glob syntax (*, ? and [...] are allowed).
//
// The whole pattern is scanned. filepath.Match alone is not enough: it
// stops reading the pattern as soon as the name fails to match, so a
// malformed class after a star ("ex*[") is only reported against some
// names and not others.
func ValidateNotebookPattern(pattern string) bool {
	if pattern == "" || strings.ContainsAny(pattern, `/\`) {
		return false
	}
	if !validGlobClasses(pattern) {
		return false
	}
	_, err := filepath.Match(pattern, "")
	return err == nil
}

// validGlobClasses checks every [...] class in pattern using the class
// grammar of filepath.Match:
//
//	'[' [ '^' ] { lo [ '-' hi ] } ']'
//
// A class needs at least one range, and lo or hi may not be a bare '-' or
// ']'. Backslash escapes never reach this point because backslashes are
// rejected as path separators.
func validGlobClasses(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '[' {
			continue
		}
		i++
		if i < len(pattern) && pattern[i] == '^' {
			i++
		}
		ranges := 0
		for {
			if i >= len(pattern) {
				// Unterminated class.
				return false
			}
			if pattern[i] == ']' && ranges > 0 {
				break
			}
			if pattern[i] == '-' || pattern[i] == ']' {
				return false
			}
			i++
			if i < len(pattern) && pattern[i] == '-' {
				i++
				if i >= len(pattern) || pattern[i] == '-' || pattern[i] == ']' {
					return false
				}
				i++
			}
			ranges++
		}
	}
	return true
}

// IsGlobPattern reports whether s contains glob metacharacters. The CLI uses
// it to route a --notebooks entry to pattern selection instead of id lookup.
func IsGlobPattern(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// CheckRepoName returns nil for a valid repository name, otherwise an
// invalid-argument CLIError that suggests the sanitized form when one exists.
func CheckRepoName(name string) error {
	if ValidateRepoName(name) {
		return nil
	}
	if name == "" {
		return NewCLIError(KindInvalidArgument, "repository name must not be empty")
	}
	msg := fmt.Sprintf("invalid repository name %q: use lowercase letters, digits, hyphens and underscores", name)
	if suggestion := SanitizeRepoName(name); suggestion != "" {
		msg = fmt.Sprintf("%s (try %q)", msg, suggestion)
	}
	return NewCLIError(KindInvalidArgument, msg)
}
