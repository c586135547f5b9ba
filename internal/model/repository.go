package model

import "fmt"

// Visibility is the access level of a remote repository.
type Visibility string

// Visibility values. gh reports them in upper case; records store the
// lowercased form.
const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// String returns the lowercase visibility name.
func (v Visibility) String() string {
	return string(v)
}

// VisibilityFor maps the private flag used throughout the CLI to a Visibility.
func VisibilityFor(private bool) Visibility {
	if private {
		return VisibilityPrivate
	}
	return VisibilityPublic
}

// RepositoryRecord describes a repository as reported by the hosting
// service. The service owns this state; a record is only ever a snapshot
// parsed from a command response.
type RepositoryRecord struct {
	// Name is the repository name without the owner.
	Name string `json:"name"`

	// Owner is the user or organization login. It is empty when the
	// response did not include one.
	Owner string `json:"owner"`

	// Visibility is public or private.
	Visibility Visibility `json:"visibility"`

	// TemplateOf is the "owner/name" of the template the repository was
	// generated from, if any.
	TemplateOf string `json:"templateOf,omitempty"`

	// IsTemplate reports whether the repository is itself a reusable template.
	IsTemplate bool `json:"isTemplate"`

	// URL is the web address of the repository.
	URL string `json:"url,omitempty"`
}

// FullName returns "owner/name", or just the name when the owner is unknown.
func (r RepositoryRecord) FullName() string {
	if r.Owner == "" {
		return r.Name
	}
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}
