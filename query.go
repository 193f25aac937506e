package resolveref

import (
	"strings"
)

// RefQuery identifies the ref to resolve.
type RefQuery struct {
	// Owner is the user or organisation owning the repository. Required.
	Owner string
	// Repo is the repository name, without the .git suffix. Required.
	Repo string
	// Ref is a short branch or tag name, or a fully-qualified ref such as refs/tags/v1.0.0.
	// Empty resolves the default branch.
	Ref string
	// Token is an optional access token sent as the password half of HTTP Basic auth.
	Token string
}

// Validate checks the mandatory fields. Owner and Repo must each be a single path segment.
func (q RefQuery) Validate() error {
	if err := validateSegment("owner", q.Owner); err != nil {
		return err
	}
	return validateSegment("repo", q.Repo)
}

func validateSegment(field, value string) error {
	switch {
	case value == "":
		return NewInvalidQueryError(field, "is required")
	case value == "." || value == "..":
		return NewInvalidQueryError(field, "is not a valid name")
	case strings.ContainsAny(value, "/\\"):
		return NewInvalidQueryError(field, "must not contain path separators")
	case strings.ContainsFunc(value, isSpaceOrControl):
		return NewInvalidQueryError(field, "must not contain whitespace or control characters")
	}
	return nil
}

func isSpaceOrControl(r rune) bool {
	return r <= ' ' || r == 0x7f
}
