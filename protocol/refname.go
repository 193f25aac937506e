package protocol

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// RefPrefix is the namespace every fully-qualified ref name starts with.
const RefPrefix = "refs/"

// IsFullyQualified reports whether ref already includes its namespace, e.g. refs/heads/main.
func IsFullyQualified(ref string) bool {
	return strings.HasPrefix(ref, RefPrefix)
}

// SearchTerms returns the fully-qualified ref names a requested ref may match, in candidate order.
//
//   - A fully-qualified ref matches only itself.
//   - A short name expands to the branch candidate followed by the tag candidate.
//   - An empty ref yields no terms; the default branch is added once the advertisement header is read.
func SearchTerms(ref string) []string {
	switch {
	case ref == "":
		return make([]string, 0, 1)
	case IsFullyQualified(ref):
		return []string{ref}
	default:
		return []string{
			plumbing.NewBranchReferenceName(ref).String(),
			plumbing.NewTagReferenceName(ref).String(),
		}
	}
}
