package refparse

import (
	"fmt"
	"regexp"
	"strings"
)

// Target is a repository and an optional ref named on the command line.
type Target struct {
	Owner string
	Repo  string
	Ref   string
}

// targetPattern matches <owner>/<repo>[.git][@<ref>], optionally prefixed with a github.com URL.
var targetPattern = regexp.MustCompile(`^(?:https://github\.com/)?([^/@\s]+)/([^/@\s]+?)(?:\.git)?/?(?:@(.+))?$`)

// Parse splits a target argument. It supports:
// - owner/repo
// - owner/repo@ref
// - https://github.com/owner/repo[.git][@ref]
//
// Owner and repository names are not validated beyond the split; Resolve does that.
func Parse(arg string) (Target, error) {
	m := targetPattern.FindStringSubmatch(strings.TrimSpace(arg))
	if m == nil {
		return Target{}, fmt.Errorf("invalid repository %q: expected <owner>/<repo>[@<ref>]", arg)
	}

	return Target{Owner: m[1], Repo: m[2], Ref: m[3]}, nil
}
