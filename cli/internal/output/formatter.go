package output

import (
	"fmt"

	"github.com/grafana/resolveref"
)

// Formatter defines the interface for different output formats
type Formatter interface {
	// FormatResult outputs a resolved ref
	FormatResult(q resolveref.RefQuery, result resolveref.Result) error

	// FormatFailure outputs an outcome other than found
	FormatFailure(q resolveref.RefQuery, out resolveref.Outcome) error

	// FormatError outputs an error that occurred before anything was resolved
	FormatError(err error) error
}

// Get returns the appropriate formatter based on format type
func Get(format string) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewHumanFormatter()
	}
}

// Describe returns a one-line message for a failed outcome.
func Describe(q resolveref.RefQuery, out resolveref.Outcome) string {
	switch out.Kind {
	case resolveref.OutcomeNotFound:
		return fmt.Sprintf("ref %s not found in %s/%s", displayRef(q.Ref), q.Owner, q.Repo)
	case resolveref.OutcomeNoDefaultBranch:
		return fmt.Sprintf("%s/%s has no default branch", q.Owner, q.Repo)
	}

	if out.RepositoryNotFound() {
		return fmt.Sprintf("repository %s/%s not found", q.Owner, q.Repo)
	}
	if err := out.Error(); err != nil {
		return err.Error()
	}
	return out.Kind.String()
}

func displayRef(ref string) string {
	if ref == "" {
		return "HEAD"
	}
	return ref
}
