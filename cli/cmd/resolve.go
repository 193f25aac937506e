package cmd

import (
	"errors"
	"log/slog"

	"github.com/grafana/resolveref"
	"github.com/grafana/resolveref/cli/internal/output"
	"github.com/grafana/resolveref/cli/internal/refparse"
	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <owner>/<repo>[@<ref>] [ref]",
		Short: "Resolve a ref to the commit it points to",
		Long: `Resolve a branch, a tag or the default branch to a commit SHA.

A short name is looked up as a branch and as a tag; whichever the server
advertises first wins. A name starting with refs/ is used as is. Without a
ref the default branch is resolved.

Exit codes:
  0  the ref was resolved
  1  the ref, the default branch or the repository was not found
  2  invalid arguments
  3  the server or the network failed

Examples:
  # Resolve the default branch
  resolveref resolve adobe/gh-resolve-ref

  # Resolve a branch or tag
  resolveref resolve adobe/gh-resolve-ref main
  resolveref resolve grafana/nanogit@v0.1.0

  # JSON output
  resolveref resolve grafana/nanogit refs/heads/main --json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runResolve,
	}
}

func runResolve(cmd *cobra.Command, args []string) error {
	target, err := refparse.Parse(args[0])
	if err != nil {
		return err
	}
	if len(args) == 2 {
		if target.Ref != "" {
			return errors.New("ref given both as <repo>@<ref> and as an argument")
		}
		target.Ref = args[1]
	}

	r, err := newResolver(newLogger(slog.LevelWarn), baseURL, "", timeout)
	if err != nil {
		return err
	}

	q := resolveref.RefQuery{
		Owner: target.Owner,
		Repo:  target.Repo,
		Ref:   target.Ref,
		Token: authConfig().Token,
	}

	out := r.Resolve(cmd.Context(), q)
	formatter := output.Get(getOutputFormat())

	if out.Kind == resolveref.OutcomeFound {
		return formatter.FormatResult(q, out.Result)
	}

	if err := formatter.FormatFailure(q, out); err != nil {
		return err
	}
	return &exitError{code: outcomeExitCode(out)}
}

func outcomeExitCode(out resolveref.Outcome) int {
	switch {
	case out.Kind == resolveref.OutcomeFound:
		return ExitOK
	case out.Kind == resolveref.OutcomeNotFound,
		out.Kind == resolveref.OutcomeNoDefaultBranch,
		out.RepositoryNotFound():
		return ExitNotFound
	case out.Kind == resolveref.OutcomeUsageError:
		return ExitUsage
	default:
		return ExitFailure
	}
}
