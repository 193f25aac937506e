package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grafana/resolveref"
	"github.com/grafana/resolveref/cli/internal/auth"
	"github.com/grafana/resolveref/cli/internal/output"
	"github.com/grafana/resolveref/log"
	"github.com/spf13/cobra"
)

// Exit codes returned by Execute.
const (
	ExitOK       = 0
	ExitNotFound = 1
	ExitUsage    = 2
	ExitFailure  = 3
)

var (
	// Global flags
	token   string
	jsonOut bool
	debug   bool
	baseURL string
	timeout time.Duration
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "resolveref",
		Short: "Resolve git refs of remote repositories to commit SHAs",
		Long: `resolveref resolves a branch, a tag or the default branch of a remote
repository to the commit it points to, without cloning. It reads the
smart-HTTP ref advertisement and stops as soon as the ref is found.

Authentication can be provided via flags or environment variables:
  - RESOLVEREF_TOKEN: Access token
  - GITHUB_TOKEN:     Fallback access token`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&token, "token", "", "Access token")
	root.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&baseURL, "base-url", resolveref.DefaultBaseURL, "Base URL of the Git host")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout (0 disables it)")

	root.AddCommand(newResolveCmd(), newServeCmd())
	return root
}

// Execute runs the root command and returns the process exit code.
// It stops on SIGINT or SIGTERM.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return exitCode(rootCmd.ExecuteContext(ctx))
}

func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	formatter := output.Get(getOutputFormat())

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			_ = formatter.FormatError(exitErr.err)
		}
		return exitErr.code
	}

	// Anything not classified is a flag, argument or parse error.
	_ = formatter.FormatError(err)
	return ExitUsage
}

// exitError carries an exit code. A nil err means the failure has already been reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit status %d", e.code)
}

func (e *exitError) Unwrap() error {
	return e.err
}

// getOutputFormat returns "json" if json flag is set, otherwise "human"
func getOutputFormat() string {
	if jsonOut {
		return "json"
	}
	return "human"
}

// newLogger logs to stderr at level; --debug lowers it to debug.
func newLogger(level slog.Level) log.Logger {
	if debug {
		level = slog.LevelDebug
	}
	return log.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// newResolver builds a Resolver from the global flags.
func newResolver(logger log.Logger, base, userAgent string, timeout time.Duration) (*resolveref.Resolver, error) {
	return resolveref.NewResolver(
		resolveref.WithBaseURL(base),
		resolveref.WithHTTPClient(&http.Client{Timeout: timeout}),
		resolveref.WithLogger(logger),
		optionalUserAgent(userAgent),
	)
}

func optionalUserAgent(userAgent string) resolveref.Option {
	if userAgent == "" {
		return nil
	}
	return resolveref.WithUserAgent(userAgent)
}

// authConfig returns the token from the environment, overridden by --token.
func authConfig() *auth.Config {
	cfg := auth.FromEnvironment()
	cfg.Merge(token)
	return cfg
}
