package resolveref

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/grafana/resolveref/log"
	"github.com/grafana/resolveref/protocol"
	"github.com/grafana/resolveref/protocol/client"
)

const (
	// DefaultBaseURL is the Git host used when WithBaseURL is not given.
	DefaultBaseURL = client.DefaultBaseURL
	// DefaultChunkSize is the read buffer size used when WithChunkSize is not given.
	DefaultChunkSize = 32 << 10
)

// Resolver resolves refs of remote repositories to commit ids over smart HTTP.
// A Resolver holds only configuration and is safe for concurrent use; every call to Resolve
// makes exactly one request and shares no state with other calls.
type Resolver struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     log.Logger
	chunkSize  int
}

// NewResolver creates a Resolver.
//
// Example:
//
//	r, err := resolveref.NewResolver(
//	    resolveref.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
//	)
//	if err != nil {
//	    return err
//	}
//	out := r.Resolve(ctx, resolveref.RefQuery{Owner: "grafana", Repo: "nanogit", Ref: "main"})
func NewResolver(options ...Option) (*Resolver, error) {
	r := &Resolver{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
		userAgent:  client.DefaultUserAgent,
		logger:     log.Noop(),
		chunkSize:  DefaultChunkSize,
	}

	for _, option := range options {
		if option == nil { // allow for easy optional options
			continue
		}
		if err := option(r); err != nil {
			return nil, err
		}
	}

	// Fail on a bad base URL here rather than on every Resolve.
	if _, err := client.NewRawClient(r.baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return r, nil
}

// Resolve finds the commit q.Ref points to in q.Owner/q.Repo.
//
// The advertisement is scanned as it arrives and the connection is abandoned as soon as the ref
// is found, so only advertisements without a match are read to the end. Every failure is reported
// through the returned Outcome; Resolve never retries.
func (r *Resolver) Resolve(ctx context.Context, q RefQuery) Outcome {
	if err := q.Validate(); err != nil {
		return protocol.UsageFailure(err)
	}

	logger := r.loggerFrom(ctx)
	ctx = log.ToContext(ctx, logger)

	raw, err := r.rawClient(q.Token)
	if err != nil {
		return protocol.UsageFailure(err)
	}

	// Cancelling aborts the request if the body is abandoned before EOF.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.Debug("Resolve", "owner", q.Owner, "repo", q.Repo, "ref", q.Ref, "authenticated", q.Token != "")

	body, err := raw.InfoRefs(ctx, q.Owner, q.Repo)
	if err != nil {
		out := failureOutcome(err)
		logger.Debug("Resolve failed", "owner", q.Owner, "repo", q.Repo, "outcome", out.Kind.String(), "error", err)
		return out
	}
	defer body.Close()

	out, err := r.scan(body, protocol.NewScanner(q.Ref))
	if err != nil {
		logger.Debug("Reading advertisement failed", "owner", q.Owner, "repo", q.Repo, "error", err)
		return protocol.TransportFailure(client.NewTransportError(http.MethodGet, raw.InfoRefsURL(q.Owner, q.Repo), err))
	}

	switch out.Kind {
	case protocol.OutcomeFound:
		logger.Info("Resolved ref", "owner", q.Owner, "repo", q.Repo, "ref", q.Ref, "fqRef", out.Result.FQRef, "sha", out.Result.SHA)
	default:
		logger.Debug("Ref not resolved", "owner", q.Owner, "repo", q.Repo, "ref", q.Ref, "outcome", out.Kind.String())
	}

	return out
}

// scan feeds body to scanner until the outcome is known or the body ends.
// The caller closes body, which aborts the transfer when scanning stopped early.
func (r *Resolver) scan(body io.Reader, scanner *protocol.Scanner) (Outcome, error) {
	buf := make([]byte, r.chunkSize)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			if out := scanner.Feed(buf[:n]); out.Terminal() {
				return out, nil
			}
		}
		if errors.Is(err, io.EOF) {
			return scanner.Finish(), nil
		}
		if err != nil {
			return Outcome{}, fmt.Errorf("reading advertisement: %w", err)
		}
	}
}

func (r *Resolver) rawClient(token string) (*client.RawClient, error) {
	options := []client.Option{
		client.WithHTTPClient(r.httpClient),
		client.WithUserAgent(r.userAgent),
	}
	if token != "" {
		options = append(options, client.WithToken(token))
	}

	return client.NewRawClient(r.baseURL, options...)
}

func (r *Resolver) loggerFrom(ctx context.Context) log.Logger {
	if logger := log.FromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

// failureOutcome turns an InfoRefs error into the matching outcome.
func failureOutcome(err error) Outcome {
	var statusErr client.StatusError
	if errors.As(err, &statusErr) {
		code, status := statusErr.HTTPStatus()
		return protocol.ProtocolFailure(code, status, err)
	}
	return protocol.TransportFailure(err)
}
