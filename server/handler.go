package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/grafana/resolveref"
	"github.com/grafana/resolveref/log"
)

// Resolver resolves a single query. *resolveref.Resolver implements it.
type Resolver interface {
	Resolve(ctx context.Context, q resolveref.RefQuery) resolveref.Outcome
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, q resolveref.RefQuery) resolveref.Outcome

func (f ResolverFunc) Resolve(ctx context.Context, q resolveref.RefQuery) resolveref.Outcome {
	return f(ctx, q)
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithDefaultToken sets the token used when a request carries no Authorization header.
func WithDefaultToken(token string) HandlerOption {
	return func(h *Handler) {
		h.token = token
	}
}

// WithLogger sets the logger handed to the resolver through the request context.
// Without it the resolver logs through its own logger.
func WithLogger(logger log.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// Handler exposes a Resolver over HTTP.
//
//	GET /resolve?owner=<owner>&repo=<repo>[&ref=<ref>]
//	GET /?owner=<owner>&repo=<repo>[&ref=<ref>]
//	GET /healthz
type Handler struct {
	resolver Resolver
	token    string
	logger   log.Logger
	mux      *http.ServeMux
}

// NewHandler creates a Handler serving resolver.
func NewHandler(resolver Resolver, options ...HandlerOption) *Handler {
	h := &Handler{
		resolver: resolver,
		mux:      http.NewServeMux(),
	}

	for _, option := range options {
		if option != nil {
			option(h)
		}
	}

	h.mux.HandleFunc("GET /resolve", h.resolve)
	h.mux.HandleFunc("GET /{$}", h.resolve)
	h.mux.HandleFunc("GET /healthz", healthz)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	params := r.URL.Query()
	q := resolveref.RefQuery{
		Owner: params.Get("owner"),
		Repo:  params.Get("repo"),
		Ref:   params.Get("ref"),
		Token: h.tokenFor(r),
	}

	ctx := r.Context()
	if h.logger != nil {
		ctx = log.ToContext(ctx, h.logger)
	}

	out := h.resolver.Resolve(ctx, q)
	status := StatusFor(out)
	writeOutcome(w, status, q, out)

	log.FromContextOrNoop(ctx).Info("Request",
		"owner", q.Owner,
		"repo", q.Repo,
		"ref", q.Ref,
		"outcome", out.Kind.String(),
		"status", status,
		"duration", time.Since(start))
}

// tokenFor returns the token from an "Authorization: token <t>" or "Authorization: Bearer <t>"
// header, or the default token.
func (h *Handler) tokenFor(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && (strings.EqualFold(scheme, "token") || strings.EqualFold(scheme, "bearer")) {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	return h.token
}

// StatusFor maps an outcome to the HTTP status reported for it.
func StatusFor(out resolveref.Outcome) int {
	switch out.Kind {
	case resolveref.OutcomeFound:
		return http.StatusOK
	case resolveref.OutcomeNotFound, resolveref.OutcomeNoDefaultBranch:
		return http.StatusNotFound
	case resolveref.OutcomeUsageError:
		return http.StatusBadRequest
	case resolveref.OutcomeTransportError:
		return http.StatusServiceUnavailable
	case resolveref.OutcomeProtocolError:
		switch {
		case out.RepositoryNotFound():
			return http.StatusNotFound
		case out.StatusCode >= 500 && out.StatusCode < 600:
			return http.StatusBadGateway
		}
	}
	return http.StatusInternalServerError
}

func writeOutcome(w http.ResponseWriter, status int, q resolveref.RefQuery, out resolveref.Outcome) {
	switch out.Kind {
	case resolveref.OutcomeFound:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(out.Result)
	case resolveref.OutcomeNotFound:
		http.Error(w, "ref not found: "+displayRef(q.Ref), status)
	case resolveref.OutcomeNoDefaultBranch:
		http.Error(w, "repository has no default branch", status)
	case resolveref.OutcomeProtocolError:
		if out.RepositoryNotFound() {
			http.Error(w, "repository not found: "+q.Owner+"/"+q.Repo, status)
			return
		}
		http.Error(w, errorText(out), status)
	default:
		http.Error(w, errorText(out), status)
	}
}

func errorText(out resolveref.Outcome) string {
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

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}
