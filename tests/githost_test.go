package integration_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// Ref is an advertised ref.
type Ref struct {
	Name string
	SHA  string
}

// Repo is a repository served by GitHost.
type Repo struct {
	// DefaultBranch is advertised as the HEAD symref. Empty means no symref.
	DefaultBranch string
	Refs          []Ref
	// Token, when set, makes the repository private: requests without it get 401.
	Token string
	// Gzip compresses the advertisement.
	Gzip bool
	// Status, when set, is returned instead of the advertisement.
	Status int
	// Hold keeps the response open after the refs until the client goes away.
	Hold bool
}

// GitHost serves ref advertisements the way GitHub does.
type GitHost struct {
	server *httptest.Server

	mu       sync.Mutex
	repos    map[string]Repo
	requests map[string]int
	aborted  map[string]chan struct{}
}

func NewGitHost() *GitHost {
	h := &GitHost{
		repos:    make(map[string]Repo),
		requests: make(map[string]int),
		aborted:  make(map[string]chan struct{}),
	}
	h.server = httptest.NewServer(http.HandlerFunc(h.serveInfoRefs))
	return h
}

func (h *GitHost) URL() string {
	return h.server.URL
}

func (h *GitHost) Close() {
	h.server.Close()
}

// AddRepo registers repo under owner/name and returns a channel closed when a held response is abandoned.
func (h *GitHost) AddRepo(owner, name string, repo Repo) <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := owner + "/" + name
	h.repos[key] = repo
	h.requests[key] = 0
	h.aborted[key] = make(chan struct{})
	return h.aborted[key]
}

// Requests returns how many discovery requests owner/name received.
func (h *GitHost) Requests(owner, name string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.requests[owner+"/"+name]
}

func (h *GitHost) serveInfoRefs(w http.ResponseWriter, r *http.Request) {
	path, ok := strings.CutSuffix(r.URL.Path, ".git/info/refs")
	if !ok || r.URL.Query().Get("service") != "git-upload-pack" {
		http.NotFound(w, r)
		return
	}
	key := strings.TrimPrefix(path, "/")

	h.mu.Lock()
	repo, exists := h.repos[key]
	h.requests[key]++
	aborted := h.aborted[key]
	h.mu.Unlock()

	if !exists {
		http.Error(w, "Repository not found.", http.StatusNotFound)
		return
	}
	if repo.Token != "" {
		if _, password, _ := r.BasicAuth(); password != repo.Token {
			w.Header().Set("WWW-Authenticate", `Basic realm="GitHub"`)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
	}
	if repo.Status != 0 {
		w.WriteHeader(repo.Status)
		return
	}

	w.Header().Set("Content-Type", "application/x-git-upload-pack-advertisement")
	body := advertisement(repo)

	if repo.Gzip {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write(body)
		_ = zw.Close()
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
		return
	}

	// Drop the final flush-pkt while holding so the body never looks complete.
	if repo.Hold {
		body = bytes.TrimSuffix(body, []byte("0000"))
	}
	_, _ = w.Write(body)
	if !repo.Hold {
		return
	}

	w.(http.Flusher).Flush()
	<-r.Context().Done()
	close(aborted)
}

func advertisement(repo Repo) []byte {
	var b strings.Builder
	b.WriteString(pkt("# service=git-upload-pack\n"))
	b.WriteString("0000")

	caps := "multi_ack thin-pack side-band side-band-64k ofs-delta shallow no-progress include-tag"
	if repo.DefaultBranch != "" {
		caps += " symref=HEAD:" + repo.DefaultBranch
	}
	caps += " object-format=sha1 agent=git/github-g1a2b3c4d5e6"

	if len(repo.Refs) == 0 {
		b.WriteString(pkt("0000000000000000000000000000000000000000 capabilities^{}\x00" + caps + "\n"))
	} else {
		head := repo.Refs[0].SHA
		for _, ref := range repo.Refs {
			if ref.Name == repo.DefaultBranch {
				head = ref.SHA
			}
		}
		b.WriteString(pkt(head + " HEAD\x00" + caps + "\n"))
		for _, ref := range repo.Refs {
			b.WriteString(pkt(ref.SHA + " " + ref.Name + "\n"))
		}
	}

	b.WriteString("0000")
	return []byte(b.String())
}

func pkt(s string) string {
	return fmt.Sprintf("%04x%s", len(s)+4, s)
}
