package testproviders_test

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/grafana/resolveref"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Github", func() {
	var (
		resolver *resolveref.Resolver
		owner    string
		repo     string
		token    string
	)

	BeforeEach(func() {
		By("Getting GitHub settings from environment")
		if os.Getenv("GITHUB_TEST_LIVE") == "" {
			Skip("GITHUB_TEST_LIVE is not set")
		}

		// A public repository with a main branch, resolved anonymously.
		owner, repo = "grafana", "nanogit"
		token = os.Getenv("GITHUB_TEST_TOKEN")

		var err error
		resolver, err = resolveref.NewResolver(
			resolveref.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
		)
		Expect(err).NotTo(HaveOccurred())
	})

	It("resolves the default branch", func() {
		out := resolver.Resolve(context.Background(), resolveref.RefQuery{Owner: owner, Repo: repo})
		Expect(out.Kind).To(Equal(resolveref.OutcomeFound), "outcome error: %v", out.Err)
		Expect(out.Result.SHA).To(MatchRegexp(`^[0-9a-f]{40}$`))
		Expect(out.Result.FQRef).To(HavePrefix("refs/heads/"))

		By("Resolving the same branch by name")
		again := resolver.Resolve(context.Background(), resolveref.RefQuery{Owner: owner, Repo: repo, Ref: out.Result.FQRef})
		Expect(again.Result.FQRef).To(Equal(out.Result.FQRef))
	})

	It("reports a missing ref", func() {
		out := resolver.Resolve(context.Background(), resolveref.RefQuery{Owner: owner, Repo: repo, Ref: "refs/heads/this-branch-does-not-exist"})
		Expect(out.Kind).To(Equal(resolveref.OutcomeNotFound))
	})

	It("reports a missing repository as not found", func() {
		out := resolver.Resolve(context.Background(), resolveref.RefQuery{Owner: owner, Repo: "this-repository-does-not-exist-0f3a"})
		Expect(out.RepositoryNotFound()).To(BeTrue(), "outcome: %s %v", out.Kind, out.Err)
	})

	It("resolves a private repository with a token", func() {
		private := os.Getenv("GITHUB_TEST_REPO")
		if private == "" || token == "" {
			Skip("GITHUB_TEST_REPO and GITHUB_TEST_TOKEN must be set")
		}

		privateOwner, privateRepo, ok := strings.Cut(private, "/")
		Expect(ok).To(BeTrue(), "GITHUB_TEST_REPO must be <owner>/<repo>")

		out := resolver.Resolve(context.Background(), resolveref.RefQuery{Owner: privateOwner, Repo: privateRepo, Token: token})
		Expect(out.Kind).To(Equal(resolveref.OutcomeFound), "outcome error: %v", out.Err)
	})
})
