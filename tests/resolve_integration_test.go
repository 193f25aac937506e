package integration_test

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/grafana/resolveref"
	"github.com/grafana/resolveref/protocol"
	"github.com/grafana/resolveref/protocol/client"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const (
	mainSHA    = "d6cd1e2bd19e03a81132a23b2025920577f84e37"
	devSHA     = "b1f0a6c1e0f1d2c3b4a5968778695a4b3c2d1e0f"
	releaseSHA = "7e2c8d1b3a4f5e6d7c8b9a0f1e2d3c4b5a697887"
	tagSHA     = "a94a8fe5ccb19ba61c4c0873d391e987982fbbd3"
)

var repoCounter int

func uniqueRepo(prefix string) string {
	repoCounter++
	return fmt.Sprintf("%s-%d", prefix, repoCounter)
}

func standardRefs() []Ref {
	return []Ref{
		{Name: "refs/heads/dev", SHA: devSHA},
		{Name: "refs/heads/main", SHA: mainSHA},
		{Name: "refs/heads/release", SHA: releaseSHA},
		{Name: "refs/tags/release", SHA: tagSHA},
		{Name: "refs/tags/v1.0.0", SHA: tagSHA},
	}
}

var _ = Describe("Resolve", func() {
	var resolver *resolveref.Resolver

	BeforeEach(func() {
		var err error
		resolver, err = resolveref.NewResolver(
			resolveref.WithBaseURL(gitHost.URL()),
			resolveref.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
		)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("public repository", func() {
		var repo string

		BeforeEach(func() {
			repo = uniqueRepo("public")
			gitHost.AddRepo("grafana", repo, Repo{DefaultBranch: "refs/heads/main", Refs: standardRefs()})
		})

		DescribeTable("resolves refs",
			func(ref string, expected resolveref.Result) {
				out := resolver.Resolve(ctx, resolveref.RefQuery{Owner: "grafana", Repo: repo, Ref: ref})
				Expect(out.Kind).To(Equal(resolveref.OutcomeFound))
				Expect(out.Result).To(Equal(expected))
				Expect(out.Error()).NotTo(HaveOccurred())
			},
			Entry("default branch", "", resolveref.Result{SHA: mainSHA, FQRef: "refs/heads/main"}),
			Entry("branch", "dev", resolveref.Result{SHA: devSHA, FQRef: "refs/heads/dev"}),
			Entry("tag", "v1.0.0", resolveref.Result{SHA: tagSHA, FQRef: "refs/tags/v1.0.0"}),
			Entry("fully qualified tag", "refs/tags/release", resolveref.Result{SHA: tagSHA, FQRef: "refs/tags/release"}),
			Entry("branch shadowing a tag", "release", resolveref.Result{SHA: releaseSHA, FQRef: "refs/heads/release"}),
		)

		It("reports a missing ref as not found", func() {
			out := resolver.Resolve(ctx, resolveref.RefQuery{Owner: "grafana", Repo: repo, Ref: "nope"})
			Expect(out).To(Equal(protocol.NotFound()))
			Expect(gitHost.Requests("grafana", repo)).To(Equal(1))
		})

		It("resolves concurrently without shared state", func() {
			var wg sync.WaitGroup
			results := make([]resolveref.Outcome, 20)
			for i := range results {
				wg.Add(1)
				go func() {
					defer wg.Done()
					defer GinkgoRecover()
					results[i] = resolver.Resolve(ctx, resolveref.RefQuery{Owner: "grafana", Repo: repo, Ref: "main"})
				}()
			}
			wg.Wait()

			for _, out := range results {
				Expect(out.Result).To(Equal(resolveref.Result{SHA: mainSHA, FQRef: "refs/heads/main"}))
			}
			Expect(gitHost.Requests("grafana", repo)).To(Equal(len(results)))
		})
	})

	It("decodes gzip advertisements", func() {
		repo := uniqueRepo("gzip")
		gitHost.AddRepo("grafana", repo, Repo{DefaultBranch: "refs/heads/dev", Refs: standardRefs(), Gzip: true})

		out := resolver.Resolve(ctx, resolveref.RefQuery{Owner: "grafana", Repo: repo})
		Expect(out.Result).To(Equal(resolveref.Result{SHA: devSHA, FQRef: "refs/heads/dev"}))
	})

	It("abandons the connection once the ref is found", func() {
		repo := uniqueRepo("held")
		aborted := gitHost.AddRepo("grafana", repo, Repo{DefaultBranch: "refs/heads/main", Refs: standardRefs(), Hold: true})

		out := resolver.Resolve(ctx, resolveref.RefQuery{Owner: "grafana", Repo: repo, Ref: "main"})
		Expect(out.Kind).To(Equal(resolveref.OutcomeFound))
		Eventually(aborted).WithTimeout(5 * time.Second).Should(BeClosed())
	})

	It("reports an empty repository as having no default branch", func() {
		repo := uniqueRepo("empty")
		gitHost.AddRepo("grafana", repo, Repo{})

		out := resolver.Resolve(ctx, resolveref.RefQuery{Owner: "grafana", Repo: repo})
		Expect(out).To(Equal(protocol.NoDefaultBranch()))
	})

	Context("private repository", func() {
		var repo string

		BeforeEach(func() {
			repo = uniqueRepo("private")
			gitHost.AddRepo("grafana", repo, Repo{DefaultBranch: "refs/heads/main", Refs: standardRefs(), Token: "s3cret"})
		})

		It("resolves with the token", func() {
			out := resolver.Resolve(ctx, resolveref.RefQuery{Owner: "grafana", Repo: repo, Token: "s3cret"})
			Expect(out.Result.SHA).To(Equal(mainSHA))
		})

		It("looks missing without a token", func() {
			out := resolver.Resolve(ctx, resolveref.RefQuery{Owner: "grafana", Repo: repo})
			Expect(out.Kind).To(Equal(resolveref.OutcomeProtocolError))
			Expect(out.RepositoryNotFound()).To(BeTrue())
			Expect(errors.Is(out.Err, client.ErrRepositoryNotFound)).To(BeTrue())
		})

		It("is unauthorized with the wrong token", func() {
			out := resolver.Resolve(ctx, resolveref.RefQuery{Owner: "grafana", Repo: repo, Token: "wrong"})
			Expect(out.Kind).To(Equal(resolveref.OutcomeProtocolError))
			Expect(out.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(errors.Is(out.Err, client.ErrUnauthorized)).To(BeTrue())
		})
	})

	It("never retries a failing server", func() {
		repo := uniqueRepo("unavailable")
		gitHost.AddRepo("grafana", repo, Repo{Status: http.StatusServiceUnavailable})

		out := resolver.Resolve(ctx, resolveref.RefQuery{Owner: "grafana", Repo: repo, Ref: "main"})
		Expect(out.Kind).To(Equal(resolveref.OutcomeProtocolError))
		Expect(out.StatusCode).To(Equal(http.StatusServiceUnavailable))
		Expect(errors.Is(out.Err, client.ErrServerUnavailable)).To(BeTrue())
		Expect(gitHost.Requests("grafana", repo)).To(Equal(1))
	})

	It("rejects an invalid query without a request", func() {
		out := resolver.Resolve(ctx, resolveref.RefQuery{Owner: "grafana"})
		Expect(out.Kind).To(Equal(resolveref.OutcomeUsageError))
		Expect(errors.Is(out.Err, resolveref.ErrInvalidQuery)).To(BeTrue())
		Expect(gitHost.Requests("grafana", "")).To(BeZero())
	})
})
