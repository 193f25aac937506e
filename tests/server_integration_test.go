package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/grafana/resolveref"
	"github.com/grafana/resolveref/server"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Server", func() {
	var (
		baseURL string
		repo    string
	)

	BeforeEach(func() {
		repo = uniqueRepo("served")
		gitHost.AddRepo("adobe", repo, Repo{DefaultBranch: "refs/heads/main", Refs: standardRefs(), Token: "s3cret"})

		resolver, err := resolveref.NewResolver(resolveref.WithBaseURL(gitHost.URL()))
		Expect(err).NotTo(HaveOccurred())

		srv, err := server.New(server.Config{
			Address: "127.0.0.1:0",
			Handler: server.NewHandler(resolver, server.WithDefaultToken("s3cret")),
		})
		Expect(err).NotTo(HaveOccurred())

		serveCtx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- srv.Serve(serveCtx)
		}()
		DeferCleanup(func() {
			cancel()
			Eventually(done).Should(Receive(BeNil()))
		})

		Eventually(srv.Ready()).Should(BeClosed())
		baseURL = "http://" + srv.Addr().String()
	})

	get := func(path string, header http.Header) (int, string) {
		req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
		Expect(err).NotTo(HaveOccurred())
		for k, v := range header {
			req.Header[k] = v
		}
		res, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		defer res.Body.Close()
		body, err := io.ReadAll(res.Body)
		Expect(err).NotTo(HaveOccurred())
		return res.StatusCode, string(body)
	}

	It("answers health checks", func() {
		status, body := get("/healthz", nil)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(Equal("ok\n"))
	})

	It("resolves with the configured token", func() {
		status, body := get("/resolve?owner=adobe&repo="+repo+"&ref=v1.0.0", nil)
		Expect(status).To(Equal(http.StatusOK))

		var result resolveref.Result
		Expect(json.Unmarshal([]byte(body), &result)).To(Succeed())
		Expect(result).To(Equal(resolveref.Result{SHA: tagSHA, FQRef: "refs/tags/v1.0.0"}))
	})

	It("prefers the request token", func() {
		status, _ := get("/?owner=adobe&repo="+repo, http.Header{"Authorization": {"token wrong"}})
		Expect(status).To(Equal(http.StatusInternalServerError))
	})

	It("reports a missing ref as not found", func() {
		status, body := get("/resolve?owner=adobe&repo="+repo+"&ref=nope", nil)
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(body).To(ContainSubstring("ref not found: nope"))
	})

	DescribeTable("maps outcomes to statuses",
		func(query string, expected int) {
			status, _ := get("/resolve?"+query, nil)
			Expect(status).To(Equal(expected))
		},
		Entry("missing repository", "owner=adobe&repo=does-not-exist", http.StatusNotFound),
		Entry("missing owner", "repo=x", http.StatusBadRequest),
		Entry("invalid repo", "owner=adobe&repo=..", http.StatusBadRequest),
	)
})
