package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/grafana/resolveref/log"
	"github.com/grafana/resolveref/protocol"
	"github.com/klauspost/compress/gzip"
)

// InfoRefsURL returns the discovery URL for owner/repo:
// <base>/<owner>/<repo>.git/info/refs?service=git-upload-pack.
func (c *RawClient) InfoRefsURL(owner, repo string) *url.URL {
	u := c.base.JoinPath(owner, repo+".git", "info", "refs")

	query := make(url.Values)
	query.Set("service", protocol.ServiceUploadPack)
	u.RawQuery = query.Encode()

	return u
}

// InfoRefs requests the ref advertisement of owner/repo using the Smart HTTP protocol.
//
// It sends a single GET request to $GIT_URL/info/refs?service=git-upload-pack and never retries.
// On a 200 response it returns the body, gzip-decoded if the server compressed it; the caller must
// close it, and may do so before EOF to abort the transfer. Any other status is drained, closed and
// returned as a StatusError. Failures to get a response are returned as a *TransportError.
//
// See:
//   - https://git-scm.com/docs/http-protocol#_smart_clients
func (c *RawClient) InfoRefs(ctx context.Context, owner, repo string) (io.ReadCloser, error) {
	u := c.InfoRefsURL(owner, repo)

	logger := log.FromContextOrNoop(ctx)
	logger.Debug("InfoRefs", "url", u.String(), "authenticated", c.HasCredentials())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, NewTransportError(http.MethodGet, u, err)
	}

	c.addDefaultHeaders(req)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, NewTransportError(req.Method, u, err)
	}

	if statusErr := CheckHTTPStatus(res, c.HasCredentials()); statusErr != nil {
		drain(res.Body)
		logger.Debug("InfoRefs failed", "status", res.StatusCode, "statusText", res.Status)
		return nil, statusErr
	}

	logger.Debug("InfoRefs response",
		"status", res.StatusCode,
		"statusText", res.Status,
		"contentEncoding", res.Header.Get("Content-Encoding"))

	if res.Header.Get("Content-Encoding") != "gzip" {
		return res.Body, nil
	}

	zr, err := gzip.NewReader(res.Body)
	if err != nil {
		_ = res.Body.Close()
		return nil, NewTransportError(req.Method, u, fmt.Errorf("reading gzip header: %w", err))
	}

	return &gzipBody{Reader: zr, body: res.Body}, nil
}

// gzipBody closes both the decompressor and the underlying response body.
type gzipBody struct {
	*gzip.Reader
	body io.ReadCloser
}

func (g *gzipBody) Close() error {
	zerr := g.Reader.Close()
	if err := g.body.Close(); err != nil {
		return err
	}
	return zerr
}

// drain discards what is left of body and closes it so the connection can be reused.
// Error pages are small; anything beyond the limit is left for Close to abort.
func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}
