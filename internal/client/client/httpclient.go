package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/chunkstore/internal/logging"
	"github.com/google/uuid"
)

// maxChunkResponse bounds a chunk download; the server never sends more
// than one chunk.
const maxChunkResponse = 1 << 20

type HTTPClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  logging.Logger
}

// NewHTTPClient returns a client for the API at baseURL. Each request is
// bounded by timeout when it is positive.
func NewHTTPClient(baseURL string, timeout time.Duration, l logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: timeout,
		logger:  l.With("module", "http_client"),
	}
}

func (c *HTTPClient) Limit(ctx context.Context) (uint64, error) {
	var resp struct {
		FileSizeLimit uint64 `json:"file_size_limit"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/upload/limit", nil, "", nil, &resp); err != nil {
		return 0, err
	}
	return resp.FileSizeLimit, nil
}

func (c *HTTPClient) Start(ctx context.Context, size *uint64) (StartResult, error) {
	q := url.Values{}
	if size != nil {
		q.Set("file_size", strconv.FormatUint(*size, 10))
	}

	var resp struct {
		Token     string `json:"token"`
		ChunkSize uint64 `json:"chunk_size"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/upload/start", q, "", nil, &resp); err != nil {
		return StartResult{}, err
	}
	return StartResult{Token: resp.Token, ChunkSize: resp.ChunkSize}, nil
}

func (c *HTTPClient) WriteChunk(ctx context.Context, token string, offset uint64, data []byte) error {
	q := url.Values{}
	q.Set("token", token)
	q.Set("offset", strconv.FormatUint(offset, 10))

	return c.doJSON(ctx, http.MethodPost, "/v1/upload/chunk", q, "application/octet-stream", data, nil)
}

func (c *HTTPClient) Finalize(ctx context.Context, token, name, md5 string) (string, error) {
	body, err := json.Marshal(struct {
		Name string `json:"name"`
		MD5  string `json:"md5"`
	}{Name: name, MD5: md5})
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("token", token)

	var resp struct {
		Ref string `json:"ref"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/upload/finalize", q, "application/json", body, &resp); err != nil {
		return "", err
	}
	return resp.Ref, nil
}

func (c *HTTPClient) Meta(ctx context.Context, ref string) (uint64, error) {
	var resp struct {
		FileSize uint64 `json:"file_size"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/files/"+url.PathEscape(ref)+"/meta", nil, "", nil, &resp); err != nil {
		return 0, err
	}
	return resp.FileSize, nil
}

func (c *HTTPClient) ReadChunk(ctx context.Context, ref string, offset uint64) ([]byte, error) {
	path := "/v1/files/" + url.PathEscape(ref) + "/chunks/" + strconv.FormatUint(offset, 10)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.do(ctx, http.MethodGet, path, nil, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxChunkResponse))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return data, nil
}

func (c *HTTPClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// doJSON performs a request and decodes a JSON answer into out when out is
// not nil.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, q url.Values, contentType string, body []byte, out any) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.do(ctx, method, path, q, contentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrServer, path, err)
	}
	return nil
}

// do sends the request and turns any non-2xx status into an error. On success
// the caller owns resp.Body.
func (c *HTTPClient) do(ctx context.Context, method, path string, q url.Values, contentType string, body []byte) (*http.Response, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	id := uuid.NewString()
	req.Header.Set("X-Request-Id", id)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.logger.Debug(ctx, "request", "method", method, "path", path, "status", resp.StatusCode, "request_id", id, "duration", time.Since(start))

	if resp.StatusCode/100 == 2 {
		return resp, nil
	}

	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode == http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %s %s", ErrBadRequest, method, path)
	}
	return nil, fmt.Errorf("%w: %s %s: %s", ErrServer, method, path, resp.Status)
}
