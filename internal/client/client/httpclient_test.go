package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/chunkstore/internal/common"
	"github.com/dmitrijs2005/chunkstore/internal/logging"
	"github.com/dmitrijs2005/chunkstore/internal/server/files"
	"github.com/dmitrijs2005/chunkstore/internal/server/httpapi"
	"github.com/dmitrijs2005/chunkstore/internal/server/layout"
	"github.com/dmitrijs2005/chunkstore/internal/server/uploads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBackend runs the real HTTP API over a temporary storage root.
func newBackend(t *testing.T, limit uint64) *HTTPClient {
	t.Helper()
	l := layout.New(t.TempDir())
	s := httpapi.NewServer("", logging.NewNop(),
		uploads.NewService(l, limit, logging.NewNop()),
		files.NewService(l, logging.NewNop()),
		httpapi.Timeouts{},
	)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return NewHTTPClient(ts.URL+"/", 5*time.Second, logging.NewNop())
}

func TestHTTPClient_RoundTrip(t *testing.T) {
	c := newBackend(t, 1000)
	ctx := context.Background()

	limit, err := c.Limit(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), limit)

	size := uint64(5)
	st, err := c.Start(ctx, &size)
	require.NoError(t, err)
	assert.Equal(t, uint64(common.ChunkSize), st.ChunkSize)

	require.NoError(t, c.WriteChunk(ctx, st.Token, 0, []byte("hello")))

	ref, err := c.Finalize(ctx, st.Token, "hello.txt", "5d41402abc4b2a76b9719d911017c592")
	require.NoError(t, err)
	assert.Equal(t, st.Token, ref)

	got, err := c.Meta(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got)

	data, err := c.ReadChunk(ctx, ref, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestHTTPClient_UnknownSize(t *testing.T) {
	c := newBackend(t, 1000)

	st, err := c.Start(context.Background(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, st.Token)
}

func TestHTTPClient_BadRequest(t *testing.T) {
	c := newBackend(t, 10)
	ctx := context.Background()

	size := uint64(11)
	_, err := c.Start(ctx, &size)
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = c.Meta(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = c.ReadChunk(ctx, "whatever", 7)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestHTTPClient_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL, time.Second, logging.NewNop())
	_, err := c.Limit(context.Background())
	assert.ErrorIs(t, err, ErrServer)
}

func TestHTTPClient_BadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{"))
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL, time.Second, logging.NewNop())
	_, err := c.Meta(context.Background(), "ref")
	assert.ErrorIs(t, err, ErrServer)
}

func TestHTTPClient_Unavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := NewHTTPClient(url, time.Second, logging.NewNop())
	_, err := c.Limit(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	c := NewHTTPClient(ts.URL, 50*time.Millisecond, logging.NewNop())
	_, err := c.Limit(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
