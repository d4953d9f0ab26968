package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/chunkstore/internal/common"
)

// finalizeBodyLimit caps the finalize request body.
const finalizeBodyLimit = 64 * 1024

type limitResponse struct {
	FileSizeLimit uint64 `json:"file_size_limit"`
}

type startResponse struct {
	Token     string `json:"token"`
	ChunkSize uint64 `json:"chunk_size"`
}

type finalizeRequest struct {
	Name string `json:"name"`
	MD5  string `json:"md5"`
}

type finalizeResponse struct {
	Ref string `json:"ref"`
}

type metaResponse struct {
	FileSize uint64 `json:"file_size"`
}

var errBadRequest = errors.New("bad request")

func (s *Server) hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "Hello, World!")
}

func (s *Server) uploadLimit(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(r.Context(), w, limitResponse{FileSizeLimit: s.uploads.Limit()})
}

func (s *Server) uploadStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var size *uint64
	if raw := r.URL.Query().Get("file_size"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			s.fail(ctx, w, "start", badParam("file_size", err))
			return
		}
		size = &n
	}

	token, err := s.uploads.Start(ctx, size)
	if err != nil {
		s.fail(ctx, w, "start", err)
		return
	}

	s.writeJSON(ctx, w, startResponse{Token: token, ChunkSize: common.ChunkSize})
}

func (s *Server) uploadChunk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	offset, err := strconv.ParseUint(q.Get("offset"), 10, 64)
	if err != nil {
		s.fail(ctx, w, "chunk", badParam("offset", err))
		return
	}

	token := q.Get("token")

	// token and offset are checked before any of the body is read
	room, err := s.uploads.Room(ctx, token, offset)
	if err != nil {
		s.fail(ctx, w, "chunk", err)
		return
	}

	maxBody := min(room, common.MaxChunkBody)
	if r.ContentLength > int64(maxBody) {
		s.fail(ctx, w, "chunk", fmt.Errorf("body of %d bytes, at most %d allowed: %w", r.ContentLength, maxBody, common.ErrOutOfRange))
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, int64(maxBody)))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(ctx, w, "chunk", common.ErrOutOfRange)
			return
		}
		s.fail(ctx, w, "chunk", badParam("body", err))
		return
	}

	if err := s.uploads.WriteChunk(ctx, token, offset, data); err != nil {
		s.fail(ctx, w, "chunk", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) uploadFinalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req finalizeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, finalizeBodyLimit)).Decode(&req); err != nil {
		s.fail(ctx, w, "finalize", badParam("body", err))
		return
	}
	s.log(ctx).Debug(ctx, "finalize requested", "name", req.Name)

	ref, err := s.uploads.Finalize(ctx, r.URL.Query().Get("token"), req.MD5)
	if err != nil {
		s.fail(ctx, w, "finalize", err)
		return
	}

	s.writeJSON(ctx, w, finalizeResponse{Ref: ref})
}

func (s *Server) fileMeta(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	meta, err := s.files.Meta(ctx, r.PathValue("ref"))
	if err != nil {
		s.fail(ctx, w, "meta", err)
		return
	}

	s.writeJSON(ctx, w, metaResponse{FileSize: meta.Size})
}

func (s *Server) fileChunk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	offset, err := strconv.ParseUint(r.PathValue("offset"), 10, 64)
	if err != nil {
		s.fail(ctx, w, "read", badParam("offset", err))
		return
	}

	data, err := s.files.ReadChunk(ctx, r.PathValue("ref"), offset)
	if err != nil {
		s.fail(ctx, w, "read", err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// fail logs err and answers with a bare status: 400 for client mistakes,
// 500 for everything else.
func (s *Server) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	l := s.log(ctx)

	status := http.StatusInternalServerError
	var ioErr *common.IOError
	switch {
	case common.IsClientError(err), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
		l.Warn(ctx, "rejected request", "op", op, "error", err)
	case errors.As(err, &ioErr):
		l.Error(ctx, "storage failure", "op", op, "fs_op", ioErr.Op, "path", ioErr.Path, "offset", ioErr.Offset, "error", ioErr.Err)
	default:
		l.Error(ctx, "request failed", "op", op, "error", err)
	}

	http.Error(w, http.StatusText(status), status)
}

func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log(ctx).Error(ctx, "encode response", "error", err)
	}
}

func badParam(name string, err error) error {
	return fmt.Errorf("%w: %s: %v", errBadRequest, name, err)
}
