package httpapi

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// Handler returns the full HTTP handler: routes, compression, request IDs
// and access logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.hello)

	mux.HandleFunc("GET /v1/upload/limit", s.uploadLimit)
	mux.HandleFunc("POST /v1/upload/start", s.uploadStart)
	mux.HandleFunc("POST /v1/upload/chunk", s.uploadChunk)
	mux.HandleFunc("POST /v1/upload/finalize", s.uploadFinalize)

	mux.HandleFunc("GET /v1/files/{ref}/meta", s.fileMeta)
	mux.HandleFunc("GET /v1/files/{ref}/chunks/{offset}", s.fileChunk)

	return s.withRequestID(s.withAccessLog(gzhttp.GzipHandler(mux)))
}
