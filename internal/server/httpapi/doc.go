// Package httpapi exposes the upload and file services over HTTP.
//
// Routes:
//
//	GET  /v1/upload/limit
//	POST /v1/upload/start?file_size=<uint64>
//	POST /v1/upload/chunk?token=<token>&offset=<uint64>   (raw body)
//	POST /v1/upload/finalize?token=<token>                 ({"name","md5"})
//	GET  /v1/files/{ref}/meta
//	GET  /v1/files/{ref}/chunks/{offset}
//
// A chunk body is read only after its token and offset are accepted, and never
// beyond the upload's remaining size or common.MaxChunkBody.
//
// Client mistakes are answered with 400 and storage failures with 500. No
// error detail is sent to the client; it is logged instead.
package httpapi
