// Package client talks to the chunkstore HTTP API.
//
// HTTPClient maps each endpoint to one method. Upload and Download build the
// full transfers on top of any Client: a file is sent in chunk-size pieces
// and finalized with its MD5, and read back chunk by chunk using the size
// reported by the server.
//
// # Error Handling
//
// Non-2xx answers are reported as ErrBadRequest (400) or ErrServer (any other
// status); transport failures as ErrUnavailable. Match them with errors.Is.
package client
