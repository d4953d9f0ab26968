package common

// ChunkSize is the fixed transfer unit in bytes. Chunk reads must start at a
// multiple of it and finalize hashes the staging file in blocks of this size.
const ChunkSize = 524288

// DefaultUploadLimit is the largest file the server accepts unless configured
// otherwise (1 GiB).
const DefaultUploadLimit uint64 = 1024 * 1024 * 1024

// MaxChunkBody is the largest chunk body the HTTP API accepts in one request.
const MaxChunkBody = 4 * ChunkSize
