package client

import "context"

// StartResult is the answer to an upload start.
type StartResult struct {
	Token     string
	ChunkSize uint64
}

type Client interface {
	Limit(ctx context.Context) (uint64, error)
	Start(ctx context.Context, size *uint64) (StartResult, error)
	WriteChunk(ctx context.Context, token string, offset uint64, data []byte) error
	Finalize(ctx context.Context, token, name, md5 string) (string, error)
	Meta(ctx context.Context, ref string) (uint64, error)
	ReadChunk(ctx context.Context, ref string, offset uint64) ([]byte, error)
}
