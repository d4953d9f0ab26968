// Package files serves finalized uploads: their size and aligned chunks.
// Staging files are never visible here.
package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/dmitrijs2005/chunkstore/internal/common"
	"github.com/dmitrijs2005/chunkstore/internal/fileref"
	"github.com/dmitrijs2005/chunkstore/internal/logging"
	"github.com/dmitrijs2005/chunkstore/internal/server/layout"
)

// Meta describes a finalized file.
type Meta struct {
	Size uint64
}

type Service struct {
	layout *layout.Layout
	logger logging.Logger
}

func NewService(l *layout.Layout, logger logging.Logger) *Service {
	return &Service{
		layout: l,
		logger: logger.With("module", "files"),
	}
}

// Meta returns the on-disk size of the finalized file named by token. A file
// that is not finalized yet is reported as an IOError like any other stat
// failure.
func (s *Service) Meta(ctx context.Context, token string) (Meta, error) {
	if err := ctx.Err(); err != nil {
		return Meta{}, err
	}

	path, err := s.finalPath(token)
	if err != nil {
		return Meta{}, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		return Meta{}, common.NewIOError("stat", path, -1, err)
	}

	return Meta{Size: uint64(fi.Size())}, nil
}

// ReadChunk returns up to common.ChunkSize bytes starting at offset, which
// must be a multiple of common.ChunkSize. A short result means the end of the
// file was reached; an empty one means offset is at or past the end.
func (s *Service) ReadChunk(ctx context.Context, token string, offset uint64) ([]byte, error) {
	if offset%common.ChunkSize != 0 {
		return nil, fmt.Errorf("offset %d: %w", offset, common.ErrMisalignedOffset)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.finalPath(token)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, common.NewIOError("open", path, -1, err)
	}
	defer f.Close()

	if offset > math.MaxInt64 {
		return []byte{}, nil
	}

	buf := make([]byte, common.ChunkSize)
	n, err := f.ReadAt(buf, int64(offset))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, common.NewIOError("read", path, int64(offset), err)
	}

	s.logger.Debug(ctx, "chunk read", "path", path, "offset", offset, "len", n)
	return buf[:n], nil
}

func (s *Service) finalPath(token string) (string, error) {
	ref, err := fileref.Decode(token)
	if err != nil {
		return "", err
	}
	return s.layout.FinalPath(ref)
}
