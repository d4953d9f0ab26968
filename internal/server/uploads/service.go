package uploads

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/chunkstore/internal/common"
	"github.com/dmitrijs2005/chunkstore/internal/fileref"
	"github.com/dmitrijs2005/chunkstore/internal/logging"
	"github.com/dmitrijs2005/chunkstore/internal/server/layout"
	"github.com/dmitrijs2005/chunkstore/internal/shared"
)

// State names the upload lifecycle stage reported in logs.
type State string

const (
	StateStarted    State = "started"
	StateReceiving  State = "receiving"
	StateFinalizing State = "finalizing"
	StateFinalized  State = "finalized"
	StateRejected   State = "rejected"
)

type Service struct {
	layout *layout.Layout
	limit  uint64
	random shared.RandomSource
	now    func() time.Time
	logger logging.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithRandomSource replaces crypto/rand, e.g. with a fixed stream in tests.
func WithRandomSource(r shared.RandomSource) Option {
	return func(s *Service) {
		s.random = r
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates an upload service writing below l. limit caps the
// declared size of new uploads and the extent of uploads of unknown size.
func NewService(l *layout.Layout, limit uint64, logger logging.Logger, opts ...Option) *Service {
	s := &Service{
		layout: l,
		limit:  limit,
		random: shared.CryptoRandom{},
		now:    time.Now,
		logger: logger.With("module", "uploads"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limit is the largest accepted file size in bytes.
func (s *Service) Limit() uint64 {
	return s.limit
}

// Start creates an empty staging file for a new upload and returns its token.
// size may be nil when the client does not know the final length.
func (s *Service) Start(ctx context.Context, size *uint64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if size != nil && *size > s.limit {
		return "", fmt.Errorf("declared size %d above limit %d: %w", *size, s.limit, common.ErrOutOfRange)
	}

	ref := fileref.V1{CreatedAt: uint64(s.now().Unix())}
	if size != nil {
		ref.Size = fileref.SizeOf(*size)
	}
	if err := s.random.Fill(ref.Random[:]); err != nil {
		return "", err
	}

	path, err := s.layout.StagingPath(ref)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", common.NewIOError("mkdir", dir, -1, err)
	}

	// O_EXCL: an existing file means the random part collided, never reuse it
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o660)
	if err != nil {
		return "", common.NewIOError("create", path, -1, err)
	}
	if err := f.Close(); err != nil {
		return "", common.NewIOError("close", path, -1, err)
	}

	token, err := fileref.Encode(ref)
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "upload started", "state", StateStarted, "path", path, "ref", ref.String())
	return token, nil
}

// WriteChunk stores data at offset in the staging file of token. Gaps are
// left to the filesystem and read back as zeros.
func (s *Service) WriteChunk(ctx context.Context, token string, offset uint64, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ref, err := s.decode(token)
	if err != nil {
		return err
	}

	if err := s.checkRange(ref, offset, uint64(len(data))); err != nil {
		return err
	}

	path, err := s.layout.StagingPath(ref)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return common.NewIOError("open", path, -1, err)
	}

	if _, err := f.WriteAt(data, int64(offset)); err != nil {
		_ = f.Close()
		return common.NewIOError("write", path, int64(offset), err)
	}

	if err := f.Close(); err != nil {
		return common.NewIOError("close", path, -1, err)
	}

	s.logger.Debug(ctx, "chunk written", "state", StateReceiving, "path", path, "offset", offset, "len", len(data))
	return nil
}

// Room returns how many bytes may still be written at offset for token. It
// touches no file, so callers can reject a chunk before reading its body.
func (s *Service) Room(ctx context.Context, token string, offset uint64) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	ref, err := s.decode(token)
	if err != nil {
		return 0, err
	}

	bound := min(s.bound(ref), math.MaxInt64)
	if offset > bound {
		return 0, fmt.Errorf("offset %d past %d: %w", offset, bound, common.ErrOutOfRange)
	}
	return bound - offset, nil
}

// bound is the declared size, or the upload limit when the size is unknown.
func (s *Service) bound(ref fileref.V1) uint64 {
	if n, ok := ref.DeclaredSize(); ok {
		return n
	}
	return s.limit
}

func (s *Service) checkRange(ref fileref.V1, offset, n uint64) error {
	end := offset + n
	if end < offset || end > math.MaxInt64 {
		return fmt.Errorf("chunk at %d of %d bytes overflows: %w", offset, n, common.ErrOutOfRange)
	}

	bound := s.bound(ref)
	if end > bound {
		return fmt.Errorf("chunk end %d exceeds %d: %w", end, bound, common.ErrOutOfRange)
	}
	return nil
}

// Finalize checks the staging file of token against expectedMD5 (hex, any
// case) and promotes it to the final path. On success it returns token,
// which stays the file's identifier for reads. On mismatch or any failure
// the staging file is left as it was.
func (s *Service) Finalize(ctx context.Context, token string, expectedMD5 string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref, err := s.decode(token)
	if err != nil {
		return "", err
	}

	staging, err := s.layout.StagingPath(ref)
	if err != nil {
		return "", err
	}
	final, err := s.layout.FinalPath(ref)
	if err != nil {
		return "", err
	}

	s.logger.Debug(ctx, "verifying upload", "state", StateFinalizing, "path", staging)

	sum, err := md5File(staging)
	if err != nil {
		return "", err
	}

	if !strings.EqualFold(sum, expectedMD5) {
		s.logger.Warn(ctx, "checksum mismatch", "state", StateRejected, "path", staging, "actual", sum, "expected", expectedMD5)
		return "", fmt.Errorf("md5 %s != %s: %w", sum, strings.ToLower(expectedMD5), common.ErrChecksumMismatch)
	}

	if err := os.Rename(staging, final); err != nil {
		return "", common.NewIOError("rename", staging, -1, err)
	}

	s.logger.Info(ctx, "upload finalized", "state", StateFinalized, "path", final, "md5", sum)
	return token, nil
}

// md5File hashes path in ChunkSize blocks.
func md5File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", common.NewIOError("open", path, -1, err)
	}
	defer f.Close()

	h := md5.New()
	buf := make([]byte, common.ChunkSize)
	var offset int64

	for {
		n, err := f.Read(buf)
		h.Write(buf[:n])
		offset += int64(n)

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", common.NewIOError("read", path, offset, err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func (s *Service) decode(token string) (fileref.V1, error) {
	ref, err := fileref.Decode(token)
	if err != nil {
		return fileref.V1{}, err
	}

	v1, ok := ref.(fileref.V1)
	if !ok {
		return fileref.V1{}, fmt.Errorf("upload with %T: %w", ref, common.ErrUnsupportedVersion)
	}
	return v1, nil
}
