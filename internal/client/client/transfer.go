package client

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/chunkstore/internal/common"
)

// Progress is called after every chunk with the bytes done so far and the
// total.
type Progress func(done, total uint64)

// Upload sends the file at path and returns its reference token.
func Upload(ctx context.Context, c Client, path string, progress Progress) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", err
	}
	size := uint64(fi.Size())

	st, err := c.Start(ctx, &size)
	if err != nil {
		return "", fmt.Errorf("start: %w", err)
	}

	// the server's chunk size is a hint, bounded by what it accepts per request
	chunkSize := st.ChunkSize
	if chunkSize == 0 || chunkSize > common.ChunkSize {
		chunkSize = common.ChunkSize
	}

	h := md5.New()
	buf := make([]byte, chunkSize)
	var offset uint64

	for offset < size {
		n, err := io.ReadFull(f, buf)
		if n > 0 {
			h.Write(buf[:n])
			if werr := c.WriteChunk(ctx, st.Token, offset, buf[:n]); werr != nil {
				return "", fmt.Errorf("chunk at %d: %w", offset, werr)
			}
			offset += uint64(n)
			if progress != nil {
				progress(offset, size)
			}
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}

	if offset != size {
		return "", fmt.Errorf("%s changed during upload: read %d of %d bytes", path, offset, size)
	}

	ref, err := c.Finalize(ctx, st.Token, filepath.Base(path), hex.EncodeToString(h.Sum(nil)))
	if err != nil {
		return "", fmt.Errorf("finalize: %w", err)
	}
	return ref, nil
}

// Download writes the file behind ref to w and returns the number of bytes
// written.
func Download(ctx context.Context, c Client, ref string, w io.Writer, progress Progress) (uint64, error) {
	size, err := c.Meta(ctx, ref)
	if err != nil {
		return 0, fmt.Errorf("meta: %w", err)
	}

	var offset uint64
	for offset < size {
		data, err := c.ReadChunk(ctx, ref, offset)
		if err != nil {
			return offset, fmt.Errorf("chunk at %d: %w", offset, err)
		}
		if len(data) == 0 {
			return offset, fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, offset, size)
		}
		if _, err := w.Write(data); err != nil {
			return offset, err
		}

		offset += uint64(len(data))
		if progress != nil {
			progress(offset, size)
		}
	}

	return offset, nil
}
