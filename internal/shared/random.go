// Package shared provides process-wide capabilities that are injected into
// services instead of being reached through globals.
package shared

import (
	"crypto/rand"
	"fmt"
	"io"
)

// RandomSource fills buffers with unpredictable bytes.
type RandomSource interface {
	Fill(b []byte) error
}

// CryptoRandom reads from crypto/rand.
type CryptoRandom struct{}

func (CryptoRandom) Fill(b []byte) error {
	if _, err := rand.Read(b); err != nil {
		return fmt.Errorf("read random: %w", err)
	}
	return nil
}

// ReaderRandom adapts an io.Reader, e.g. a fixed byte stream in tests.
type ReaderRandom struct {
	R io.Reader
}

func (r ReaderRandom) Fill(b []byte) error {
	if _, err := io.ReadFull(r.R, b); err != nil {
		return fmt.Errorf("read random: %w", err)
	}
	return nil
}
