// Package common defines shared constants and sentinel errors used across
// server and client layers of chunkstore. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Token errors.
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnsupportedVersion = errors.New("unsupported token version")

	// Range errors.
	ErrOutOfRange       = errors.New("range exceeds declared size")
	ErrMisalignedOffset = errors.New("offset is not aligned to chunk size")

	// Upload verification.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// IsClientError reports whether err was caused by the caller's input rather
// than by the storage backend.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrUnsupportedVersion) ||
		errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrMisalignedOffset) ||
		errors.Is(err, ErrChecksumMismatch)
}
