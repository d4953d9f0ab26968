package fileref

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/chunkstore/internal/common"
	"google.golang.org/protobuf/encoding/protowire"
)

// RandomLen is the number of random bytes in a V1 reference.
const RandomLen = 16

// Field numbers of the wire format.
const (
	fieldV1 protowire.Number = 1

	fieldV1CreatedAt protowire.Number = 1
	fieldV1Random    protowire.Number = 2
	fieldV1Size      protowire.Number = 3
)

// FileRef is a versioned file reference. V1 is the only variant.
type FileRef interface {
	isFileRef()
}

// V1 is the first reference format.
type V1 struct {
	// CreatedAt is the upload start time in seconds since the Unix epoch.
	CreatedAt uint64
	// Random makes the reference unique and unguessable.
	Random [RandomLen]byte
	// Size is the declared total length in bytes, nil when unknown.
	Size *uint64
}

func (V1) isFileRef() {}

// DeclaredSize returns the declared size and whether one was given.
func (v V1) DeclaredSize() (uint64, bool) {
	if v.Size == nil {
		return 0, false
	}
	return *v.Size, true
}

func (v V1) String() string {
	size := "unknown"
	if v.Size != nil {
		size = strconv.FormatUint(*v.Size, 10)
	}
	return fmt.Sprintf("v1{created_at=%d size=%s random=%s}", v.CreatedAt, size, hex.EncodeToString(v.Random[:]))
}

// SizeOf is a convenience for building V1.Size.
func SizeOf(n uint64) *uint64 {
	return &n
}

// Encode serializes ref into a token.
func Encode(ref FileRef) (string, error) {
	var b []byte

	switch r := ref.(type) {
	case V1:
		b = protowire.AppendTag(b, fieldV1, protowire.BytesType)
		b = protowire.AppendBytes(b, appendV1(nil, r))
	case *V1:
		if r == nil {
			return "", fmt.Errorf("encode: nil reference")
		}
		return Encode(*r)
	default:
		return "", fmt.Errorf("encode %T: %w", ref, common.ErrUnsupportedVersion)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

func appendV1(b []byte, v V1) []byte {
	if v.CreatedAt != 0 {
		b = protowire.AppendTag(b, fieldV1CreatedAt, protowire.VarintType)
		b = protowire.AppendVarint(b, v.CreatedAt)
	}
	b = protowire.AppendTag(b, fieldV1Random, protowire.BytesType)
	b = protowire.AppendBytes(b, v.Random[:])
	if v.Size != nil {
		b = protowire.AppendTag(b, fieldV1Size, protowire.VarintType)
		b = protowire.AppendVarint(b, *v.Size)
	}
	return b
}

// Decode parses a token. It fails with common.ErrInvalidToken when the text
// or the payload is malformed, and with common.ErrUnsupportedVersion when the
// payload is well formed but carries no version this build understands.
func Decode(token string) (FileRef, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token: %w", common.ErrInvalidToken)
	}

	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", common.ErrInvalidToken)
	}

	var (
		v1        V1
		hasV1     bool
		randomLen = -1
	)

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("decode tag: %v: %w", protowire.ParseError(n), common.ErrInvalidToken)
		}
		b = b[n:]

		if num == fieldV1 {
			if typ != protowire.BytesType {
				return nil, fmt.Errorf("field v1 has wire type %d: %w", typ, common.ErrInvalidToken)
			}
			payload, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("decode v1: %v: %w", protowire.ParseError(n), common.ErrInvalidToken)
			}
			b = b[n:]
			// repeated occurrences of an embedded message merge
			if err := mergeV1(&v1, &randomLen, payload); err != nil {
				return nil, err
			}
			hasV1 = true
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return nil, fmt.Errorf("skip field %d: %v: %w", num, protowire.ParseError(n), common.ErrInvalidToken)
		}
		b = b[n:]
	}

	if !hasV1 {
		return nil, fmt.Errorf("no known version: %w", common.ErrUnsupportedVersion)
	}
	if randomLen != RandomLen {
		return nil, fmt.Errorf("random must be %d bytes, got %d: %w", RandomLen, max(randomLen, 0), common.ErrInvalidToken)
	}

	return v1, nil
}

func mergeV1(v *V1, randomLen *int, b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("decode v1 tag: %v: %w", protowire.ParseError(n), common.ErrInvalidToken)
		}
		b = b[n:]

		switch {
		case num == fieldV1CreatedAt && typ == protowire.VarintType:
			x, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("decode created_at: %v: %w", protowire.ParseError(n), common.ErrInvalidToken)
			}
			v.CreatedAt = x
			b = b[n:]

		case num == fieldV1Random && typ == protowire.BytesType:
			x, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("decode random: %v: %w", protowire.ParseError(n), common.ErrInvalidToken)
			}
			*randomLen = len(x)
			if *randomLen == RandomLen {
				copy(v.Random[:], x)
			}
			b = b[n:]

		case num == fieldV1Size && typ == protowire.VarintType:
			x, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("decode size: %v: %w", protowire.ParseError(n), common.ErrInvalidToken)
			}
			v.Size = SizeOf(x)
			b = b[n:]

		case num == fieldV1CreatedAt || num == fieldV1Random || num == fieldV1Size:
			return fmt.Errorf("field %d has wire type %d: %w", num, typ, common.ErrInvalidToken)

		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("skip v1 field %d: %v: %w", num, protowire.ParseError(n), common.ErrInvalidToken)
			}
			b = b[n:]
		}
	}

	return nil
}
