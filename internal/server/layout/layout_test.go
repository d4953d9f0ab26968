package layout

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/chunkstore/internal/common"
	"github.com/dmitrijs2005/chunkstore/internal/fileref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var random = [fileref.RandomLen]byte{
	0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
	0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
}

type otherRef struct{ fileref.FileRef }

func TestLayout_Paths(t *testing.T) {
	created := uint64(time.Date(2024, time.March, 7, 9, 5, 3, 0, time.UTC).Unix())
	l := New("/srv/data")

	tests := []struct {
		name        string
		ref         fileref.V1
		wantStaging string
		wantFinal   string
	}{
		{
			name:        "declared size",
			ref:         fileref.V1{CreatedAt: created, Random: random, Size: fileref.SizeOf(1048576)},
			wantStaging: "/srv/data/v1/2024/03/07_09/20240307_090503_s1048576_00112233445566778899aabbccddeeff.tmp",
			wantFinal:   "/srv/data/v1/2024/03/07_09/20240307_090503_s1048576_00112233445566778899aabbccddeeff.bin",
		},
		{
			name:        "unknown size",
			ref:         fileref.V1{CreatedAt: created, Random: random},
			wantStaging: "/srv/data/v1/2024/03/07_09/20240307_090503_sunknown_00112233445566778899aabbccddeeff.tmp",
			wantFinal:   "/srv/data/v1/2024/03/07_09/20240307_090503_sunknown_00112233445566778899aabbccddeeff.bin",
		},
		{
			name:        "epoch, zero size",
			ref:         fileref.V1{Random: random, Size: fileref.SizeOf(0)},
			wantStaging: "/srv/data/v1/1970/01/01_00/19700101_000000_s0_00112233445566778899aabbccddeeff.tmp",
			wantFinal:   "/srv/data/v1/1970/01/01_00/19700101_000000_s0_00112233445566778899aabbccddeeff.bin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			staging, err := l.StagingPath(tt.ref)
			require.NoError(t, err)
			final, err := l.FinalPath(tt.ref)
			require.NoError(t, err)

			assert.Equal(t, filepath.FromSlash(tt.wantStaging), staging)
			assert.Equal(t, filepath.FromSlash(tt.wantFinal), final)
			assert.NotEqual(t, staging, final)
			assert.Equal(t, filepath.Dir(staging), filepath.Dir(final), "promotion must stay within one directory")
		})
	}
}

func TestLayout_Deterministic(t *testing.T) {
	l := New("root")
	a := fileref.V1{CreatedAt: 1700000000, Random: random, Size: fileref.SizeOf(10)}
	b := fileref.V1{CreatedAt: 1700000000, Random: random, Size: fileref.SizeOf(10)}

	pa, err := l.FinalPath(a)
	require.NoError(t, err)
	pb, err := l.FinalPath(b)
	require.NoError(t, err)
	assert.Equal(t, pa, pb)

	c := b
	c.Random[15] ^= 1
	pc, err := l.FinalPath(c)
	require.NoError(t, err)
	assert.NotEqual(t, pa, pc)
}

func TestLayout_FromDecodedToken(t *testing.T) {
	ref := fileref.V1{CreatedAt: 1700000000, Random: random, Size: fileref.SizeOf(3)}
	token, err := fileref.Encode(ref)
	require.NoError(t, err)

	decoded, err := fileref.Decode(token)
	require.NoError(t, err)

	l := New(t.TempDir())
	want, err := l.StagingPath(ref)
	require.NoError(t, err)
	got, err := l.StagingPath(decoded)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLayout_UnsupportedVersion(t *testing.T) {
	l := New("/srv/data")

	_, err := l.StagingPath(otherRef{})
	assert.ErrorIs(t, err, common.ErrUnsupportedVersion)

	_, err = l.FinalPath(nil)
	assert.ErrorIs(t, err, common.ErrUnsupportedVersion)
}

func TestLayout_Root(t *testing.T) {
	assert.Equal(t, "/srv/data", New("/srv/data").Root())
}
