// Package layout maps file references to their location on disk.
//
// Files live under
//
//	<root>/v1/<YYYY>/<MM>/<DD>_<HH>/<YYYYMMDD_HHMMSS>_s<size|unknown>_<hex(random)>.<tmp|bin>
//
// Times are UTC. Paths are a pure function of the reference and the root.
package layout

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dmitrijs2005/chunkstore/internal/common"
	"github.com/dmitrijs2005/chunkstore/internal/fileref"
)

const (
	stagingExt = "tmp"
	finalExt   = "bin"

	v1Dir       = "v1"
	unknownSize = "unknown"
)

// Layout derives paths under a fixed storage root.
type Layout struct {
	root string
}

func New(root string) *Layout {
	return &Layout{root: root}
}

func (l *Layout) Root() string {
	return l.root
}

// StagingPath is where chunks of ref are written before finalize.
func (l *Layout) StagingPath(ref fileref.FileRef) (string, error) {
	return l.path(ref, stagingExt)
}

// FinalPath is where ref is readable after finalize.
func (l *Layout) FinalPath(ref fileref.FileRef) (string, error) {
	return l.path(ref, finalExt)
}

func (l *Layout) path(ref fileref.FileRef, ext string) (string, error) {
	switch r := ref.(type) {
	case fileref.V1:
		return filepath.Join(l.root, v1Dir, v1Name(r, ext)), nil
	default:
		return "", fmt.Errorf("path for %T: %w", ref, common.ErrUnsupportedVersion)
	}
}

func v1Name(r fileref.V1, ext string) string {
	created := time.Unix(int64(r.CreatedAt), 0).UTC()

	size := unknownSize
	if n, ok := r.DeclaredSize(); ok {
		size = strconv.FormatUint(n, 10)
	}

	return filepath.Join(
		created.Format("2006"),
		created.Format("01"),
		created.Format("02_15"),
		fmt.Sprintf("%s_s%s_%s.%s", created.Format("20060102_150405"), size, hex.EncodeToString(r.Random[:]), ext),
	)
}
