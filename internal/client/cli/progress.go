package cli

import (
	"fmt"
	"io"
)

type progress struct {
	w     io.Writer
	label string
	drawn bool
}

// newProgress returns a progress line writer; it draws nothing when the app
// has no progress output.
func (a *App) newProgress(label string) *progress {
	return &progress{w: a.progress, label: label}
}

func (p *progress) update(done, total uint64) {
	if p.w == nil {
		return
	}
	pct := 100.0
	if total > 0 {
		pct = float64(done) * 100 / float64(total)
	}
	fmt.Fprintf(p.w, "\r%s: %d/%d bytes (%.0f%%)", p.label, done, total, pct)
	p.drawn = true
}

func (p *progress) finish() {
	if p.w != nil && p.drawn {
		fmt.Fprintln(p.w)
	}
}
