package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/chunkstore/internal/client/client"
)

func (a *App) upload(ctx context.Context, path string) error {
	p := a.newProgress("upload")

	ref, err := client.Upload(ctx, a.client, path, p.update)
	p.finish()
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, ref)
	return nil
}

// download writes to a temporary file next to out and renames it into place
// only when the whole file arrived.
func (a *App) download(ctx context.Context, ref, out string) error {
	f, err := os.CreateTemp(filepath.Dir(out), ".chunkstore-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	p := a.newProgress("download")
	n, err := client.Download(ctx, a.client, ref, f, p.update)
	p.finish()

	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	if err := os.Rename(tmp, out); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s: %d bytes\n", out, n)
	return nil
}

func (a *App) meta(ctx context.Context, ref string) error {
	size, err := a.client.Meta(ctx, ref)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, size)
	return nil
}

func (a *App) limit(ctx context.Context) error {
	limit, err := a.client.Limit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, limit)
	return nil
}
