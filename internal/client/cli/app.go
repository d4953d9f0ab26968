package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/chunkstore/internal/client/client"
	"github.com/dmitrijs2005/chunkstore/internal/client/config"
	"github.com/dmitrijs2005/chunkstore/internal/logging"
	"golang.org/x/term"
)

// ErrUsage reports a malformed command line.
var ErrUsage = errors.New("usage")

const usage = `usage: chunkstore-client [-a url] [-t seconds] [-c config] <command>

commands:
  upload <file>
  download <ref> <out>
  meta <ref>
  limit`

type App struct {
	config   *config.Config
	client   client.Client
	out      io.Writer
	progress io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, c.Debug)
	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, logger)

	var progress io.Writer
	if term.IsTerminal(int(os.Stderr.Fd())) {
		progress = os.Stderr
	}

	return &App{config: c, client: api, out: os.Stdout, progress: progress}, nil
}

// Run executes one command. args is the command followed by its operands.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command\n%s", ErrUsage, usage)
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "help", "-h", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	case "upload":
		if len(args) != 1 {
			return fmt.Errorf("%w: upload <file>", ErrUsage)
		}
		return a.upload(ctx, args[0])
	case "download":
		if len(args) != 2 {
			return fmt.Errorf("%w: download <ref> <out>", ErrUsage)
		}
		return a.download(ctx, args[0], args[1])
	case "meta":
		if len(args) != 1 {
			return fmt.Errorf("%w: meta <ref>", ErrUsage)
		}
		return a.meta(ctx, args[0])
	case "limit":
		return a.limit(ctx)
	default:
		return fmt.Errorf("%w: unknown command %q\n%s", ErrUsage, cmd, usage)
	}
}
