package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/chunkstore/internal/flagx"
)

// Config holds runtime settings for the chunkstore client.
//
// Fields:
//   - ServerURL: base URL of the HTTP API, e.g. "http://127.0.0.1:3000".
//   - RequestTimeout: deadline for a single HTTP request (one chunk).
//   - Debug: log every request to stderr.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	Debug          bool
}

// valueFlags are the flags that consume the following argument.
var valueFlags = []string{"-a", "-t", "-c", "-config", "--config"}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3000"
	c.RequestTimeout = 30 * time.Second
	c.Debug = false
}

// LoadConfig constructs a Config from defaults, the config file, the
// environment and command-line flags, later sources taking precedence.
func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, args)
	parseEnv(cfg, os.LookupEnv)
	parseFlags(cfg, args)
	return cfg
}

// CommandArgs returns the command and its operands from args, with all
// configuration flags removed.
func CommandArgs(args []string) []string {
	return flagx.Positional(args, valueFlags)
}
