package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/chunkstore/internal/flagx"
	"github.com/dmitrijs2005/chunkstore/internal/timex"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// fileConfig is a DTO used exclusively for file unmarshalling.
type fileConfig struct {
	ServerURL      string         `json:"server_url" yaml:"server_url"`
	RequestTimeout timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	Debug          bool           `json:"debug" yaml:"debug"`
}

// parseFile overlays Config with values from the file named by -c/-config.
// Keys absent from the file keep their current values. Panics on read or
// parse errors.
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := fileConfig{
		ServerURL:      cfg.ServerURL,
		RequestTimeout: timex.Duration{Duration: cfg.RequestTimeout},
		Debug:          cfg.Debug,
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), &fc)
	}
	if err != nil {
		panic(fmt.Errorf("parse %s: %w", path, err))
	}

	cfg.ServerURL = fc.ServerURL
	cfg.RequestTimeout = fc.RequestTimeout.Duration
	cfg.Debug = fc.Debug
}
