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

// fileConfig is the on-disk shape of Config. Durations accept "10s" or
// integer nanoseconds. Keys missing from the file keep their current value.
type fileConfig struct {
	EndpointAddrHTTP  string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrGRPC  string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	StorageRoot       string         `json:"storage_root" yaml:"storage_root"`
	UploadLimit       uint64         `json:"upload_limit" yaml:"upload_limit"`
	Debug             bool           `json:"debug" yaml:"debug"`
	ShutdownTimeout   timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	ReadHeaderTimeout timex.Duration `json:"read_header_timeout" yaml:"read_header_timeout"`
	HealthInterval    timex.Duration `json:"health_interval" yaml:"health_interval"`
}

// parseFile overlays the config file named by -c/-config, if any.
// Files ending in .yaml or .yml are YAML; anything else is JSON, which may
// contain comments and trailing commas.
func parseFile(config *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := fileConfig{
		EndpointAddrHTTP:  config.EndpointAddrHTTP,
		EndpointAddrGRPC:  config.EndpointAddrGRPC,
		StorageRoot:       config.StorageRoot,
		UploadLimit:       config.UploadLimit,
		Debug:             config.Debug,
		ShutdownTimeout:   timex.Duration{Duration: config.ShutdownTimeout},
		ReadHeaderTimeout: timex.Duration{Duration: config.ReadHeaderTimeout},
		HealthInterval:    timex.Duration{Duration: config.HealthInterval},
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), &c)
	}
	if err != nil {
		panic(fmt.Errorf("parse %s: %w", path, err))
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.StorageRoot = c.StorageRoot
	config.UploadLimit = c.UploadLimit
	config.Debug = c.Debug
	config.ShutdownTimeout = c.ShutdownTimeout.Duration
	config.ReadHeaderTimeout = c.ReadHeaderTimeout.Duration
	config.HealthInterval = c.HealthInterval.Duration
}
