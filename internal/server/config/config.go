// Package config handles configuration for the server component:
// defaults, a JSON or YAML file overlay, environment variables and
// command-line flags, applied in that order.
package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/chunkstore/internal/common"
	"github.com/joho/godotenv"
)

// Config holds runtime settings for the chunkstore server.
//
// Fields:
//   - EndpointAddrHTTP: bind address of the HTTP API.
//   - EndpointAddrGRPC: bind address of the gRPC health service.
//   - StorageRoot: directory under which uploads are stored.
//   - UploadLimit: largest accepted file in bytes, reported by /v1/upload/limit.
//   - Debug: human-readable debug logging instead of JSON.
//   - ShutdownTimeout: how long in-flight requests may finish after a signal.
//   - ReadHeaderTimeout: HTTP request header deadline.
//   - HealthInterval: how often storage readiness is probed.
type Config struct {
	EndpointAddrHTTP  string
	EndpointAddrGRPC  string
	StorageRoot       string
	UploadLimit       uint64
	Debug             bool
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
	HealthInterval    time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = "0.0.0.0:3000"
	c.EndpointAddrGRPC = ":50051"
	c.StorageRoot = "."
	c.UploadLimit = common.DefaultUploadLimit
	c.Debug = false
	c.ShutdownTimeout = 10 * time.Second
	c.ReadHeaderTimeout = 10 * time.Second
	c.HealthInterval = 5 * time.Second
}

// LoadConfig builds a Config from defaults, then the file given by -c/-config,
// then the environment (a .env file in the working directory is loaded first
// when present), then command-line flags. It panics on malformed input.
func LoadConfig() *Config {
	_ = godotenv.Load()

	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, args)
	parseEnv(cfg, os.LookupEnv)
	parseFlags(cfg, args)
	return cfg
}
