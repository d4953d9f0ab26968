package config

import (
	"fmt"
	"strconv"
	"time"
)

// parseEnv overlays values from the environment.
//
// Supported variables:
//
//	BIND              HTTP bind address
//	GRPC_BIND         gRPC bind address
//	STORAGE_ROOT      storage directory
//	UPLOAD_LIMIT      upload limit in bytes
//	DEBUG             debug logging (strconv.ParseBool syntax)
//	SHUTDOWN_TIMEOUT  graceful shutdown timeout (time.ParseDuration syntax)
func parseEnv(config *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup("BIND"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := lookup("GRPC_BIND"); ok {
		config.EndpointAddrGRPC = v
	}
	if v, ok := lookup("STORAGE_ROOT"); ok {
		config.StorageRoot = v
	}
	if v, ok := lookup("UPLOAD_LIMIT"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			panic(fmt.Errorf("UPLOAD_LIMIT: %w", err))
		}
		config.UploadLimit = n
	}
	if v, ok := lookup("DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("DEBUG: %w", err))
		}
		config.Debug = b
	}
	if v, ok := lookup("SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err))
		}
		config.ShutdownTimeout = d
	}
}
