// Package config loads runtime configuration for the chunkstore client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected via flags: -c or -config.
//  3. Environment: CHUNKSTORE_URL, CHUNKSTORE_TIMEOUT, CHUNKSTORE_DEBUG.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the chunkstore HTTP API
//	-t int      per-request timeout (seconds)
//
// # File schema
//
// Durations can be either strings like "30s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:3000",
//	  "request_timeout": "30s",
//	  "debug": false
//	}
package config
