package config

import (
	"fmt"
	"strconv"
	"time"
)

// parseEnv overlays values from the environment. Invalid values panic.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup("CHUNKSTORE_URL"); ok {
		cfg.ServerURL = v
	}

	if v, ok := lookup("CHUNKSTORE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("CHUNKSTORE_TIMEOUT: %w", err))
		}
		cfg.RequestTimeout = d
	}

	if v, ok := lookup("CHUNKSTORE_DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("CHUNKSTORE_DEBUG: %w", err))
		}
		cfg.Debug = b
	}
}
