package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/chunkstore/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., "0.0.0.0:3000")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-r string   storage root directory
//	-l uint     upload limit in bytes
//	-d bool     debug logging ("-d", "-d false" and "-d=false" all work)
//	-t int      shutdown timeout, seconds
//
// Only these flags are taken from args, so -c/-config and flags meant for
// other components do not cause parse errors.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterFlags(args, []string{"-a", "-g", "-r", "-l", "-t"}, []string{"-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.StorageRoot, "r", config.StorageRoot, "storage root directory")
	fs.Uint64Var(&config.UploadLimit, "l", config.UploadLimit, "upload limit (in bytes)")
	fs.BoolVar(&config.Debug, "d", config.Debug, "debug logging")

	shutdownTimeout := fs.Int("t", int(config.ShutdownTimeout.Seconds()), "shutdown timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ShutdownTimeout = time.Duration(*shutdownTimeout) * time.Second
}
