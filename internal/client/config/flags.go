package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
)

// parseFlags populates Config from command-line flags.
//
//	-a string   address and port of the server's gRPC endpoint
//	-T int      per-request timeout in seconds
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	timeout := fs.Int("T", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(flagx.FilterArgs(os.Args[1:], flagx.Names(fs))); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
