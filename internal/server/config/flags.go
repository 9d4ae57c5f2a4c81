package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN, empty for the in-memory store
//	-s string   access token HMAC secret
//	-S string   session token HMAC secret
//	-t int      access token validity, minutes
//	-r int      session token validity, minutes
//	-b int      bcrypt cost
//	-w int      expired session sweep interval, minutes
//	-l string   logout scope: account | global
//	-L int      login attempts per minute per IP (0 disables)
//
// Only the flags above are picked out of os.Args, so -c/-config and flags of
// other components do not collide.
func parseFlags(config *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AccessTokenSecret, "s", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.SessionTokenSecret, "S", config.SessionTokenSecret, "session token secret")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	sessionTokenValidityDuration := fs.Int("r", int(config.SessionTokenValidityDuration.Minutes()), "session_token_validity_duration (in minutes)")

	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	sweepInterval := fs.Int("w", int(config.SweepInterval.Minutes()), "expired session sweep interval (in minutes)")
	fs.StringVar(&config.LogoutScope, "l", config.LogoutScope, "logout scope: account or global")
	fs.IntVar(&config.LoginRateLimit, "L", config.LoginRateLimit, "login attempts per minute per IP, 0 disables")

	args := flagx.FilterArgs(os.Args[1:], flagx.Names(fs))
	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Minute flags override only when given, so finer durations from the
	// JSON file or the environment survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		case "r":
			config.SessionTokenValidityDuration = time.Duration(*sessionTokenValidityDuration) * time.Minute
		case "w":
			config.SweepInterval = time.Duration(*sweepInterval) * time.Minute
		}
	})
}
