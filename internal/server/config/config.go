// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables and command-line
// flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Logout scopes, see Config.LogoutScope.
const (
	LogoutScopeAccount = "account"
	LogoutScopeGlobal  = "global"
)

// Config holds runtime settings for the taskkeeper server.
//
// Fields:
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses of the two transports.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - AccessTokenSecret / SessionTokenSecret: independent HMAC secrets (HS256).
//   - AccessTokenValidityDuration / SessionTokenValidityDuration: credential lifetimes.
//   - BcryptCost: work factor for session and password hashes.
//   - SweepInterval: how often expired session rows are removed.
//   - LogoutScope: "account" scans only the caller's sessions, "global" scans all.
//   - LoginRateLimit: login/register attempts per minute per client IP, 0 disables.
type Config struct {
	EndpointAddrHTTP             string
	EndpointAddrGRPC             string
	DatabaseDSN                  string
	AccessTokenSecret            string
	SessionTokenSecret           string
	AccessTokenValidityDuration  time.Duration
	SessionTokenValidityDuration time.Duration
	BcryptCost                   int
	SweepInterval                time.Duration
	LogoutScope                  string
	LoginRateLimit               int
}

// LoadDefaults populates Config with development defaults. Secrets are left
// empty on purpose so that a server never starts with a guessable key.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.SessionTokenValidityDuration = 7 * 24 * time.Hour
	c.BcryptCost = bcrypt.DefaultCost
	c.SweepInterval = time.Hour
	c.LogoutScope = LogoutScopeAccount
	c.LoginRateLimit = 10
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg, os.LookupEnv)
	parseFlags(cfg)
	return cfg
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate reports configuration that must stop the server at startup.
func (c *Config) Validate() error {
	switch {
	case c.AccessTokenSecret == "":
		return fmt.Errorf("%w: access token secret is not set", ErrInvalidConfig)
	case c.SessionTokenSecret == "":
		return fmt.Errorf("%w: session token secret is not set", ErrInvalidConfig)
	case c.AccessTokenSecret == c.SessionTokenSecret:
		return fmt.Errorf("%w: access and session token secrets must differ", ErrInvalidConfig)
	case c.AccessTokenValidityDuration <= 0 || c.SessionTokenValidityDuration <= 0:
		return fmt.Errorf("%w: token validity durations must be positive", ErrInvalidConfig)
	case c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost:
		return fmt.Errorf("%w: bcrypt cost %d out of range", ErrInvalidConfig, c.BcryptCost)
	case c.SweepInterval <= 0:
		return fmt.Errorf("%w: sweep interval must be positive", ErrInvalidConfig)
	case c.LogoutScope != LogoutScopeAccount && c.LogoutScope != LogoutScopeGlobal:
		return fmt.Errorf("%w: unknown logout scope %q", ErrInvalidConfig, c.LogoutScope)
	case c.LoginRateLimit < 0:
		return fmt.Errorf("%w: login rate limit must not be negative", ErrInvalidConfig)
	}
	return nil
}
