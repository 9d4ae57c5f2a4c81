package config

import (
	"strconv"
	"time"
)

// Environment variable names understood by parseEnv.
const (
	envHTTPAddr       = "TASKKEEPER_HTTP_ADDR"
	envGRPCAddr       = "TASKKEEPER_GRPC_ADDR"
	envDatabaseDSN    = "TASKKEEPER_DATABASE_DSN"
	envAccessSecret   = "TASKKEEPER_ACCESS_SECRET"
	envSessionSecret  = "TASKKEEPER_SESSION_SECRET"
	envAccessTTL      = "TASKKEEPER_ACCESS_TTL"
	envSessionTTL     = "TASKKEEPER_SESSION_TTL"
	envBcryptCost     = "TASKKEEPER_BCRYPT_COST"
	envSweepInterval  = "TASKKEEPER_SWEEP_INTERVAL"
	envLogoutScope    = "TASKKEEPER_LOGOUT_SCOPE"
	envLoginRateLimit = "TASKKEEPER_LOGIN_RATE_LIMIT"
)

// parseEnv overlays values found through lookup (os.LookupEnv in production).
// Durations use time.ParseDuration syntax. Malformed values panic, like the
// other configuration sources.
func parseEnv(config *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				panic(err)
			}
			*dst = n
		}
	}

	str(envHTTPAddr, &config.EndpointAddrHTTP)
	str(envGRPCAddr, &config.EndpointAddrGRPC)
	str(envDatabaseDSN, &config.DatabaseDSN)
	str(envAccessSecret, &config.AccessTokenSecret)
	str(envSessionSecret, &config.SessionTokenSecret)
	dur(envAccessTTL, &config.AccessTokenValidityDuration)
	dur(envSessionTTL, &config.SessionTokenValidityDuration)
	num(envBcryptCost, &config.BcryptCost)
	dur(envSweepInterval, &config.SweepInterval)
	str(envLogoutScope, &config.LogoutScope)
	num(envLoginRateLimit, &config.LoginRateLimit)
}
