package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                  string         `json:"database_dsn"`
	AccessTokenSecret            string         `json:"access_token_secret"`
	SessionTokenSecret           string         `json:"session_token_secret"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	SessionTokenValidityDuration timex.Duration `json:"session_token_validity_duration"`
	BcryptCost                   int            `json:"bcrypt_cost"`
	SweepInterval                timex.Duration `json:"sweep_interval"`
	LogoutScope                  string         `json:"logout_scope"`
	LoginRateLimit               *int           `json:"login_rate_limit"`
}

// parseJson loads the file named by -c/-config, if any, into config.
// Keys absent from the file keep their current values. An unreadable file or
// invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AccessTokenSecret, c.AccessTokenSecret)
	setString(&config.SessionTokenSecret, c.SessionTokenSecret)
	setString(&config.LogoutScope, c.LogoutScope)

	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.SessionTokenValidityDuration.Duration != 0 {
		config.SessionTokenValidityDuration = c.SessionTokenValidityDuration.Duration
	}
	if c.SweepInterval.Duration != 0 {
		config.SweepInterval = c.SweepInterval.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.LoginRateLimit != nil {
		config.LoginRateLimit = *c.LoginRateLimit
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
