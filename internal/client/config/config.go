// Package config holds the settings of the taskkeeper CLI client.
package config

import "time"

// Config holds runtime settings for the CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the server's gRPC endpoint.
//   - RequestTimeout: deadline applied to each call.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 5 * time.Second
}

// LoadConfig applies defaults and then command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)
	return cfg
}
