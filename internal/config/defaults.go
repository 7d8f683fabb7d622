package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultEndpoint       = "http://localhost:30333"
	DefaultDialTimeout    = 10 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultSources        = "contracts"
	DefaultLogLevel       = "info"
)

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	if c.RPC.Endpoint == "" {
		c.RPC.Endpoint = DefaultEndpoint
	}
	if c.RPC.DialTimeout == 0 {
		c.RPC.DialTimeout = DefaultDialTimeout
	}
	if c.RPC.RequestTimeout == 0 {
		c.RPC.RequestTimeout = DefaultRequestTimeout
	}
	if c.Deploy.Sources == "" {
		c.Deploy.Sources = DefaultSources
	}
	if c.Logger.Level == "" {
		c.Logger.Level = DefaultLogLevel
	}
}
