package config

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap/zapcore"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.RPC.Endpoint == "" {
		return errors.New("rpc.endpoint is required")
	}
	if c.RPC.DialTimeout < 0 || c.RPC.RequestTimeout < 0 {
		return errors.New("rpc timeouts must not be negative")
	}

	if c.Wallet.Path == "" {
		return errors.New("wallet.path is required")
	}
	if c.Wallet.Address != "" {
		if _, err := address.StringToUint160(c.Wallet.Address); err != nil {
			return fmt.Errorf("wallet.address: %w", err)
		}
	}

	for name, v := range map[string]string{
		"contracts.token":    c.Contracts.Token,
		"contracts.registry": c.Contracts.Registry,
		"contracts.market":   c.Contracts.Market,
	} {
		if _, err := parseHash(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if c.Deploy.TokenSupply < 0 {
		return fmt.Errorf("deploy.token_supply must be >= 0, got %d", c.Deploy.TokenSupply)
	}

	if _, err := zapcore.ParseLevel(c.Logger.Level); err != nil {
		return fmt.Errorf("logger.level: %w", err)
	}

	return nil
}

// parseHash accepts both Neo address and LE hex script hash. Empty string is
// a zero hash.
func parseHash(s string) (util.Uint160, error) {
	if s == "" {
		return util.Uint160{}, nil
	}
	if h, err := address.StringToUint160(s); err == nil {
		return h, nil
	}
	h, err := util.Uint160DecodeStringLE(s)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("neither address nor script hash: %q", s)
	}
	return h, nil
}
