// Package config loads wattswap CLI configuration from a YAML file.
package config

import (
	"time"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Config is the root of wattswap CLI configuration.
type Config struct {
	RPC       RPCConfig       `yaml:"rpc"`
	Wallet    WalletConfig    `yaml:"wallet"`
	Contracts ContractsConfig `yaml:"contracts"`
	Deploy    DeployConfig    `yaml:"deploy"`
	Logger    LoggerConfig    `yaml:"logger"`
}

// RPCConfig describes Neo RPC node connection.
type RPCConfig struct {
	Endpoint       string        `yaml:"endpoint"`
	DialTimeout    time.Duration `yaml:"dial_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// WalletConfig describes the account signing transactions. The default
// wallet account is used if Address is empty.
type WalletConfig struct {
	Path     string `yaml:"path"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
}

// ContractsConfig holds addresses of the deployed contracts. Every value is
// either Neo address or little-endian hex script hash.
type ContractsConfig struct {
	Token    string `yaml:"token"`
	Registry string `yaml:"registry"`
	Market   string `yaml:"market"`
}

// DeployConfig configures deploy command.
//
// Sources is a directory with contract sources and Artifacts is a directory
// with prebuilt contract.nef and manifest.json files, both with one
// subdirectory per contract. Artifacts take precedence over Sources.
// TokenSupply is the amount of ENRG fractions issued on Token deployment,
// zero means the default supply of the contract.
type DeployConfig struct {
	Sources     string `yaml:"sources"`
	Artifacts   string `yaml:"artifacts"`
	TokenSupply int64  `yaml:"token_supply"`
}

// LoggerConfig configures zap logger.
type LoggerConfig struct {
	Level string `yaml:"level"`
}

// ContractHashes returns parsed contract addresses. Unset addresses are zero.
func (c *Config) ContractHashes() (token, registry, market util.Uint160, err error) {
	if token, err = parseHash(c.Contracts.Token); err != nil {
		return
	}
	if registry, err = parseHash(c.Contracts.Registry); err != nil {
		return
	}
	market, err = parseHash(c.Contracts.Market)
	return
}
