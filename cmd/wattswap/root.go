package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wattswap/wattswap-contract/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	configFlag   = "config"
	rpcFlag      = "rpc"
	walletFlag   = "wallet"
	logLevelFlag = "log-level"
)

func init() {
	rootCmd.PersistentFlags().StringP(configFlag, "c", "wattswap.yml", "Path to YAML configuration file")
	rootCmd.PersistentFlags().String(rpcFlag, "", "Neo RPC endpoint, overrides rpc.endpoint")
	rootCmd.PersistentFlags().StringP(walletFlag, "w", "", "Path to wallet file, overrides wallet.path")
	rootCmd.PersistentFlags().String(logLevelFlag, "", "Log level, overrides logger.level")
}

var rootCmd = &cobra.Command{
	Use:   "wattswap",
	Short: "WattSwap energy marketplace client",
	Long: `Deploy WattSwap contracts and trade energy on the Neo blockchain.
Producers list ENRG tokens for sale, consumers bid or buy them for GAS.`,
	SilenceUsage: true,
}

// loadConfig reads configuration file applying command line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString(configFlag)

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString(rpcFlag); v != "" {
		cfg.RPC.Endpoint = v
	}
	if v, _ := cmd.Flags().GetString(walletFlag); v != "" {
		cfg.Wallet.Path = v
	}
	if v, _ := cmd.Flags().GetString(logLevelFlag); v != "" {
		cfg.Logger.Level = v
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(lvl)
	c.Encoding = "console"
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return c.Build()
}
