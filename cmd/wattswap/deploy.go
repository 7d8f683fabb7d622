package main

import (
	"fmt"
	"math/big"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/spf13/cobra"
	"github.com/wattswap/wattswap-contract/contracts"
	"github.com/wattswap/wattswap-contract/deploy"
	"github.com/wattswap/wattswap-contract/internal/config"
)

func init() {
	rootCmd.AddCommand(deployCmd)
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy WattSwap contracts",
	Long: `Deploy Token, Registry and Market contracts signed by the configured
account. Contracts are compiled from deploy.sources unless deploy.artifacts
points to prebuilt ones. Already deployed contracts are kept as is.`,
	Args: cobra.NoArgs,
	RunE: runDeploy,
}

func runDeploy(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Logger.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cs, err := loadContracts(cfg.Deploy)
	if err != nil {
		return err
	}

	b, err := newRemoteBlockchain(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer b.close()

	prm := deploy.Prm{
		Logger:       log,
		Blockchain:   b.rpc,
		LocalAccount: b.acc,
	}
	prm.TokenContract.Common = deploy.CommonDeployPrm(cs[0])
	prm.TokenContract.Supply = big.NewInt(cfg.Deploy.TokenSupply)
	prm.RegistryContract.Common = deploy.CommonDeployPrm(cs[1])
	prm.MarketContract.Common = deploy.CommonDeployPrm(cs[2])

	res, err := deploy.Deploy(cmd.Context(), prm)
	if err != nil {
		return fmt.Errorf("deploy contracts: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "contracts:\n  token: %s\n  registry: %s\n  market: %s\n",
		address.Uint160ToString(res.Token),
		address.Uint160ToString(res.Registry),
		address.Uint160ToString(res.Market))

	return nil
}

// loadContracts returns Token, Registry and Market contracts in this order.
func loadContracts(cfg config.DeployConfig) ([]contracts.Contract, error) {
	if cfg.Artifacts != "" {
		cs, err := contracts.Read(os.DirFS(cfg.Artifacts))
		if err != nil {
			return nil, fmt.Errorf("read prebuilt contracts: %w", err)
		}
		return cs, nil
	}

	cs, err := contracts.CompileAll(cfg.Sources)
	if err != nil {
		return nil, fmt.Errorf("compile contracts: %w", err)
	}
	return cs, nil
}
