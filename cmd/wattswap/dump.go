package main

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/cobra"
	"github.com/wattswap/wattswap-contract/contracts"
	"github.com/wattswap/wattswap-contract/internal/snapshot"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().String("label", "", "Label of the network (e.g. 'testnet')")
	dumpCmd.Flags().String("dir", "snapshots", "Directory to store snapshots in")
	_ = dumpCmd.MarkFlagRequired("label")
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Save states and storage of the marketplace contracts",
	Long: `Save states and storage items of the deployed marketplace contracts
at the penultimate block. Node must have state service enabled.`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

func runDump(cmd *cobra.Command, _ []string) error {
	label, _ := cmd.Flags().GetString("label")
	dir, _ := cmd.Flags().GetString("dir")

	return withBlockchain(cmd, func(b *remoteBlockchain) error {
		height, err := b.actor.GetBlockCount()
		if err != nil {
			return fmt.Errorf("get number of the latest block: %w", err)
		}
		if height < 2 {
			return fmt.Errorf("blockchain is too short: %d blocks", height)
		}
		height--

		id := snapshot.ID{Label: label, Height: height}

		w, err := snapshot.NewWriter(dir, id)
		if err != nil {
			return fmt.Errorf("init snapshot: %w", err)
		}
		defer func() { _ = w.Close() }()

		for _, c := range []struct {
			name string
			hash util.Uint160
		}{
			{contracts.TokenDir, b.tokenHash},
			{contracts.RegistryDir, b.registryHash},
			{contracts.MarketDir, b.marketHash},
		} {
			if c.hash.Equals(util.Uint160{}) {
				b.log.Warn("contract address is not configured, skip", zap.String("contract", c.name))
				continue
			}

			st, err := b.rpc.GetContractStateByHash(c.hash)
			if err != nil {
				return fmt.Errorf("get state of '%s' contract: %w", c.name, err)
			}

			err = b.iterateContractStorage(height, c.hash, w.AddContract(c.name, *st))
			if err != nil {
				return fmt.Errorf("iterate '%s' contract storage: %w", c.name, err)
			}

			b.log.Info("contract dumped", zap.String("contract", c.name), zap.Stringer("hash", c.hash))
		}

		if err = w.Flush(); err != nil {
			return fmt.Errorf("flush snapshot: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "snapshot %s saved to '%s'\n", id, dir)
		return nil
	})
}

// iterateContractStorage passes all storage items of the contract at the
// given height into f and breaks on f's error.
func (x *remoteBlockchain) iterateContractStorage(height uint32, contract util.Uint160, f func(key, value []byte) error) error {
	stateRoot, err := x.rpc.GetStateRootByHeight(height)
	if err != nil {
		return fmt.Errorf("get state root at block #%d: %w", height, err)
	}

	var start []byte

	for {
		res, err := x.rpc.FindStates(stateRoot.Root, contract, nil, start, nil)
		if err != nil {
			return fmt.Errorf("get storage items at state root '%s': %w", stateRoot.Root, err)
		}

		for i := range res.Results {
			if err = f(res.Results[i].Key, res.Results[i].Value); err != nil {
				return err
			}
		}

		if !res.Truncated || len(res.Results) == 0 {
			return nil
		}

		start = res.Results[len(res.Results)-1].Key
	}
}
