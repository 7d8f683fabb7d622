package main

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(approveCmd)
}

var balanceCmd = &cobra.Command{
	Use:   "balance [ADDRESS]",
	Short: "Show ENRG and GAS balances, of the configured account by default",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBalance,
}

func runBalance(cmd *cobra.Command, args []string) error {
	return withBlockchain(cmd, func(b *remoteBlockchain) error {
		acc, err := accountArg(b, args)
		if err != nil {
			return err
		}

		t, err := b.token()
		if err != nil {
			return err
		}

		enrg, err := t.BalanceOf(acc)
		if err != nil {
			return fmt.Errorf("get ENRG balance: %w", err)
		}

		decimals, err := t.Decimals()
		if err != nil {
			return fmt.Errorf("get ENRG decimals: %w", err)
		}

		gasBalance, err := gas.NewReader(b.actor).BalanceOf(acc)
		if err != nil {
			return fmt.Errorf("get GAS balance: %w", err)
		}

		allowance, err := t.Allowance(acc, b.marketHash)
		if err != nil {
			return fmt.Errorf("get market allowance: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "address:   %s\nENRG:      %s\nGAS:       %s\nallowance: %s\n",
			address.Uint160ToString(acc),
			fixedn.ToString(enrg, decimals),
			fixedn.ToString(gasBalance, 8),
			fixedn.ToString(allowance, decimals))
		return nil
	})
}

var approveCmd = &cobra.Command{
	Use:   "approve AMOUNT",
	Short: "Allow Market contract to sell AMOUNT of ENRG from the configured account",
	Args:  cobra.ExactArgs(1),
	RunE:  runApprove,
}

func runApprove(cmd *cobra.Command, args []string) error {
	return withBlockchain(cmd, func(b *remoteBlockchain) error {
		t, err := b.token()
		if err != nil {
			return err
		}

		amount, err := parseTokenAmount(args[0], t.Decimals)
		if err != nil {
			return err
		}

		if _, err = b.market(); err != nil {
			return err
		}

		_, err = b.await(t.Approve(b.sender(), b.marketHash, amount))
		if err != nil {
			return fmt.Errorf("approve: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "market may sell %s ENRG\n", args[0])
		return nil
	})
}

// parseTokenAmount parses decimal amount string into token fractions.
func parseTokenAmount(s string, decimals func() (int, error)) (*big.Int, error) {
	d, err := decimals()
	if err != nil {
		return nil, fmt.Errorf("get decimals: %w", err)
	}

	amount, err := fixedn.FromString(s, d)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %q", s)
	}
	return amount, nil
}
