package main

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userRegisterCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userSuspendCmd)
	userCmd.AddCommand(userActivateCmd)

	userRegisterCmd.Flags().Bool("producer", false, "Register as energy producer (seller)")
	userRegisterCmd.Flags().Bool("consumer", false, "Register as energy consumer (buyer)")
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage marketplace participants",
}

var userRegisterCmd = &cobra.Command{
	Use:   "register NAME",
	Short: "Register the configured account in the marketplace",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserRegister,
}

func runUserRegister(cmd *cobra.Command, args []string) error {
	producer, _ := cmd.Flags().GetBool("producer")
	consumer, _ := cmd.Flags().GetBool("consumer")

	return withBlockchain(cmd, func(b *remoteBlockchain) error {
		r, err := b.registry()
		if err != nil {
			return err
		}

		_, err = b.await(r.RegisterUser(b.sender(), args[0], producer, consumer))
		if err != nil {
			return fmt.Errorf("register user: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "registered %s as %q\n", address.Uint160ToString(b.sender()), args[0])
		return nil
	})
}

var userShowCmd = &cobra.Command{
	Use:   "show [ADDRESS]",
	Short: "Show marketplace account, the configured one by default",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUserShow,
}

func runUserShow(cmd *cobra.Command, args []string) error {
	return withBlockchain(cmd, func(b *remoteBlockchain) error {
		user, err := accountArg(b, args)
		if err != nil {
			return err
		}

		r, err := b.registry()
		if err != nil {
			return err
		}

		ok, err := r.IsRegisteredUser(user)
		if err != nil {
			return fmt.Errorf("check registration: %w", err)
		}
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not registered\n", address.Uint160ToString(user))
			return nil
		}

		u, err := r.GetUser(user)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "address:  %s\nname:     %s\nproducer: %t\nconsumer: %t\nactive:   %t\n",
			address.Uint160ToString(user), u.Name, u.IsProducer, u.IsConsumer, u.IsActive)
		return nil
	})
}

var userSuspendCmd = &cobra.Command{
	Use:   "suspend ADDRESS",
	Short: "Suspend marketplace account (registry admin only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setUserStatus(cmd, args[0], false)
	},
}

var userActivateCmd = &cobra.Command{
	Use:   "activate ADDRESS",
	Short: "Reactivate marketplace account (registry admin only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setUserStatus(cmd, args[0], true)
	},
}

func setUserStatus(cmd *cobra.Command, addr string, active bool) error {
	user, err := address.StringToUint160(addr)
	if err != nil {
		return fmt.Errorf("parse address: %w", err)
	}

	return withBlockchain(cmd, func(b *remoteBlockchain) error {
		r, err := b.registry()
		if err != nil {
			return err
		}

		_, err = b.await(r.UpdateUserStatus(user, active))
		if err != nil {
			return fmt.Errorf("update user status: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s active: %t\n", addr, active)
		return nil
	})
}

// accountArg returns account from the optional address argument or the
// configured one.
func accountArg(b *remoteBlockchain, args []string) (util.Uint160, error) {
	if len(args) == 0 {
		return b.sender(), nil
	}

	h, err := address.StringToUint160(args[0])
	if err != nil {
		return util.Uint160{}, fmt.Errorf("parse address: %w", err)
	}
	return h, nil
}

// withBlockchain runs f with a connection to the configured RPC node.
func withBlockchain(cmd *cobra.Command, f func(*remoteBlockchain) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Logger.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	b, err := newRemoteBlockchain(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer b.close()

	return f(b)
}
