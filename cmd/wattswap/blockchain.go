package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/wattswap/wattswap-contract/internal/config"
	"github.com/wattswap/wattswap-contract/rpc/market"
	"github.com/wattswap/wattswap-contract/rpc/registry"
	"github.com/wattswap/wattswap-contract/rpc/token"
	"go.uber.org/zap"
)

var errContractNotSet = errors.New("contract address is not configured")

// remoteBlockchain is a connection to Neo RPC server with the local account
// signing transactions.
type remoteBlockchain struct {
	rpc   *rpcclient.Client
	actor *actor.Actor
	acc   *wallet.Account
	log   *zap.Logger

	tokenHash    util.Uint160
	registryHash util.Uint160
	marketHash   util.Uint160
}

// newRemoteBlockchain dials Neo RPC server and unlocks wallet account from
// the configuration.
func newRemoteBlockchain(ctx context.Context, cfg *config.Config, log *zap.Logger) (*remoteBlockchain, error) {
	acc, err := openAccount(cfg.Wallet)
	if err != nil {
		return nil, err
	}

	c, err := rpcclient.New(ctx, cfg.RPC.Endpoint, rpcclient.Options{
		DialTimeout:    cfg.RPC.DialTimeout,
		RequestTimeout: cfg.RPC.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	if err = c.Init(); err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	act, err := actor.NewSimple(c, acc)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init actor: %w", err)
	}

	b := &remoteBlockchain{
		rpc:   c,
		actor: act,
		acc:   acc,
		log:   log,
	}

	b.tokenHash, b.registryHash, b.marketHash, err = cfg.ContractHashes()
	if err != nil {
		c.Close()
		return nil, err
	}

	return b, nil
}

func openAccount(cfg config.WalletConfig) (*wallet.Account, error) {
	w, err := wallet.NewWalletFromFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	var acc *wallet.Account
	if cfg.Address != "" {
		h, err := address.StringToUint160(cfg.Address)
		if err != nil {
			return nil, fmt.Errorf("parse wallet address: %w", err)
		}
		acc = w.GetAccount(h)
	} else {
		acc = w.GetAccount(w.GetChangeAddress())
	}
	if acc == nil {
		return nil, errors.New("account not found in wallet")
	}

	if err := acc.Decrypt(cfg.Password, w.Scrypt); err != nil {
		return nil, fmt.Errorf("unlock account %s: %w", acc.Address, err)
	}

	return acc, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

func (x *remoteBlockchain) sender() util.Uint160 {
	return x.acc.ScriptHash()
}

func (x *remoteBlockchain) token() (*token.Contract, error) {
	if x.tokenHash.Equals(util.Uint160{}) {
		return nil, fmt.Errorf("token: %w", errContractNotSet)
	}
	return token.New(x.actor, x.tokenHash), nil
}

func (x *remoteBlockchain) registry() (*registry.Contract, error) {
	if x.registryHash.Equals(util.Uint160{}) {
		return nil, fmt.Errorf("registry: %w", errContractNotSet)
	}
	return registry.New(x.actor, x.registryHash), nil
}

func (x *remoteBlockchain) market() (*market.Contract, error) {
	if x.marketHash.Equals(util.Uint160{}) {
		return nil, fmt.Errorf("market: %w", errContractNotSet)
	}
	return market.New(x.actor, x.marketHash), nil
}

func (x *remoteBlockchain) payer() (*market.Payer, error) {
	if x.marketHash.Equals(util.Uint160{}) {
		return nil, fmt.Errorf("market: %w", errContractNotSet)
	}
	return market.NewPayer(x.actor, x.marketHash), nil
}

// await waits for the sent transaction to be accepted and checks that it
// has been executed successfully.
func (x *remoteBlockchain) await(txHash util.Uint256, vub uint32, err error) (*state.AppExecResult, error) {
	if err != nil {
		return nil, fmt.Errorf("send transaction: %w", err)
	}

	x.log.Debug("transaction sent, waiting for acceptance",
		zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	aer, err := x.actor.Wait(txHash, vub, nil)
	if err != nil {
		return nil, fmt.Errorf("wait for transaction %s: %w", txHash.StringLE(), err)
	}

	if aer.VMState != vmstate.Halt {
		return aer, fmt.Errorf("transaction %s failed: %s", txHash.StringLE(), aer.FaultException)
	}

	x.log.Info("transaction accepted", zap.Stringer("tx", txHash))

	return aer, nil
}
