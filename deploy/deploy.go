package deploy

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for WattSwap deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// TokenContractPrm groups deployment parameters of the WattSwap Energy Token
// contract.
type TokenContractPrm struct {
	Common CommonDeployPrm

	// Amount of ENRG fractions issued to the deploying account. Zero issues the
	// default supply of the contract.
	Supply *big.Int
}

// RegistryContractPrm groups deployment parameters of the WattSwap Registry
// contract.
type RegistryContractPrm struct {
	Common CommonDeployPrm
}

// MarketContractPrm groups deployment parameters of the WattSwap Market
// contract.
type MarketContractPrm struct {
	Common CommonDeployPrm
}

// Prm groups all parameters of the WattSwap deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy contracts to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// It becomes the administrator of every contract and receives the whole
	// ENRG supply.
	LocalAccount *wallet.Account

	TokenContract    TokenContractPrm
	RegistryContract RegistryContractPrm
	MarketContract   MarketContractPrm
}

// Result groups addresses of the deployed contracts.
type Result struct {
	Token    util.Uint160
	Registry util.Uint160
	Market   util.Uint160
}

// ContractDeployer sends contract deployment transactions.
type ContractDeployer interface {
	Deploy(exe *nef.File, manif *manifest.Manifest, data any) (util.Uint256, uint32, error)
}

// Waiter awaits transaction acceptance.
type Waiter interface {
	Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error)
}

// Deploy deploys Token, Registry and Market contracts in this order, binding
// Market contract to the first two.
//
// Deploy is idempotent: contracts already deployed by the local account are
// kept as is, so the procedure can be repeated after a failure.
func Deploy(ctx context.Context, prm Prm) (Result, error) {
	localActor, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return Result{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	return deployAll(ctx, deployAllPrm{
		logger:   prm.Logger,
		states:   prm.Blockchain,
		deployer: management.New(localActor),
		waiter:   localActor,
		sender:   prm.LocalAccount.ScriptHash(),
		token:    prm.TokenContract,
		registry: prm.RegistryContract.Common,
		market:   prm.MarketContract.Common,
	})
}

type contractStateGetter interface {
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

type deployAllPrm struct {
	logger   *zap.Logger
	states   contractStateGetter
	deployer ContractDeployer
	waiter   Waiter
	sender   util.Uint160

	token    TokenContractPrm
	registry CommonDeployPrm
	market   CommonDeployPrm
}

func deployAll(ctx context.Context, prm deployAllPrm) (Result, error) {
	var (
		res Result
		err error
	)

	var tokenData any
	if prm.token.Supply != nil && prm.token.Supply.Sign() != 0 {
		tokenData = []any{prm.token.Supply}
	}

	prm.logger.Info("initializing Token contract on the chain...")

	res.Token, err = syncContract(ctx, syncContractPrm{
		deployAllPrm: prm,
		name:         "Token",
		common:       prm.token.Common,
		data:         tokenData,
	})
	if err != nil {
		return res, fmt.Errorf("init Token contract: %w", err)
	}

	prm.logger.Info("initializing Registry contract on the chain...")

	res.Registry, err = syncContract(ctx, syncContractPrm{
		deployAllPrm: prm,
		name:         "Registry",
		common:       prm.registry,
	})
	if err != nil {
		return res, fmt.Errorf("init Registry contract: %w", err)
	}

	prm.logger.Info("initializing Market contract on the chain...")

	res.Market, err = syncContract(ctx, syncContractPrm{
		deployAllPrm: prm,
		name:         "Market",
		common:       prm.market,
		data:         []any{res.Token, res.Registry},
	})
	if err != nil {
		return res, fmt.Errorf("init Market contract: %w", err)
	}

	prm.logger.Info("WattSwap contracts are ready",
		zap.Stringer("token", res.Token),
		zap.Stringer("registry", res.Registry),
		zap.Stringer("market", res.Market))

	return res, nil
}

type syncContractPrm struct {
	deployAllPrm

	name   string
	common CommonDeployPrm
	data   any
}

// syncContract makes sure the contract is deployed by the local account and
// returns its address.
func syncContract(ctx context.Context, prm syncContractPrm) (util.Uint160, error) {
	addr := state.CreateContractHash(prm.sender, prm.common.NEF.Checksum, prm.common.Manifest.Name)
	l := prm.logger.With(zap.String("contract", prm.name), zap.Stringer("address", addr))

	if err := ctx.Err(); err != nil {
		return addr, err
	}

	onChain, err := prm.states.GetContractStateByHash(addr)
	if err == nil {
		if onChain.NEF.Checksum != prm.common.NEF.Checksum {
			l.Warn("on-chain contract differs from the local one, update it explicitly",
				zap.Uint32("on-chain checksum", onChain.NEF.Checksum),
				zap.Uint32("local checksum", prm.common.NEF.Checksum))
		} else {
			l.Info("contract is already deployed, skip")
		}
		return addr, nil
	}

	if !isErrContractNotFound(err) {
		return addr, fmt.Errorf("get contract state: %w", err)
	}

	l.Info("contract is missing on the chain, deploying...")

	aer, err := prm.waiter.Wait(prm.deployer.Deploy(&prm.common.NEF, &prm.common.Manifest, prm.data))
	if err != nil {
		return addr, fmt.Errorf("deploy contract: %w", err)
	}

	if aer.VMState != vmstate.Halt {
		return addr, fmt.Errorf("deployment transaction %s failed: %s", aer.Container, aer.FaultException)
	}

	l.Info("contract successfully deployed", zap.Stringer("tx", aer.Container))

	return addr, nil
}

var errContractNotFound = errors.New("Unknown contract")

func isErrContractNotFound(err error) bool {
	return errors.Is(err, errContractNotFound) || strings.Contains(err.Error(), errContractNotFound.Error())
}
