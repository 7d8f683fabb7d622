package deploy

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testChain struct {
	states map[util.Uint160]*state.Contract
	err    error
}

func (c *testChain) GetContractStateByHash(h util.Uint160) (*state.Contract, error) {
	if c.err != nil {
		return nil, c.err
	}
	if st, ok := c.states[h]; ok {
		return st, nil
	}
	return nil, errors.New("Unknown contract")
}

type deployCall struct {
	name string
	data any
}

type testDeployer struct {
	chain  *testChain
	sender util.Uint160
	calls  []deployCall
	fault  string
}

func (d *testDeployer) Deploy(exe *nef.File, manif *manifest.Manifest, data any) (util.Uint256, uint32, error) {
	d.calls = append(d.calls, deployCall{name: manif.Name, data: data})

	if d.fault == "" {
		h := state.CreateContractHash(d.sender, exe.Checksum, manif.Name)
		d.chain.states[h] = &state.Contract{ContractBase: state.ContractBase{Hash: h, NEF: *exe}}
	}

	return util.Uint256{byte(len(d.calls))}, 100, nil
}

func (d *testDeployer) Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error) {
	if err != nil {
		return nil, err
	}

	aer := &state.AppExecResult{Container: h}
	aer.VMState = vmstate.Halt
	if d.fault != "" {
		aer.VMState = vmstate.Fault
		aer.FaultException = d.fault
	}
	return aer, nil
}

func testContract(t *testing.T, name string, script byte) CommonDeployPrm {
	f, err := nef.NewFile([]byte{script})
	require.NoError(t, err)

	return CommonDeployPrm{
		NEF:      *f,
		Manifest: *manifest.NewManifest(name),
	}
}

func newDeployPrm(t *testing.T) (deployAllPrm, *testDeployer) {
	chain := &testChain{states: make(map[util.Uint160]*state.Contract)}
	sender := util.Uint160{1, 2, 3}
	d := &testDeployer{chain: chain, sender: sender}

	return deployAllPrm{
		logger:   zaptest.NewLogger(t),
		states:   chain,
		deployer: d,
		waiter:   d,
		sender:   sender,
		token:    TokenContractPrm{Common: testContract(t, "token", 1)},
		registry: testContract(t, "registry", 2),
		market:   testContract(t, "market", 3),
	}, d
}

func TestDeployAll(t *testing.T) {
	prm, d := newDeployPrm(t)

	res, err := deployAll(context.Background(), prm)
	require.NoError(t, err)

	require.Equal(t, state.CreateContractHash(prm.sender, prm.token.Common.NEF.Checksum, "token"), res.Token)
	require.Equal(t, state.CreateContractHash(prm.sender, prm.registry.NEF.Checksum, "registry"), res.Registry)
	require.Equal(t, state.CreateContractHash(prm.sender, prm.market.NEF.Checksum, "market"), res.Market)

	require.Equal(t, []deployCall{
		{name: "token"},
		{name: "registry"},
		{name: "market", data: []any{res.Token, res.Registry}},
	}, d.calls)

	t.Run("repeated", func(t *testing.T) {
		res2, err := deployAll(context.Background(), prm)
		require.NoError(t, err)
		require.Equal(t, res, res2)
		require.Len(t, d.calls, 3)
	})
}

func TestDeployAll_TokenSupply(t *testing.T) {
	prm, d := newDeployPrm(t)
	prm.token.Supply = big.NewInt(5000)

	_, err := deployAll(context.Background(), prm)
	require.NoError(t, err)
	require.Equal(t, []any{big.NewInt(5000)}, d.calls[0].data)
}

func TestDeployAll_Errors(t *testing.T) {
	t.Run("state request", func(t *testing.T) {
		prm, d := newDeployPrm(t)
		d.chain.err = errors.New("connection refused")

		_, err := deployAll(context.Background(), prm)
		require.ErrorContains(t, err, "init Token contract")
		require.Empty(t, d.calls)
	})

	t.Run("faulted deployment", func(t *testing.T) {
		prm, d := newDeployPrm(t)
		d.fault = "invalid amount"

		_, err := deployAll(context.Background(), prm)
		require.ErrorContains(t, err, "invalid amount")
		require.Len(t, d.calls, 1)
	})

	t.Run("canceled context", func(t *testing.T) {
		prm, d := newDeployPrm(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := deployAll(ctx, prm)
		require.ErrorIs(t, err, context.Canceled)
		require.Empty(t, d.calls)
	})
}

func TestIsErrContractNotFound(t *testing.T) {
	require.True(t, isErrContractNotFound(errors.New("RPC error: Unknown contract")))
	require.False(t, isErrContractNotFound(errors.New("connection refused")))
}
