package token_test

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"github.com/wattswap/wattswap-contract/common"
	"github.com/wattswap/wattswap-contract/contracts/token"
	"github.com/wattswap/wattswap-contract/internal/chaintest"
)

func newTokenInvoker(t *testing.T, supply ...int64) *neotest.ContractInvoker {
	e := chaintest.NewExecutor(t)
	h := chaintest.DeployToken(t, e, supply...)
	return e.CommitteeInvoker(h)
}

func balanceOf(t *testing.T, c *neotest.ContractInvoker, acc util.Uint160) int64 {
	s, err := c.TestInvoke(t, "balanceOf", acc)
	require.NoError(t, err)
	return s.Pop().BigInt().Int64()
}

func TestToken_Generic(t *testing.T) {
	c := newTokenInvoker(t)

	c.Invoke(t, "ENRG", "symbol")
	c.Invoke(t, 8, "decimals")
	c.Invoke(t, token.DefaultSupply, "totalSupply")
	c.Invoke(t, token.DefaultSupply, "balanceOf", c.CommitteeHash)
	c.Invoke(t, common.Version, "version")
}

func TestToken_Deploy(t *testing.T) {
	t.Run("custom supply", func(t *testing.T) {
		c := newTokenInvoker(t, 5000)

		c.Invoke(t, 5000, "totalSupply")
		c.Invoke(t, 5000, "balanceOf", c.CommitteeHash)
	})

	t.Run("non-positive supply", func(t *testing.T) {
		e := chaintest.NewExecutor(t)
		dir := chaintest.ContractDir(chaintest.TokenName)
		ctr := neotest.CompileFile(t, e.CommitteeHash, dir, filepath.Join(dir, "config.yml"))
		e.DeployContractCheckFAULT(t, ctr, []any{int64(0)}, common.ErrInvalidAmount)
	})

	t.Run("issuance notification", func(t *testing.T) {
		e := chaintest.NewExecutor(t)
		dir := chaintest.ContractDir(chaintest.TokenName)
		ctr := neotest.CompileFile(t, e.CommitteeHash, dir, filepath.Join(dir, "config.yml"))
		txHash := e.DeployContract(t, ctr, []any{int64(700)})

		aer := e.GetTxExecResult(t, txHash)
		var found bool
		for _, ev := range aer.Events {
			if ev.ScriptHash != ctr.Hash || ev.Name != "Transfer" {
				continue
			}
			arr := ev.Item.Value().([]stackitem.Item)
			require.Equal(t, stackitem.Null{}, arr[0])
			require.Equal(t, e.CommitteeHash.BytesBE(), arr[1].Value())
			require.EqualValues(t, 700, arr[2].Value().(*big.Int).Int64())
			found = true
		}
		require.True(t, found)
	})
}

func TestToken_Transfer(t *testing.T) {
	c := newTokenInvoker(t)

	acc := c.NewAccount(t)
	other := c.NewAccount(t)

	const amount = 1000

	c.Invoke(t, true, "transfer", c.CommitteeHash, acc.ScriptHash(), amount, nil)
	c.Invoke(t, amount, "balanceOf", acc.ScriptHash())
	c.Invoke(t, token.DefaultSupply-amount, "balanceOf", c.CommitteeHash)

	cAcc := c.WithSigners(acc)

	t.Run("insufficient balance", func(t *testing.T) {
		cAcc.Invoke(t, false, "transfer", acc.ScriptHash(), other.ScriptHash(), amount+1, nil)
		c.Invoke(t, amount, "balanceOf", acc.ScriptHash())
		c.Invoke(t, 0, "balanceOf", other.ScriptHash())
	})

	t.Run("not witnessed", func(t *testing.T) {
		cOther := c.WithSigners(other)
		cOther.Invoke(t, false, "transfer", acc.ScriptHash(), other.ScriptHash(), 1, nil)
		c.Invoke(t, amount, "balanceOf", acc.ScriptHash())
	})

	t.Run("negative amount", func(t *testing.T) {
		cAcc.InvokeFail(t, common.ErrInvalidAmount, "transfer",
			acc.ScriptHash(), other.ScriptHash(), -1, nil)
	})

	t.Run("invalid address", func(t *testing.T) {
		cAcc.InvokeFail(t, common.ErrInvalidAddress, "transfer",
			acc.ScriptHash(), []byte{1, 2, 3}, 1, nil)
	})

	t.Run("to self", func(t *testing.T) {
		cAcc.Invoke(t, true, "transfer", acc.ScriptHash(), acc.ScriptHash(), amount, nil)
		c.Invoke(t, amount, "balanceOf", acc.ScriptHash())
	})

	t.Run("conservation", func(t *testing.T) {
		cAcc.Invoke(t, true, "transfer", acc.ScriptHash(), other.ScriptHash(), 400, nil)

		total := balanceOf(t, c, c.CommitteeHash) +
			balanceOf(t, c, acc.ScriptHash()) +
			balanceOf(t, c, other.ScriptHash())
		require.EqualValues(t, token.DefaultSupply, total)
		c.Invoke(t, token.DefaultSupply, "totalSupply")
	})
}

func TestToken_TransferToContract(t *testing.T) {
	c := newTokenInvoker(t)

	recv := chaintest.Deploy(t, c.Executor, chaintest.TestContractDir("nep17recv"), nil)
	cRecv := c.CommitteeInvoker(recv)

	c.Invoke(t, true, "transfer", c.CommitteeHash, recv, 42, "hello")
	cRecv.Invoke(t, stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray(c.Hash.BytesBE()),
		stackitem.NewByteArray(c.CommitteeHash.BytesBE()),
		stackitem.Make(42),
		stackitem.Make("hello"),
	}), "get")

	c.InvokeFail(t, "payment rejected", "transfer", c.CommitteeHash, recv, 1, "reject")
	c.Invoke(t, 42, "balanceOf", recv)
}

func TestToken_TransferFrom(t *testing.T) {
	c := newTokenInvoker(t)

	owner := c.NewAccount(t)
	spender := c.NewAccount(t)
	recipient := c.NewAccount(t)

	c.Invoke(t, true, "transfer", c.CommitteeHash, owner.ScriptHash(), 100, nil)

	cOwner := c.WithSigners(owner)
	cSpender := c.WithSigners(spender)

	t.Run("approve not witnessed", func(t *testing.T) {
		cSpender.InvokeFail(t, common.ErrUnauthorized, "approve",
			owner.ScriptHash(), spender.ScriptHash(), 10)
	})

	cOwner.Invoke(t, true, "approve", owner.ScriptHash(), spender.ScriptHash(), 60)
	c.Invoke(t, 60, "allowance", owner.ScriptHash(), spender.ScriptHash())

	t.Run("spender not witnessed", func(t *testing.T) {
		cOwner.InvokeFail(t, common.ErrUnauthorized, "transferFrom",
			spender.ScriptHash(), owner.ScriptHash(), recipient.ScriptHash(), 10, nil)
	})

	cSpender.Invoke(t, true, "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), recipient.ScriptHash(), 40, nil)
	c.Invoke(t, 20, "allowance", owner.ScriptHash(), spender.ScriptHash())
	c.Invoke(t, 60, "balanceOf", owner.ScriptHash())
	c.Invoke(t, 40, "balanceOf", recipient.ScriptHash())

	t.Run("above allowance", func(t *testing.T) {
		cSpender.InvokeFail(t, common.ErrInsufficientAllowance, "transferFrom",
			spender.ScriptHash(), owner.ScriptHash(), recipient.ScriptHash(), 21, nil)
	})

	cSpender.Invoke(t, true, "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), recipient.ScriptHash(), 20, nil)
	c.Invoke(t, 0, "allowance", owner.ScriptHash(), spender.ScriptHash())

	t.Run("above balance", func(t *testing.T) {
		cOwner.Invoke(t, true, "approve", owner.ScriptHash(), spender.ScriptHash(), 1000)
		cSpender.InvokeFail(t, common.ErrInsufficientBalance, "transferFrom",
			spender.ScriptHash(), owner.ScriptHash(), recipient.ScriptHash(), 41, nil)
		c.Invoke(t, 1000, "allowance", owner.ScriptHash(), spender.ScriptHash())
	})

	t.Run("approve overwrites", func(t *testing.T) {
		cOwner.Invoke(t, true, "approve", owner.ScriptHash(), spender.ScriptHash(), 5)
		c.Invoke(t, 5, "allowance", owner.ScriptHash(), spender.ScriptHash())
	})
}

func TestToken_Update(t *testing.T) {
	c := newTokenInvoker(t)

	acc := c.NewAccount(t)
	c.WithSigners(acc).InvokeFail(t, common.ErrUnauthorized, "update", []byte{}, []byte{}, nil)
}
