// Package chaintest deploys WattSwap contracts to a private in-memory chain
// for contract tests.
package chaintest

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/wattswap/wattswap-contract/contracts/market/marketconst"
)

// Contract directory names relative to ContractsDir.
const (
	TokenName    = "token"
	RegistryName = "registry"
	MarketName   = "market"
)

// Env is a chain with the complete WattSwap contract set. The committee
// account deploys everything, so it holds the whole ENRG supply and
// administers every contract.
type Env struct {
	E *neotest.Executor

	Token    util.Uint160
	Registry util.Uint160
	Market   util.Uint160
}

// NewExecutor returns an executor of a fresh single-node chain.
func NewExecutor(t testing.TB) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// RootDir returns the repository root.
func RootDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..")
}

// ContractDir returns the source directory of the named contract.
func ContractDir(name string) string {
	return filepath.Join(RootDir(), "contracts", name)
}

// TestContractDir returns the source directory of the named test contract.
func TestContractDir(name string) string {
	return filepath.Join(RootDir(), "internal", "testcontracts", name)
}

// Deploy compiles contract from dir and deploys it with the given data on
// behalf of the committee.
func Deploy(t testing.TB, e *neotest.Executor, dir string, data any) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, dir, filepath.Join(dir, "config.yml"))
	e.DeployContract(t, c, data)
	return c.Hash
}

// DeployToken deploys Token contract. Without supply the default one is
// issued.
func DeployToken(t testing.TB, e *neotest.Executor, supply ...int64) util.Uint160 {
	var data any
	if len(supply) > 0 {
		data = []any{supply[0]}
	}
	return Deploy(t, e, ContractDir(TokenName), data)
}

// DeployRegistry deploys Registry contract.
func DeployRegistry(t testing.TB, e *neotest.Executor) util.Uint160 {
	return Deploy(t, e, ContractDir(RegistryName), nil)
}

// DeployMarket deploys Market contract bound to the given Token and Registry.
func DeployMarket(t testing.TB, e *neotest.Executor, token, registry util.Uint160) util.Uint160 {
	return Deploy(t, e, ContractDir(MarketName), []any{token, registry})
}

// NewEnv deploys Token, Registry and Market contracts to a fresh chain.
func NewEnv(t testing.TB) *Env {
	e := NewExecutor(t)

	token := DeployToken(t, e)
	registry := DeployRegistry(t, e)

	return &Env{
		E:        e,
		Token:    token,
		Registry: registry,
		Market:   DeployMarket(t, e, token, registry),
	}
}

// TokenInvoker returns Token contract invoker signed by the given signers.
func (env *Env) TokenInvoker(signers ...neotest.Signer) *neotest.ContractInvoker {
	return env.invoker(env.Token, signers)
}

// RegistryInvoker returns Registry contract invoker signed by the given
// signers.
func (env *Env) RegistryInvoker(signers ...neotest.Signer) *neotest.ContractInvoker {
	return env.invoker(env.Registry, signers)
}

// MarketInvoker returns Market contract invoker signed by the given signers.
func (env *Env) MarketInvoker(signers ...neotest.Signer) *neotest.ContractInvoker {
	return env.invoker(env.Market, signers)
}

// GASInvoker returns native GAS contract invoker signed by the given signers.
func (env *Env) GASInvoker(t testing.TB, signers ...neotest.Signer) *neotest.ContractInvoker {
	return env.invoker(env.E.NativeHash(t, nativenames.Gas), signers)
}

func (env *Env) invoker(h util.Uint160, signers []neotest.Signer) *neotest.ContractInvoker {
	if len(signers) == 0 {
		return env.E.CommitteeInvoker(h)
	}
	return env.E.NewInvoker(h, signers...)
}

// Register creates an account with 100 GAS and registers it in Registry
// contract with the given roles.
func (env *Env) Register(t testing.TB, name string, producer, consumer bool) neotest.Signer {
	acc := env.E.NewAccount(t)
	env.RegistryInvoker(acc).Invoke(t, stackitem.Null{}, "registerUser",
		acc.ScriptHash(), name, producer, consumer)
	return acc
}

// Producer registers a seller who owns amount ENRG and approves Market
// contract to move all of it.
func (env *Env) Producer(t testing.TB, name string, amount int64) neotest.Signer {
	acc := env.Register(t, name, true, false)

	env.TokenInvoker().Invoke(t, true, "transfer",
		env.E.CommitteeHash, acc.ScriptHash(), amount, nil)
	env.TokenInvoker(acc).Invoke(t, true, "approve",
		acc.ScriptHash(), env.Market, amount)

	return acc
}

// Consumer registers a buyer.
func (env *Env) Consumer(t testing.TB, name string) neotest.Signer {
	return env.Register(t, name, false, true)
}

// CreateListing lists energy of seller and returns listing ID.
func (env *Env) CreateListing(t testing.TB, seller neotest.Signer, energy, price int64) int64 {
	id := env.ListingCount(t) + 1
	env.MarketInvoker(seller).Invoke(t, id, "createListing",
		seller.ScriptHash(), energy, price)
	return id
}

// ListingCount returns the number of created listings.
func (env *Env) ListingCount(t testing.TB) int64 {
	s, err := env.MarketInvoker().TestInvoke(t, "listingCount")
	if err != nil {
		t.Fatal(err)
	}
	n, err := s.Pop().Item().TryInteger()
	if err != nil {
		t.Fatal(err)
	}
	return n.Int64()
}

// BidData returns GAS transfer data for a bid on the listing.
func BidData(listingID int64) []any {
	return []any{marketconst.OpBid, listingID}
}

// BuyData returns GAS transfer data for a purchase of the listing.
func BuyData(listingID int64) []any {
	return []any{marketconst.OpBuy, listingID}
}

// TokenBalance returns ENRG balance of acc.
func (env *Env) TokenBalance(t testing.TB, acc util.Uint160) int64 {
	s, err := env.TokenInvoker().TestInvoke(t, "balanceOf", acc)
	if err != nil {
		t.Fatal(err)
	}
	n, err := s.Pop().Item().TryInteger()
	if err != nil {
		t.Fatal(err)
	}
	return n.Int64()
}

// GASBalance returns GAS balance of acc.
func (env *Env) GASBalance(acc util.Uint160) int64 {
	return env.E.Chain.GetUtilityTokenBalance(acc).Int64()
}

// RequireSupplyConserved checks that ENRG held by the committee and the
// given accounts adds up to the total supply.
func (env *Env) RequireSupplyConserved(t testing.TB, accs ...util.Uint160) {
	s, err := env.TokenInvoker().TestInvoke(t, "totalSupply")
	if err != nil {
		t.Fatal(err)
	}
	supply, err := s.Pop().Item().TryInteger()
	if err != nil {
		t.Fatal(err)
	}

	sum := env.TokenBalance(t, env.E.CommitteeHash)
	for _, acc := range accs {
		sum += env.TokenBalance(t, acc)
	}

	if sum != supply.Int64() {
		t.Fatalf("ENRG supply is not conserved: balances sum to %d, total supply is %d", sum, supply.Int64())
	}
}
