package token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/wattswap/wattswap-contract/common"
)

// Token holds all token info.
type Token struct {
	// Ticker symbol
	Symbol string
	// Amount of decimals
	Decimals int
	// Storage key for circulation value
	CirculationKey byte
}

const (
	symbol   = "ENRG"
	decimals = 8

	// DefaultSupply is issued to the deployer when no supply is passed in
	// deployment data: 1,000,000 ENRG.
	DefaultSupply = 1_000_000_0000_0000

	supplyKey       = 's'
	balancePrefix   = 'b'
	allowancePrefix = 'a'
)

var token Token

func createToken() Token {
	return Token{
		Symbol:         symbol,
		Decimals:       decimals,
		CirculationKey: supplyKey,
	}
}

func init() {
	token = createToken()
}

// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	supply := DefaultSupply
	if data != nil {
		args := data.([]any)
		if len(args) > 0 {
			supply = args[0].(int)
		}
	}

	if supply <= 0 {
		panic(common.ErrInvalidAmount + ": supply must be positive")
	}

	owner := common.SetAdminFromDeployer(ctx)

	storage.Put(ctx, token.CirculationKey, supply)
	storage.Put(ctx, balanceKey(owner), supply)
	emitTransfer(nil, owner, supply)

	runtime.Log("token contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the deployer of the contract.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	if !common.HasUpdateAccess(ctx) {
		panic(common.ErrUnauthorized + ": only admin can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("token contract updated")
}

// Symbol is a NEP-17 standard method that returns ENRG token symbol.
func Symbol() string {
	return token.Symbol
}

// Decimals is a NEP-17 standard method that returns precision of energy
// balances.
func Decimals() int {
	return token.Decimals
}

// TotalSupply is a NEP-17 standard method that returns the amount issued at
// deployment. It never changes since there is no mint or burn.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, token.CirculationKey)
}

// BalanceOf is a NEP-17 standard method that returns energy balance of the
// specified account.
func BalanceOf(account interop.Hash160) int {
	common.CheckAddress(account)

	ctx := storage.GetReadOnlyContext()
	return getBalance(ctx, account)
}

// Allowance returns the amount spender may still move from owner's balance
// with TransferFrom.
func Allowance(owner, spender interop.Hash160) int {
	common.CheckAddress(owner)
	common.CheckAddress(spender)

	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, allowanceKey(owner, spender))
}

// Transfer is a NEP-17 standard method that transfers energy balance from one
// account to another. It can be invoked only by the account owner.
//
// Transfer returns false and leaves both balances intact if from has less
// than amount or the transaction is not witnessed by from.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	common.CheckAddress(from)
	common.CheckAddress(to)
	if amount < 0 {
		panic(common.ErrInvalidAmount + ": negative amount")
	}

	if !common.IsUsableAddress(from) {
		runtime.Log(common.ErrUnauthorized)
		return false
	}

	ctx := storage.GetContext()
	if !token.transfer(ctx, from, to, amount) {
		return false
	}

	postTransfer(from, to, amount, data)
	return true
}

// Approve sets the amount spender may move from owner's balance. The new
// value overwrites the previous one. Produces Approval notification.
func Approve(owner, spender interop.Hash160, amount int) bool {
	common.CheckAddress(owner)
	common.CheckAddress(spender)
	if amount < 0 {
		panic(common.ErrInvalidAmount + ": negative allowance")
	}

	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	setInt(ctx, allowanceKey(owner, spender), amount)

	runtime.Notify("Approval", owner, spender, amount)
	return true
}

// TransferFrom moves amount from owner to recipient on behalf of spender and
// decreases allowance(owner, spender) accordingly. It must be witnessed by
// spender (directly or as the calling contract).
//
// It produces Transfer notification.
func TransferFrom(spender, from, to interop.Hash160, amount int, data any) bool {
	common.CheckAddress(spender)
	common.CheckAddress(from)
	common.CheckAddress(to)
	if amount < 0 {
		panic(common.ErrInvalidAmount + ": negative amount")
	}

	if !common.IsUsableAddress(spender) {
		panic(common.ErrUnauthorized + ": spender witness check failed")
	}

	ctx := storage.GetContext()

	allowKey := allowanceKey(from, spender)
	allowed := common.GetInt(ctx, allowKey)
	if allowed < amount {
		panic(common.ErrInsufficientAllowance)
	}

	if getBalance(ctx, from) < amount {
		panic(common.ErrInsufficientBalance)
	}

	setInt(ctx, allowKey, allowed-amount)

	if !token.transfer(ctx, from, to, amount) {
		panic(common.ErrInsufficientBalance)
	}

	postTransfer(from, to, amount, data)
	return true
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func (t Token) transfer(ctx storage.Context, from, to interop.Hash160, amount int) bool {
	amountFrom := getBalance(ctx, from)
	if amountFrom < amount {
		runtime.Log(common.ErrInsufficientBalance)
		return false
	}

	if amount > 0 && !from.Equals(to) {
		setInt(ctx, balanceKey(from), amountFrom-amount)

		amountTo := getBalance(ctx, to)
		setInt(ctx, balanceKey(to), amountTo+amount)
	}

	emitTransfer(from, to, amount)

	return true
}

// emitTransfer throws NEP-17 Transfer notification. from is nil for the
// initial issuance.
func emitTransfer(from, to interop.Hash160, amount int) {
	runtime.Notify("Transfer", from, to, amount)
}

// postTransfer notifies contract recipients with onNEP17Payment. A recipient
// that panics aborts the whole transfer.
func postTransfer(from, to interop.Hash160, amount int, data any) {
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}
}

func getBalance(ctx storage.Context, holder interop.Hash160) int {
	return common.GetInt(ctx, balanceKey(holder))
}

// setInt stores v under key removing the key for zero values.
func setInt(ctx storage.Context, key []byte, v int) {
	if v == 0 {
		storage.Delete(ctx, key)
		return
	}

	storage.Put(ctx, key, v)
}

func balanceKey(holder interop.Hash160) []byte {
	return append([]byte{balancePrefix}, holder...)
}

func allowanceKey(owner, spender interop.Hash160) []byte {
	key := append([]byte{allowancePrefix}, owner...)
	return append(key, spender...)
}
