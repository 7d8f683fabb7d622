package market

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/wattswap/wattswap-contract/common"
	"github.com/wattswap/wattswap-contract/contracts/market/marketconst"
)

type (
	// Listing is an offer to sell EnergyAmount of ENRG for PricePerUnit GAS
	// fractions each. It is active until settled.
	Listing struct {
		ID           int
		Seller       interop.Hash160
		EnergyAmount int
		PricePerUnit int
		IsActive     bool
	}

	// Bid is GAS escrowed by Buyer against a listing.
	Bid struct {
		ListingID int
		Buyer     interop.Hash160
		Amount    int
	}
)

// user is a copy of github.com/wattswap/wattswap-contract/contracts/registry.User
// to prevent cross-contract imports that may fail due to internal `_deploy` calls.
type user struct {
	Name       string
	IsProducer bool
	IsConsumer bool
	IsActive   bool
}

const (
	tokenContractKey    = 't'
	registryContractKey = 'r'
	counterKey          = 'c'

	listingPrefix = 'l'
	bidPrefix     = 'b'

	// maxTotalPrice limits listing total in GAS fractions. It exceeds GAS
	// supply, so any listing below it can be paid in full.
	maxTotalPrice = 100_000_000 * 100_000_000
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		token    interop.Hash160
		registry interop.Hash160
	})

	common.CheckAddress(args.token)
	common.CheckAddress(args.registry)

	storage.Put(ctx, tokenContractKey, args.token)
	storage.Put(ctx, registryContractKey, args.registry)

	common.SetAdminFromDeployer(ctx)

	runtime.Log("market contract initialized")
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
	runtime.Log("market contract updated")
}

// CreateListing offers energyAmount ENRG of seller for pricePerUnit GAS
// fractions per unit. Seller must be a registered active producer and must
// witness the transaction. Returns the ID of the new listing; IDs start
// from 1 and grow by one.
//
// Seller is expected to approve Market contract on Token contract for at
// least energyAmount before the listing is settled.
//
// Produces ListingCreated notification.
func CreateListing(seller interop.Hash160, energyAmount, pricePerUnit int) int {
	common.CheckAddress(seller)
	common.CheckOwnerWitness(seller)

	ctx := storage.GetContext()

	u, ok := lookupUser(ctx, seller)
	if !ok || !u.IsProducer || !u.IsActive {
		panic(common.ErrUnauthorized + ": seller must be an active producer")
	}

	if energyAmount <= 0 || pricePerUnit <= 0 {
		panic(common.ErrInvalidAmount + ": energy amount and price must be positive")
	}

	if pricePerUnit > maxTotalPrice/energyAmount {
		panic(common.ErrInvalidAmount + ": total price is too big")
	}

	id := common.GetInt(ctx, counterKey) + 1
	storage.Put(ctx, counterKey, id)

	putListing(ctx, Listing{
		ID:           id,
		Seller:       seller,
		EnergyAmount: energyAmount,
		PricePerUnit: pricePerUnit,
		IsActive:     true,
	})

	runtime.Notify("ListingCreated", id, seller, energyAmount, pricePerUnit)

	return id
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
// Data must be [operation, listingID] where operation is either "bid" or
// "buy". Payment in any other token or with any other data is rejected, so
// the transfer is reverted.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		panic(common.ErrInvalidPayment + ": only GAS is accepted")
	}

	common.CheckAddress(from)

	if data == nil {
		panic(common.ErrInvalidPayment + ": missing operation")
	}

	args := data.([]any)
	if len(args) != 2 {
		panic(common.ErrInvalidPayment + ": expected [operation, listingID]")
	}

	op := args[0].(string)
	listingID := args[1].(int)

	ctx := storage.GetContext()

	switch op {
	case marketconst.OpBid:
		placeBid(ctx, from, listingID, amount)
	case marketconst.OpBuy:
		purchaseListing(ctx, from, listingID, amount)
	default:
		panic(common.ErrInvalidPayment + ": unknown operation " + op)
	}
}

// AcceptBid settles the listing with its pending bid: escrowed GAS goes to
// seller and EnergyAmount of ENRG goes from seller to the bidder. Invoked by
// the seller of the listing only.
//
// Produces TradeSettled notification.
func AcceptBid(seller interop.Hash160, listingID int) {
	common.CheckAddress(seller)
	common.CheckOwnerWitness(seller)

	ctx := storage.GetContext()

	l := mustGetListing(ctx, listingID)
	if !l.Seller.Equals(seller) {
		panic(common.ErrUnauthorized + ": only seller can accept bids")
	}

	if !l.IsActive {
		panic(common.ErrAlreadySettled)
	}

	b, ok := getBid(ctx, listingID)
	if !ok {
		panic(common.ErrNoPendingBid)
	}

	settle(ctx, l, b.Buyer, b.Amount)
}

// CancelBid removes the pending bid of the listing and returns escrowed GAS
// to the bidder. Invoked either by the bidder or by the seller.
//
// Produces BidCancelled notification.
func CancelBid(caller interop.Hash160, listingID int) {
	common.CheckAddress(caller)
	common.CheckOwnerWitness(caller)

	ctx := storage.GetContext()

	l := mustGetListing(ctx, listingID)

	b, ok := getBid(ctx, listingID)
	if !ok {
		panic(common.ErrNoPendingBid)
	}

	if !caller.Equals(b.Buyer) && !caller.Equals(l.Seller) {
		panic(common.ErrUnauthorized + ": only bidder or seller can cancel bid")
	}

	storage.Delete(ctx, bidKey(listingID))

	if !gas.Transfer(runtime.GetExecutingScriptHash(), b.Buyer, b.Amount, nil) {
		panic(common.ErrRefundFailed)
	}

	runtime.Notify("BidCancelled", listingID, b.Buyer, b.Amount)
}

// GetListing returns listing by its ID. It panics if there is no such listing.
func GetListing(listingID int) Listing {
	return mustGetListing(storage.GetReadOnlyContext(), listingID)
}

// GetBid returns the pending bid of the listing. It panics if there is none.
func GetBid(listingID int) Bid {
	b, ok := getBid(storage.GetReadOnlyContext(), listingID)
	if !ok {
		panic(common.ErrNoPendingBid)
	}

	return b
}

// HasPendingBid checks whether the listing holds an escrowed bid.
func HasPendingBid(listingID int) bool {
	return storage.Get(storage.GetReadOnlyContext(), bidKey(listingID)) != nil
}

// ListingCount returns the ID of the latest listing, zero if there are none.
func ListingCount() int {
	return common.GetInt(storage.GetReadOnlyContext(), counterKey)
}

// ListListings iterates over all listings, settled ones included. Order of
// iteration is not defined.
func ListListings() iterator.Iterator {
	return storage.Find(storage.GetReadOnlyContext(), []byte{listingPrefix},
		storage.ValuesOnly|storage.DeserializeValues)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func placeBid(ctx storage.Context, buyer interop.Hash160, listingID, amount int) {
	l := mustGetListing(ctx, listingID)
	if !l.IsActive {
		panic(common.ErrListingInactive)
	}

	u, ok := lookupUser(ctx, buyer)
	if !ok || !u.IsConsumer || !u.IsActive {
		panic(common.ErrUnauthorized + ": bidder must be an active consumer")
	}

	if buyer.Equals(l.Seller) {
		panic(common.ErrUnauthorized + ": seller cannot bid on own listing")
	}

	if storage.Get(ctx, bidKey(listingID)) != nil {
		panic(common.ErrBidPending)
	}

	if amount < totalPrice(l) {
		panic(common.ErrInsufficientBidAmount)
	}

	common.SetSerialized(ctx, bidKey(listingID), Bid{
		ListingID: listingID,
		Buyer:     buyer,
		Amount:    amount,
	})

	runtime.Notify("BidPlaced", listingID, buyer, amount)
}

func purchaseListing(ctx storage.Context, buyer interop.Hash160, listingID, amount int) {
	l := mustGetListing(ctx, listingID)
	if !l.IsActive {
		panic(common.ErrListingInactive)
	}

	if buyer.Equals(l.Seller) {
		panic(common.ErrUnauthorized + ": seller cannot buy own listing")
	}

	if storage.Get(ctx, bidKey(listingID)) != nil {
		panic(common.ErrBidPending)
	}

	if amount != totalPrice(l) {
		panic(common.ErrInvalidAmount + ": payment must equal listing total")
	}

	settle(ctx, l, buyer, amount)
}

// settle closes the listing and then moves value. Listing becomes inactive and
// the bid is removed before any external call, so a re-entrant call observes
// the listing already settled.
func settle(ctx storage.Context, l Listing, buyer interop.Hash160, payment int) {
	if !l.IsActive {
		panic(common.ErrAlreadySettled)
	}

	l.IsActive = false
	putListing(ctx, l)
	storage.Delete(ctx, bidKey(l.ID))

	self := runtime.GetExecutingScriptHash()
	tokenHash := storage.Get(ctx, tokenContractKey).(interop.Hash160)

	ok := contract.Call(tokenHash, "transferFrom", contract.All,
		self, l.Seller, buyer, l.EnergyAmount, nil).(bool)
	if !ok {
		panic(common.ErrEnergyTransferFailed)
	}

	if !gas.Transfer(self, l.Seller, payment, nil) {
		panic(common.ErrPaymentReleaseFailed)
	}

	runtime.Notify("TradeSettled", l.ID, l.Seller, buyer, l.EnergyAmount, payment)
}

func totalPrice(l Listing) int {
	return l.EnergyAmount * l.PricePerUnit
}

func lookupUser(ctx storage.Context, addr interop.Hash160) (user, bool) {
	registryHash := storage.Get(ctx, registryContractKey).(interop.Hash160)

	registered := contract.Call(registryHash, "isRegisteredUser", contract.ReadOnly, addr).(bool)
	if !registered {
		return user{}, false
	}

	return contract.Call(registryHash, "getUser", contract.ReadOnly, addr).(user), true
}

func mustGetListing(ctx storage.Context, listingID int) Listing {
	data := storage.Get(ctx, listingKey(listingID))
	if data == nil {
		panic(common.ErrListingNotFound)
	}

	return std.Deserialize(data.([]byte)).(Listing)
}

func putListing(ctx storage.Context, l Listing) {
	common.SetSerialized(ctx, listingKey(l.ID), l)
}

func getBid(ctx storage.Context, listingID int) (Bid, bool) {
	data := storage.Get(ctx, bidKey(listingID))
	if data == nil {
		return Bid{}, false
	}

	return std.Deserialize(data.([]byte)).(Bid), true
}

func listingKey(id int) []byte {
	return append([]byte{listingPrefix}, convert.ToBytes(id)...)
}

func bidKey(id int) []byte {
	return append([]byte{bidPrefix}, convert.ToBytes(id)...)
}
