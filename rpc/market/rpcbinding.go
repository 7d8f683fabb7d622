// Package market contains RPC wrappers for WattSwap Market contract.
package market

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
)

// MarketBid is a contract-specific market.Bid type used by its methods.
type MarketBid struct {
	ListingID *big.Int
	Buyer util.Uint160
	Amount *big.Int
}

// MarketListing is a contract-specific market.Listing type used by its methods.
type MarketListing struct {
	ID *big.Int
	Seller util.Uint160
	EnergyAmount *big.Int
	PricePerUnit *big.Int
	IsActive bool
}

// ListingCreatedEvent represents "ListingCreated" event emitted by the contract.
type ListingCreatedEvent struct {
	ID *big.Int
	Seller util.Uint160
	EnergyAmount *big.Int
	PricePerUnit *big.Int
}

// BidPlacedEvent represents "BidPlaced" event emitted by the contract.
type BidPlacedEvent struct {
	ListingID *big.Int
	Buyer util.Uint160
	Amount *big.Int
}

// BidCancelledEvent represents "BidCancelled" event emitted by the contract.
type BidCancelledEvent struct {
	ListingID *big.Int
	Buyer util.Uint160
	Amount *big.Int
}

// TradeSettledEvent represents "TradeSettled" event emitted by the contract.
type TradeSettledEvent struct {
	ListingID *big.Int
	Seller util.Uint160
	Buyer util.Uint160
	EnergyAmount *big.Int
	Payment *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// GetBid invokes `getBid` method of contract.
func (c *ContractReader) GetBid(listingID *big.Int) (*MarketBid, error) {
	return itemToMarketBid(unwrap.Item(c.invoker.Call(c.hash, "getBid", listingID)))
}

// GetListing invokes `getListing` method of contract.
func (c *ContractReader) GetListing(listingID *big.Int) (*MarketListing, error) {
	return itemToMarketListing(unwrap.Item(c.invoker.Call(c.hash, "getListing", listingID)))
}

// HasPendingBid invokes `hasPendingBid` method of contract.
func (c *ContractReader) HasPendingBid(listingID *big.Int) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "hasPendingBid", listingID))
}

// ListListings invokes `listListings` method of contract.
func (c *ContractReader) ListListings() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "listListings"))
}

// ListListingsExpanded is similar to ListListings (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ListListingsExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "listListings", _numOfIteratorItems))
}

// ListingCount invokes `listingCount` method of contract.
func (c *ContractReader) ListingCount() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "listingCount"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// AcceptBid creates a transaction invoking `acceptBid` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AcceptBid(seller util.Uint160, listingID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "acceptBid", seller, listingID)
}

// AcceptBidTransaction creates a transaction invoking `acceptBid` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AcceptBidTransaction(seller util.Uint160, listingID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "acceptBid", seller, listingID)
}

// AcceptBidUnsigned creates a transaction invoking `acceptBid` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AcceptBidUnsigned(seller util.Uint160, listingID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "acceptBid", nil, seller, listingID)
}

// CancelBid creates a transaction invoking `cancelBid` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CancelBid(caller util.Uint160, listingID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "cancelBid", caller, listingID)
}

// CancelBidTransaction creates a transaction invoking `cancelBid` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CancelBidTransaction(caller util.Uint160, listingID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "cancelBid", caller, listingID)
}

// CancelBidUnsigned creates a transaction invoking `cancelBid` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CancelBidUnsigned(caller util.Uint160, listingID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "cancelBid", nil, caller, listingID)
}

// CreateListing creates a transaction invoking `createListing` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateListing(seller util.Uint160, energyAmount *big.Int, pricePerUnit *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createListing", seller, energyAmount, pricePerUnit)
}

// CreateListingTransaction creates a transaction invoking `createListing` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateListingTransaction(seller util.Uint160, energyAmount *big.Int, pricePerUnit *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createListing", seller, energyAmount, pricePerUnit)
}

// CreateListingUnsigned creates a transaction invoking `createListing` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateListingUnsigned(seller util.Uint160, energyAmount *big.Int, pricePerUnit *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createListing", nil, seller, energyAmount, pricePerUnit)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// itemToMarketBid converts stack item into *MarketBid.
func itemToMarketBid(item stackitem.Item, err error) (*MarketBid, error) {
	if err != nil {
		return nil, err
	}
	var res = new(MarketBid)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of MarketBid from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *MarketBid) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.ListingID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ListingID: %w", err)
	}

	index++
	res.Buyer, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Buyer: %w", err)
	}

	index++
	res.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// itemToMarketListing converts stack item into *MarketListing.
func itemToMarketListing(item stackitem.Item, err error) (*MarketListing, error) {
	if err != nil {
		return nil, err
	}
	var res = new(MarketListing)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of MarketListing from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *MarketListing) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 5 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	res.Seller, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Seller: %w", err)
	}

	index++
	res.EnergyAmount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field EnergyAmount: %w", err)
	}

	index++
	res.PricePerUnit, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field PricePerUnit: %w", err)
	}

	index++
	res.IsActive, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field IsActive: %w", err)
	}

	return nil
}

// ListingCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "ListingCreated" name from the provided [result.ApplicationLog].
func ListingCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ListingCreatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ListingCreatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "ListingCreated" {
				continue
			}
			event := new(ListingCreatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ListingCreatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ListingCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *ListingCreatedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	e.Seller, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Seller: %w", err)
	}

	index++
	e.EnergyAmount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field EnergyAmount: %w", err)
	}

	index++
	e.PricePerUnit, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field PricePerUnit: %w", err)
	}

	return nil
}

// BidPlacedEventsFromApplicationLog retrieves a set of all emitted events
// with "BidPlaced" name from the provided [result.ApplicationLog].
func BidPlacedEventsFromApplicationLog(log *result.ApplicationLog) ([]*BidPlacedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*BidPlacedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "BidPlaced" {
				continue
			}
			event := new(BidPlacedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize BidPlacedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to BidPlacedEvent or
// returns an error if it's not possible to do to so.
func (e *BidPlacedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.ListingID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ListingID: %w", err)
	}

	index++
	e.Buyer, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Buyer: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// BidCancelledEventsFromApplicationLog retrieves a set of all emitted events
// with "BidCancelled" name from the provided [result.ApplicationLog].
func BidCancelledEventsFromApplicationLog(log *result.ApplicationLog) ([]*BidCancelledEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*BidCancelledEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "BidCancelled" {
				continue
			}
			event := new(BidCancelledEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize BidCancelledEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to BidCancelledEvent or
// returns an error if it's not possible to do to so.
func (e *BidCancelledEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.ListingID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ListingID: %w", err)
	}

	index++
	e.Buyer, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Buyer: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// TradeSettledEventsFromApplicationLog retrieves a set of all emitted events
// with "TradeSettled" name from the provided [result.ApplicationLog].
func TradeSettledEventsFromApplicationLog(log *result.ApplicationLog) ([]*TradeSettledEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*TradeSettledEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "TradeSettled" {
				continue
			}
			event := new(TradeSettledEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize TradeSettledEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to TradeSettledEvent or
// returns an error if it's not possible to do to so.
func (e *TradeSettledEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 5 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.ListingID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ListingID: %w", err)
	}

	index++
	e.Seller, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Seller: %w", err)
	}

	index++
	e.Buyer, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Buyer: %w", err)
	}

	index++
	e.EnergyAmount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field EnergyAmount: %w", err)
	}

	index++
	e.Payment, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Payment: %w", err)
	}

	return nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, err
	}
	return u, nil
}
