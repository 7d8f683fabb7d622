// Package registry contains RPC wrappers for WattSwap Registry contract.
package registry

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
	"unicode/utf8"
)

// RegistryUser is a contract-specific registry.User type used by its methods.
type RegistryUser struct {
	Name string
	IsProducer bool
	IsConsumer bool
	IsActive bool
}

// UserRegisteredEvent represents "UserRegistered" event emitted by the contract.
type UserRegisteredEvent struct {
	User util.Uint160
	Name string
	IsProducer bool
	IsConsumer bool
}

// UserStatusChangedEvent represents "UserStatusChanged" event emitted by the contract.
type UserStatusChangedEvent struct {
	User util.Uint160
	IsActive bool
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

// Admin invokes `admin` method of contract.
func (c *ContractReader) Admin() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "admin"))
}

// GetUser invokes `getUser` method of contract.
func (c *ContractReader) GetUser(user util.Uint160) (*RegistryUser, error) {
	return itemToRegistryUser(unwrap.Item(c.invoker.Call(c.hash, "getUser", user)))
}

// IsRegisteredUser invokes `isRegisteredUser` method of contract.
func (c *ContractReader) IsRegisteredUser(user util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isRegisteredUser", user))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// RegisterUser creates a transaction invoking `registerUser` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RegisterUser(user util.Uint160, name string, isProducer bool, isConsumer bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "registerUser", user, name, isProducer, isConsumer)
}

// RegisterUserTransaction creates a transaction invoking `registerUser` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RegisterUserTransaction(user util.Uint160, name string, isProducer bool, isConsumer bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "registerUser", user, name, isProducer, isConsumer)
}

// RegisterUserUnsigned creates a transaction invoking `registerUser` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RegisterUserUnsigned(user util.Uint160, name string, isProducer bool, isConsumer bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "registerUser", nil, user, name, isProducer, isConsumer)
}

// UpdateUserStatus creates a transaction invoking `updateUserStatus` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateUserStatus(user util.Uint160, active bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateUserStatus", user, active)
}

// UpdateUserStatusTransaction creates a transaction invoking `updateUserStatus` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateUserStatusTransaction(user util.Uint160, active bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateUserStatus", user, active)
}

// UpdateUserStatusUnsigned creates a transaction invoking `updateUserStatus` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUserStatusUnsigned(user util.Uint160, active bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateUserStatus", nil, user, active)
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

// itemToRegistryUser converts stack item into *RegistryUser.
func itemToRegistryUser(item stackitem.Item, err error) (*RegistryUser, error) {
	if err != nil {
		return nil, err
	}
	var res = new(RegistryUser)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of RegistryUser from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *RegistryUser) FromStackItem(item stackitem.Item) error {
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
	res.Name, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	index++
	res.IsProducer, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field IsProducer: %w", err)
	}

	index++
	res.IsConsumer, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field IsConsumer: %w", err)
	}

	index++
	res.IsActive, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field IsActive: %w", err)
	}

	return nil
}

// UserRegisteredEventsFromApplicationLog retrieves a set of all emitted events
// with "UserRegistered" name from the provided [result.ApplicationLog].
func UserRegisteredEventsFromApplicationLog(log *result.ApplicationLog) ([]*UserRegisteredEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*UserRegisteredEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "UserRegistered" {
				continue
			}
			event := new(UserRegisteredEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize UserRegisteredEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to UserRegisteredEvent or
// returns an error if it's not possible to do to so.
func (e *UserRegisteredEvent) FromStackItem(item *stackitem.Array) error {
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
	e.User, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field User: %w", err)
	}

	index++
	e.Name, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	index++
	e.IsProducer, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field IsProducer: %w", err)
	}

	index++
	e.IsConsumer, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field IsConsumer: %w", err)
	}

	return nil
}

// UserStatusChangedEventsFromApplicationLog retrieves a set of all emitted events
// with "UserStatusChanged" name from the provided [result.ApplicationLog].
func UserStatusChangedEventsFromApplicationLog(log *result.ApplicationLog) ([]*UserStatusChangedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*UserStatusChangedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "UserStatusChanged" {
				continue
			}
			event := new(UserStatusChangedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize UserStatusChangedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to UserStatusChangedEvent or
// returns an error if it's not possible to do to so.
func (e *UserStatusChangedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.User, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field User: %w", err)
	}

	index++
	e.IsActive, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field IsActive: %w", err)
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

func itemToString(item stackitem.Item) (string, error) {
	b, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("not a UTF-8 string")
	}
	return string(b), nil
}
