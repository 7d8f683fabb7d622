package registry

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/wattswap/wattswap-contract/common"
)

// User is a registered marketplace participant.
type User struct {
	Name       string
	IsProducer bool
	IsConsumer bool
	IsActive   bool
}

const userPrefix = 'u'

// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	common.SetAdminFromDeployer(ctx)

	runtime.Log("registry contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the registry admin.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	if !common.HasUpdateAccess(ctx) {
		panic(common.ErrUnauthorized + ": only admin can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("registry contract updated")
}

// RegisterUser creates an active account for user. Transaction must be
// witnessed by user. Registration is one-way, the second call for the same
// user fails whatever the arguments are.
//
// Produces UserRegistered notification.
func RegisterUser(user interop.Hash160, name string, isProducer, isConsumer bool) {
	common.CheckAddress(user)
	common.CheckOwnerWitness(user)

	ctx := storage.GetContext()
	key := userKey(user)
	if storage.Get(ctx, key) != nil {
		panic(common.ErrAlreadyRegistered)
	}

	common.SetSerialized(ctx, key, User{
		Name:       name,
		IsProducer: isProducer,
		IsConsumer: isConsumer,
		IsActive:   true,
	})

	runtime.Notify("UserRegistered", user, name, isProducer, isConsumer)
}

// GetUser returns the account of user. It panics if user is not registered.
func GetUser(user interop.Hash160) User {
	common.CheckAddress(user)

	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, userKey(user))
	if data == nil {
		panic(common.ErrUserNotFound)
	}

	return std.Deserialize(data.([]byte)).(User)
}

// IsRegisteredUser checks whether user has an account.
func IsRegisteredUser(user interop.Hash160) bool {
	common.CheckAddress(user)

	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, userKey(user)) != nil
}

// UpdateUserStatus suspends (active is false) or reactivates user. It can be
// invoked only by the registry admin.
//
// Produces UserStatusChanged notification.
func UpdateUserStatus(user interop.Hash160, active bool) {
	common.CheckAddress(user)

	ctx := storage.GetContext()
	common.CheckAdminWitness(ctx)

	key := userKey(user)
	data := storage.Get(ctx, key)
	if data == nil {
		panic(common.ErrUserNotFound)
	}

	u := std.Deserialize(data.([]byte)).(User)
	u.IsActive = active
	common.SetSerialized(ctx, key, u)

	runtime.Notify("UserStatusChanged", user, active)
}

// Admin returns the account allowed to change user status.
func Admin() interop.Hash160 {
	return common.Admin(storage.GetReadOnlyContext())
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func userKey(user interop.Hash160) []byte {
	return append([]byte{userPrefix}, user...)
}
