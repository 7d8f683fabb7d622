package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// AdminKey is a storage key of the contract administrator. Every WattSwap
// contract stores the sender of its deployment transaction there.
const AdminKey = 'o'

// SetAdminFromDeployer saves the sender of the deploying transaction as the
// contract administrator and returns it.
func SetAdminFromDeployer(ctx storage.Context) interop.Hash160 {
	tx := runtime.GetScriptContainer()
	storage.Put(ctx, AdminKey, tx.Sender)

	return tx.Sender
}

// Admin returns the contract administrator.
func Admin(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, AdminKey).(interop.Hash160)
}

// HasUpdateAccess returns true if contract can be updated.
func HasUpdateAccess(ctx storage.Context) bool {
	return runtime.CheckWitness(Admin(ctx))
}

// CheckAdminWitness panics with ErrUnauthorized if the transaction is not
// witnessed by the contract administrator.
func CheckAdminWitness(ctx storage.Context) {
	if !HasUpdateAccess(ctx) {
		panic(ErrUnauthorized + ": admin witness check failed")
	}
}
