package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// CheckAddress panics with ErrInvalidAddress if addr is not a valid script hash.
func CheckAddress(addr interop.Hash160) {
	if len(addr) != interop.Hash160Len {
		panic(ErrInvalidAddress)
	}
}

// CheckOwnerWitness checks that the transaction is witnessed by owner or that
// owner is the calling contract. It panics with ErrUnauthorized on fail.
func CheckOwnerWitness(owner interop.Hash160) {
	if !IsUsableAddress(owner) {
		panic(ErrUnauthorized + ": owner witness check failed")
	}
}

// IsUsableAddress checks if the sender is either a correct NEO address or SC address.
func IsUsableAddress(addr interop.Hash160) bool {
	if len(addr) == interop.Hash160Len {
		if runtime.CheckWitness(addr) {
			return true
		}

		// Check if a smart contract is calling script hash
		callingScriptHash := runtime.GetCallingScriptHash()
		if callingScriptHash.Equals(addr) {
			return true
		}
	}

	return false
}
