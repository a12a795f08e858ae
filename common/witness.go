package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

var (
	// ErrOwnerWitnessFailed appears when the method must be called by an owner
	// of some assets but was not.
	ErrOwnerWitnessFailed = "owner witness check failed"
	// ErrNotOwner appears when an identity method reserved to the identity
	// owners is called by somebody else.
	ErrNotOwner = "caller is not an owner"
	// ErrNotIssuer appears when an issuer method reserved to the trusted
	// claim issuer is called by somebody else.
	ErrNotIssuer = "caller is not the owner"
)

// CheckOwnerWitness checks witness of the passed caller.
// It panics with ErrOwnerWitnessFailed message on fail.
func CheckOwnerWitness(caller interop.Hash160) {
	checkWitnessWithPanic(caller, ErrOwnerWitnessFailed)
}

// CheckIssuerWitness checks witness of the trusted claim issuer.
// It panics with ErrNotIssuer message on fail.
func CheckIssuerWitness(issuer interop.Hash160) {
	checkWitnessWithPanic(issuer, ErrNotIssuer)
}

// WitnessedAccount returns the first account from the list that witnessed
// current invocation or nil if there is none.
func WitnessedAccount(accounts []interop.Hash160) interop.Hash160 {
	for i := range accounts {
		if runtime.CheckWitness(accounts[i]) {
			return accounts[i]
		}
	}
	return nil
}

func checkWitnessWithPanic(caller interop.Hash160, panicMsg string) {
	if !runtime.CheckWitness(caller) {
		panic(panicMsg)
	}
}
