package reminter

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/nfme-contract/common"
)

const (
	claimKey  = "claim"
	amountKey = "amount"
)

// OnNEP17Payment accepts GAS used to pay for minting.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	if !runtime.GetCallingScriptHash().Equals(gas.Hash) {
		panic("GAS only")
	}
}

// OnNEP11Payment pays the calling issuer once more from the token transfer
// callback.
func OnNEP11Payment(from interop.Hash160, amount int, tokenID []byte, data any) {
	pay(runtime.GetCallingScriptHash())
}

// SetClaim stores the only claim returned by GetClaim.
func SetClaim(identifier string, issuer, subject interop.Hash160, payload []byte,
	validFrom, validTo int, signature interop.Signature) {
	common.SetSerialized(storage.GetContext(), claimKey, common.Claim{
		Identifier: identifier,
		Issuer:     issuer,
		Subject:    subject,
		Payload:    payload,
		ValidFrom:  validFrom,
		ValidTo:    validTo,
		Signature:  signature,
	})
}

// GetClaim returns the stored claim regardless of the identifier.
func GetClaim(identifier string) common.Claim {
	data := storage.Get(storage.GetReadOnlyContext(), claimKey)
	if data == nil {
		return common.Claim{}
	}
	return std.Deserialize(data.([]byte)).(common.Claim)
}

// Mint pays the amount to the issuer with mint request.
func Mint(issuer interop.Hash160, amount int) {
	storage.Put(storage.GetContext(), amountKey, amount)
	pay(issuer)
}

func pay(issuer interop.Hash160) {
	amount := common.GetInt(storage.GetReadOnlyContext(), amountKey)
	if !gas.Transfer(runtime.GetExecutingScriptHash(), issuer, amount, []any{"mint"}) {
		panic("transfer failed")
	}
}
