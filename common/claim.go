package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
)

// Claim is an attestation signed by Issuer about Subject. It is stored by
// identity contracts as is and verified by each consumer when used.
type Claim struct {
	// Purpose tag of the claim, also a storage key in the identity.
	Identifier string
	// Account of the attester.
	Issuer interop.Hash160
	// Identity contract the claim is bound to.
	Subject interop.Hash160
	// Opaque claim data.
	Payload []byte
	// Block height bounds, 0 means unbounded.
	ValidFrom int
	ValidTo   int
	// Issuer's signature of ClaimDigest.
	Signature interop.Signature
}

// ClaimDigest returns SHA-256 hash of binary serialized claim fields
// covered by the signature. Byte fields are converted to ByteString so the
// digest does not depend on the VM type the claim was passed with.
func ClaimDigest(c Claim) []byte {
	fields := []any{
		convert.ToString(c.Identifier),
		convert.ToString(c.Issuer),
		convert.ToString(c.Subject),
		convert.ToString(c.Payload),
		convert.ToInteger(c.ValidFrom),
		convert.ToInteger(c.ValidTo),
	}

	return crypto.Sha256(std.Serialize(fields))
}
