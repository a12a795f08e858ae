package identity

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// DefaultIdentifier is the identifier of the claim required by the issuer
// contract by default.
const DefaultIdentifier = "nfme_mint_allowed"

// ErrEmptyIdentifier is returned for claims without identifier.
var ErrEmptyIdentifier = errors.New("empty claim identifier")

// Claim is a contract-specific common.Claim type used by its methods.
type Claim struct {
	Identifier string
	Issuer     util.Uint160
	Subject    util.Uint160
	Payload    []byte
	ValidFrom  *big.Int
	ValidTo    *big.Int
	Signature  []byte
}

// NewClaim returns unsigned claim about the subject identity issued by the
// given key. Zero validity bounds leave the claim unbounded.
func NewClaim(identifier string, issuer *keys.PublicKey, subject util.Uint160, payload []byte, validFrom, validTo uint32) *Claim {
	return &Claim{
		Identifier: identifier,
		Issuer:     issuer.GetScriptHash(),
		Subject:    subject,
		Payload:    payload,
		ValidFrom:  big.NewInt(int64(validFrom)),
		ValidTo:    big.NewInt(int64(validTo)),
	}
}

// Digest returns the claim hash covered by the issuer signature. It is the
// same hash identity consumers compute on-chain: SHA-256 of binary
// serialized [identifier, issuer, subject, payload, validFrom, validTo]
// array.
func (c *Claim) Digest() ([]byte, error) {
	if len(c.Identifier) == 0 {
		return nil, ErrEmptyIdentifier
	}

	item := stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray([]byte(c.Identifier)),
		stackitem.NewByteArray(c.Issuer.BytesBE()),
		stackitem.NewByteArray(c.Subject.BytesBE()),
		stackitem.NewByteArray(nonNil(c.Payload)),
		stackitem.NewBigInteger(intOrZero(c.ValidFrom)),
		stackitem.NewBigInteger(intOrZero(c.ValidTo)),
	})

	data, err := stackitem.Serialize(item)
	if err != nil {
		return nil, fmt.Errorf("serialize claim: %w", err)
	}

	return hash.Sha256(data).BytesBE(), nil
}

// Sign sets the claim signature made with the issuer key. Key must belong to
// the claim issuer.
func (c *Claim) Sign(key *keys.PrivateKey) error {
	if !key.PublicKey().GetScriptHash().Equals(c.Issuer) {
		return fmt.Errorf("key %s does not belong to claim issuer", key.PublicKey().String())
	}

	digest, err := c.Digest()
	if err != nil {
		return err
	}

	c.Signature = key.Sign(digest)
	return nil
}

// Verify checks that the claim is signed by the given key.
func (c *Claim) Verify(pub *keys.PublicKey) bool {
	digest, err := c.Digest()
	if err != nil {
		return false
	}
	return pub.Verify(c.Signature, hash.Sha256(digest).BytesBE())
}

// ValidAt checks whether the claim validity window includes the given block
// height.
func (c *Claim) ValidAt(height uint32) bool {
	h := big.NewInt(int64(height))
	from, to := intOrZero(c.ValidFrom), intOrZero(c.ValidTo)
	if from.Sign() > 0 && h.Cmp(from) < 0 {
		return false
	}
	if to.Sign() > 0 && h.Cmp(to) > 0 {
		return false
	}
	return true
}

func (c *Claim) params() []any {
	return []any{
		c.Identifier,
		c.Issuer,
		c.Subject,
		nonNil(c.Payload),
		intOrZero(c.ValidFrom),
		intOrZero(c.ValidTo),
		nonNil(c.Signature),
	}
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

func intOrZero(i *big.Int) *big.Int {
	if i == nil {
		return new(big.Int)
	}
	return i
}
