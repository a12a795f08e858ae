// Package issuer contains RPC wrappers for NFMe issuer contract.
package issuer

import (
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep11"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// MintAction is the transfer data that makes the issuer mint a token on GAS
// payment.
const MintAction = "mint"

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	nep11.Invoker
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	nep11.Actor

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	nep11.NonDivisibleReader
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{*nep11.NewNonDivisibleReader(invoker, hash), invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
// Transfer methods of NEP-11 are not provided since the issuer forbids
// transfers.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{*nep11.NewNonDivisibleReader(actor, hash), actor, hash}, actor, hash}
}

// HasMinted invokes `hasMinted` method of contract.
func (c *ContractReader) HasMinted(identity util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "hasMinted", identity))
}

// IsRevoked invokes `isRevoked` method of contract.
func (c *ContractReader) IsRevoked(subject util.Uint160, identifier string) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isRevoked", subject, identifier))
}

// IssuerKey invokes `issuerKey` method of contract.
func (c *ContractReader) IssuerKey() (*keys.PublicKey, error) {
	return unwrap.PublicKey(c.invoker.Call(c.hash, "issuerKey"))
}

// MaxSupply invokes `maxSupply` method of contract.
func (c *ContractReader) MaxSupply() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "maxSupply"))
}

// MintPrice invokes `mintPrice` method of contract.
func (c *ContractReader) MintPrice() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "mintPrice"))
}

// MintedCount invokes `mintedCount` method of contract.
func (c *ContractReader) MintedCount() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "mintedCount"))
}

// RequiredIdentifier invokes `requiredIdentifier` method of contract.
func (c *ContractReader) RequiredIdentifier() (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "requiredIdentifier"))
}

// TrustedIssuer invokes `trustedIssuer` method of contract.
func (c *ContractReader) TrustedIssuer() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "trustedIssuer"))
}

// VerifyClaim invokes `verifyClaim` method of contract. Error contains the
// reason the identity cannot mint.
func (c *ContractReader) VerifyClaim(identity util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "verifyClaim", identity))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Burn creates a transaction invoking `burn` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Burn(tokenID []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "burn", tokenID)
}

// BurnTransaction creates a transaction invoking `burn` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) BurnTransaction(tokenID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "burn", tokenID)
}

// BurnUnsigned creates a transaction invoking `burn` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) BurnUnsigned(tokenID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "burn", nil, tokenID)
}

// AddRevocation creates a transaction invoking `addRevocation` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddRevocation(subject util.Uint160, identifier string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addRevocation", subject, identifier)
}

// AddRevocationTransaction creates a transaction invoking `addRevocation` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddRevocationTransaction(subject util.Uint160, identifier string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addRevocation", subject, identifier)
}

// AddRevocationUnsigned creates a transaction invoking `addRevocation` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AddRevocationUnsigned(subject util.Uint160, identifier string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addRevocation", nil, subject, identifier)
}

// RemoveRevocation creates a transaction invoking `removeRevocation` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveRevocation(subject util.Uint160, identifier string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeRevocation", subject, identifier)
}

// RemoveRevocationTransaction creates a transaction invoking `removeRevocation` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveRevocationTransaction(subject util.Uint160, identifier string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeRevocation", subject, identifier)
}

// RemoveRevocationUnsigned creates a transaction invoking `removeRevocation` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RemoveRevocationUnsigned(subject util.Uint160, identifier string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeRevocation", nil, subject, identifier)
}

// Withdraw creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Withdraw(to util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "withdraw", to, amount)
}

// WithdrawTransaction creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) WithdrawTransaction(to util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "withdraw", to, amount)
}

// WithdrawUnsigned creates a transaction invoking `withdraw` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) WithdrawUnsigned(to util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "withdraw", nil, to, amount)
}
