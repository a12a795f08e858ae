// Package identity contains RPC wrappers for Identity contract and claim
// signing helpers.
package identity

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Operation types of Execute.
var (
	OperationCall       = big.NewInt(0)
	OperationStaticCall = big.NewInt(3)
)

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
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
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Factory invokes `factory` method of contract. Zero hash is returned for
// identities deployed without a factory.
func (c *ContractReader) Factory() (util.Uint160, error) {
	item, err := unwrap.Item(c.invoker.Call(c.hash, "factory"))
	if err != nil {
		return util.Uint160{}, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return util.Uint160{}, nil
	}
	return itemToUint160(item)
}

// GetClaim invokes `getClaim` method of contract. Claim with an empty
// identifier is returned if there is no such claim.
func (c *ContractReader) GetClaim(identifier string) (*Claim, error) {
	return itemToClaim(unwrap.Item(c.invoker.Call(c.hash, "getClaim", identifier)))
}

// IsOwner invokes `isOwner` method of contract.
func (c *ContractReader) IsOwner(account util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isOwner", account))
}

// ListClaimIdentifiers invokes `listClaimIdentifiers` method of contract.
func (c *ContractReader) ListClaimIdentifiers() ([]string, error) {
	return unwrap.ArrayOfUTF8Strings(c.invoker.Call(c.hash, "listClaimIdentifiers"))
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "owner"))
}

// Owners invokes `owners` method of contract.
func (c *ContractReader) Owners() ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "owners"))
}

// OwnersCount invokes `ownersCount` method of contract.
func (c *ContractReader) OwnersCount() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "ownersCount"))
}

// RemovalProposals invokes `removalProposals` method of contract.
func (c *ContractReader) RemovalProposals(candidate util.Uint160) ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "removalProposals", candidate))
}

// UpdateConfirmations invokes `updateConfirmations` method of contract.
func (c *ContractReader) UpdateConfirmations(script []byte, manifest []byte, data any) ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "updateConfirmations", script, manifest, data))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// AddOwner creates a transaction invoking `addOwner` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddOwner(candidate util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addOwner", candidate)
}

// AddOwnerTransaction creates a transaction invoking `addOwner` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddOwnerTransaction(candidate util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addOwner", candidate)
}

// AddOwnerUnsigned creates a transaction invoking `addOwner` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AddOwnerUnsigned(candidate util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addOwner", nil, candidate)
}

// ProposeOwnerRemoval creates a transaction invoking `proposeOwnerRemoval` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ProposeOwnerRemoval(candidate util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "proposeOwnerRemoval", candidate)
}

// ProposeOwnerRemovalTransaction creates a transaction invoking `proposeOwnerRemoval` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ProposeOwnerRemovalTransaction(candidate util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "proposeOwnerRemoval", candidate)
}

// ProposeOwnerRemovalUnsigned creates a transaction invoking `proposeOwnerRemoval` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ProposeOwnerRemovalUnsigned(candidate util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "proposeOwnerRemoval", nil, candidate)
}

// RemoveOwner creates a transaction invoking `removeOwner` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveOwner(candidate util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeOwner", candidate)
}

// RemoveOwnerTransaction creates a transaction invoking `removeOwner` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveOwnerTransaction(candidate util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeOwner", candidate)
}

// RemoveOwnerUnsigned creates a transaction invoking `removeOwner` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RemoveOwnerUnsigned(candidate util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeOwner", nil, candidate)
}

// SetClaim creates a transaction invoking `setClaim` method of the contract
// with fields of the given claim.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetClaim(claim *Claim) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setClaim", claim.params()...)
}

// SetClaimTransaction creates a transaction invoking `setClaim` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetClaimTransaction(claim *Claim) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setClaim", claim.params()...)
}

// SetClaimUnsigned creates a transaction invoking `setClaim` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetClaimUnsigned(claim *Claim) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setClaim", nil, claim.params()...)
}

// RemoveClaim creates a transaction invoking `removeClaim` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveClaim(identifier string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeClaim", identifier)
}

// RemoveClaimTransaction creates a transaction invoking `removeClaim` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveClaimTransaction(identifier string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeClaim", identifier)
}

// RemoveClaimUnsigned creates a transaction invoking `removeClaim` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RemoveClaimUnsigned(identifier string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeClaim", nil, identifier)
}

// Execute creates a transaction invoking `execute` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Execute(operation *big.Int, target util.Uint160, value *big.Int, method string, args []any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "execute", operation, target, value, method, args)
}

// ExecuteTransaction creates a transaction invoking `execute` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ExecuteTransaction(operation *big.Int, target util.Uint160, value *big.Int, method string, args []any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "execute", operation, target, value, method, args)
}

// ExecuteUnsigned creates a transaction invoking `execute` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ExecuteUnsigned(operation *big.Int, target util.Uint160, value *big.Int, method string, args []any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "execute", nil, operation, target, value, method, args)
}

// Mint creates a transaction invoking `mint` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Mint(issuer util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "mint", issuer)
}

// MintTransaction creates a transaction invoking `mint` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) MintTransaction(issuer util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "mint", issuer)
}

// MintUnsigned creates a transaction invoking `mint` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) MintUnsigned(issuer util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "mint", nil, issuer)
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

// itemToClaim converts stack item into *Claim.
func itemToClaim(item stackitem.Item, err error) (*Claim, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Claim)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Claim from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Claim) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 7 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Identifier, err = itemToUTF8String(arr[index])
	if err != nil {
		return fmt.Errorf("field Identifier: %w", err)
	}

	// Absent claim is returned with all fields unset.
	if len(res.Identifier) == 0 {
		return nil
	}

	index++
	res.Issuer, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Issuer: %w", err)
	}

	index++
	res.Subject, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Subject: %w", err)
	}

	index++
	res.Payload, err = itemToBytes(arr[index])
	if err != nil {
		return fmt.Errorf("field Payload: %w", err)
	}

	index++
	res.ValidFrom, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ValidFrom: %w", err)
	}

	index++
	res.ValidTo, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ValidTo: %w", err)
	}

	index++
	res.Signature, err = itemToBytes(arr[index])
	if err != nil {
		return fmt.Errorf("field Signature: %w", err)
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

func itemToUTF8String(item stackitem.Item) (string, error) {
	if _, ok := item.(stackitem.Null); ok {
		return "", nil
	}
	b, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("not a UTF-8 string")
	}
	return string(b), nil
}

func itemToBytes(item stackitem.Item) ([]byte, error) {
	if _, ok := item.(stackitem.Null); ok {
		return nil, nil
	}
	return item.TryBytes()
}
