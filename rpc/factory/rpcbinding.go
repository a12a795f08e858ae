// Package factory contains RPC wrappers for IdentityFactory contract.
package factory

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Notification names of the contract.
const (
	IdentityDeployedEventName = "IdentityDeployed"
	OwnerActionEventName      = "OwnerAction"
)

// IdentityDeployedEvent represents "IdentityDeployed" event emitted by the contract.
type IdentityDeployedEvent struct {
	Owner    util.Uint160
	Identity util.Uint160
}

// OwnerActionEvent represents "OwnerAction" event emitted by the contract.
type OwnerActionEvent struct {
	Identity util.Uint160
	Owner    util.Uint160
	Actor    util.Uint160
	Action   string
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

// CreatorOf invokes `creatorOf` method of contract.
func (c *ContractReader) CreatorOf(identity util.Uint160) (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "creatorOf", identity))
}

// Identities invokes `identities` method of contract.
func (c *ContractReader) Identities() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "identities"))
}

// IdentitiesExpanded is similar to Identities (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) IdentitiesExpanded(_numOfIteratorItems int) ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.CallAndExpandIterator(c.hash, "identities", _numOfIteratorItems))
}

// IsIdentity invokes `isIdentity` method of contract.
func (c *ContractReader) IsIdentity(hash util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isIdentity", hash))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// DeployIdentity creates a transaction invoking `deployIdentity` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
// Address of the deployed identity is available in IdentityDeployed event of
// the transaction.
func (c *Contract) DeployIdentity() (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "deployIdentity")
}

// DeployIdentityTransaction creates a transaction invoking `deployIdentity` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DeployIdentityTransaction() (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "deployIdentity")
}

// DeployIdentityUnsigned creates a transaction invoking `deployIdentity` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DeployIdentityUnsigned() (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "deployIdentity", nil)
}

// SetTemplate creates a transaction invoking `setTemplate` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetTemplate(script []byte, manifest []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setTemplate", script, manifest)
}

// SetTemplateTransaction creates a transaction invoking `setTemplate` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetTemplateTransaction(script []byte, manifest []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setTemplate", script, manifest)
}

// SetTemplateUnsigned creates a transaction invoking `setTemplate` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetTemplateUnsigned(script []byte, manifest []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setTemplate", nil, script, manifest)
}

// IdentityDeployedEventsFromApplicationLog retrieves a set of all emitted events
// with "IdentityDeployed" name from the provided [result.ApplicationLog].
func IdentityDeployedEventsFromApplicationLog(log *result.ApplicationLog) ([]*IdentityDeployedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*IdentityDeployedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != IdentityDeployedEventName {
				continue
			}
			event := new(IdentityDeployedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize IdentityDeployedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to IdentityDeployedEvent or
// returns an error if it's not possible to do to so.
func (e *IdentityDeployedEvent) FromStackItem(item *stackitem.Array) error {
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

	var err error
	e.Owner, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	e.Identity, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Identity: %w", err)
	}

	return nil
}

// OwnerActionEventsFromApplicationLog retrieves a set of all emitted events
// with "OwnerAction" name from the provided [result.ApplicationLog].
func OwnerActionEventsFromApplicationLog(log *result.ApplicationLog) ([]*OwnerActionEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*OwnerActionEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != OwnerActionEventName {
				continue
			}
			event := new(OwnerActionEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize OwnerActionEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to OwnerActionEvent or
// returns an error if it's not possible to do to so.
func (e *OwnerActionEvent) FromStackItem(item *stackitem.Array) error {
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

	var err error
	e.Identity, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Identity: %w", err)
	}

	e.Owner, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	e.Actor, err = itemToUint160(arr[2])
	if err != nil {
		return fmt.Errorf("field Actor: %w", err)
	}

	b, err := arr[3].TryBytes()
	if err != nil {
		return fmt.Errorf("field Action: %w", err)
	}
	if !utf8.Valid(b) {
		return errors.New("field Action: not a UTF-8 string")
	}
	e.Action = string(b)

	return nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}
