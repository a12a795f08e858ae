package identity

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/nfme-contract/common"
)

const (
	ownersKey     = "owners"
	factoryKey    = "factory"
	claimIndexKey = "claims"
	lockKey       = "lock"

	proposalPrefix = 'p'
	claimPrefix    = 'c'
	updatePrefix   = 'u'

	// MaxOwners is the maximum number of identity owners including the
	// initial one.
	MaxOwners = 10
)

// Operation types accepted by Execute.
const (
	OperationCall       = 0
	OperationStaticCall = 3
)

// Actions reported in OwnershipChanged and ClaimChanged notifications.
const (
	ActionAdded          = "added"
	ActionRemoveProposal = "removeProposal"
	ActionRemoved        = "removed"
)

// Error messages.
const (
	ErrAlreadyOwner      = "Is already owner"
	ErrTooManyOwners     = "No more owners allowed"
	ErrNotProposable     = "Only owners can be proposed for removal"
	ErrDoubleProposal    = "You can't propose the same owner removal twice"
	ErrNoQuorum          = "At least 50% of owners need to confirm the removal"
	ErrLastOwner         = "Cannot remove the last owner"
	ErrEmptyIdentifier   = "empty claim identifier"
	ErrInvalidClaim      = "invalid claim issuer or subject"
	ErrNoSuchClaim       = "No such claim"
	ErrReentrantCall     = "reentrant call is not allowed"
	ErrUnknownOperation  = "unknown operation type"
	ErrStaticCallValue   = "static call cannot carry value"
	ErrGASTransferFailed = "GAS transfer failed"
	ErrDoubleUpdateVote  = "You can't confirm the same update twice"
	ErrForbiddenTarget   = "call target is not allowed"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	var (
		ctx     = storage.GetContext()
		owner   interop.Hash160
		factory interop.Hash160
	)

	if data == nil {
		owner = runtime.GetScriptContainer().Sender
	} else {
		args := data.([]any)
		owner = common.ToHash160(args[0])
		if len(args) > 1 {
			factory = common.ToHash160(args[1])
		}
	}

	if len(owner) != interop.Hash160Len {
		panic("invalid owner")
	}

	common.SetSerialized(ctx, ownersKey, []interop.Hash160{owner})
	common.SetSerialized(ctx, claimIndexKey, []string{})
	if len(factory) == interop.Hash160Len {
		storage.Put(ctx, factoryKey, factory)
	}

	runtime.Log("identity contract initialized")
}

// Update method confirms contract update on behalf of the calling owner.
// Source code and manifest are replaced once the majority of current owners
// has confirmed the same update. Pending confirmations are reported in
// UpdateConfirmed notification.
func Update(script []byte, manifest []byte, data any) {
	ctx := storage.GetContext()
	actor := checkOwner(ctx)

	digest := updateDigest(script, manifest, data)
	key := append([]byte{updatePrefix}, digest...)
	if !common.Vote(ctx, key, actor) {
		panic(ErrDoubleUpdateVote)
	}

	owners := common.GetHashList(ctx, ownersKey)
	votes := common.CountVotes(ctx, key, owners)
	runtime.Notify("UpdateConfirmed", digest, actor, votes)

	if votes < quorum(len(owners)) {
		return
	}

	common.RemoveVotes(ctx, key)
	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("identity contract updated")
}

// UpdateConfirmations returns owners that have confirmed the update with the
// given arguments.
func UpdateConfirmations(script []byte, manifest []byte, data any) []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	key := append([]byte{updatePrefix}, updateDigest(script, manifest, data)...)
	return common.GetBallot(ctx, key).Voters
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// OnNEP17Payment funds identity with GAS which is later spent by Execute.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		panic("identity accepts GAS only")
	}
}

// OnNEP11Payment lets identity hold non-fungible tokens.
func OnNEP11Payment(from interop.Hash160, amount int, tokenID []byte, data any) {
}

// Verify checks whether carrier transaction is witnessed by any of the
// identity owners.
func Verify() bool {
	ctx := storage.GetReadOnlyContext()
	return common.WitnessedAccount(common.GetHashList(ctx, ownersKey)) != nil
}

// Factory returns the address of the factory that relays ownership
// notifications of the identity. It is empty for standalone identities.
func Factory() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	f := storage.Get(ctx, factoryKey)
	if f == nil {
		return nil
	}
	return common.ToHash160(f)
}

// Owners returns identity owners in the order they have been added.
func Owners() []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return common.GetHashList(ctx, ownersKey)
}

// Owner returns the longest-standing identity owner.
func Owner() interop.Hash160 {
	return Owners()[0]
}

// OwnersCount returns the number of identity owners.
func OwnersCount() int {
	return len(Owners())
}

// IsOwner checks whether the account is an identity owner.
func IsOwner(account interop.Hash160) bool {
	return indexOf(Owners(), account) >= 0
}

// RemovalProposals returns owners that have proposed removal of the
// candidate.
func RemovalProposals(candidate interop.Hash160) []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return common.GetBallot(ctx, proposalKey(candidate)).Voters
}

// AddOwner adds a new identity owner. It can be invoked by any identity owner.
func AddOwner(candidate interop.Hash160) {
	if len(candidate) != interop.Hash160Len {
		panic("invalid candidate")
	}

	ctx := storage.GetContext()
	actor := checkOwner(ctx)

	owners := common.GetHashList(ctx, ownersKey)
	if indexOf(owners, candidate) >= 0 {
		panic(ErrAlreadyOwner)
	}
	if len(owners) >= MaxOwners {
		panic(ErrTooManyOwners)
	}

	owners = append(owners, candidate)
	common.SetSerialized(ctx, ownersKey, owners)

	notifyOwnership(ctx, candidate, actor, ActionAdded)
}

// ProposeOwnerRemoval confirms removal of the candidate on behalf of the
// calling owner. Removal takes effect on RemoveOwner call once the majority
// of current owners has confirmed it.
func ProposeOwnerRemoval(candidate interop.Hash160) {
	ctx := storage.GetContext()
	actor := checkOwner(ctx)

	owners := common.GetHashList(ctx, ownersKey)
	if indexOf(owners, candidate) < 0 {
		panic(ErrNotProposable)
	}

	if !common.Vote(ctx, proposalKey(candidate), actor) {
		panic(ErrDoubleProposal)
	}

	notifyOwnership(ctx, candidate, actor, ActionRemoveProposal)
}

// RemoveOwner removes the candidate from the identity owners if enough
// owners have proposed it. It can be invoked by anyone.
func RemoveOwner(candidate interop.Hash160) {
	ctx := storage.GetContext()
	owners := common.GetHashList(ctx, ownersKey)
	key := proposalKey(candidate)

	if common.CountVotes(ctx, key, owners) < quorum(len(owners)) {
		panic(ErrNoQuorum)
	}

	i := indexOf(owners, candidate)
	if i < 0 {
		panic(ErrNotProposable)
	}
	if len(owners) == 1 {
		panic(ErrLastOwner)
	}

	remaining := []interop.Hash160{}
	for j := range owners {
		if j != i {
			remaining = append(remaining, owners[j])
		}
	}

	common.SetSerialized(ctx, ownersKey, remaining)
	common.RemoveVotes(ctx, key)
	common.DropVoter(ctx, []byte{proposalPrefix}, candidate)
	common.DropVoter(ctx, []byte{updatePrefix}, candidate)

	notifyOwnership(ctx, candidate, runtime.GetScriptContainer().Sender, ActionRemoved)
}

// SetClaim stores the claim under its identifier replacing the previous one.
// The claim is not verified: consumers verify it when they use it.
func SetClaim(identifier string, issuer, subject interop.Hash160, payload []byte,
	validFrom, validTo int, signature interop.Signature) {
	ctx := storage.GetContext()
	actor := checkOwner(ctx)

	if len(identifier) == 0 {
		panic(ErrEmptyIdentifier)
	}
	if len(issuer) != interop.Hash160Len || len(subject) != interop.Hash160Len {
		panic(ErrInvalidClaim)
	}
	if payload == nil {
		payload = []byte{}
	}
	if signature == nil {
		signature = interop.Signature{}
	}

	key := claimKey(identifier)
	if storage.Get(ctx, key) == nil {
		ids := common.GetStringList(ctx, claimIndexKey)
		ids = append(ids, identifier)
		common.SetSerialized(ctx, claimIndexKey, ids)
	}

	common.SetSerialized(ctx, key, common.Claim{
		Identifier: identifier,
		Issuer:     issuer,
		Subject:    subject,
		Payload:    payload,
		ValidFrom:  validFrom,
		ValidTo:    validTo,
		Signature:  signature,
	})

	runtime.Notify("ClaimChanged", identifier, actor, ActionAdded)
}

// RemoveClaim deletes the claim. It panics if there is no claim with the
// given identifier.
func RemoveClaim(identifier string) {
	ctx := storage.GetContext()
	actor := checkOwner(ctx)

	key := claimKey(identifier)
	if storage.Get(ctx, key) == nil {
		panic(ErrNoSuchClaim)
	}
	storage.Delete(ctx, key)

	remaining := []string{}
	ids := common.GetStringList(ctx, claimIndexKey)
	for i := range ids {
		if ids[i] != identifier {
			remaining = append(remaining, ids[i])
		}
	}
	common.SetSerialized(ctx, claimIndexKey, remaining)

	runtime.Notify("ClaimChanged", identifier, actor, ActionRemoved)
}

// GetClaim returns the claim stored under the identifier. Claim with an empty
// identifier is returned if there is none.
func GetClaim(identifier string) common.Claim {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, claimKey(identifier))
	if data == nil {
		return common.Claim{}
	}
	return std.Deserialize(data.([]byte)).(common.Claim)
}

// ListClaimIdentifiers returns identifiers of the stored claims in the order
// they have been added.
func ListClaimIdentifiers() []string {
	ctx := storage.GetReadOnlyContext()
	return common.GetStringList(ctx, claimIndexKey)
}

// Execute makes identity call the target contract. Operation is either
// OperationCall or OperationStaticCall. Non-zero value is transferred to the
// target as GAS from the identity balance with [method, args] as the
// transfer data, so the target handles such calls in its onNEP17Payment.
// Otherwise the method is called directly with the given args.
//
// Management contract and identity itself can't be the target: code updates
// and ownership changes go through the owner quorum.
func Execute(operation int, target interop.Hash160, value int, method string, args []any) any {
	ctx := storage.GetContext()
	checkOwner(ctx)

	if target.Equals(management.Hash) || target.Equals(runtime.GetExecutingScriptHash()) {
		panic(ErrForbiddenTarget)
	}

	lock(ctx)

	var res any
	switch operation {
	case OperationCall:
		if value > 0 {
			self := runtime.GetExecutingScriptHash()
			if !gas.Transfer(self, target, value, []any{method, args}) {
				panic(ErrGASTransferFailed)
			}
		} else {
			res = contract.Call(target, method, contract.All, args...)
		}
	case OperationStaticCall:
		if value != 0 {
			panic(ErrStaticCallValue)
		}
		res = contract.Call(target, method, contract.ReadOnly, args...)
	default:
		panic(ErrUnknownOperation)
	}

	storage.Delete(ctx, lockKey)

	runtime.Notify("Executed", operation, target, value, method)

	return res
}

// Mint pays the mint price of the NFMe issuer from the identity balance. The
// issuer mints the collectible to the identity if its claim is valid.
func Mint(issuer interop.Hash160) {
	ctx := storage.GetContext()
	checkOwner(ctx)

	if len(issuer) != interop.Hash160Len {
		panic("invalid issuer")
	}

	lock(ctx)

	price := contract.Call(issuer, "mintPrice", contract.ReadOnly).(int)
	self := runtime.GetExecutingScriptHash()
	if !gas.Transfer(self, issuer, price, []any{"mint"}) {
		panic(ErrGASTransferFailed)
	}

	storage.Delete(ctx, lockKey)

	runtime.Notify("Executed", OperationCall, issuer, price, "mint")
}

// lock aborts the invocation if the identity is already making an outgoing
// call.
func lock(ctx storage.Context) {
	if storage.Get(ctx, lockKey) != nil {
		common.AbortWithMessage(ErrReentrantCall)
	}
	storage.Put(ctx, lockKey, true)
}

// checkOwner returns the identity owner that witnessed the invocation and
// panics if there is none.
func checkOwner(ctx storage.Context) interop.Hash160 {
	owner := common.WitnessedAccount(common.GetHashList(ctx, ownersKey))
	if owner == nil {
		panic(common.ErrNotOwner)
	}
	return owner
}

// quorum returns the number of confirmations required to remove one of n
// owners.
func quorum(n int) int {
	return n/2 + 1
}

func notifyOwnership(ctx storage.Context, candidate, actor interop.Hash160, action string) {
	runtime.Notify("OwnershipChanged", candidate, actor, action)

	f := storage.Get(ctx, factoryKey)
	if f != nil {
		contract.Call(common.ToHash160(f), "relayOwnerAction", contract.All,
			runtime.GetExecutingScriptHash(), candidate, actor, action)
	}
}

func indexOf(list []interop.Hash160, account interop.Hash160) int {
	for i := range list {
		if list[i].Equals(account) {
			return i
		}
	}
	return -1
}

func proposalKey(candidate interop.Hash160) []byte {
	return append([]byte{proposalPrefix}, candidate...)
}

func updateDigest(script, manifest []byte, data any) []byte {
	return crypto.Sha256(std.Serialize([]any{script, manifest, data}))
}

func claimKey(identifier string) []byte {
	return append([]byte{claimPrefix}, []byte(identifier)...)
}
