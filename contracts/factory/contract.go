package factory

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/nfme-contract/common"
)

const (
	nefKey      = "nef"
	manifestKey = "manifest"

	identityPrefix = 'i'
)

// Error messages.
const (
	ErrNotIdentity    = "caller is not an identity of this factory"
	ErrNotCommittee   = "only committee can update contract"
	ErrNoTemplate     = "identity template is not set"
	ErrInvalidAccount = "invalid account"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	if data != nil {
		args := data.([]any)
		setTemplate(storage.GetContext(), args[0].([]byte), args[1].([]byte))
	}

	runtime.Log("factory contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic(ErrNotCommittee)
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("factory contract updated")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// SetTemplate replaces NEF and manifest of identity contracts deployed
// afterwards. It can be invoked only by committee.
func SetTemplate(script []byte, manifest []byte) {
	if !common.HasUpdateAccess() {
		panic(ErrNotCommittee)
	}

	setTemplate(storage.GetContext(), script, manifest)
}

// DeployIdentity deploys a new identity contract owned by the transaction
// sender and returns its address. The factory relays ownership notifications
// of the deployed identity.
func DeployIdentity() interop.Hash160 {
	ctx := storage.GetContext()

	script := storage.Get(ctx, nefKey)
	manifest := storage.Get(ctx, manifestKey)
	if script == nil || manifest == nil {
		panic(ErrNoTemplate)
	}

	owner := runtime.GetScriptContainer().Sender
	self := runtime.GetExecutingScriptHash()

	c := management.DeployWithData(script.([]byte), manifest.([]byte), []any{owner, self})
	storage.Put(ctx, append([]byte{identityPrefix}, c.Hash...), owner)

	runtime.Notify("IdentityDeployed", owner, c.Hash)

	return c.Hash
}

// RelayOwnerAction re-emits ownership change of the identity as the factory
// notification. It can be invoked only by the identity itself.
func RelayOwnerAction(identity, owner, actor interop.Hash160, action string) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(identity) || !IsIdentity(identity) {
		panic(ErrNotIdentity)
	}

	runtime.Notify("OwnerAction", identity, owner, actor, action)
}

// IsIdentity checks whether the contract has been deployed by the factory.
func IsIdentity(hash interop.Hash160) bool {
	if len(hash) != interop.Hash160Len {
		panic(ErrInvalidAccount)
	}

	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, append([]byte{identityPrefix}, hash...)) != nil
}

// Identities returns iterator over addresses of the deployed identities.
func Identities() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{identityPrefix}, storage.KeysOnly|storage.RemovePrefix)
}

// CreatorOf returns the account that deployed the identity via the factory.
func CreatorOf(identity interop.Hash160) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	owner := storage.Get(ctx, append([]byte{identityPrefix}, identity...))
	if owner == nil {
		return nil
	}
	return common.ToHash160(owner)
}

func setTemplate(ctx storage.Context, script, manifest []byte) {
	if len(script) == 0 || len(manifest) == 0 {
		panic(ErrNoTemplate)
	}

	storage.Put(ctx, nefKey, script)
	storage.Put(ctx, manifestKey, manifest)
}
