package tests

import (
	"encoding/json"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nspcc-dev/nfme-contract/rpc/identity"
	"github.com/stretchr/testify/require"
)

const (
	// MintPrice is the price of a single token in GAS fractions.
	MintPrice = 10_000_000
	// MaxSupply is the number of tokens the issuer ever mints.
	MaxSupply = 10

	// identityBalance is the amount of GAS given to new identities.
	identityBalance = 1_0000_0000
)

// Env is a chain with deployed factory and issuer contracts.
type Env struct {
	*neotest.Executor

	// IssuerKey is the key of the trusted claim issuer.
	IssuerKey *keys.PrivateKey
	// Issuer signs transactions as the trusted claim issuer.
	Issuer neotest.Signer

	IdentityContract *neotest.Contract
	IssuerHash       util.Uint160
	FactoryHash      util.Uint160
	GASHash          util.Uint160
}

// NewEnv deploys the factory and the issuer requiring the default claim
// identifier on a new chain.
func NewEnv(t testing.TB) *Env {
	e := NewExecutor(t)

	key, err := keys.NewPrivateKey()
	require.NoError(t, err)

	env := &Env{
		Executor:  e,
		IssuerKey: key,
		Issuer:    neotest.NewSingleSigner(wallet.NewAccountFromPrivateKey(key)),
		GASHash:   e.NativeHash(t, nativenames.Gas),
	}

	env.IdentityContract = Compile(t, e, IdentityDir)
	env.FactoryHash = env.deployFactory(t)
	env.IssuerHash = env.deployIssuer(t, "")

	env.fund(t, env.Issuer.ScriptHash(), 10_0000_0000)

	return env
}

func (env *Env) deployFactory(t testing.TB) util.Uint160 {
	nefBytes, err := env.IdentityContract.NEF.Bytes()
	require.NoError(t, err)
	rawManifest, err := json.Marshal(env.IdentityContract.Manifest)
	require.NoError(t, err)

	c := Compile(t, env.Executor, FactoryDir)
	env.DeployContract(t, c, []any{nefBytes, rawManifest})
	return c.Hash
}

func (env *Env) deployIssuer(t testing.TB, identifier string) util.Uint160 {
	c := Compile(t, env.Executor, IssuerDir)
	env.DeployContract(t, c, []any{identifier, env.IssuerKey.PublicKey().Bytes()})
	return c.Hash
}

// IdentityHash returns address of the identity deployed by the sender via
// factory.
func (env *Env) IdentityHash(sender util.Uint160) util.Uint160 {
	return state.CreateContractHash(sender, env.IdentityContract.NEF.Checksum, env.IdentityContract.Manifest.Name)
}

// NewIdentity deploys a new identity via factory owned by a new account,
// funds it with 1 GAS and returns its address together with the owner.
func (env *Env) NewIdentity(t testing.TB) (util.Uint160, neotest.Signer) {
	owner := env.NewAccount(t)
	h := env.DeployIdentity(t, owner)
	env.fund(t, h, identityBalance)
	return h, owner
}

// DeployIdentity deploys identity of the owner via factory.
func (env *Env) DeployIdentity(t testing.TB, owner neotest.Signer) util.Uint160 {
	h := env.IdentityHash(owner.ScriptHash())
	env.NewInvoker(env.FactoryHash, owner).Invoke(t, stackitem.NewByteArray(h.BytesBE()), "deployIdentity")
	return h
}

// NewClaim returns claim with the issuer's signature.
func (env *Env) NewClaim(t testing.TB, identifier string, subject util.Uint160, validFrom, validTo uint32) *identity.Claim {
	c := identity.NewClaim(identifier, env.IssuerKey.PublicKey(), subject, []byte{}, validFrom, validTo)
	require.NoError(t, c.Sign(env.IssuerKey))
	return c
}

// SetClaim stores the claim in the identity on behalf of the owner.
func (env *Env) SetClaim(t testing.TB, id util.Uint160, owner neotest.Signer, c *identity.Claim) {
	env.NewInvoker(id, owner).Invoke(t, stackitem.Null{}, "setClaim", ClaimArgs(c)...)
}

// Allow stores valid claim with the default identifier in the identity.
func (env *Env) Allow(t testing.TB, id util.Uint160, owner neotest.Signer) {
	env.SetClaim(t, id, owner, env.NewClaim(t, identity.DefaultIdentifier, id, 0, 0))
}

// Mint pays mint price to the issuer from the identity balance.
func (env *Env) Mint(t testing.TB, id util.Uint160, owner neotest.Signer) {
	env.NewInvoker(id, owner).Invoke(t, stackitem.Null{}, "mint", env.IssuerHash)
}

// MintFail checks that minting from the identity fails with the message.
func (env *Env) MintFail(t testing.TB, id util.Uint160, owner neotest.Signer, msg string) {
	env.NewInvoker(id, owner).InvokeFail(t, msg, "mint", env.IssuerHash)
}

// ClaimArgs returns setClaim arguments of the claim.
func ClaimArgs(c *identity.Claim) []any {
	return []any{c.Identifier, c.Issuer, c.Subject, c.Payload, c.ValidFrom, c.ValidTo, c.Signature}
}

func (env *Env) fund(t testing.TB, to util.Uint160, amount int64) {
	env.CommitteeInvoker(env.GASHash).Invoke(t, true, "transfer",
		env.CommitteeHash, to, amount, nil)
}
