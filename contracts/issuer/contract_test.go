package issuer_test

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/nfme-contract/contracts/identity"
	rpcidentity "github.com/nspcc-dev/nfme-contract/rpc/identity"
	"github.com/nspcc-dev/nfme-contract/tests"
	"github.com/stretchr/testify/require"
)

func hashItem(h util.Uint160) stackitem.Item {
	return stackitem.NewByteArray(h.BytesBE())
}

func tokensOf(t *testing.T, inv *neotest.ContractInvoker, owner util.Uint160) []stackitem.Item {
	s, err := inv.TestInvoke(t, "tokensOf", owner)
	require.NoError(t, err)
	return tests.IteratorToArray(s.Pop().Value().(*storage.Iterator))
}

func TestIssuer_Generic(t *testing.T) {
	env := tests.NewEnv(t)
	inv := env.CommitteeInvoker(env.IssuerHash)

	inv.Invoke(t, "NFME", "symbol")
	inv.Invoke(t, 0, "decimals")
	inv.Invoke(t, 0, "totalSupply")
	inv.Invoke(t, 0, "mintedCount")
	inv.Invoke(t, tests.MintPrice, "mintPrice")
	inv.Invoke(t, tests.MaxSupply, "maxSupply")
	inv.Invoke(t, rpcidentity.DefaultIdentifier, "requiredIdentifier")
	inv.Invoke(t, hashItem(env.Issuer.ScriptHash()), "trustedIssuer")
	inv.Invoke(t, env.IssuerKey.PublicKey().Bytes(), "issuerKey")

	env.NewInvoker(env.IssuerHash, env.Issuer).Invoke(t, true, "verify")
	inv.Invoke(t, false, "verify")
}

func TestIssuer_CustomIdentifier(t *testing.T) {
	e := tests.NewExecutor(t)
	key, err := keys.NewPrivateKey()
	require.NoError(t, err)

	c := tests.Compile(t, e, tests.IssuerDir)
	e.DeployContract(t, c, []any{"vip", key.PublicKey().Bytes()})
	e.CommitteeInvoker(c.Hash).Invoke(t, "vip", "requiredIdentifier")
}

func TestIssuer_Mint(t *testing.T) {
	env := tests.NewEnv(t)
	inv := env.CommitteeInvoker(env.IssuerHash)
	id, owner := env.NewIdentity(t)

	env.Allow(t, id, owner)
	inv.Invoke(t, true, "verifyClaim", id)
	inv.Invoke(t, false, "hasMinted", id)

	h := env.NewInvoker(id, owner).Invoke(t, stackitem.Null{}, "execute",
		identity.OperationCall, env.IssuerHash, tests.MintPrice, "mint", []any{})

	tokenID := []byte("1")
	// GAS transfer goes first.
	env.CheckTxNotificationEvent(t, h, 1, state.NotificationEvent{
		ScriptHash: env.IssuerHash,
		Name:       "Transfer",
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.Null{},
			hashItem(id),
			stackitem.Make(1),
			stackitem.Make(tokenID),
		}),
	})

	inv.Invoke(t, hashItem(id), "ownerOf", tokenID)
	inv.Invoke(t, 1, "balanceOf", id)
	inv.Invoke(t, 1, "totalSupply")
	inv.Invoke(t, 1, "mintedCount")
	inv.Invoke(t, true, "hasMinted", id)
	require.Equal(t, []stackitem.Item{stackitem.Make(tokenID)}, tokensOf(t, inv, id))
	env.CommitteeInvoker(env.GASHash).Invoke(t, tests.MintPrice, "balanceOf", env.IssuerHash)

	s, err := inv.TestInvoke(t, "properties", tokenID)
	require.NoError(t, err)
	props := s.Pop().Item().(*stackitem.Map)
	require.Equal(t, 2, props.Len())
	require.Equal(t, stackitem.Make("NFME #1"), props.Value().([]stackitem.MapElement)[props.Index(stackitem.Make("name"))].Value)

	t.Run("double mint", func(t *testing.T) {
		env.MintFail(t, id, owner, "Already minted")
		inv.Invoke(t, 1, "mintedCount")
	})

	t.Run("other owner of the same identity", func(t *testing.T) {
		second := env.NewAccount(t)
		env.NewInvoker(id, owner).Invoke(t, stackitem.Null{}, "addOwner", second.ScriptHash())
		env.MintFail(t, id, second, "Already minted")
	})

	t.Run("more than price", func(t *testing.T) {
		id, owner := env.NewIdentity(t)
		env.Allow(t, id, owner)
		env.NewInvoker(id, owner).Invoke(t, stackitem.Null{}, "execute",
			identity.OperationCall, env.IssuerHash, tests.MintPrice+1, "mint", []any{})
		inv.Invoke(t, true, "hasMinted", id)
	})
}

func TestIssuer_ReentrantMint(t *testing.T) {
	env := tests.NewEnv(t)
	inv := env.CommitteeInvoker(env.IssuerHash)

	c := tests.Compile(t, env.Executor, tests.ReminterDir)
	env.DeployContract(t, c, nil)
	reminter := env.CommitteeInvoker(c.Hash)

	env.CommitteeInvoker(env.GASHash).Invoke(t, true, "transfer",
		env.CommitteeHash, c.Hash, 10*tests.MintPrice, nil)
	reminter.Invoke(t, stackitem.Null{}, "setClaim",
		tests.ClaimArgs(env.NewClaim(t, rpcidentity.DefaultIdentifier, c.Hash, 0, 0))...)
	inv.Invoke(t, true, "verifyClaim", c.Hash)

	// Second payment is made from onNEP11Payment of the first mint.
	reminter.InvokeFail(t, "Already minted", "mint", env.IssuerHash, tests.MintPrice)

	inv.Invoke(t, false, "hasMinted", c.Hash)
	inv.Invoke(t, 0, "mintedCount")
	inv.Invoke(t, 0, "totalSupply")
}

func TestIssuer_Payment(t *testing.T) {
	env := tests.NewEnv(t)
	id, owner := env.NewIdentity(t)
	env.Allow(t, id, owner)
	idInv := env.NewInvoker(id, owner)

	idInv.InvokeFail(t, "Please send enough ether", "execute",
		identity.OperationCall, env.IssuerHash, tests.MintPrice-1, "mint", []any{})
	idInv.InvokeFail(t, "unsupported payment", "execute",
		identity.OperationCall, env.IssuerHash, tests.MintPrice, "donate", []any{})

	// Direct payment from an account.
	acc := env.NewAccount(t)
	env.NewInvoker(env.GASHash, acc).InvokeFail(t, "unsupported payment", "transfer",
		acc.ScriptHash(), env.IssuerHash, tests.MintPrice, nil)
	env.NewInvoker(env.GASHash, acc).InvokeFail(t, "Required claim not available", "transfer",
		acc.ScriptHash(), env.IssuerHash, tests.MintPrice, []any{"mint"})

	neoHash := env.NativeHash(t, nativenames.Neo)
	env.CommitteeInvoker(neoHash).InvokeFail(t, "only GAS is accepted", "transfer",
		env.CommitteeHash, env.IssuerHash, 1, []any{"mint"})

	env.CommitteeInvoker(env.IssuerHash).InvokeFail(t, "Required claim not available", "verifyClaim", acc.ScriptHash())
}

func TestIssuer_ClaimVerification(t *testing.T) {
	env := tests.NewEnv(t)
	inv := env.CommitteeInvoker(env.IssuerHash)
	id, owner := env.NewIdentity(t)

	env.MintFail(t, id, owner, "Required claim not available")

	other, _ := env.NewIdentity(t)
	otherKey, err := keys.NewPrivateKey()
	require.NoError(t, err)

	height := env.Chain.BlockHeight()

	for _, tc := range []struct {
		name  string
		claim func() *rpcidentity.Claim
		err   string
	}{
		{
			name: "wrong identifier",
			claim: func() *rpcidentity.Claim {
				return env.NewClaim(t, "something_else", id, 0, 0)
			},
			err: "Required claim not available",
		},
		{
			name: "wrong issuer",
			claim: func() *rpcidentity.Claim {
				c := rpcidentity.NewClaim(rpcidentity.DefaultIdentifier, otherKey.PublicKey(), id, []byte{}, 0, 0)
				require.NoError(t, c.Sign(otherKey))
				return c
			},
			err: "Wrong claim issuer",
		},
		{
			name: "wrong receiver",
			claim: func() *rpcidentity.Claim {
				return env.NewClaim(t, rpcidentity.DefaultIdentifier, other, 0, 0)
			},
			err: "Wrong claim receiver",
		},
		{
			name: "forged signature",
			claim: func() *rpcidentity.Claim {
				c := rpcidentity.NewClaim(rpcidentity.DefaultIdentifier, env.IssuerKey.PublicKey(), id, []byte{}, 0, 0)
				c.Signature = otherKey.Sign([]byte("anything"))
				return c
			},
			err: "Claim signature not valid",
		},
		{
			name: "tampered payload",
			claim: func() *rpcidentity.Claim {
				c := env.NewClaim(t, rpcidentity.DefaultIdentifier, id, 0, 0)
				c.Payload = []byte("tampered")
				return c
			},
			err: "Claim signature not valid",
		},
		{
			name: "validFrom changed after signing",
			claim: func() *rpcidentity.Claim {
				c := env.NewClaim(t, rpcidentity.DefaultIdentifier, id, 0, 0)
				c.ValidFrom = big.NewInt(1)
				return c
			},
			err: "Claim signature not valid",
		},
		{
			name: "validTo changed after signing",
			claim: func() *rpcidentity.Claim {
				c := env.NewClaim(t, rpcidentity.DefaultIdentifier, id, 1, height+10)
				c.ValidTo = big.NewInt(int64(height) + 100500)
				return c
			},
			err: "Claim signature not valid",
		},
		{
			name: "issuer changed after signing",
			claim: func() *rpcidentity.Claim {
				c := env.NewClaim(t, rpcidentity.DefaultIdentifier, id, 0, 0)
				c.Issuer = otherKey.PublicKey().GetScriptHash()
				return c
			},
			err: "Wrong claim issuer",
		},
		{
			name: "not yet valid",
			claim: func() *rpcidentity.Claim {
				return env.NewClaim(t, rpcidentity.DefaultIdentifier, id, height+1000, 0)
			},
			err: "Claim not yet valid",
		},
		{
			name: "expired",
			claim: func() *rpcidentity.Claim {
				return env.NewClaim(t, rpcidentity.DefaultIdentifier, id, 0, 1)
			},
			err: "Claim not valid anymore",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.claim()
			env.SetClaim(t, id, owner, c)
			env.MintFail(t, id, owner, tc.err)
			inv.InvokeFail(t, tc.err, "verifyClaim", id)
			env.NewInvoker(id, owner).Invoke(t, stackitem.Null{}, "removeClaim", c.Identifier)
		})
	}

	inv.Invoke(t, false, "hasMinted", id)
	inv.Invoke(t, 0, "mintedCount")

	t.Run("valid window", func(t *testing.T) {
		h := env.Chain.BlockHeight()
		env.SetClaim(t, id, owner, env.NewClaim(t, rpcidentity.DefaultIdentifier, id, 1, h+1000))
		env.Mint(t, id, owner)
		inv.Invoke(t, true, "hasMinted", id)
	})
}

func TestIssuer_Revocation(t *testing.T) {
	env := tests.NewEnv(t)
	inv := env.CommitteeInvoker(env.IssuerHash)
	issuerInv := env.NewInvoker(env.IssuerHash, env.Issuer)
	id, owner := env.NewIdentity(t)
	env.Allow(t, id, owner)

	inv.InvokeFail(t, "caller is not the owner", "addRevocation", id, rpcidentity.DefaultIdentifier)
	inv.Invoke(t, false, "isRevoked", id, rpcidentity.DefaultIdentifier)

	h := issuerInv.Invoke(t, stackitem.Null{}, "addRevocation", id, rpcidentity.DefaultIdentifier)
	env.CheckTxNotificationEvent(t, h, 0, state.NotificationEvent{
		ScriptHash: env.IssuerHash,
		Name:       "RevocationChanged",
		Item: stackitem.NewArray([]stackitem.Item{
			hashItem(id),
			stackitem.Make(rpcidentity.DefaultIdentifier),
			stackitem.Make(true),
		}),
	})
	inv.Invoke(t, true, "isRevoked", id, rpcidentity.DefaultIdentifier)
	inv.Invoke(t, false, "isRevoked", id, "other")

	env.MintFail(t, id, owner, "Claim has been revoked")
	inv.InvokeFail(t, "Claim has been revoked", "verifyClaim", id)

	inv.InvokeFail(t, "caller is not the owner", "removeRevocation", id, rpcidentity.DefaultIdentifier)
	issuerInv.Invoke(t, stackitem.Null{}, "removeRevocation", id, rpcidentity.DefaultIdentifier)
	inv.Invoke(t, false, "isRevoked", id, rpcidentity.DefaultIdentifier)

	env.Mint(t, id, owner)
}

func TestIssuer_Supply(t *testing.T) {
	env := tests.NewEnv(t)
	inv := env.CommitteeInvoker(env.IssuerHash)

	for i := 0; i < tests.MaxSupply; i++ {
		id, owner := env.NewIdentity(t)
		env.Allow(t, id, owner)
		env.Mint(t, id, owner)
	}
	inv.Invoke(t, tests.MaxSupply, "totalSupply")
	inv.Invoke(t, tests.MaxSupply, "mintedCount")

	s, err := inv.TestInvoke(t, "tokens")
	require.NoError(t, err)
	require.Len(t, tests.IteratorToArray(s.Pop().Value().(*storage.Iterator)), tests.MaxSupply)

	id, owner := env.NewIdentity(t)
	env.Allow(t, id, owner)
	env.MintFail(t, id, owner, "We are already minted out")

	// Supply cap is checked before the claim.
	env.NewInvoker(id, owner).Invoke(t, stackitem.Null{}, "removeClaim", rpcidentity.DefaultIdentifier)
	env.MintFail(t, id, owner, "We are already minted out")
}

func TestIssuer_NonTransferable(t *testing.T) {
	env := tests.NewEnv(t)
	inv := env.CommitteeInvoker(env.IssuerHash)
	id, owner := env.NewIdentity(t)
	env.Allow(t, id, owner)
	env.Mint(t, id, owner)

	tokenID := []byte("1")
	target := env.NewAccount(t)

	env.NewInvoker(id, owner).InvokeFail(t, "Transferring NFT is not allowed", "execute",
		identity.OperationCall, env.IssuerHash, 0, "transfer", []any{target.ScriptHash(), tokenID, nil})
	inv.InvokeFail(t, "Transferring NFT is not allowed", "transfer", target.ScriptHash(), tokenID, nil)
	inv.Invoke(t, hashItem(id), "ownerOf", tokenID)

	t.Run("burn", func(t *testing.T) {
		inv.InvokeFail(t, "owner witness check failed", "burn", tokenID)
		inv.InvokeFail(t, "invalid token", "burn", []byte("2"))

		h := env.NewInvoker(id, owner).Invoke(t, stackitem.Null{}, "execute",
			identity.OperationCall, env.IssuerHash, 0, "burn", []any{tokenID})
		env.CheckTxNotificationEvent(t, h, 0, state.NotificationEvent{
			ScriptHash: env.IssuerHash,
			Name:       "Transfer",
			Item: stackitem.NewArray([]stackitem.Item{
				hashItem(id),
				stackitem.Null{},
				stackitem.Make(1),
				stackitem.Make(tokenID),
			}),
		})

		inv.InvokeFail(t, "invalid token", "ownerOf", tokenID)
		inv.Invoke(t, 0, "balanceOf", id)
		inv.Invoke(t, 0, "totalSupply")
		inv.Invoke(t, 1, "mintedCount")
		require.Empty(t, tokensOf(t, inv, id))

		env.MintFail(t, id, owner, "Already minted")
	})
}

func TestIssuer_Withdraw(t *testing.T) {
	env := tests.NewEnv(t)
	id, owner := env.NewIdentity(t)
	env.Allow(t, id, owner)
	env.Mint(t, id, owner)

	acc := env.NewAccount(t)
	env.CommitteeInvoker(env.IssuerHash).InvokeFail(t, "caller is not the owner", "withdraw", acc.ScriptHash(), tests.MintPrice)

	env.NewInvoker(env.IssuerHash, env.Issuer).Invoke(t, true, "withdraw", acc.ScriptHash(), tests.MintPrice)
	env.CommitteeInvoker(env.GASHash).Invoke(t, 0, "balanceOf", env.IssuerHash)
}
