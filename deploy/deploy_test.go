package deploy

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRuntimeTransactionModifier(t *testing.T) {
	t.Run("invalid invocation result state", func(t *testing.T) {
		var res result.Invoke
		res.State = "FAULT" // any non-HALT

		err := runtimeTransactionModifier(func() uint32 { return 0 })(&res, new(transaction.Transaction))
		require.Error(t, err)
	})

	var validRes result.Invoke
	validRes.State = "HALT"

	for _, tc := range []struct {
		curHeight     uint32
		expectedNonce uint32
		expectedVUB   uint32
	}{
		{curHeight: 0, expectedNonce: 0, expectedVUB: 100},
		{curHeight: 99, expectedNonce: 0, expectedVUB: 100},
		{curHeight: 100, expectedNonce: 100, expectedVUB: 200},
		{curHeight: 250, expectedNonce: 200, expectedVUB: 300},
		{curHeight: math.MaxUint32 - 50, expectedNonce: 100 * (math.MaxUint32 / 100), expectedVUB: math.MaxUint32},
	} {
		m := runtimeTransactionModifier(func() uint32 { return tc.curHeight })

		var tx transaction.Transaction

		err := m(&validRes, &tx)
		require.NoError(t, err, tc)
		require.EqualValues(t, tc.expectedNonce, tx.Nonce, tc)
		require.EqualValues(t, tc.expectedVUB, tx.ValidUntilBlock, tc)
	}
}

// deployedChain pretends that every requested contract already exists. Any
// attempt to send transactions panics on the nil RPCActor.
type deployedChain struct {
	actor.RPCActor
	requested []util.Uint160
}

func (d *deployedChain) GetContractStateByHash(h util.Uint160) (*state.Contract, error) {
	d.requested = append(d.requested, h)
	return &state.Contract{ContractBase: state.ContractBase{Hash: h}}, nil
}

func testContract(t *testing.T, name string, script []byte) CommonDeployPrm {
	f, err := nef.NewFile(script)
	require.NoError(t, err)
	return CommonDeployPrm{NEF: *f, Manifest: *manifest.NewManifest(name)}
}

func testPrm(t *testing.T, bc Blockchain) Prm {
	acc, err := wallet.NewAccount()
	require.NoError(t, err)

	issuerKey, err := keys.NewPrivateKey()
	require.NoError(t, err)

	return Prm{
		Logger:       zaptest.NewLogger(t),
		Blockchain:   bc,
		LocalAccount: acc,
		FactoryContract: FactoryContractPrm{
			Common:   testContract(t, "IdentityFactory", []byte{0x40}),
			Identity: testContract(t, "Identity", []byte{0x41, 0x40}),
		},
		IssuerContract: IssuerContractPrm{
			Common:    testContract(t, "NFMe", []byte{0x42, 0x40}),
			IssuerKey: issuerKey.PublicKey(),
		},
	}
}

func TestDeploy(t *testing.T) {
	t.Run("missing issuer key", func(t *testing.T) {
		prm := testPrm(t, new(deployedChain))
		prm.IssuerContract.IssuerKey = nil

		_, err := Deploy(context.Background(), prm)
		require.Error(t, err)
	})

	t.Run("already deployed", func(t *testing.T) {
		bc := new(deployedChain)
		prm := testPrm(t, bc)

		res, err := Deploy(context.Background(), prm)
		require.NoError(t, err)

		sender := prm.LocalAccount.ScriptHash()
		require.Equal(t, ContractAddress(sender, prm.FactoryContract.Common), res.Factory)
		require.Equal(t, ContractAddress(sender, prm.IssuerContract.Common), res.Issuer)
		require.Equal(t, []util.Uint160{res.Factory, res.Issuer}, bc.requested)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Deploy(ctx, testPrm(t, new(deployedChain)))
		require.True(t, errors.Is(err, context.Canceled))
	})
}

func TestContractAddress(t *testing.T) {
	prm := testContract(t, "Identity", []byte{0x40})
	sender := util.Uint160{1, 2, 3}

	require.Equal(t, state.CreateContractHash(sender, prm.NEF.Checksum, "Identity"), ContractAddress(sender, prm))
	require.NotEqual(t, ContractAddress(sender, prm), ContractAddress(util.Uint160{3, 2, 1}, prm))
}
