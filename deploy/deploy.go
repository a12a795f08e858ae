package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for NFMe deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by
	// its address. GetContractStateByHash returns error if requested contract
	// is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// FactoryContractPrm groups deployment parameters of the IdentityFactory
// contract.
type FactoryContractPrm struct {
	Common CommonDeployPrm
	// Identity contract deployed by the factory.
	Identity CommonDeployPrm
}

// IssuerContractPrm groups deployment parameters of the NFMe issuer contract.
type IssuerContractPrm struct {
	Common CommonDeployPrm
	// Claim identifier required for minting, the default one if empty.
	RequiredIdentifier string
	// Public key of the trusted claim issuer.
	IssuerKey *keys.PublicKey
}

// Prm groups all parameters of the deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy contracts to.
	Blockchain Blockchain

	// Local process account used for transaction signing and paying (must be
	// unlocked). Contract addresses depend on it.
	LocalAccount *wallet.Account

	FactoryContract FactoryContractPrm
	IssuerContract  IssuerContractPrm
}

// Result contains addresses of the deployed contracts.
type Result struct {
	Factory util.Uint160
	Issuer  util.Uint160
}

// ErrDeployFailed is returned when deploying transaction does not end with
// HALT state.
var ErrDeployFailed = errors.New("deploy transaction failed")

// Deploy deploys IdentityFactory and NFMe issuer contracts from the local
// account. Contracts that are already deployed from the account are skipped,
// so Deploy can be safely repeated.
func Deploy(ctx context.Context, prm Prm) (Result, error) {
	var res Result

	if prm.IssuerContract.IssuerKey == nil {
		return res, errors.New("missing trusted issuer key")
	}

	identityNEF, err := prm.FactoryContract.Identity.NEF.Bytes()
	if err != nil {
		return res, fmt.Errorf("encode identity NEF: %w", err)
	}

	identityManifest, err := json.Marshal(prm.FactoryContract.Identity.Manifest)
	if err != nil {
		return res, fmt.Errorf("encode identity manifest: %w", err)
	}

	steps := []struct {
		name string
		prm  CommonDeployPrm
		data []any
		dst  *util.Uint160
	}{
		{
			name: "IdentityFactory",
			prm:  prm.FactoryContract.Common,
			data: []any{identityNEF, identityManifest},
			dst:  &res.Factory,
		},
		{
			name: "issuer",
			prm:  prm.IssuerContract.Common,
			data: []any{prm.IssuerContract.RequiredIdentifier, prm.IssuerContract.IssuerKey.Bytes()},
			dst:  &res.Issuer,
		},
	}

	var act *actor.Actor

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		l := prm.Logger.With(zap.String("contract", s.name))
		addr := ContractAddress(prm.LocalAccount.ScriptHash(), s.prm)
		*s.dst = addr

		_, err := prm.Blockchain.GetContractStateByHash(addr)
		if err == nil {
			l.Info("contract is already deployed, skip", zap.Stringer("address", addr))
			continue
		}

		l.Debug("contract is missing on the chain, deploying...", zap.Stringer("address", addr), zap.Error(err))

		if act == nil {
			act, err = actor.NewTuned(prm.Blockchain, []actor.SignerAccount{{
				Signer: transaction.Signer{
					Account: prm.LocalAccount.ScriptHash(),
					Scopes:  transaction.CalledByEntry,
				},
				Account: prm.LocalAccount,
			}}, actor.Options{
				CheckerModifier: runtimeTransactionModifier(func() uint32 {
					h, err := prm.Blockchain.GetBlockCount()
					if err != nil {
						return 0
					}
					return h
				}),
			})
			if err != nil {
				return res, fmt.Errorf("init transaction sender from local account: %w", err)
			}
		}

		aer, err := act.Wait(management.New(act).Deploy(&s.prm.NEF, &s.prm.Manifest, s.data))
		if err != nil {
			return res, fmt.Errorf("deploy %s contract: %w", s.name, err)
		}
		if aer.VMState != vmstate.Halt {
			return res, fmt.Errorf("%w: %s contract: %s", ErrDeployFailed, s.name, aer.FaultException)
		}

		l.Info("contract successfully deployed", zap.Stringer("address", addr), zap.Stringer("tx", aer.Container))
	}

	return res, nil
}

// ContractAddress returns address of the contract deployed by the sender.
func ContractAddress(sender util.Uint160, prm CommonDeployPrm) util.Uint160 {
	return state.CreateContractHash(sender, prm.NEF.Checksum, prm.Manifest.Name)
}

// returns actor.TransactionCheckerModifier which checks that invocation
// finished with 'HALT' state and, if so, sets transaction's nonce and
// ValidUntilBlock to 100*N and 100*(N+1) correspondingly, where
// 100*N <= current height < 100*(N+1). Repeated deployments within the span
// produce the same transaction.
func runtimeTransactionModifier(getBlockchainHeight func() uint32) actor.TransactionCheckerModifier {
	return func(r *result.Invoke, tx *transaction.Transaction) error {
		err := actor.DefaultCheckerModifier(r, tx)
		if err != nil {
			return err
		}

		curHeight := getBlockchainHeight()
		const span = 100
		n := curHeight / span

		tx.Nonce = n * span

		if math.MaxUint32-span > tx.Nonce {
			tx.ValidUntilBlock = tx.Nonce + span
		} else {
			tx.ValidUntilBlock = math.MaxUint32
		}

		return nil
	}
}
