package main

import (
	"context"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nspcc-dev/nfme-contract/contracts"
	"github.com/nspcc-dev/nfme-contract/deploy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	cfgContracts = "contracts"
	cfgIssuerKey = "issuer-key"
)

func newDeployCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy IdentityFactory and NFMe issuer contracts",
		Long: `Deploy IdentityFactory and NFMe issuer contracts from the account of the given key.
Contracts already deployed from the account are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger(v)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return runDeploy(cmd, v, log)
		},
	}

	addRPCFlags(cmd)
	cmd.Flags().String(cfgKey, "", "WIF of the deploying account key")
	cmd.Flags().String(cfgContracts, "build", "Directory with compiled contracts")
	cmd.Flags().String(cfgIssuerKey, "", "Public key of the trusted claim issuer (hex)")
	cmd.Flags().String(cfgIdentifier, "", "Claim identifier required for minting, default if empty")

	return cmd
}

func runDeploy(cmd *cobra.Command, v *viper.Viper, log *zap.Logger) error {
	ctx := cmd.Context()

	acc, err := wallet.NewAccountFromWIF(v.GetString(cfgKey))
	if err != nil {
		return fmt.Errorf("invalid account WIF: %w", err)
	}

	issuerKey, err := keys.NewPublicKeyFromString(v.GetString(cfgIssuerKey))
	if err != nil {
		return fmt.Errorf("invalid issuer public key: %w", err)
	}

	set, err := contracts.ReadDir(v.GetString(cfgContracts))
	if err != nil {
		return fmt.Errorf("read compiled contracts: %w", err)
	}

	c, err := dialRPC(ctx, v)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(ctx, 10*v.GetDuration(cfgTimeout))
	defer cancel()

	res, err := deploy.Deploy(ctx, deploy.Prm{
		Logger:       log,
		Blockchain:   c,
		LocalAccount: acc,
		FactoryContract: deploy.FactoryContractPrm{
			Common:   deploy.CommonDeployPrm{NEF: set.Factory.NEF, Manifest: set.Factory.Manifest},
			Identity: deploy.CommonDeployPrm{NEF: set.Identity.NEF, Manifest: set.Identity.Manifest},
		},
		IssuerContract: deploy.IssuerContractPrm{
			Common:             deploy.CommonDeployPrm{NEF: set.Issuer.NEF, Manifest: set.Issuer.Manifest},
			RequiredIdentifier: v.GetString(cfgIdentifier),
			IssuerKey:          issuerKey,
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "factory: %s\nissuer: %s\n",
		address.Uint160ToString(res.Factory), address.Uint160ToString(res.Issuer))

	return nil
}
