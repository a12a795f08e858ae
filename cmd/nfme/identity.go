package main

import (
	"fmt"
	"io"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/nfme-contract/rpc/identity"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const cfgIdentity = "identity"

func newIdentityCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Identity contract operations",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print owners and claims of the identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := parseAccount(v.GetString(cfgIdentity))
			if err != nil {
				return fmt.Errorf("identity: %w", err)
			}

			c, err := dialRPC(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer c.Close()

			return showIdentity(cmd.OutOrStdout(), identity.NewReader(invoker.New(c, nil), h))
		},
	}

	addRPCFlags(show)
	show.Flags().String(cfgIdentity, "", "Identity contract (address or LE hash)")

	cmd.AddCommand(show)

	return cmd
}

// identityReader is a part of identity.ContractReader used by show command.
type identityReader interface {
	Owners() ([]util.Uint160, error)
	Factory() (util.Uint160, error)
	ListClaimIdentifiers() ([]string, error)
	GetClaim(string) (*identity.Claim, error)
}

func showIdentity(w io.Writer, r identityReader) error {
	owners, err := r.Owners()
	if err != nil {
		return fmt.Errorf("get owners: %w", err)
	}

	factory, err := r.Factory()
	if err != nil {
		return fmt.Errorf("get factory: %w", err)
	}

	ids, err := r.ListClaimIdentifiers()
	if err != nil {
		return fmt.Errorf("list claims: %w", err)
	}

	if !factory.Equals(util.Uint160{}) {
		fmt.Fprintf(w, "factory: %s\n", address.Uint160ToString(factory))
	}

	fmt.Fprintln(w, "owners:")
	for i := range owners {
		fmt.Fprintf(w, "  %s\n", address.Uint160ToString(owners[i]))
	}

	fmt.Fprintln(w, "claims:")
	for _, id := range ids {
		c, err := r.GetClaim(id)
		if err != nil {
			return fmt.Errorf("get claim %q: %w", id, err)
		}

		fmt.Fprintf(w, "  %s: issuer %s, valid %s..%s\n", c.Identifier,
			address.Uint160ToString(c.Issuer), c.ValidFrom, c.ValidTo)
	}

	return nil
}
