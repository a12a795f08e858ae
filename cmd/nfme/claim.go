package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/nfme-contract/rpc/identity"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	cfgIdentifier = "identifier"
	cfgIssuer     = "issuer"
	cfgSubject    = "subject"
	cfgPayload    = "payload"
	cfgValidFrom  = "valid-from"
	cfgValidTo    = "valid-to"
	cfgSignature  = "signature"
)

// claimJSON is a printable claim form accepted by identity setClaim method.
type claimJSON struct {
	Identifier string `json:"identifier"`
	Issuer     string `json:"issuer"`
	Subject    string `json:"subject"`
	Payload    string `json:"payload"`
	ValidFrom  uint32 `json:"validFrom"`
	ValidTo    uint32 `json:"validTo"`
	Digest     string `json:"digest"`
	Signature  string `json:"signature,omitempty"`
}

func newClaimCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Off-chain claim operations",
	}

	digest := &cobra.Command{
		Use:   "digest",
		Short: "Print hash of the claim signed by the issuer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pub, err := keys.NewPublicKeyFromString(v.GetString(cfgIssuer))
			if err != nil {
				return fmt.Errorf("invalid issuer public key: %w", err)
			}

			c, err := claimFromConfig(v, pub)
			if err != nil {
				return err
			}

			return printClaim(cmd.OutOrStdout(), c)
		},
	}
	addClaimFlags(digest)
	digest.Flags().String(cfgIssuer, "", "Public key of the claim issuer (hex)")

	sign := &cobra.Command{
		Use:   "sign",
		Short: "Sign the claim with the issuer key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := keys.NewPrivateKeyFromWIF(v.GetString(cfgKey))
			if err != nil {
				return fmt.Errorf("invalid issuer WIF: %w", err)
			}
			defer key.Destroy()

			c, err := claimFromConfig(v, key.PublicKey())
			if err != nil {
				return err
			}

			err = c.Sign(key)
			if err != nil {
				return fmt.Errorf("sign claim: %w", err)
			}

			return printClaim(cmd.OutOrStdout(), c)
		},
	}
	addClaimFlags(sign)
	sign.Flags().String(cfgKey, "", "WIF of the claim issuer key")

	verify := &cobra.Command{
		Use:   "verify",
		Short: "Check the claim signature of the issuer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pub, err := keys.NewPublicKeyFromString(v.GetString(cfgIssuer))
			if err != nil {
				return fmt.Errorf("invalid issuer public key: %w", err)
			}

			c, err := claimFromConfig(v, pub)
			if err != nil {
				return err
			}

			c.Signature, err = hex.DecodeString(v.GetString(cfgSignature))
			if err != nil {
				return fmt.Errorf("invalid signature: %w", err)
			}

			if !c.Verify(pub) {
				return errors.New("claim signature not valid")
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return err
		},
	}
	addClaimFlags(verify)
	verify.Flags().String(cfgIssuer, "", "Public key of the claim issuer (hex)")
	verify.Flags().String(cfgSignature, "", "Claim signature (hex)")

	cmd.AddCommand(digest, sign, verify)

	return cmd
}

func addClaimFlags(cmd *cobra.Command) {
	cmd.Flags().String(cfgIdentifier, identity.DefaultIdentifier, "Claim identifier")
	cmd.Flags().String(cfgSubject, "", "Identity contract the claim is about (address or LE hash)")
	cmd.Flags().String(cfgPayload, "", "Claim payload (hex)")
	cmd.Flags().Uint32(cfgValidFrom, 0, "First block height claim is valid at, 0 for no bound")
	cmd.Flags().Uint32(cfgValidTo, 0, "Last block height claim is valid at, 0 for no bound")
}

func claimFromConfig(v *viper.Viper, issuer *keys.PublicKey) (*identity.Claim, error) {
	subject, err := parseAccount(v.GetString(cfgSubject))
	if err != nil {
		return nil, fmt.Errorf("subject: %w", err)
	}

	payload, err := hex.DecodeString(v.GetString(cfgPayload))
	if err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}

	return identity.NewClaim(v.GetString(cfgIdentifier), issuer, subject, payload,
		v.GetUint32(cfgValidFrom), v.GetUint32(cfgValidTo)), nil
}

func printClaim(w io.Writer, c *identity.Claim) error {
	digest, err := c.Digest()
	if err != nil {
		return err
	}

	out := claimJSON{
		Identifier: c.Identifier,
		Issuer:     address.Uint160ToString(c.Issuer),
		Subject:    address.Uint160ToString(c.Subject),
		Payload:    hex.EncodeToString(c.Payload),
		ValidFrom:  uint32(c.ValidFrom.Uint64()),
		ValidTo:    uint32(c.ValidTo.Uint64()),
		Digest:     hex.EncodeToString(digest),
		Signature:  hex.EncodeToString(c.Signature),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
