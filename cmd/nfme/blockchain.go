package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errMissingRPC = errors.New("missing Neo RPC endpoint")

// dialRPC opens the connection to the configured Neo RPC server. Connection
// and all requests are bounded by the configured timeout.
func dialRPC(ctx context.Context, v *viper.Viper) (*rpcclient.Client, error) {
	endpoint := v.GetString(cfgRPC)
	if endpoint == "" {
		return nil, errMissingRPC
	}

	timeout := v.GetDuration(cfgTimeout)

	c, err := rpcclient.New(ctx, endpoint, rpcclient.Options{
		DialTimeout:    timeout,
		RequestTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	return c, nil
}

func addRPCFlags(cmd *cobra.Command) {
	cmd.Flags().String(cfgRPC, "", "Network address of the Neo RPC server")
	cmd.Flags().Duration(cfgTimeout, 15*time.Second, "Timeout of the Neo RPC requests")
}

// parseAccount accepts both Neo addresses and LE hex script hashes.
func parseAccount(s string) (util.Uint160, error) {
	if h, err := address.StringToUint160(s); err == nil {
		return h, nil
	}

	h, err := util.Uint160DecodeStringLE(s)
	if err != nil {
		return h, fmt.Errorf("invalid account %q: neither address nor script hash", s)
	}

	return h, nil
}
