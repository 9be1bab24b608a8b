package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gaze-network/presale/pkg/decimals"
	"github.com/gaze-network/presale/pkg/httpclient"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

type claimCmdOptions struct {
	API     string
	KeyFile string
}

func NewClaimCommand() *cobra.Command {
	opts := &claimCmdOptions{}

	cmd := &cobra.Command{
		Use:     "claim",
		Short:   "Claim the vested sale tokens of a wallet from a running presale",
		Example: `presale claim --api http://localhost:8080 --key-file /data/keys/priv.key`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return claimHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.API, "api", "http://localhost:8080", "Base URL of the presale HTTP API")
	flags.StringVar(&opts.KeyFile, "key-file", "/data/keys/priv.key", "Hex encoded private key of the claiming wallet")

	return cmd
}

// newAPIClient returns a presale API client, signing requests when keyFile is set.
func newAPIClient(api string, keyFile string) (*httpclient.Client, error) {
	config := httpclient.Config{}
	if keyFile != "" {
		raw, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, errors.Wrap(err, "can't read key file")
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(string(raw)), "0x"))
		if err != nil {
			return nil, errors.Wrap(err, "invalid private key")
		}
		config.Signer = key
	}
	client, err := httpclient.New(api, config)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return client, nil
}

func claimHandler(opts *claimCmdOptions, cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client, err := newAPIClient(opts.API, opts.KeyFile)
	if err != nil {
		return errors.WithStack(err)
	}
	account := client.Address()
	ctx = logger.WithContext(ctx, slogx.Address("account", account))

	resp, err := client.Get(ctx, "/presale/v1/state", httpclient.RequestOptions{})
	if err != nil {
		return errors.Wrap(err, "can't get presale state")
	}
	var state struct {
		SaleDecimals      uint8 `json:"saleDecimals"`
		ImmediateDelivery bool  `json:"immediateDelivery"`
		ReleaseTime       int64 `json:"releaseTime"`
	}
	if err := resp.Result(&state); err != nil {
		return errors.Wrap(err, "can't get presale state")
	}

	resp, err = client.Post(ctx, "/presale/v1/claim", httpclient.RequestOptions{Body: []byte(`{}`)})
	if err != nil {
		return errors.Wrap(err, "can't claim")
	}
	var claim struct {
		Amount string `json:"amount"`
	}
	if err := resp.Result(&claim); err != nil {
		return errors.Wrap(err, "claim rejected")
	}
	amount, err := decimals.ParseBaseUnits(claim.Amount)
	if err != nil {
		return errors.WithStack(err)
	}

	logger.InfoContext(ctx, "Claimed vested tokens", slogx.Uint256("amount", amount))
	fmt.Fprintf(cmd.OutOrStdout(), "Claimed %s tokens to %s\n", decimals.FormatUnits(amount, state.SaleDecimals), account.Hex())
	return nil
}
