package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/presale/internal/config"
	"github.com/gaze-network/presale/modules/presale"
	"github.com/gaze-network/presale/pkg/decimals"
	"github.com/gaze-network/presale/pkg/httpclient"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/holiman/uint256"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type statusCmdOptions struct {
	Account  string
	Simulate []string
	// API reads the status from a running presale instead of the configured storage.
	API string
}

func NewStatusCommand() *cobra.Command {
	opts := &statusCmdOptions{}

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show presale totals, limits, tiers, balances and purchase simulations",
		Example: `presale status --config ./config.yaml --account 0x... --simulate 50,150,1500`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return statusHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Account, "account", "", "Show the vested balance of this account")
	flags.StringSliceVar(&opts.Simulate, "simulate", presale.DefaultSimulations, "Payment amounts to preview, in whole payment tokens")
	flags.StringVar(&opts.API, "api", "", "Base URL of a running presale HTTP API, E.g. `http://localhost:8080`")

	return cmd
}

func statusHandler(opts *statusCmdOptions, cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	conf := config.Load()

	var account common.Address
	if opts.Account != "" {
		if !common.IsHexAddress(opts.Account) {
			return errors.Errorf("invalid account %q", opts.Account)
		}
		account = common.HexToAddress(opts.Account)
	}

	if opts.API != "" {
		return errors.WithStack(remoteStatus(opts, cmd))
	}

	module, err := presale.Open(ctx, conf)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if err := module.Shutdown(); err != nil {
			logger.ErrorContext(ctx, "failed to close presale", err)
		}
	}()

	status, err := module.Engine.Status(ctx, account, opts.Simulate)
	if err != nil {
		return errors.Wrap(err, "can't get presale status")
	}
	return errors.WithStack(printStatus(cmd.OutOrStdout(), conf, status))
}

func printStatus(out io.Writer, conf config.Config, status *presale.Status) error {
	state := status.State
	paymentSymbol, saleSymbol := conf.Presale.PaymentToken.Symbol, conf.Presale.SaleToken.Symbol
	payment := func(amount *uint256.Int) string {
		return decimals.FormatUnits(amount, state.PaymentDecimals) + " " + paymentSymbol
	}
	sale := func(amount *uint256.Int) string {
		return decimals.FormatUnits(amount, state.SaleDecimals) + " " + saleSymbol
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	lines := [][2]string{
		{"Network", conf.Network.String()},
		{"Payment token", state.PaymentToken.Hex()},
		{"Sale token", state.SaleToken.Hex()},
		{"Owner", state.Owner.Hex()},
		{"Funds wallet", state.FundsWallet.Hex()},
		{"Total raised", payment(state.TotalRaised)},
		{"Total vested", sale(state.TotalVested)},
		{"Paused", fmt.Sprint(state.Paused)},
		{"Immediate delivery", fmt.Sprint(state.ImmediateDelivery)},
		{"Release time", state.ReleaseTime.UTC().Format(time.RFC3339)},
		{"Claimable", lo.Ternary(status.Claimable, "yes", "no, in "+status.TimeUntilRelease.Round(time.Second).String())},
		{"Min purchase", payment(state.MinPurchase)},
		{"Max purchase", payment(state.MaxPurchase)},
		{"Hard cap", payment(state.HardCap)},
		{"Treasury " + paymentSymbol, payment(status.TreasuryPaymentBalance)},
		{"Treasury " + saleSymbol, sale(status.TreasurySaleBalance)},
	}
	if state.ImmediateDelivery {
		lines[10][1] = "no, immediate delivery"
	}
	if status.Account != (common.Address{}) {
		lines = append(lines, [2]string{"Vested " + status.Account.Hex(), sale(status.AccountVested)})
	}
	for _, line := range lines {
		fmt.Fprintf(w, "%s:\t%s\n", line[0], line[1])
	}

	fmt.Fprintf(w, "\nTier\tMin spend\tPrice\tTokens per 100 %s\n", paymentSymbol)
	for i, tier := range status.Tiers {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, payment(tier.MinSpend), payment(tier.PricePerToken), sale(tier.TokensPer100))
	}

	fmt.Fprintf(w, "\nSpend\tTier\tPrice\tReceive\n")
	for _, simulation := range status.Simulations {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			payment(simulation.Amount),
			simulation.Preview.TierIndex,
			payment(simulation.Preview.AppliedPrice),
			sale(simulation.Preview.TokensOut),
		)
	}
	return errors.WithStack(w.Flush())
}

// remoteStatus prints the JSON status report of a running presale.
func remoteStatus(opts *statusCmdOptions, cmd *cobra.Command) error {
	client, err := newAPIClient(opts.API, "")
	if err != nil {
		return errors.WithStack(err)
	}
	query := url.Values{"simulate": {strings.Join(opts.Simulate, ",")}}
	if opts.Account != "" {
		query.Set("account", opts.Account)
	}
	resp, err := client.Get(cmd.Context(), "/presale/v1/status", httpclient.RequestOptions{Query: query})
	if err != nil {
		return errors.Wrap(err, "can't get presale status")
	}
	var result json.RawMessage
	if err := resp.Result(&result); err != nil {
		return errors.Wrap(err, "can't get presale status")
	}
	var out bytes.Buffer
	if err := json.Indent(&out, result, "", "  "); err != nil {
		return errors.WithStack(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out.String())
	return nil
}
