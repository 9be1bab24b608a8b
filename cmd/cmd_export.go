package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/internal/config"
	"github.com/gaze-network/presale/internal/export"
	"github.com/gaze-network/presale/modules/presale"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/spf13/cobra"
)

type exportCmdOptions struct {
	Dir    string
	Bucket string
}

func NewExportCommand() *cobra.Command {
	opts := &exportCmdOptions{}

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export purchases, claims and vesting balances as parquet files",
		Example: `presale export --config ./config.yaml --bucket presale-archive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Dir, "dir", "", "Local directory to write to. Default is export.dir from the config")
	flags.StringVar(&opts.Bucket, "bucket", "", "S3 bucket to upload to instead of a local directory")

	return cmd
}

func exportHandler(opts *exportCmdOptions, cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	conf := config.Load()
	if opts.Dir != "" {
		conf.Export.Dir = opts.Dir
	}
	if opts.Bucket != "" {
		conf.Export.S3.Bucket = opts.Bucket
	}

	writer, err := export.New(ctx, conf.Export)
	if err != nil {
		return errors.Wrap(err, "can't create export writer")
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

	locations, err := module.Engine.Export(ctx, writer)
	if err != nil {
		return errors.Wrap(err, "can't export presale ledger")
	}
	for _, location := range locations {
		fmt.Fprintln(cmd.OutOrStdout(), location)
	}
	return nil
}
