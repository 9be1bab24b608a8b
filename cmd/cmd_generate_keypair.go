package cmd

import (
	"fmt"
	"os"
	"path"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

type generateKeypairCmdOptions struct {
	Path  string
	Force bool
}

func NewGenerateKeypairCommand() *cobra.Command {
	opts := &generateKeypairCmdOptions{}

	cmd := &cobra.Command{
		Use:   "generate-keypair",
		Short: "Generate a new treasury signing key (chain.private_key) and its address",
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateKeypairHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Path, "path", "/data/keys", `Path to save to key pair file`)
	flags.BoolVar(&opts.Force, "force", false, "Replace an existing private key without prompt")

	return cmd
}

func generateKeypairHandler(opts *generateKeypairCmdOptions, cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generating key pair\n")

	key, err := crypto.GenerateKey()
	if err != nil {
		return errors.Wrap(err, "generate key")
	}
	address := crypto.PubkeyToAddress(key.PublicKey)
	fmt.Fprintf(out, "Address: %s\n", address.Hex())

	if err := os.MkdirAll(opts.Path, 0o700); err != nil {
		return errors.Wrap(err, "create directory")
	}

	privateKeyPath := path.Join(opts.Path, "priv.key")
	if _, err := os.Stat(privateKeyPath); err == nil && !opts.Force {
		fmt.Fprintf(out, "Existing private key found at %s\n[WARNING] THE EXISTING PRIVATE KEY WILL BE LOST\nType [replace] to replace existing private key: ", privateKeyPath)
		var ans string
		fmt.Fscanln(cmd.InOrStdin(), &ans)
		if ans != "replace" {
			fmt.Fprintf(out, "Keypair generation aborted\n")
			return nil
		}
	}

	if err := os.WriteFile(privateKeyPath, []byte(hexutil.Encode(crypto.FromECDSA(key))), 0o600); err != nil {
		return errors.Wrap(err, "write private key file")
	}
	fmt.Fprintf(out, "Private key saved at %s\n", privateKeyPath)

	addressPath := path.Join(opts.Path, "address")
	if err := os.WriteFile(addressPath, []byte(address.Hex()), 0o644); err != nil {
		return errors.Wrap(err, "write address file")
	}
	fmt.Fprintf(out, "Address saved at %s\n", addressPath)
	return nil
}
