package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eljojo/byteshard/internal/shamir"
	"github.com/eljojo/byteshard/internal/sharefile"
)

var recoverCmd = &cobra.Command{
	Use:   "recover [share-file...]",
	Short: "Reconstruct a secret from shares",
	Long: `Recover reads encoded shares and reconstructs the secret.

Each share file may contain bare "x:base64" lines (blank lines are
ignored) or a wrapped share block produced by 'byteshard seal'. With no
arguments, shares are read from stdin, one per line.

Example:
  byteshard recover SHARE-alice.txt SHARE-bob.txt
  printf '%s\n%s\n' "1:AEH..." "2:AIX..." | byteshard recover`,
	RunE: runRecover,
}

var recoverRaw bool

func init() {
	rootCmd.AddCommand(recoverCmd)
	recoverCmd.Flags().BoolVar(&recoverRaw, "raw", false, "Write the recovered bytes without the ASCII check")
}

func runRecover(cmd *cobra.Command, args []string) error {
	var shares []shamir.Share

	if len(args) == 0 {
		parsed, err := shamir.ParseShares(cmd.InOrStdin())
		if err != nil {
			return err
		}
		shares = parsed
	} else {
		for _, path := range args {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading share %s: %w", path, err)
			}
			parsed, err := parseShareInput(content)
			if err != nil {
				return fmt.Errorf("parsing share %s: %w", path, err)
			}
			shares = append(shares, parsed...)
		}
	}

	if recoverRaw {
		secret, err := shamir.Recover(shares)
		if err != nil {
			return err
		}
		if _, err := cmd.OutOrStdout().Write(secret); err != nil {
			return fmt.Errorf("writing secret: %w", err)
		}
		return nil
	}

	secret, err := shamir.RecoverText(shares)
	if err != nil {
		if errors.Is(err, shamir.ErrInvalidSecret) {
			return fmt.Errorf("recovered data is not ASCII text; check that you provided at least the threshold number of shares from the same split")
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), secret)
	return nil
}

// parseShareInput accepts either a wrapped share file or bare encoded
// lines.
func parseShareInput(content []byte) ([]shamir.Share, error) {
	if bytes.Contains(content, []byte(sharefile.Begin)) {
		f, err := sharefile.Parse(content)
		if err != nil {
			return nil, err
		}
		if err := f.Verify(); err != nil {
			return nil, err
		}
		share, err := f.Share()
		if err != nil {
			return nil, err
		}
		return []shamir.Share{share}, nil
	}

	return shamir.ParseShares(bytes.NewReader(content))
}
