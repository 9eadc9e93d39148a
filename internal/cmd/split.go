package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/eljojo/byteshard/internal/pdf"
	"github.com/eljojo/byteshard/internal/shamir"
)

var splitCmd = &cobra.Command{
	Use:   "split [secret]",
	Short: "Split an ASCII secret into shares",
	Long: `Split reads an ASCII secret and prints one encoded share per line,
in the form "x:base64". Any --threshold of the shares reconstruct the
secret; fewer reveal nothing.

The secret comes from the argument, from --secret-file, or from stdin.

Example:
  byteshard split -n 5 -k 3 "correct horse battery staple"
  byteshard split -n 3 -k 2 --secret-file secret.txt --pdf cards.pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSplit,
}

var (
	splitShares     int
	splitThreshold  int
	splitSecretFile string
	splitQRDir      string
	splitPDF        string
	splitTitle      string
)

func init() {
	rootCmd.AddCommand(splitCmd)
	splitCmd.Flags().IntVarP(&splitShares, "shares", "n", 3, "Total number of shares (2-256)")
	splitCmd.Flags().IntVarP(&splitThreshold, "threshold", "k", 2, "Shares needed to reconstruct (2-n)")
	splitCmd.Flags().StringVar(&splitSecretFile, "secret-file", "", "Read the secret from a file")
	splitCmd.Flags().StringVar(&splitQRDir, "qr", "", "Write a QR code PNG per share into this directory")
	splitCmd.Flags().StringVar(&splitPDF, "pdf", "", "Write printable share cards to this PDF file")
	splitCmd.Flags().StringVar(&splitTitle, "title", "", "Title printed on share cards")
}

func runSplit(cmd *cobra.Command, args []string) error {
	secret, err := readSecret(args)
	if err != nil {
		return err
	}

	// Normalize before validating: the same passphrase typed on two
	// systems must split identically even if one composes accents
	// differently. Non-ASCII input still fails validation below.
	secret = norm.NFC.String(secret)

	shares, err := shamir.SplitText(secret, splitShares, splitThreshold)
	if err != nil {
		if errors.Is(err, shamir.ErrInvalidSecret) {
			return fmt.Errorf("%w (only ASCII secrets are supported)", err)
		}
		return err
	}

	for _, share := range shares {
		fmt.Fprintln(cmd.OutOrStdout(), share.Encode())
	}

	if splitQRDir != "" {
		if err := writeQRCodes(splitQRDir, shares); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d QR codes to %s/\n", len(shares), splitQRDir)
	}

	if splitPDF != "" {
		data := pdf.CardsData{
			Title:     splitTitle,
			Total:     splitShares,
			Threshold: splitThreshold,
			Created:   time.Now().UTC(),
		}
		cards, err := pdf.GenerateCards(data, shares)
		if err != nil {
			return fmt.Errorf("generating share cards: %w", err)
		}
		if err := os.WriteFile(splitPDF, cards, 0600); err != nil {
			return fmt.Errorf("writing share cards: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote share cards to %s\n", splitPDF)
	}

	return nil
}

// readSecret resolves the secret from the argument, --secret-file, or
// stdin, in that order of preference.
func readSecret(args []string) (string, error) {
	if len(args) == 1 {
		if args[0] == "" {
			return "", fmt.Errorf("secret cannot be empty")
		}
		return args[0], nil
	}

	if splitSecretFile != "" {
		content, err := os.ReadFile(splitSecretFile)
		if err != nil {
			return "", fmt.Errorf("reading secret file: %w", err)
		}
		return strings.TrimRight(string(content), "\r\n"), nil
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading secret from stdin: %w", err)
	}
	secret := strings.TrimRight(string(content), "\r\n")
	if secret == "" {
		return "", fmt.Errorf("secret cannot be empty (pass it as an argument, via --secret-file, or on stdin)")
	}
	return secret, nil
}

func writeQRCodes(dir string, shares []shamir.Share) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating QR directory: %w", err)
	}
	for _, share := range shares {
		path := filepath.Join(dir, fmt.Sprintf("share-%d.png", share.X))
		if err := qrcode.WriteFile(share.Encode(), qrcode.Medium, 512, path); err != nil {
			return fmt.Errorf("writing QR for share %d: %w", share.X, err)
		}
	}
	return nil
}
