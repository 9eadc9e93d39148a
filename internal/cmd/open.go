package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eljojo/byteshard/internal/archive"
	"github.com/eljojo/byteshard/internal/crypto"
	"github.com/eljojo/byteshard/internal/project"
	"github.com/eljojo/byteshard/internal/shamir"
	"github.com/eljojo/byteshard/internal/sharefile"
)

var openCmd = &cobra.Command{
	Use:   "open <share-file>...",
	Short: "Recover a sealed payload from shares",
	Long: `Open reconstructs the passphrase from share files, decrypts the
sealed payload, and restores it.

The encrypted payload (SECRET.age) is looked up in --dir. When the
sealed payload was a directory it is unpacked there; a plain file is
written next to it.

Example:
  byteshard open --dir sealed SHARE-alice.txt SHARE-bob.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOpen,
}

var (
	openDir    string
	openOutput string
)

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().StringVar(&openDir, "dir", ".", "Directory containing SECRET.age")
	openCmd.Flags().StringVarP(&openOutput, "output", "o", "", "Where to write the recovered payload")
}

func runOpen(cmd *cobra.Command, args []string) error {
	payloadPath := filepath.Join(openDir, project.PayloadFileName)
	encrypted, err := os.ReadFile(payloadPath)
	if err != nil {
		return fmt.Errorf("reading encrypted payload %s: %w", payloadPath, err)
	}

	// The record is optional for recovery; shares plus SECRET.age are
	// enough. When present it gives us names and a passphrase check.
	record, recordErr := project.Load(openDir)

	shares, err := collectShares(args)
	if err != nil {
		return err
	}

	fmt.Printf("Reconstructing passphrase from %d shares...\n", len(shares))
	raw, err := shamir.Recover(shares)
	if err != nil {
		return fmt.Errorf("reconstructing passphrase: %w", err)
	}
	passphrase := crypto.EncodePassphrase(raw)

	if recordErr == nil && record.VerificationHash != "" {
		if crypto.HashString(passphrase) != record.VerificationHash {
			return fmt.Errorf("reconstructed passphrase does not match the seal record; the shares are inconsistent or from a different seal")
		}
		fmt.Printf("  %s passphrase matches seal record\n", green("✓"))
	}

	fmt.Println("Decrypting payload...")
	var plaintext bytes.Buffer
	if err := crypto.Decrypt(&plaintext, bytes.NewReader(encrypted), passphrase); err != nil {
		return fmt.Errorf("decrypting payload (wrong or insufficient shares?): %w", err)
	}

	name := "recovered"
	archived := false
	if recordErr == nil {
		name = record.Name
		archived = record.Archived
	} else {
		archived = isGzip(plaintext.Bytes())
	}

	if archived {
		dest := openOutput
		if dest == "" {
			dest = openDir
		}
		fmt.Printf("Unpacking to %s/...\n", dest)
		result, err := archive.Unpack(bytes.NewReader(plaintext.Bytes()), dest)
		if err != nil {
			return fmt.Errorf("unpacking payload: %w", err)
		}
		for _, warning := range result.Warnings {
			fmt.Printf("  Warning: %s\n", warning)
		}
		fmt.Printf("%s Recovered %s/\n", green("✓"), result.Path)
		return nil
	}

	dest := openOutput
	if dest == "" {
		dest = filepath.Join(openDir, name)
	}
	if err := os.WriteFile(dest, plaintext.Bytes(), 0600); err != nil {
		return fmt.Errorf("writing recovered payload: %w", err)
	}
	fmt.Printf("%s Recovered %s (%s)\n", green("✓"), dest, formatSize(int64(plaintext.Len())))

	return nil
}

// collectShares reads share files and checks that wrapped shares agree
// on how the secret was split before any math happens.
func collectShares(paths []string) ([]shamir.Share, error) {
	var shares []shamir.Share
	var wrapped []*sharefile.File

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading share %s: %w", path, err)
		}

		if bytes.Contains(content, []byte(sharefile.Begin)) {
			f, err := sharefile.Parse(content)
			if err != nil {
				return nil, fmt.Errorf("parsing share %s: %w", path, err)
			}
			if err := f.Verify(); err != nil {
				return nil, fmt.Errorf("share %s: %w", path, err)
			}
			share, err := f.Share()
			if err != nil {
				return nil, fmt.Errorf("share %s: %w", path, err)
			}
			wrapped = append(wrapped, f)
			shares = append(shares, share)
			continue
		}

		parsed, err := shamir.ParseShares(bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("parsing share %s: %w", path, err)
		}
		shares = append(shares, parsed...)
	}

	for i := 1; i < len(wrapped); i++ {
		if wrapped[i].Total != wrapped[0].Total || wrapped[i].Threshold != wrapped[0].Threshold {
			return nil, fmt.Errorf("%w: share %d says %d-of-%d, share %d says %d-of-%d",
				shamir.ErrInconsistentShares,
				wrapped[0].Index, wrapped[0].Threshold, wrapped[0].Total,
				wrapped[i].Index, wrapped[i].Threshold, wrapped[i].Total)
		}
	}
	if len(wrapped) > 0 && len(shares) < wrapped[0].Threshold {
		return nil, fmt.Errorf("%w: have %d shares, need %d",
			shamir.ErrInsufficientShares, len(shares), wrapped[0].Threshold)
	}

	return shares, nil
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}
