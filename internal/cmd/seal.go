package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eljojo/byteshard/internal/archive"
	"github.com/eljojo/byteshard/internal/crypto"
	"github.com/eljojo/byteshard/internal/pdf"
	"github.com/eljojo/byteshard/internal/project"
	"github.com/eljojo/byteshard/internal/shamir"
	"github.com/eljojo/byteshard/internal/sharefile"
)

var sealCmd = &cobra.Command{
	Use:   "seal <file-or-directory>",
	Short: "Encrypt a payload and split its passphrase into shares",
	Long: `Seal encrypts a file or directory with a freshly generated passphrase
and splits that passphrase into shares.

This command:
  1. Archives the payload (when it is a directory)
  2. Encrypts it with age using a random 32-byte passphrase
  3. Splits the passphrase bytes into shares
  4. Verifies the shares can reconstruct the passphrase
  5. Writes SECRET.age, one SHARE-*.txt per holder, and seal.yml

Distribute the share files; keep SECRET.age anywhere. Any --threshold
share files plus SECRET.age recover the payload with 'byteshard open'.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeal,
}

var (
	sealShares    int
	sealThreshold int
	sealOut       string
	sealName      string
	sealHolders   []string
	sealPDF       bool
	sealQR        bool
)

func init() {
	rootCmd.AddCommand(sealCmd)
	sealCmd.Flags().IntVarP(&sealShares, "shares", "n", 3, "Total number of shares (2-256)")
	sealCmd.Flags().IntVarP(&sealThreshold, "threshold", "k", 2, "Shares needed to recover (2-n)")
	sealCmd.Flags().StringVarP(&sealOut, "out", "o", "sealed", "Output directory")
	sealCmd.Flags().StringVar(&sealName, "name", "", "Seal name (defaults to the payload name)")
	sealCmd.Flags().StringArrayVar(&sealHolders, "holder", nil, "Name of a share holder (repeatable)")
	sealCmd.Flags().BoolVar(&sealPDF, "pdf", false, "Also write printable share cards (cards.pdf)")
	sealCmd.Flags().BoolVar(&sealQR, "qr", false, "Also write a QR code PNG per share (qr/)")
}

func runSeal(cmd *cobra.Command, args []string) error {
	source := args[0]

	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("accessing payload: %w", err)
	}

	if len(sealHolders) > 0 && len(sealHolders) != sealShares {
		return fmt.Errorf("got %d holders for %d shares; name all of them or none", len(sealHolders), sealShares)
	}

	name := sealName
	if name == "" {
		name = filepath.Base(strings.TrimRight(source, "/"))
	}

	// Collect the plaintext payload.
	var payload bytes.Buffer
	archived := info.IsDir()
	if archived {
		fileCount, err := archive.CountFiles(source)
		if err != nil {
			return fmt.Errorf("checking payload directory: %w", err)
		}
		if fileCount == 0 {
			return fmt.Errorf("payload directory is empty: %s", source)
		}
		dirSize, err := archive.DirSize(source)
		if err != nil {
			return fmt.Errorf("calculating payload size: %w", err)
		}

		fmt.Printf("Archiving %s/ (%d files, %s)...\n", name, fileCount, formatSize(dirSize))
		result, err := archive.Pack(&payload, source)
		if err != nil {
			return fmt.Errorf("archiving payload: %w", err)
		}
		for _, warning := range result.Warnings {
			fmt.Printf("  Warning: %s\n", warning)
		}
	} else {
		content, err := os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("reading payload: %w", err)
		}
		payload.Write(content)
	}

	raw, passphrase, err := crypto.NewPassphrase(crypto.DefaultPassphraseBytes)
	if err != nil {
		return fmt.Errorf("generating passphrase: %w", err)
	}

	fmt.Println("Encrypting with age...")
	var encrypted bytes.Buffer
	if err := crypto.Encrypt(&encrypted, bytes.NewReader(payload.Bytes()), passphrase); err != nil {
		return fmt.Errorf("encrypting: %w", err)
	}

	if err := os.MkdirAll(sealOut, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	payloadPath := filepath.Join(sealOut, project.PayloadFileName)
	if err := os.WriteFile(payloadPath, encrypted.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing encrypted payload: %w", err)
	}

	fmt.Printf("Splitting passphrase into %d shares (threshold: %d)...\n", sealShares, sealThreshold)
	shares, err := shamir.Split(raw, sealShares, sealThreshold)
	if err != nil {
		return fmt.Errorf("splitting passphrase: %w", err)
	}

	shareInfos := make([]project.ShareInfo, len(shares))
	for i, share := range shares {
		holder := ""
		if len(sealHolders) > 0 {
			holder = sealHolders[i]
		}
		f := sharefile.New(sealShares, sealThreshold, holder, share)

		sharePath := filepath.Join(sealOut, f.Filename())
		if err := os.WriteFile(sharePath, []byte(f.Encode()), 0600); err != nil {
			return fmt.Errorf("writing share %d: %w", share.X, err)
		}

		checksum, err := crypto.HashFile(sharePath)
		if err != nil {
			return fmt.Errorf("computing checksum: %w", err)
		}
		shareInfos[i] = project.ShareInfo{
			Index:    share.X,
			Holder:   holder,
			File:     f.Filename(),
			Checksum: checksum,
		}
	}

	// Prove the shares actually reconstruct the passphrase before
	// anyone walks away with them.
	fmt.Print("Verifying reconstruction... ")
	recovered, err := shamir.Recover(shares[:sealThreshold])
	if err != nil {
		fmt.Println("FAILED")
		return fmt.Errorf("verification failed: %w", err)
	}
	if crypto.EncodePassphrase(recovered) != passphrase {
		fmt.Println("FAILED")
		return fmt.Errorf("verification failed: reconstructed passphrase does not match")
	}
	fmt.Println("OK")

	payloadChecksum, err := crypto.HashFile(payloadPath)
	if err != nil {
		return fmt.Errorf("computing payload checksum: %w", err)
	}

	record := &project.Record{
		Name:             name,
		Created:          time.Now().UTC(),
		Source:           name,
		Archived:         archived,
		Total:            sealShares,
		Threshold:        sealThreshold,
		PayloadChecksum:  payloadChecksum,
		VerificationHash: crypto.HashString(passphrase),
		Shares:           shareInfos,
		Path:             sealOut,
	}
	if err := record.Save(); err != nil {
		return fmt.Errorf("saving seal record: %w", err)
	}

	if sealPDF {
		data := pdf.CardsData{
			Title:     name,
			Total:     sealShares,
			Threshold: sealThreshold,
			Created:   record.Created,
		}
		cards, err := pdf.GenerateCards(data, shares)
		if err != nil {
			return fmt.Errorf("generating share cards: %w", err)
		}
		if err := os.WriteFile(filepath.Join(sealOut, "cards.pdf"), cards, 0600); err != nil {
			return fmt.Errorf("writing share cards: %w", err)
		}
	}

	if sealQR {
		if err := writeQRCodes(filepath.Join(sealOut, "qr"), shares); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Println("Sealed:")
	fmt.Printf("  %s %s\n", green("✓"), payloadPath)
	for _, si := range shareInfos {
		fmt.Printf("  %s %s\n", green("✓"), filepath.Join(sealOut, si.File))
	}
	fmt.Println()
	fmt.Printf("Recover with: byteshard open --dir %s SHARE-...\n", sealOut)

	return nil
}
