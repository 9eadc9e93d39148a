package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eljojo/byteshard/internal/crypto"
	"github.com/eljojo/byteshard/internal/project"
	"github.com/eljojo/byteshard/internal/sharefile"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [directory]",
	Short: "Check a sealed directory for damage",
	Long: `Verify checks the integrity of a sealed directory against its
seal.yml record: the encrypted payload and every share file present are
re-hashed and compared to the checksums recorded at seal time.

Missing share files are reported but do not fail the check; shares are
meant to be distributed. A checksum mismatch does fail it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	record, err := project.Load(dir)
	if err != nil {
		return fmt.Errorf("loading seal record: %w", err)
	}
	if err := record.Validate(); err != nil {
		return fmt.Errorf("seal record is invalid: %w", err)
	}

	fmt.Printf("Verifying %q (%d-of-%d, sealed %s)\n\n",
		record.Name, record.Threshold, record.Total, record.Created.Format("2006-01-02"))

	damaged := 0

	payloadPath := record.PayloadPath()
	checksum, err := crypto.HashFile(payloadPath)
	switch {
	case err != nil:
		fmt.Printf("  %s %s: %v\n", yellow("✗"), project.PayloadFileName, err)
		damaged++
	case checksum != record.PayloadChecksum:
		fmt.Printf("  %s %s: checksum mismatch\n", yellow("✗"), project.PayloadFileName)
		damaged++
	default:
		fmt.Printf("  %s %s\n", green("✓"), project.PayloadFileName)
	}

	missing := 0
	for _, si := range record.Shares {
		path := filepath.Join(dir, si.File)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Printf("  - %s: not present (distributed?)\n", si.File)
			missing++
			continue
		}

		checksum, err := crypto.HashFile(path)
		if err != nil {
			fmt.Printf("  %s %s: %v\n", yellow("✗"), si.File, err)
			damaged++
			continue
		}
		if checksum != si.Checksum {
			fmt.Printf("  %s %s: checksum mismatch\n", yellow("✗"), si.File)
			damaged++
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("  %s %s: %v\n", yellow("✗"), si.File, err)
			damaged++
			continue
		}
		f, err := sharefile.Parse(content)
		if err != nil {
			fmt.Printf("  %s %s: %v\n", yellow("✗"), si.File, err)
			damaged++
			continue
		}
		if f.Index != si.Index {
			fmt.Printf("  %s %s: share index %d, record says %d\n", yellow("✗"), si.File, f.Index, si.Index)
			damaged++
			continue
		}
		fmt.Printf("  %s %s\n", green("✓"), si.File)
	}

	fmt.Println()
	present := len(record.Shares) - missing
	if damaged > 0 {
		return fmt.Errorf("%d file(s) damaged", damaged)
	}
	if present < record.Threshold {
		fmt.Printf("%s All present files intact. Only %d of %d shares here; recovery needs %d (collect the rest from their holders).\n",
			yellow("!"), present, record.Total, record.Threshold)
		return nil
	}
	fmt.Printf("%s All files intact. %d of %d shares present, %d needed for recovery.\n",
		green("✓"), present, record.Total, record.Threshold)
	return nil
}
