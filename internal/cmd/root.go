package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "byteshard",
	Short: "Split secrets into shares with byte-wise Shamir's Secret Sharing",
	Long: `Byteshard splits a secret into n shares over GF(257) so that any k
of them reconstruct it exactly while fewer than k reveal nothing.

Split a secret:      byteshard split -n 5 -k 3 "correct horse battery staple"
Recover a secret:    byteshard recover share1.txt share2.txt share3.txt
Seal a file or dir:  byteshard seal tax-records/ -n 5 -k 3 --out sealed`,
}

func Execute(version string) error {
	rootCmd.Version = version
	return rootCmd.Execute()
}
