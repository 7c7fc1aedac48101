package main

import (
	"github.com/spf13/cobra"

	"github.com/ledgerocr/ledgerocr/version"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ledgerocr",
	Short: "OCR parser for scanned financial ledger pages",
	Long: `ledgerocr turns scanned ledger pages (PDFs or images) into structured
transaction records.

The pipeline includes:
  - PDF page-image extraction and image preprocessing
  - Tesseract OCR, plain text or with word geometry
  - Header/footer metadata recovery (organization, period, page numbers)
  - Transaction table parsing with debit/credit assignment`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.ledgerocr/config.yaml)",
	)

	rootCmd.AddCommand(versionCmd)
}
