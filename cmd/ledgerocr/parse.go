package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgerocr/ledgerocr"
	"github.com/ledgerocr/ledgerocr/export"
	"github.com/ledgerocr/ledgerocr/internal/config"
	"github.com/ledgerocr/ledgerocr/model"
)

var (
	parseFormat string
	parseParser string
	parsePages  []int
	parseLang   string
	parseText   bool
	parseCache  bool
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a scanned ledger document to stdout",
	Long: `Parse a scanned ledger page (PDF or image) and print the recovered
transactions. Requires a binary built with the ocr tag.

Output formats:
  json     - full per-page results with metadata (default)
  csv      - flat transaction rows
  summary  - transaction count and debit/credit totals

Examples:
  ledgerocr parse ledger.pdf
  ledgerocr parse ledger.pdf --format csv > transactions.csv
  ledgerocr parse scan.png --lang deu --pages 1,2
  ledgerocr parse ledger.pdf --format summary --cache`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// "statement" is accepted for backward compatibility; both
		// parser types run the ledger pipeline.
		if parseParser != "ledger" && parseParser != "statement" {
			return fmt.Errorf("unknown parser type %q", parseParser)
		}

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		appCfg := mgr.Get()

		lang := appCfg.OCR.Language
		if cmd.Flags().Changed("lang") {
			lang = parseLang
		}

		ex := ledgerocr.Open(args[0]).
			Language(lang).
			HeaderLines(appCfg.Parse.HeaderLines).
			FooterLines(appCfg.Parse.FooterLines)
		if appCfg.Parse.TextOnly || parseText {
			ex = ex.TextOnly()
		}
		if !appCfg.Parse.Preprocess {
			ex = ex.NoPreprocess()
		}
		if len(parsePages) > 0 {
			ex = ex.Pages(parsePages...)
		}
		if parseCache {
			ex = ex.Cache(config.ResolveEnvVars(appCfg.Cache.Dir))
		}

		doc, warnings, err := ex.Parse()
		if err != nil {
			return err
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}

		switch parseFormat {
		case "json":
			return export.JSON(os.Stdout, doc)
		case "csv":
			return export.CSV(os.Stdout, doc)
		case "summary":
			return printSummary(os.Stdout, doc)
		default:
			return fmt.Errorf("unknown output format %q", parseFormat)
		}
	},
}

func printSummary(w io.Writer, doc *model.DocumentResult) error {
	totals := export.Summarize(doc)
	fmt.Fprintf(w, "Pages:        %d\n", doc.PageCount())
	fmt.Fprintf(w, "Transactions: %d\n", totals.Transactions)
	fmt.Fprintf(w, "Debits:       %s\n", totals.Debits.StringFixed(2))
	fmt.Fprintf(w, "Credits:      %s\n", totals.Credits.StringFixed(2))
	fmt.Fprintf(w, "Net:          %s\n", totals.Net().StringFixed(2))
	if totals.BadAmounts > 0 {
		fmt.Fprintf(w, "Unparsed amounts: %d\n", totals.BadAmounts)
	}
	return nil
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "json", "output format: json, csv or summary")
	parseCmd.Flags().StringVar(&parseParser, "parser", "ledger", "parser type: ledger or statement")
	parseCmd.Flags().IntSliceVar(&parsePages, "pages", nil, "1-indexed pages to parse (default all)")
	parseCmd.Flags().StringVar(&parseLang, "lang", "eng", "OCR language")
	parseCmd.Flags().BoolVar(&parseText, "text-only", false, "skip word geometry, parse plain OCR text")
	parseCmd.Flags().BoolVar(&parseCache, "cache", false, "reuse cached results for unchanged files")

	rootCmd.AddCommand(parseCmd)
}
