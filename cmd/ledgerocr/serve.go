package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgerocr/ledgerocr/internal/config"
	"github.com/ledgerocr/ledgerocr/internal/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ledgerocr HTTP server",
	Long: `Start the ledgerocr HTTP server.

The server provides:
  - POST /api/ocr/parse     - Upload a PDF or image and get parsed transactions
  - GET  /api/ocr/health    - Health check with cache and rate-limit stats
  - GET  /api/ocr/tesseract - OCR engine availability

Parsing requires a binary built with the ocr tag; without it the parse
endpoint answers 503 but cached results are still served.

Examples:
  ledgerocr serve                  # Start on the configured port (default 5001)
  ledgerocr serve --port 3000      # Start on a custom port
  ledgerocr serve --host 127.0.0.1 # Bind to localhost only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		mgr.WatchConfig()

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: mgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "bind address (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")

	rootCmd.AddCommand(serveCmd)
}
