// Package cmd - serve command
package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tollgrid/api"
	"tollgrid/internal/config"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve read-only price queries over HTTP",
	Long: `Load every price list once and answer queries over HTTP until
interrupted.

Endpoints:
  GET  /health
  GET  /version
  GET  /prices?entry=<name>
  GET  /stations?name=<name>
  GET  /audit
  POST /matrix`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}

		eng, err := loadEngine()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		timeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
		return api.NewServer(Version, eng).ListenAndServe(ctx, addr, timeout)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}
