package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpserver "github.com/0xcro3dile/prism/internal/infrastructure/http"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Addr = addr
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			uc, tokens, err := a.processor()
			if err != nil {
				return err
			}
			srv := httpserver.NewServer(uc, tokens, httpserver.Options{
				Addr:            a.cfg.Addr,
				MaxBodyBytes:    a.cfg.MaxDocumentBytes,
				CORSOrigins:     a.cfg.CORSOrigins,
				ShutdownTimeout: a.cfg.ShutdownTimeout,
				Logger:          a.log,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (env PRISM_ADDR)")
	return cmd
}
