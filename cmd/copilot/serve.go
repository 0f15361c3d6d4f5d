package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/copilot/internal/config"
	"github.com/ShayCichocki/copilot/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the copilot over HTTP",
	Long: `Serve the JSON API:

  GET  /health    liveness
  POST /v1/plan   {"date": "2026-02-11"}
  POST /v1/query  {"query": "status of project Phoenix"}

/v1 routes need "Authorization: Bearer <token>" when server.jwt_secret is
set; issue tokens with 'copilot token'.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp(appOptions{knowledge: true, model: true})
	if err != nil {
		return err
	}
	defer a.Close()

	secret, err := config.JWTSecret(a.cfg)
	switch {
	case errors.Is(err, config.ErrNoJWTSecret):
		printWarning("server.jwt_secret is not set; the API is unauthenticated")
	case err != nil:
		return err
	}

	prefs := a.cfg.Preferences()
	addr := serveAddr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}
	srv, err := server.New(a.copilot, server.Config{
		Addr:           addr,
		JWTSecret:      secret,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		Location:       a.loc,
		Preferences:    &prefs,
		Logger:         a.logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	printStatus(cmd.OutOrStdout(), "🚀", fmt.Sprintf("Copilot API listening on %s", addr), color.FgGreen)
	return srv.ListenAndServe(ctx)
}
