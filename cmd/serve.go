package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adtech-insider/insight-cli/internal/compare"
	"github.com/adtech-insider/insight-cli/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Serves company CRUD, LLM analysis, and comparison metrics over HTTP with CORS support.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		srv := server.New(st, newAnalyzer(), compare.NewEngine(), server.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Weights:        cfg.Compare.Weights,
			Normalize:      cfg.Compare.Normalize,
			AnalysisTTL:    time.Duration(cfg.Analyze.CacheTTLMinutes) * time.Minute,
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		grace := time.Duration(cfg.Server.ShutdownGraceSec) * time.Second

		return srv.ListenAndServe(ctx, port, grace)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
