package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-autofill/internal/server"
)

var (
	servePort int
	serveRPS  float64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local autofill HTTP server",
	Long: `Start an HTTP server that fills, detects and matches pages posted as HTML.

Endpoints: POST /fill, POST /detect, POST /match, DELETE /session?url=, GET /health.
Fills of the same page URL share one session, so the attempt ceiling applies across requests.
With an API configured, fills without a profile use the remote one, DELETE /profile drops
its cached copy, and cover letter fields get a letter written for the posted job.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().Float64Var(&serveRPS, "rps", 5, "Requests per second allowed per client (0 disables the limit)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	srvCfg := server.Config{
		Port:              servePort,
		RequestsPerSecond: serveRPS,
		MaxAttempts:       cfg.MaxAttempts,
		Cooldown:          cfg.Cooldown(),
		Resumes:           fillerOptions(cfg, client).Resumes,
		Verbose:           cfg.Verbose,
	}
	if client != nil {
		srvCfg.Profiles = client
		srvCfg.CoverLetters = client
	}
	return server.New(srvCfg).Start(ctx)
}
