package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"aegis-net/internal/alerts"
	"aegis-net/internal/api"
	"aegis-net/internal/config"
	"aegis-net/internal/neo"
	"aegis-net/internal/observability"
	"aegis-net/internal/orbit"
	"aegis-net/internal/predict"
	"aegis-net/internal/resources"
)

var (
	servePrintOnly bool
	serveLogFile   string
	serveAddr      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the planetary defense HTTP API",
	Long:  "serve exposes the impact and deflection calculators, the asteroid catalogue, emergency resources, NEOSSat tracking and the alert stream over HTTP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ctx, cfg, log, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		shutdown, err := observability.InitTracing(ctx, cfg.Tracing, log)
		if err != nil {
			return err
		}
		defer observability.ShutdownWithTimeout(context.Background(), shutdown, log)

		metrics, err := observability.NewCollector(nil)
		if err != nil {
			return err
		}

		writer, cleanup, err := newWriters(cfg, writerOptions{printOnly: servePrintOnly, logFile: serveLogFile, metrics: metrics}, log)
		if err != nil {
			return err
		}
		defer cleanup()

		deps, err := buildDeps(cfg)
		if err != nil {
			return err
		}
		deps.Metrics = metrics
		deps.Writer = writer
		deps.Version = version
		deps.Log = log

		hub := alerts.NewHub(cfg.Server.AlertHistory, cfg.Server.AllowedOrigins, log)
		deps.Alerts = hub
		go hub.Run(ctx)

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := api.NewServer(deps)
		if err := srv.Start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		log.Info("aegis-net stopped")
		return nil
	},
}

// buildDeps constructs the in-memory stores and calculators named by cfg.
func buildDeps(cfg *config.Config) (api.Deps, error) {
	catalog, err := neo.NewCatalog(cfg.Asteroids)
	if err != nil {
		return api.Deps{}, err
	}
	predictor := predict.NewHeuristic(predict.Options{
		SafeZones:      cfg.Prediction.SafeZones,
		CoastalZones:   cfg.Prediction.CoastalZones,
		DefaultDensity: cfg.Prediction.DefaultDensity,
		GridSize:       cfg.Prediction.GridSize,
	})
	d := api.Deps{
		Catalog:       catalog,
		Resources:     resources.NewRegistry(cfg.Resources),
		Predictor:     predictor,
		DefaultTarget: cfg.Prediction.DefaultTarget,
	}
	if cfg.NEOSSat.Line1 != "" || cfg.NEOSSat.Line2 != "" {
		tr, err := orbit.NewTracker(cfg.NEOSSat.Name, cfg.NEOSSat.Line1, cfg.NEOSSat.Line2)
		if err != nil {
			return api.Deps{}, err
		}
		d.Tracker = tr
	}
	return d, nil
}

func init() {
	serveCmd.Flags().BoolVar(&servePrintOnly, "print-only", false, "Print computed rows to STDOUT instead of writing to DB")
	serveCmd.Flags().StringVar(&serveLogFile, "log-file", "", "Path to export computed rows (JSONL)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address, overriding server.addr")
}
