package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HerbHall/fullstock/internal/catalog"
	"github.com/HerbHall/fullstock/internal/charts"
	"github.com/HerbHall/fullstock/internal/config"
	"github.com/HerbHall/fullstock/internal/forecast"
	"github.com/HerbHall/fullstock/internal/leads"
	"github.com/HerbHall/fullstock/internal/plugin"
	"github.com/HerbHall/fullstock/internal/server"
	"github.com/HerbHall/fullstock/internal/store"
	"github.com/HerbHall/fullstock/internal/web"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard server",
		Long: `Serve the dashboard at / and the JSON API under /api/v1.

Airtable credentials are read from AIRTABLE_API_KEY, AIRTABLE_BASE_ID and
AIRTABLE_TABLE_ID (or the airtable.* config keys). Without them the demo
request form answers 503.`,
		Example: `  fullstock serve
  fullstock serve --addr 127.0.0.1:9000 --config fullstock.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = fmt.Sprintf("%s:%d", appConfig.GetString("server.host"), appConfig.GetInt("server.port"))
			}
			return runServe(cmd.Context(), appConfig, appLogger, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.host and server.port)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, logger *zap.Logger, addr string) error {
	logger.Info("FullStock server starting")

	src, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	st, err := store.New(cfg.GetString("store.path"))
	if err != nil {
		return err
	}
	defer st.Close()

	promReg := prometheus.NewRegistry()

	catalogMod := catalog.New(src)
	engine := catalogMod.Engine()
	forecastMod := forecast.New(engine)
	leadsMod := leads.New(
		leads.WithCredentials(
			cfg.GetString("airtable.api_key"),
			cfg.GetString("airtable.base_id"),
			cfg.GetString("airtable.table_id"),
		),
		leads.WithStore(st),
		leads.WithMetrics(promReg),
	)

	registry := plugin.NewRegistry(logger)
	modules := []plugin.Plugin{
		catalogMod,
		forecastMod,
		charts.New(engine),
		leadsMod,
	}
	for _, m := range modules {
		if err := registry.Register(m); err != nil {
			return fmt.Errorf("register module: %w", err)
		}
	}
	if err := registry.InitAll(cfg); err != nil {
		return fmt.Errorf("initialize modules: %w", err)
	}
	if err := registry.StartAll(ctx); err != nil {
		return fmt.Errorf("start modules: %w", err)
	}
	defer registry.StopAll()

	rendererOpts := []web.Option{web.WithLogger(logger.Named("web"))}
	if isEnabled(registry, "forecast") {
		rendererOpts = append(rendererOpts, web.WithInsights(forecastMod))
	}
	if isEnabled(registry, "leads") {
		rendererOpts = append(rendererOpts, web.WithLeadsEndpoint("/api/v1/leads/submissions"))
	}
	renderer := web.NewRenderer(engine, rendererOpts...)

	srv := server.New(addr, registry, logger,
		server.WithPrometheusRegistry(promReg),
		server.WithHandler("/", renderer.Handler()),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	logger.Info("FullStock server ready", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return errors.New("server stopped unexpectedly")
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("FullStock server stopped")
	return nil
}

func isEnabled(reg *plugin.Registry, name string) bool {
	for _, p := range reg.Enabled() {
		if p.Info().Name == name {
			return true
		}
	}
	return false
}
