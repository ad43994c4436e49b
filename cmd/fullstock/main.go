// Command fullstock serves the inventory dashboard and builds its static
// deployment.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HerbHall/fullstock/internal/config"
	pkgcatalog "github.com/HerbHall/fullstock/pkg/catalog"
)

var (
	cfgFile  string
	logLevel string

	appConfig *config.Config
	appLogger *zap.Logger

	rootCmd = &cobra.Command{
		Use:   "fullstock",
		Short: "Restaurant inventory dashboard",
		Long: `FullStock renders a demo restaurant inventory dashboard with supplier
suggestions, shortage forecasts and a demo request form backed by Airtable.`,
		SilenceUsage:       true,
		PersistentPreRunE:  initApp,
		PersistentPostRunE: syncLogger,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./fullstock.yaml or /etc/fullstock/fullstock.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(buildCmd())
	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initApp(_ *cobra.Command, _ []string) error {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg

	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}
	appLogger = logger
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}

func syncLogger(_ *cobra.Command, _ []string) error {
	if appLogger != nil {
		_ = appLogger.Sync()
	}
	return nil
}

// loadCatalog returns the configured workbook catalog, or the embedded demo
// catalog when none is configured.
func loadCatalog(cfg *config.Config) (*pkgcatalog.Catalog, error) {
	path := cfg.GetString("catalog.workbook")
	if path == "" {
		return pkgcatalog.NewCatalog(), nil
	}
	return pkgcatalog.LoadWorkbook(path)
}
