package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ngo-campaign-pipeline/internal/api"
	"ngo-campaign-pipeline/internal/api/handler"
	"ngo-campaign-pipeline/internal/config"
	"ngo-campaign-pipeline/internal/model"
	"ngo-campaign-pipeline/internal/store"
	"ngo-campaign-pipeline/pkg/router"
	"ngo-campaign-pipeline/pkg/utils"
)

var (
	configPath string
	addr       string
	dbPath     string
	logLevel   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:          "pipeline-api",
	Short:        "Serve the cached campaign aggregates to the dashboard",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         serve,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default :8080)")
	rootCmd.Flags().StringVar(&dbPath, "db", "", "SQLite result cache path")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = addr
	}
	if cmd.Flags().Changed("db") {
		cfg.Storage.DBPath = dbPath
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := utils.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init DB
	db, err := store.Open(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	// Bundles are loaded once; handlers only read them
	bundles, err := db.LoadBundles(ctx)
	if err != nil {
		return fmt.Errorf("failed to load result bundles: %w", err)
	}
	for _, name := range model.Datasets {
		if _, ok := bundles[name]; !ok {
			logger.Warn("⚠️ Dataset not cached, run `pipeline preprocess`", zap.String("dataset", name))
		}
	}
	logger.Info("📦 Result bundles loaded", zap.Int("datasets", len(bundles)))

	r := router.New(logger)
	api.RegisterRoutes(r, handler.NewDashboardHandler(bundles, db, logger))

	return r.Serve(ctx, cfg.Server.Addr)
}
