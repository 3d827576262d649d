package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ngo-campaign-pipeline/internal/config"
	"ngo-campaign-pipeline/internal/model"
	"ngo-campaign-pipeline/internal/pipeline"
	"ngo-campaign-pipeline/internal/store"
	"ngo-campaign-pipeline/pkg/utils"
)

var (
	// Global flags
	configPath string
	logLevel   string
	verbose    bool

	// Preprocess flags
	inputDir  string
	dataDir   string
	dbPath    string
	topN      int
	exportCSV bool
	seed      int64

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Offline preprocessing of NGO campaign records",
	Long: `pipeline loads the raw campaign exports, derives the financial-sector view
and writes one result bundle per dataset for the dashboard API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		logger, err = utils.NewLogger(cfg.Logging.Level, cfg.Logging.File)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Compute and persist the result bundles",
	Args:  cobra.NoArgs,
	RunE:  runPreprocess,
}

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the cached result bundles",
	Args:  cobra.NoArgs,
	RunE:  runDatasets,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Artifact directory")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite result cache path")

	preprocessCmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory of raw .csv/.json exports")
	preprocessCmd.Flags().IntVar(&topN, "top-n", 0, "Rows kept in the company analysis")
	preprocessCmd.Flags().BoolVar(&exportCSV, "export-csv", false, "Also write every table as CSV")
	preprocessCmd.Flags().Int64Var(&seed, "seed", 0, "Word cloud layout seed (0 = random)")

	rootCmd.AddCommand(preprocessCmd)
	rootCmd.AddCommand(datasetsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyFlags lets explicitly set flags win over file and environment
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if flags.Changed("data-dir") {
		cfg.Storage.DataDir = dataDir
	}
	if flags.Changed("db") {
		cfg.Storage.DBPath = dbPath
	}
	if flags.Changed("input") {
		cfg.Pipeline.InputDir = inputDir
	}
	if flags.Changed("top-n") {
		cfg.Pipeline.TopN = topN
	}
	if flags.Changed("export-csv") {
		cfg.Pipeline.ExportCSV = exportCSV
	}
	if flags.Changed("seed") {
		cfg.Pipeline.WordcloudSeed = seed
	}
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	metrics, err := pipeline.NewRunner(db, logger).Run(ctx, cfg.RunSpec())
	if err != nil {
		return fmt.Errorf("preprocessing run %s failed: %w", metrics.RunID, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run %s completed in %v\n", metrics.RunID, metrics.Duration)
	for _, name := range model.Datasets {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-10s %6d records\n", name, metrics.DatasetCounts[name])
	}
	return nil
}

func runDatasets(cmd *cobra.Command, args []string) error {
	db, err := store.Open(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	bundles, err := db.LoadBundles(cmd.Context())
	if err != nil {
		return err
	}
	if len(bundles) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no cached datasets; run `pipeline preprocess` first")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATASET\tLABEL\tRECORDS\tRUN\tGENERATED")
	for _, name := range model.Datasets {
		b, ok := bundles[name]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", name, model.DatasetLabel(name), b.RecordCount, b.RunID, b.GeneratedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}
