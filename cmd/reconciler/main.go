// Command reconciler matches a subscription export against COUNTER usage
// reports and writes per-journal monthly usage files for analytics upload,
// plus diagnostic lists for manual review.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"usagecli/internal/config"
	"usagecli/internal/infrastructure"
	"usagecli/internal/pipeline"
)

func main() {
	configFile := flag.String("config", "config.yml", "path to config file")
	subsFile := flag.String("subscriptions", "", "subscription export file (overrides config)")
	reportsGlob := flag.String("reports", "", "glob selecting usage report files (overrides config)")
	outDir := flag.String("out", "", "output directory for per-title usage files (overrides config)")
	from := flag.String("from", "", "first month of the reporting period, YYYY-MM (overrides config)")
	to := flag.String("to", "", "last month of the reporting period, YYYY-MM (overrides config)")
	threshold := flag.Int("threshold", -1, "usage threshold for the summary (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Flag overrides beat both file and environment
	if *subsFile != "" {
		cfg.Reconcile.SubscriptionFile = *subsFile
	}
	if *reportsGlob != "" {
		cfg.Reconcile.ReportsGlob = *reportsGlob
	}
	if *outDir != "" {
		cfg.Paths.OutputDir = *outDir
	}
	if *from != "" {
		cfg.Reconcile.PeriodStart = *from
	}
	if *to != "" {
		cfg.Reconcile.PeriodEnd = *to
	}
	if *threshold >= 0 {
		cfg.Reconcile.UsageThreshold = *threshold
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		slog.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg.Logging.FilePath = paths.GetLogPath("reconciler.log")
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx := infrastructure.ContextWithRunID(context.Background())
	logger.InfoContext(ctx, "Starting journal usage reconciliation",
		slog.String("subscription_file", cfg.Reconcile.SubscriptionFile),
		slog.String("reports_glob", cfg.Reconcile.ReportsGlob),
		slog.String("output_dir", paths.OutputDir),
		slog.String("period", cfg.Reconcile.PeriodStart+".."+cfg.Reconcile.PeriodEnd))

	summary, err := pipeline.Run(ctx, pipeline.Options{
		Config: cfg,
		Paths:  paths,
		Logger: logger,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Reconciliation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Not found: %d\n", summary.NotFound)
	fmt.Printf("%d/%d\n", summary.NotFound, summary.TotalTitles)
	fmt.Printf("Titles under usage threshold (%d): %d\n", cfg.Reconcile.UsageThreshold, summary.UnderThreshold)
	fmt.Printf("Publishers without usage reports: %d\n", summary.NoUsagePublishers)
	fmt.Printf("Titles without ISSN: %d\n", summary.NoISSN)
}
