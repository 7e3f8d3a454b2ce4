// Package pipeline wires the reconciliation stages into one linear run:
// load subscriptions, aggregate usage, fill gaps, export.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"usagecli/internal/config"
	"usagecli/internal/counter"
	apperrors "usagecli/internal/errors"
	"usagecli/internal/exporter"
	"usagecli/internal/files"
	"usagecli/internal/subscriptions"
	"usagecli/internal/usage"
)

// Summary holds the counts reported after a successful run
type Summary struct {
	Reports           int
	TotalTitles       int
	NotFound          int
	UnderThreshold    int
	NoISSN            int
	NoUsagePublishers int
}

// Options configures a reconciliation run
type Options struct {
	Config *config.Config
	Paths  *config.Paths
	Logger *slog.Logger
	// Parser overrides the report parsing collaborator; nil means the
	// built-in COUNTER parser.
	Parser usage.ReportParser
	// DiagnosticsDir overrides where the fixed-name diagnostic files land;
	// empty means the working directory.
	DiagnosticsDir string
}

// Run executes the full reconciliation pipeline and returns its summary.
// Any error is fatal; the run has no partial-success mode.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	parser := opts.Parser
	if parser == nil {
		parser = usage.ParserFunc(counter.Parse)
	}

	policy, err := subscriptions.LoadPolicy(cfg.Reconcile.PolicyFile)
	if err != nil {
		return nil, err
	}

	loaded, err := subscriptions.Load(cfg.Reconcile.SubscriptionFile, policy)
	if err != nil {
		return nil, err
	}
	journals := subscriptions.Merge(loaded.Journals, policy.Overrides)
	logger.InfoContext(ctx, "loaded subscriptions",
		slog.String("file", cfg.Reconcile.SubscriptionFile),
		slog.Int("journals", len(journals)),
		slog.Int("overrides", len(policy.Overrides)),
		slog.Int("no_issn", len(loaded.NoISSN)))

	reports, err := files.FindReportFiles(cfg.Reconcile.ReportsGlob)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "discovered usage reports",
		slog.String("glob", cfg.Reconcile.ReportsGlob),
		slog.Int("count", len(reports)))

	table, err := usage.Aggregate(journals, reports, parser, logger)
	if err != nil {
		return nil, err
	}

	start, end, err := cfg.Reconcile.Period()
	if err != nil {
		return nil, err
	}
	months := usage.MonthRange(start, end)

	table = usage.FillMissingMonths(table, months)
	table, notFound := usage.FillMissingJournals(journals, table, months)

	// Every canonical title must own exactly one table row. A mismatch means
	// canonicalization diverged somewhere and the output cannot be trusted.
	distinct := distinctTitles(journals)
	if distinct != len(table) {
		return nil, apperrors.ConsistencyError(
			fmt.Sprintf("%d canonical titles but %d usage table rows", distinct, len(table)))
	}

	exp := exporter.NewUsageExporter()
	if err := exp.ExportTitleFiles(table, opts.Paths.OutputDir); err != nil {
		return nil, err
	}
	diag := func(name string) string { return filepath.Join(opts.DiagnosticsDir, name) }
	if err := exp.ExportNotFound(notFound, diag(exporter.NotFoundFile)); err != nil {
		return nil, err
	}
	if err := exp.ExportNoUsagePublishers(loaded.NoUsage, diag(exporter.NoUsageFile)); err != nil {
		return nil, err
	}
	if err := exp.ExportNoISSN(loaded.NoISSN, diag(exporter.NoISSNFile)); err != nil {
		return nil, err
	}

	summary := &Summary{
		Reports:           len(reports),
		TotalTitles:       len(table),
		NotFound:          len(notFound),
		UnderThreshold:    len(usage.UnderThreshold(table, cfg.Reconcile.UsageThreshold)),
		NoISSN:            len(loaded.NoISSN),
		NoUsagePublishers: len(loaded.NoUsage),
	}
	logger.InfoContext(ctx, "reconciliation complete",
		slog.Int("titles", summary.TotalTitles),
		slog.Int("not_found", summary.NotFound),
		slog.Int("under_threshold", summary.UnderThreshold))
	return summary, nil
}

// distinctTitles counts the unique canonical titles in the ISSN map
func distinctTitles(journals map[string]string) int {
	seen := make(map[string]bool, len(journals))
	for _, title := range journals {
		seen[title] = true
	}
	return len(seen)
}
