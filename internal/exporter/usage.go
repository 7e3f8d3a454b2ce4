package exporter

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"usagecli/internal/usage"
)

// Default diagnostic file names, written to the working directory
const (
	NotFoundFile = "journals_with_automated_zero_usage.tsv"
	NoUsageFile  = "no_usage_reports_or_password_only.tsv"
	NoISSNFile   = "journals_with_no_issn.tsv"
)

// usageHeaders is the upload schema of the analytics platform. Only the
// downloads column is computed here; the remaining metrics must be present
// as literal zeros for the upload to validate.
var usageHeaders = []string{"Date", "Downloads", "Searches", "Sessions", "Views", "Clicks"}

// UsageExporter generates the per-title usage files and the diagnostic lists
type UsageExporter struct {
	csv *Writer
	tsv *Writer
}

// NewUsageExporter creates a new usage exporter
func NewUsageExporter() *UsageExporter {
	return &UsageExporter{
		csv: NewCSVWriter(),
		tsv: NewTSVWriter(),
	}
}

// ExportTitleFiles writes one CSV per title into outputDir, named after the
// canonical title, with months in ascending order.
func (e *UsageExporter) ExportTitleFiles(t usage.Table, outputDir string) error {
	for _, title := range t.Titles() {
		var records [][]string
		for _, m := range t.Months(title) {
			records = append(records, []string{
				m.Format("2006-01-02"),
				strconv.Itoa(t[title][m]),
				"0", "0", "0", "0",
			})
		}

		path := filepath.Join(outputDir, title+".csv")
		if err := e.csv.WriteFile(path, usageHeaders, records); err != nil {
			return fmt.Errorf("failed to write usage file for %s: %w", title, err)
		}
	}
	return nil
}

// ExportNotFound writes the titles with no usage in any report, one per row,
// no header
func (e *UsageExporter) ExportNotFound(titles []string, path string) error {
	var records [][]string
	for _, title := range titles {
		records = append(records, []string{title})
	}
	return e.tsv.WriteFile(path, nil, records)
}

// ExportNoUsagePublishers writes the publisher/title pairs lacking automated
// usage data, sorted by publisher
func (e *UsageExporter) ExportNoUsagePublishers(publishers map[string]string, path string) error {
	keys := make([]string, 0, len(publishers))
	for publisher := range publishers {
		keys = append(keys, publisher)
	}
	sort.Strings(keys)

	var records [][]string
	for _, publisher := range keys {
		records = append(records, []string{publisher, publishers[publisher]})
	}
	return e.tsv.WriteFile(path, []string{"Publisher", "Title"}, records)
}

// ExportNoISSN writes the titles that carry no ISSN in the subscription
// export, one per row, no header
func (e *UsageExporter) ExportNoISSN(titles []string, path string) error {
	var records [][]string
	for _, title := range titles {
		records = append(records, []string{title})
	}
	return e.tsv.WriteFile(path, nil, records)
}
