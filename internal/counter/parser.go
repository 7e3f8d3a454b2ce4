// Package counter parses COUNTER Journal Report 1 usage reports, the
// month-by-month full-text download statistics publishers deliver as
// delimited text or Excel workbooks.
package counter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "usagecli/internal/errors"
)

// ftMetric is the JR1 metric name for full-text article requests
const ftMetric = "FT Article Requests"

// monthHeaderLayouts are the date formats seen in JR1 column headers
var monthHeaderLayouts = []string{"Jan-2006", "Jan-06", "2006-01", "Jan 2006"}

// Parse reads a COUNTER JR1 report file, dispatching on the file extension.
// Delimited reports (.tsv, .txt, .csv) and Excel workbooks (.xlsx) carry the
// same logical layout: preamble rows, a header row whose date columns define
// the reporting months, a totals row, then one row per journal.
func Parse(path string) (*Report, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readExcelRows(path)
	case ".tsv", ".txt":
		rows, err = readDelimitedRows(path, '\t')
	case ".csv":
		rows, err = readDelimitedRows(path, ',')
	default:
		return nil, apperrors.FormatError(path, fmt.Errorf("unsupported report extension %q", filepath.Ext(path)))
	}
	if err != nil {
		return nil, err
	}

	return interpretRows(path, rows)
}

// readDelimitedRows loads a delimited report into a row grid
func readDelimitedRows(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.MissingFileError(path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.FormatError(path, err)
		}
		rows = append(rows, fields)
	}
	return rows, nil
}

// readExcelRows loads an Excel report into a row grid. Report producers are
// not consistent about sheet naming, so every sheet is scanned and the first
// one containing a JR1 header row wins.
func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.MissingFileError(path, err)
		}
		return nil, apperrors.FormatError(path, err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if headerRowIndex(rows) >= 0 {
			return rows, nil
		}
	}
	return nil, apperrors.FormatError(path, fmt.Errorf("no sheet with a journal report header"))
}

// headerRowIndex locates the JR1 header row: the first row whose leading cell
// names the journal column and which carries at least one month column.
func headerRowIndex(rows [][]string) int {
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		if !strings.Contains(strings.ToLower(strings.TrimSpace(row[0])), "journal") {
			continue
		}
		for _, cell := range row[1:] {
			if _, ok := parseMonthHeader(cell); ok {
				return i
			}
		}
	}
	return -1
}

// parseMonthHeader tries the known date formats for a JR1 month column header
func parseMonthHeader(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	for _, layout := range monthHeaderLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// interpretRows turns the row grid into journal records
func interpretRows(path string, rows [][]string) (*Report, error) {
	headerIdx := headerRowIndex(rows)
	if headerIdx < 0 {
		return nil, apperrors.FormatError(path, fmt.Errorf("journal report header row not found"))
	}

	header := rows[headerIdx]
	printISSNCol, onlineISSNCol := -1, -1
	// Month columns keep header order so observations come out in a stable,
	// left-to-right sequence.
	type monthColumn struct {
		col   int
		month time.Time
	}
	var months []monthColumn
	for i, cell := range header {
		label := strings.ToLower(strings.TrimSpace(cell))
		switch label {
		case "print issn":
			printISSNCol = i
		case "online issn":
			onlineISSNCol = i
		default:
			if month, ok := parseMonthHeader(cell); ok {
				months = append(months, monthColumn{col: i, month: month})
			}
		}
	}

	report := &Report{SourcePath: path}
	for _, row := range rows[headerIdx+1:] {
		if len(row) == 0 {
			continue
		}
		title := strings.TrimSpace(row[0])
		if title == "" {
			continue
		}
		// The JR1 totals row reads "Total for all journals". Matching on a
		// bare "total" prefix would also drop real journals such as "Total
		// Quality Management & Business Excellence".
		if strings.HasPrefix(strings.ToLower(title), "total for all") {
			continue
		}

		journal := Journal{
			Title: title,
			ISSN:  pickISSN(row, onlineISSNCol, printISSNCol),
		}
		for _, mc := range months {
			if mc.col >= len(row) {
				continue
			}
			count, err := parseCount(row[mc.col])
			if err != nil {
				return nil, apperrors.FormatError(path, fmt.Errorf("journal %q, column %d: %w", title, mc.col+1, err))
			}
			journal.Observations = append(journal.Observations, Observation{
				Month:  mc.month,
				Metric: ftMetric,
				Count:  count,
			})
		}
		report.Journals = append(report.Journals, journal)
	}

	return report, nil
}

// pickISSN prefers the online ISSN and falls back to print
func pickISSN(row []string, onlineCol, printCol int) string {
	if onlineCol >= 0 && onlineCol < len(row) {
		if issn := strings.TrimSpace(row[onlineCol]); issn != "" {
			return issn
		}
	}
	if printCol >= 0 && printCol < len(row) {
		return strings.TrimSpace(row[printCol])
	}
	return ""
}

// parseCount reads a usage count cell; empty cells are zero and thousands
// separators are tolerated
func parseCount(cell string) (int, error) {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", cell)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %q", cell)
	}
	return n, nil
}
