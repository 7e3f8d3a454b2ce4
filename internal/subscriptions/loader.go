package subscriptions

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	apperrors "usagecli/internal/errors"
)

// Column positions in the subscription export. These indices are a contract
// with the upstream exporter and cannot be derived from the file content.
const (
	colTitle     = 0
	colAccess    = 1
	colPackage   = 3
	colISSN      = 11
	colPublisher = 12

	minFields = 13
)

// Load reads a tab-separated subscription export and splits it into the
// ISSN-to-title map, the titles with no ISSN, and the publishers with no
// automated usage reports.
//
// A row enters the ISSN map only if it has a real ISSN (not the package
// sentinel), its access mode includes online access, and its publisher is not
// handled as a special case. Rows without an ISSN are routed to NoISSN
// instead. "Digital" access is password-only magazine access and is excluded
// along with print-only rows.
func Load(path string, policy *Policy) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.MissingFileError(path, err)
	}
	defer f.Close()

	result := &LoadResult{
		Journals: make(map[string]string),
		NoUsage:  make(map[string]string),
	}

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	seenNoISSN := make(map[string]bool)
	row := 0
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.RowFormatError(path, row+1, err)
		}
		row++
		if len(fields) < minFields {
			return nil, apperrors.RowFormatError(path, row, nil)
		}

		rec := Record{
			Title:     strings.TrimSpace(fields[colTitle]),
			Access:    strings.TrimSpace(fields[colAccess]),
			Package:   strings.TrimSpace(fields[colPackage]),
			ISSN:      strings.TrimSpace(fields[colISSN]),
			Publisher: strings.TrimSpace(fields[colPublisher]),
		}

		if !policy.IsIgnored(rec.Publisher) {
			result.NoUsage[rec.Publisher] = rec.Title
		}

		switch {
		case rec.ISSN == "":
			if !seenNoISSN[rec.Title] {
				seenNoISSN[rec.Title] = true
				result.NoISSN = append(result.NoISSN, rec.Title)
			}
		case rec.ISSN != packageSentinel &&
			strings.Contains(strings.ToLower(rec.Access), "online") &&
			!policy.IsSpecialCase(rec.Publisher):
			result.Journals[rec.ISSN] = Canonicalize(rec.Title, rec.Package)
		}
	}

	return result, nil
}

// Canonicalize derives the display name used as the usage table key.
// Titles bundled in a package collapse to the package name, so the final
// table reflects units of payment. Everything after the first colon is
// dropped because the title becomes an output filename.
func Canonicalize(title, pkg string) string {
	name := title
	if pkg != "" {
		name = pkg
	}
	name, _, _ = strings.Cut(name, ":")
	return strings.TrimSpace(name)
}

// Merge combines a loaded ISSN map with manual overrides, returning a new
// map. Overrides win on key collision. Used for subscriptions known to be
// active but absent from the export, such as those still awaiting
// fulfillment.
func Merge(base, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overrides))
	for issn, title := range base {
		merged[issn] = title
	}
	for issn, title := range overrides {
		merged[issn] = title
	}
	return merged
}
