// Package files locates the usage report files a run will process.
package files

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// reportExtensions are the file types the report parser understands
var reportExtensions = map[string]bool{
	".tsv":  true,
	".txt":  true,
	".csv":  true,
	".xlsx": true,
}

// FindReportFiles expands a glob pattern into the sorted list of usage report
// files to process. Matches with unsupported extensions and Excel lock files
// are dropped. An empty result is not an error; the caller decides whether a
// run without reports makes sense.
func FindReportFiles(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid report glob %q: %w", pattern, err)
	}

	var reports []string
	for _, match := range matches {
		name := filepath.Base(match)
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if !reportExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		reports = append(reports, match)
	}

	sort.Strings(reports)
	return reports, nil
}
