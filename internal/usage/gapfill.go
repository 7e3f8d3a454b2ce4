package usage

import (
	"sort"
	"time"
)

// FillMissingMonths inserts a zero count for any month in the range missing
// from a title already present in the table. Reports are supposed to list
// zero-use months explicitly but frequently don't. No new titles are added.
func FillMissingMonths(t Table, months []time.Time) Table {
	for _, counts := range t {
		for _, month := range months {
			if _, ok := counts[month]; !ok {
				counts[month] = 0
			}
		}
	}
	return t
}

// FillMissingJournals zero-fills a full row for every subscribed canonical
// title absent from the table and returns those titles sorted, for manual
// double-checking against possible ISSN mismatches. A title already in the
// table is never reported as not found, even if every count is zero after
// filling: not found means absent from every source file.
func FillMissingJournals(journals map[string]string, t Table, months []time.Time) (Table, []string) {
	var notFound []string
	seen := make(map[string]bool)
	for _, title := range journals {
		if seen[title] {
			continue
		}
		seen[title] = true
		if _, ok := t[title]; ok {
			continue
		}
		notFound = append(notFound, title)
		for _, month := range months {
			t.Add(title, month, 0)
		}
	}
	sort.Strings(notFound)
	return t, notFound
}
