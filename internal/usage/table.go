// Package usage builds the per-title monthly usage table by reconciling the
// subscription list against parsed usage reports.
package usage

import (
	"sort"
	"time"
)

// Table maps canonical journal title to month to download count.
// Months are first-of-month UTC dates.
type Table map[string]map[time.Time]int

// NewTable creates an empty usage table
func NewTable() Table {
	return make(Table)
}

// Add accumulates a count for a title and month. Counts from overlapping
// report files sum rather than overwrite.
func (t Table) Add(title string, month time.Time, count int) {
	months, ok := t[title]
	if !ok {
		months = make(map[time.Time]int)
		t[title] = months
	}
	months[month] += count
}

// Titles returns the table's titles in sorted order
func (t Table) Titles() []string {
	titles := make([]string, 0, len(t))
	for title := range t {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// Months returns a title's months in ascending order
func (t Table) Months(title string) []time.Time {
	months := make([]time.Time, 0, len(t[title]))
	for month := range t[title] {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months
}

// Total returns a title's summed usage across all months
func (t Table) Total(title string) int {
	total := 0
	for _, count := range t[title] {
		total += count
	}
	return total
}

// UnderThreshold returns the sorted titles whose total usage is below the
// threshold
func UnderThreshold(t Table, threshold int) []string {
	var titles []string
	for title := range t {
		if t.Total(title) < threshold {
			titles = append(titles, title)
		}
	}
	sort.Strings(titles)
	return titles
}

// MonthRange returns every first-of-month date from start through end
// inclusive. Both boundaries are normalized to the first of their month.
func MonthRange(start, end time.Time) []time.Time {
	var months []time.Time
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(last) {
		months = append(months, cur)
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}
