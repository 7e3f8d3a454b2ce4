package subscriptions

// packageSentinel is the exporter's reserved ISSN meaning "this row is a
// package, not an actual publication". It must never become a map key.
const packageSentinel = "9999-9994"

// Record represents one row of the subscription export
type Record struct {
	Title     string
	ISSN      string
	Package   string
	Access    string
	Publisher string
}

// LoadResult holds the three outputs of loading a subscription export
type LoadResult struct {
	// Journals maps ISSN to canonical title for rows eligible for usage matching.
	Journals map[string]string
	// NoISSN lists titles whose rows carry no ISSN, in file order, deduplicated.
	NoISSN []string
	// NoUsage maps publisher to one of its titles, for publishers not covered
	// by the known-no-usage list. Reviewed by hand after each run.
	NoUsage map[string]string
}
