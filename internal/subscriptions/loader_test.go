package subscriptions

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "usagecli/internal/errors"
)

// subscriptionRow builds one tab-separated export row with the load-bearing
// columns filled in and the rest padded.
func subscriptionRow(title, access, pkg, issn, publisher string) string {
	fields := make([]string, 13)
	fields[0] = title
	fields[1] = access
	fields[3] = pkg
	fields[11] = issn
	fields[12] = publisher
	return strings.Join(fields, "\t")
}

func writeSubscriptionFile(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subscriptions.tsv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0644))
	return path
}

func TestLoad_BasicRow(t *testing.T) {
	path := writeSubscriptionFile(t,
		subscriptionRow("Journal A", "Online", "", "1234-5678", "Pub1"),
	)

	result, err := Load(path, NewPolicy(nil, nil, nil))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"1234-5678": "Journal A"}, result.Journals)
	assert.Empty(t, result.NoISSN)
}

func TestLoad_EmptyISSNRoutedToNoISSN(t *testing.T) {
	path := writeSubscriptionFile(t,
		subscriptionRow("No Code Quarterly", "Online", "", "", "Pub1"),
		subscriptionRow("No Code Quarterly", "Online", "", "", "Pub1"),
	)

	result, err := Load(path, NewPolicy(nil, nil, nil))
	require.NoError(t, err)

	assert.Empty(t, result.Journals)
	assert.Equal(t, []string{"No Code Quarterly"}, result.NoISSN)
}

func TestLoad_PackageSentinelNeverAKey(t *testing.T) {
	path := writeSubscriptionFile(t,
		subscriptionRow("Big Bundle", "Online", "", "9999-9994", "Pub1"),
	)

	result, err := Load(path, NewPolicy(nil, nil, nil))
	require.NoError(t, err)

	assert.Empty(t, result.Journals)
	assert.Empty(t, result.NoISSN)
}

func TestLoad_AccessModeFiltering(t *testing.T) {
	tests := []struct {
		name     string
		access   string
		included bool
	}{
		{"online", "Online", true},
		{"print and online", "Print + Online", true},
		{"case insensitive", "ONLINE", true},
		{"print only", "Print Only", false},
		{"digital is password-only", "Digital", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSubscriptionFile(t,
				subscriptionRow("Journal A", tt.access, "", "1234-5678", "Pub1"),
			)

			result, err := Load(path, NewPolicy(nil, nil, nil))
			require.NoError(t, err)

			if tt.included {
				assert.Contains(t, result.Journals, "1234-5678")
			} else {
				assert.NotContains(t, result.Journals, "1234-5678")
				assert.Empty(t, result.NoISSN)
			}
		})
	}
}

func TestLoad_SpecialCasePublisherExcluded(t *testing.T) {
	path := writeSubscriptionFile(t,
		subscriptionRow("Weird Usage Review", "Online", "", "1111-2222", "Odd Press"),
		subscriptionRow("Journal A", "Online", "", "1234-5678", "Pub1"),
	)

	result, err := Load(path, NewPolicy(nil, []string{"Odd Press"}, nil))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"1234-5678": "Journal A"}, result.Journals)
}

func TestLoad_NoUsageTracksUnlistedPublishers(t *testing.T) {
	path := writeSubscriptionFile(t,
		subscriptionRow("Journal A", "Online", "", "1234-5678", "Known Pub"),
		subscriptionRow("Journal B", "Print Only", "", "2222-3333", "Unknown Pub"),
	)

	result, err := Load(path, NewPolicy([]string{"Known Pub"}, nil, nil))
	require.NoError(t, err)

	// Unlisted publishers are recorded even when the row itself is excluded
	// from the ISSN map.
	assert.Equal(t, map[string]string{"Unknown Pub": "Journal B"}, result.NoUsage)
}

func TestLoad_ShortRowFails(t *testing.T) {
	path := writeSubscriptionFile(t, "Journal A\tOnline\tonly three")

	_, err := Load(path, NewPolicy(nil, nil, nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFormat))
	assert.Contains(t, err.Error(), "row 1")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.tsv"), NewPolicy(nil, nil, nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrMissingFile))
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		pkg      string
		expected string
	}{
		{"plain title", "Journal A", "", "Journal A"},
		{"package wins over title", "Journal A", "Big Bundle", "Big Bundle"},
		{"colon truncation", "Foo: Bar Edition", "", "Foo"},
		{"colon truncation on package", "Journal A", "Bundle: Complete", "Bundle"},
		{"trailing space trimmed", "Foo : Bar", "", "Foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Canonicalize(tt.title, tt.pkg))
			// Deterministic on repeat
			assert.Equal(t, tt.expected, Canonicalize(tt.title, tt.pkg))
		})
	}
}

func TestMerge(t *testing.T) {
	base := map[string]string{
		"1234-5678": "Journal A",
		"0013-9157": "Old Name",
	}
	overrides := map[string]string{
		"0013-9157": "Environment",
		"4444-5555": "Added Journal",
	}

	merged := Merge(base, overrides)

	assert.Equal(t, map[string]string{
		"1234-5678": "Journal A",
		"0013-9157": "Environment",
		"4444-5555": "Added Journal",
	}, merged)

	// Inputs are untouched
	assert.Equal(t, "Old Name", base["0013-9157"])
	assert.NotContains(t, base, "4444-5555")
}
