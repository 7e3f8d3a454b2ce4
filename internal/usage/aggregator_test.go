package usage

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usagecli/internal/counter"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeParser returns canned reports keyed by path
type fakeParser map[string]*counter.Report

func (f fakeParser) Parse(path string) (*counter.Report, error) {
	report, ok := f[path]
	if !ok {
		return nil, fmt.Errorf("unreadable report")
	}
	return report, nil
}

func obs(m time.Time, count int) counter.Observation {
	return counter.Observation{Month: m, Metric: "FT Article Requests", Count: count}
}

func TestAggregate_MatchesByISSN(t *testing.T) {
	jan := month(2020, time.January)
	journals := map[string]string{"1234-5678": "Journal A"}
	parser := fakeParser{
		"a.tsv": {
			SourcePath: "a.tsv",
			Journals: []counter.Journal{
				{Title: "Journal A (publisher naming)", ISSN: "1234-5678", Observations: []counter.Observation{obs(jan, 7)}},
				{Title: "Trial Access Journal", ISSN: "9999-0000", Observations: []counter.Observation{obs(jan, 50)}},
			},
		},
	}

	table, err := Aggregate(journals, []string{"a.tsv"}, parser, discardLogger())
	require.NoError(t, err)

	// Matching journal keyed under the subscription's canonical title;
	// unsubscribed ISSN silently skipped.
	assert.Equal(t, Table{"Journal A": {jan: 7}}, table)
}

func TestAggregate_SumsAcrossFiles(t *testing.T) {
	jan := month(2016, time.January)
	journals := map[string]string{"1234-5678": "X"}
	parser := fakeParser{
		"a.tsv": {Journals: []counter.Journal{{ISSN: "1234-5678", Observations: []counter.Observation{obs(jan, 5)}}}},
		"b.tsv": {Journals: []counter.Journal{{ISSN: "1234-5678", Observations: []counter.Observation{obs(jan, 3)}}}},
	}

	table, err := Aggregate(journals, []string{"a.tsv", "b.tsv"}, parser, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, 8, table["X"][jan])
}

func TestAggregate_ParseFailureAborts(t *testing.T) {
	journals := map[string]string{"1234-5678": "X"}
	parser := fakeParser{
		"good.tsv": {Journals: []counter.Journal{{ISSN: "1234-5678", Observations: []counter.Observation{obs(month(2020, time.January), 1)}}}},
	}

	table, err := Aggregate(journals, []string{"good.tsv", "bad.tsv"}, parser, discardLogger())
	require.Error(t, err)
	assert.Nil(t, table)
	assert.Contains(t, err.Error(), "bad.tsv")
}

func TestAggregate_EmptyISSNNeverMatches(t *testing.T) {
	// A subscription map never contains an empty key, but a report journal may
	// carry no ISSN at all; it must not match anything.
	journals := map[string]string{"1234-5678": "X"}
	parser := fakeParser{
		"a.tsv": {Journals: []counter.Journal{{Title: "Anonymous", ISSN: "", Observations: []counter.Observation{obs(month(2020, time.January), 9)}}}},
	}

	table, err := Aggregate(journals, []string{"a.tsv"}, parser, discardLogger())
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestAggregate_NoFiles(t *testing.T) {
	table, err := Aggregate(map[string]string{"1234-5678": "X"}, nil, fakeParser{}, discardLogger())
	require.NoError(t, err)
	assert.Empty(t, table)
}
