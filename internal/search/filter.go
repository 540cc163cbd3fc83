package search

import (
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/kk-code-lab/pathnav/internal/dircache"
)

// DefaultThreshold is the largest match distance FuzzyFilter keeps.
const DefaultThreshold = 0.49

// substringSpan is how many runes into a label an exact substring hit may
// start before its distance reaches 1.
const substringSpan = 100

// Strategy turns a listing plus the typed filter into the rows to display.
// Implementations must not modify entries.
type Strategy interface {
	FilterAndSort(entries []dircache.Entry, query string) []dircache.Entry
}

// DirectorySort lists everything: directories first, then by label ignoring
// case. The query is ignored.
type DirectorySort struct{}

// FilterAndSort implements Strategy.
func (DirectorySort) FilterAndSort(entries []dircache.Entry, _ string) []dircache.Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b dircache.Entry) int {
		if a.IsDir() != b.IsDir() {
			if a.IsDir() {
				return -1
			}
			return 1
		}
		return strings.Compare(strings.ToLower(a.Label), strings.ToLower(b.Label))
	})
	return out
}

// FuzzyFilter keeps entries whose label fuzzily matches the query and ranks
// the closest first. Distance is 0 for a perfect match and 1 for none.
type FuzzyFilter struct {
	Threshold float64
	matcher   *FuzzyMatcher
}

// NewFuzzyFilter creates a filter; thresholds outside [0,1] use the default.
func NewFuzzyFilter(threshold float64) *FuzzyFilter {
	if threshold < 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &FuzzyFilter{Threshold: threshold, matcher: NewFuzzyMatcher()}
}

type rankedEntry struct {
	entry    dircache.Entry
	label    string
	distance float64
}

// FilterAndSort implements Strategy. An empty query keeps every entry in its
// original order.
func (f *FuzzyFilter) FilterAndSort(entries []dircache.Entry, query string) []dircache.Entry {
	query = strings.ToLower(query)
	if query == "" {
		return slices.Clone(entries)
	}
	matcher := f.matcher
	if matcher == nil {
		matcher = NewFuzzyMatcher()
	}

	best, ok := matcher.Match(query, query)
	if !ok || best <= 0 {
		return nil
	}

	ranked := make([]rankedEntry, 0, len(entries))
	for _, e := range entries {
		label := strings.ToLower(filepath.ToSlash(e.Label))
		distance, matched := f.distance(matcher, query, label, best)
		if !matched || distance > f.Threshold {
			continue
		}
		ranked = append(ranked, rankedEntry{entry: e, label: label, distance: distance})
	}

	slices.SortStableFunc(ranked, func(a, b rankedEntry) int {
		switch {
		case a.distance < b.distance:
			return -1
		case a.distance > b.distance:
			return 1
		case len(a.label) != len(b.label):
			return len(a.label) - len(b.label)
		}
		return strings.Compare(a.label, b.label)
	})

	out := make([]dircache.Entry, len(ranked))
	for i, r := range ranked {
		out[i] = r.entry
	}
	return out
}

// distance scores label against query. An exact substring costs only its
// offset into the label; a scattered subsequence is measured against the
// score of the query matching itself.
func (f *FuzzyFilter) distance(matcher *FuzzyMatcher, query, label string, best float64) (float64, bool) {
	if idx := strings.Index(label, query); idx >= 0 {
		offset := utf8.RuneCountInString(label[:idx])
		return min(float64(offset)/substringSpan, 1), true
	}
	score, matched := matcher.Match(query, label)
	if !matched {
		return 0, false
	}
	return min(max(1-score/best, 0), 1), true
}
