package cache

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

type SortKey string

const (
	SortDateDesc   SortKey = "date_desc"
	SortDateAsc    SortKey = "date_asc"
	SortTitleAsc   SortKey = "title_asc"
	SortTitleDesc  SortKey = "title_desc"
	SortAuthorAsc  SortKey = "author_asc"
	SortAuthorDesc SortKey = "author_desc"
)

// DefaultSort orders the newest posts first.
const DefaultSort = SortDateDesc

var sortKeys = []SortKey{SortDateDesc, SortDateAsc, SortTitleAsc, SortTitleDesc, SortAuthorAsc, SortAuthorDesc}

// SortKeys lists the supported orderings.
func SortKeys() []SortKey {
	return slices.Clone(sortKeys)
}

// ParseSortKey maps s onto a SortKey, falling back to DefaultSort.
func ParseSortKey(s string) SortKey {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(sortKeys, k) {
		return k
	}
	return DefaultSort
}

// Sort orders entries in place. The sort is stable, so re-sorting a list by
// the key it is already sorted by leaves it unchanged. Entries without a
// publish date go last in both date directions; text keys compare
// case-insensitively.
func Sort(entries []Entry, key SortKey) {
	switch key {
	case SortDateAsc:
		slices.SortStableFunc(entries, func(a, b Entry) int { return compareDates(a.PublishedAt, b.PublishedAt, false) })
	case SortTitleAsc, SortTitleDesc:
		sortByText(entries, func(e Entry) string { return e.Title }, key == SortTitleDesc)
	case SortAuthorAsc, SortAuthorDesc:
		sortByText(entries, func(e Entry) string { return e.Author }, key == SortAuthorDesc)
	default:
		slices.SortStableFunc(entries, func(a, b Entry) int { return compareDates(a.PublishedAt, b.PublishedAt, true) })
	}
}

func compareDates(a, b *time.Time, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case desc:
		return b.Compare(*a)
	default:
		return a.Compare(*b)
	}
}

// sortByText folds each key once instead of on every comparison.
func sortByText(entries []Entry, field func(Entry) string, desc bool) {
	fold := cases.Fold()
	type keyed struct {
		key   string
		entry Entry
	}
	tmp := make([]keyed, len(entries))
	for i, e := range entries {
		tmp[i] = keyed{key: fold.String(field(e)), entry: e}
	}
	slices.SortStableFunc(tmp, func(a, b keyed) int {
		if desc {
			return cmp.Compare(b.key, a.key)
		}
		return cmp.Compare(a.key, b.key)
	})
	for i := range tmp {
		entries[i] = tmp[i].entry
	}
}
