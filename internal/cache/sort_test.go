package cache

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sortFixture() []Entry {
	return []Entry{
		{ID: "a", Title: "banana", Author: "Zed", PublishedAt: at(2)},
		{ID: "b", Title: "Apple", Author: "amy", PublishedAt: nil},
		{ID: "c", Title: "cherry", Author: "Bob", PublishedAt: at(5)},
		{ID: "d", Title: "apple pie", Author: "bob", PublishedAt: at(1)},
		{ID: "e", Title: "Date", Author: "Carl", PublishedAt: nil},
	}
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestSort(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortDateDesc, []string{"c", "a", "d", "b", "e"}},
		{SortDateAsc, []string{"d", "a", "c", "b", "e"}},
		{SortTitleAsc, []string{"b", "d", "a", "c", "e"}},
		{SortTitleDesc, []string{"e", "c", "a", "d", "b"}},
		{SortAuthorAsc, []string{"b", "c", "d", "e", "a"}},
		{SortAuthorDesc, []string{"a", "e", "c", "d", "b"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			entries := sortFixture()
			Sort(entries, tt.key)
			assert.Equal(t, tt.want, ids(entries))
		})
	}
}

func TestSort_Idempotent(t *testing.T) {
	for _, key := range SortKeys() {
		t.Run(string(key), func(t *testing.T) {
			entries := sortFixture()
			Sort(entries, key)
			once := slices.Clone(entries)
			Sort(entries, key)
			assert.Equal(t, ids(once), ids(entries))
		})
	}
}

func TestSort_MissingDatesLast(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, key := range []SortKey{SortDateAsc, SortDateDesc} {
		for range 20 {
			entries := sortFixture()
			r.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })
			Sort(entries, key)

			for i, e := range entries {
				if i < 3 {
					assert.NotNil(t, e.PublishedAt, "key %s position %d", key, i)
				} else {
					assert.Nil(t, e.PublishedAt, "key %s position %d", key, i)
				}
			}
		}
	}
}

// Sorted and reverse-sorted input must still come out right.
func TestSort_PresortedInput(t *testing.T) {
	entries := make([]Entry, 500)
	for i := range entries {
		entries[i] = Entry{ID: string(rune('a' + i%26)), PublishedAt: at(1 + i%28)}
	}
	Sort(entries, SortDateAsc)
	Sort(entries, SortDateDesc)
	assert.True(t, slices.IsSortedFunc(entries, func(a, b Entry) int {
		return compareDates(a.PublishedAt, b.PublishedAt, true)
	}))
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortTitleAsc, ParseSortKey("title_asc"))
	assert.Equal(t, SortAuthorDesc, ParseSortKey(" AUTHOR_DESC "))
	assert.Equal(t, SortDateDesc, ParseSortKey(""))
	assert.Equal(t, SortDateDesc, ParseSortKey("popularity"))
}
