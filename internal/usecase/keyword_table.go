package usecase

import (
	"sort"
	"strings"
)

// keywordEntry maps a lower-case keyword to a value
type keywordEntry[T any] struct {
	keyword string
	value   T
}

// keywordTable is scanned longest keyword first so that "club sandwich"
// wins over "sandwich". Ties keep declaration order.
type keywordTable[T any] []keywordEntry[T]

func newKeywordTable[T any](entries []keywordEntry[T]) keywordTable[T] {
	table := make(keywordTable[T], len(entries))
	copy(table, entries)
	sort.SliceStable(table, func(i, j int) bool {
		return len(table[i].keyword) > len(table[j].keyword)
	})
	return table
}

// match returns the value of the first keyword contained in lowered
func (t keywordTable[T]) match(lowered string) (T, bool) {
	for _, e := range t {
		if strings.Contains(lowered, e.keyword) {
			return e.value, true
		}
	}
	var zero T
	return zero, false
}

// categoryRule is a broad fallback: any of its keywords selects value
type categoryRule[T any] struct {
	keywords []string
	value    T
}

// matchCategory evaluates rules in declared order
func matchCategory[T any](rules []categoryRule[T], lowered string) (T, bool) {
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lowered, kw) {
				return r.value, true
			}
		}
	}
	var zero T
	return zero, false
}
