package content

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// SortKey orders a collection by one metadata field.
type SortKey struct {
	Field string
	Desc  bool
}

// String renders the key in config syntax ("-date").
func (k SortKey) String() string {
	if k.Desc {
		return "-" + k.Field
	}
	return k.Field
}

// ParseSort parses config sort rules such as ["-date", "title"].
// A leading "-" sorts descending.
func ParseSort(rules []string) ([]SortKey, error) {
	keys := make([]SortKey, 0, len(rules))
	for _, rule := range rules {
		rule = strings.TrimSpace(rule)
		desc := strings.HasPrefix(rule, "-")
		field := strings.TrimPrefix(rule, "-")
		if field == "" || !validFieldName(field) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSortKey, rule)
		}
		keys = append(keys, SortKey{Field: field, Desc: desc})
	}
	return keys, nil
}

func validFieldName(field string) bool {
	for _, r := range field {
		if r == ' ' || r == '\t' || r == '{' || r == '}' {
			return false
		}
	}
	return true
}

// sortItems orders items by keys, stable, with the source path as the final
// tie-breaker so that the order never depends on input order.
func sortItems(items []*Item, keys []SortKey) {
	slices.SortStableFunc(items, func(a, b *Item) int {
		for _, k := range keys {
			c := compareValues(sortValue(a, k.Field), sortValue(b, k.Field))
			if k.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return strings.Compare(a.sourcePath, b.sourcePath)
	})
}

// sortValue normalizes the date field so mixed date notations order by time.
func sortValue(it *Item, field string) any {
	if field == KeyDate {
		if t, ok := it.Date(); ok {
			return t
		}
	}
	return it.Value(field)
}

// compareValues orders nil first, then times, numbers, and finally strings.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}

	if na, ok := toNumber(a); ok {
		if nb, ok := toNumber(b); ok {
			return cmp.Compare(na, nb)
		}
	}

	return strings.Compare(scalarString(a), scalarString(b))
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
