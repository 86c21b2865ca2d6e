package cache

import (
	"sort"
	"strings"
)

// Cache keys are hierarchical: kind:part[:part...]. Two calls with the same
// semantic parameters must produce the same key regardless of how the caller
// ordered list parameters, so list parts go through SortedList.

// BuildKey joins a data kind and its parameters into a cache key.
func BuildKey(kind string, parts ...string) string {
	b := strings.Builder{}
	b.WriteString(kind)
	for _, part := range parts {
		b.WriteString(":")
		b.WriteString(part)
	}
	return b.String()
}

// NormalizeSymbol canonicalizes a ticker symbol for key construction.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// SortedList renders a list parameter as a deterministic key part. The input
// slice is not modified.
func SortedList(items []string) string {
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
