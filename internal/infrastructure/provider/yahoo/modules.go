package yahoo

import "sort"

// allowedModules is the fixed set of quoteSummary modules this service will
// request upstream. Anything outside this set is dropped before the request
// is built, so a caller can never steer the proxy toward arbitrary provider
// endpoints.
var allowedModules = map[string]bool{
	"assetProfile":             true,
	"summaryDetail":            true,
	"summaryProfile":           true,
	"price":                    true,
	"financialData":            true,
	"defaultKeyStatistics":     true,
	"earnings":                 true,
	"earningsHistory":          true,
	"earningsTrend":            true,
	"calendarEvents":           true,
	"recommendationTrend":      true,
	"incomeStatementHistory":   true,
	"balanceSheetHistory":      true,
	"cashflowStatementHistory": true,
}

// earningsModules is the module set used to build an earnings calendar.
var earningsModules = []string{"earnings", "earningsHistory", "calendarEvents"}

// FilterModules drops unknown module names, deduplicates and sorts the rest.
// Unknown names are dropped silently: the caller asked for data we do not
// proxy, not for an error.
func FilterModules(modules []string) []string {
	seen := make(map[string]bool, len(modules))
	filtered := make([]string, 0, len(modules))
	for _, m := range modules {
		if allowedModules[m] && !seen[m] {
			seen[m] = true
			filtered = append(filtered, m)
		}
	}
	sort.Strings(filtered)
	return filtered
}

// AllowedModules returns the allow-list in sorted order, for documentation
// endpoints and tests.
func AllowedModules() []string {
	out := make([]string, 0, len(allowedModules))
	for m := range allowedModules {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
