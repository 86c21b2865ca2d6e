package interfaces

import (
	"context"

	"stock-data-service/internal/domain/entities"
)

// MarketService defines the data access functions exposed to the HTTP route
// layer. Every method checks the cache first (unless forceRefresh), fetches
// through the retry controller on a miss, and degrades per its kind's policy
// when all attempts are exhausted.
//
// Failure policy is deliberately per-kind, not uniform:
//
//   - Quote, history, search, trending, gainers and earnings are
//     fallback-eligible: after parameter validation they never return a
//     non-nil error. Degradation shows up only as a retained stale value or
//     a synthetic result carrying the IsMock/Warning markers.
//   - GetSummary must not fabricate analyst data. After exhaustion it
//     returns an error naming the symbol and the failure; the route layer
//     maps that to an upstream-error status.
type MarketService interface {
	GetQuote(ctx context.Context, symbol string, forceRefresh bool) (*entities.Quote, error)
	GetQuotes(ctx context.Context, symbols []string, forceRefresh bool) ([]*entities.Quote, error)
	GetHistory(ctx context.Context, symbol, rng, interval string, forceRefresh bool) (*entities.History, error)
	GetSummary(ctx context.Context, symbol string, modules []string, forceRefresh bool) (*entities.Summary, error)
	Search(ctx context.Context, query string, forceRefresh bool) (*entities.SearchResponse, error)
	GetTrending(ctx context.Context, region string, forceRefresh bool) (*entities.TrendingList, error)
	GetDailyGainers(ctx context.Context, region string, count int, forceRefresh bool) (*entities.GainersList, error)
	GetEarnings(ctx context.Context, symbol string, forceRefresh bool) (*entities.EarningsCalendar, error)
}
