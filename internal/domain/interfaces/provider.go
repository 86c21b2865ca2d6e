package interfaces

import (
	"context"

	"stock-data-service/internal/domain/entities"
)

// MarketProvider is the port for the upstream financial-data provider. Each
// method issues exactly one logical upstream call (session self-healing
// inside the adapter excepted) and classifies the outcome into the sentinel
// error kinds declared by the implementing package; provider-specific
// exception types never escape.
//
// Retrying is NOT the provider's job: callers wrap these methods with the
// retry controller and own the attempt budget.
type MarketProvider interface {
	GetQuote(ctx context.Context, symbol string) (*entities.Quote, error)
	GetQuotes(ctx context.Context, symbols []string) ([]*entities.Quote, error)
	GetHistory(ctx context.Context, symbol, rng, interval string) (*entities.History, error)
	GetSummary(ctx context.Context, symbol string, modules []string) (*entities.Summary, error)
	Search(ctx context.Context, query string, limit int) ([]*entities.SearchResult, error)
	GetTrending(ctx context.Context, region string, count int) ([]string, error)
	GetDailyGainers(ctx context.Context, region string, count int) ([]*entities.Gainer, error)
	GetEarnings(ctx context.Context, symbol string) ([]*entities.EarningsEvent, error)
}
