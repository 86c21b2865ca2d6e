package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"stock-data-service/internal/domain/entities"
	"stock-data-service/internal/domain/interfaces"
	"stock-data-service/internal/infrastructure/config"
	"stock-data-service/internal/infrastructure/fallback"
	"stock-data-service/internal/infrastructure/logging"
	"stock-data-service/internal/infrastructure/metrics"
	cachepkg "stock-data-service/internal/infrastructure/repositories/cache"
	"stock-data-service/internal/infrastructure/retry"
)

// Data kind names. They drive cache keys, policies, metrics labels and log
// fields, so they never change casing.
const (
	KindQuote    = "quote"
	KindHistory  = "history"
	KindSummary  = "summary"
	KindSearch   = "search"
	KindTrending = "trending"
	KindGainers  = "gainers"
	KindEarnings = "earnings"
)

const staleWarning = "stale data: upstream provider unavailable, serving last known value"

// kindPolicy decides what happens to one data kind after the retry budget is
// exhausted. Summary has no policy entry: it must never fabricate and fails
// instead.
type kindPolicy struct {
	ttl             time.Duration
	cacheOnFallback bool
}

// marketService orchestrates cache, retry-wrapped provider calls and
// synthetic fallback per data kind.
type marketService struct {
	provider        interfaces.MarketProvider
	cache           interfaces.Cache
	retrier         *retry.Controller
	generator       *fallback.Generator
	fallbackEnabled bool
	policies        map[string]kindPolicy
	group           singleflight.Group
}

// NewMarketService wires the data access layer. The retry controller owns the
// attempt budget; the generator covers the fallback-eligible kinds.
func NewMarketService(
	provider interfaces.MarketProvider,
	cache interfaces.Cache,
	retrier *retry.Controller,
	generator *fallback.Generator,
	ttls config.KindTTLConfig,
	fallbackEnabled bool,
) interfaces.MarketService {
	return &marketService{
		provider:        provider,
		cache:           cache,
		retrier:         retrier,
		generator:       generator,
		fallbackEnabled: fallbackEnabled,
		policies: map[string]kindPolicy{
			KindQuote:    {ttl: ttls.Quote, cacheOnFallback: true},
			KindHistory:  {ttl: ttls.History, cacheOnFallback: false},
			KindSummary:  {ttl: ttls.Summary, cacheOnFallback: false},
			KindSearch:   {ttl: ttls.Search, cacheOnFallback: false},
			KindTrending: {ttl: ttls.Trending, cacheOnFallback: true},
			KindGainers:  {ttl: ttls.Gainers, cacheOnFallback: true},
			KindEarnings: {ttl: ttls.Earnings, cacheOnFallback: false},
		},
	}
}

// fetchPlan carries everything resolve needs for one data kind. The three
// mark callbacks stamp the degradation markers on the concrete type, keeping
// resolve itself shape-agnostic.
type fetchPlan[T any] struct {
	kind   string
	symbol string
	key    string

	forceRefresh bool

	fetch      func(ctx context.Context) (*T, error)
	synthesize func() *T
	markCached func(*T)
	markStale  func(*T)
}

// resolve is the shared cache -> coalesced retry-wrapped fetch -> stale ->
// synthetic pipeline. A nil synthesize marks the kind as must-not-fabricate:
// exhaustion becomes an error instead of a synthetic record.
func resolve[T any](ctx context.Context, s *marketService, plan fetchPlan[T]) (*T, error) {
	policy := s.policies[plan.kind]
	logging.Market().DataRequested(ctx, plan.kind, plan.symbol)

	if !plan.forceRefresh {
		if cached, ok := cacheLookup[T](ctx, s, plan.kind, plan.key); ok {
			plan.markCached(cached)
			logging.Market().DataServed(ctx, plan.kind, plan.symbol, "cache", true)
			return cached, nil
		}
	} else {
		metrics.RecordDataRequest(plan.kind, "miss")
	}

	// Concurrent requests for the same key share one upstream flight. The
	// fallback path runs inside the flight too, so a thundering herd against
	// a dead provider produces one synthetic record, not many.
	result, err, _ := s.group.Do(plan.key, func() (interface{}, error) {
		var fetched *T
		fetchErr := s.retrier.Do(ctx, plan.kind, func() error {
			value, err := plan.fetch(ctx)
			if err != nil {
				return err
			}
			fetched = value
			return nil
		})
		if fetchErr != nil {
			degraded, degradeErr := degrade(ctx, s, plan, policy, fetchErr)
			if degradeErr != nil {
				return nil, degradeErr
			}
			return degraded, nil
		}

		store(ctx, s, plan.kind, plan.key, fetched)
		logging.Market().DataServed(ctx, plan.kind, plan.symbol, "provider", false)
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*T), nil
}

// cacheLookup reads and decodes a fresh cache entry. A decode failure is
// treated as a miss: the entry is garbage, the fetch path will overwrite it.
func cacheLookup[T any](ctx context.Context, s *marketService, kind, key string) (*T, bool) {
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.RecordCacheOperation("get", "miss")
		metrics.RecordDataRequest(kind, "miss")
		return nil, false
	}

	var value T
	if err := json.Unmarshal([]byte(cached), &value); err != nil {
		metrics.RecordCacheOperation("get", "miss")
		metrics.RecordDataRequest(kind, "miss")
		logging.WarnWithError(ctx, "Discarding undecodable cache entry", err, logging.Fields{
			"kind": kind,
			"key":  key,
		})
		return nil, false
	}

	metrics.RecordCacheOperation("get", "hit")
	metrics.RecordDataRequest(kind, "hit")
	logging.CacheOperation(ctx, "get", key, true, logging.Fields{"kind": kind})
	return &value, true
}

// store caches a value under the kind's TTL. Cache write failures are logged,
// never surfaced: the caller already holds the data.
func store[T any](ctx context.Context, s *marketService, kind, key string, value *T) {
	payload, err := json.Marshal(value)
	if err != nil {
		logging.WarnWithError(ctx, "Failed to encode value for cache", err, logging.Fields{
			"kind": kind,
			"key":  key,
		})
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), s.policies[kind].ttl); err != nil {
		metrics.RecordCacheOperation("set", "error")
		logging.WarnWithError(ctx, "Failed to cache value", err, logging.Fields{
			"kind": kind,
			"key":  key,
		})
		return
	}
	metrics.RecordCacheOperation("set", "success")
}

// staleLookup reads a retained expired entry.
func staleLookup[T any](ctx context.Context, s *marketService, key string) (*T, bool) {
	cached, err := s.cache.GetStale(ctx, key)
	if err != nil {
		return nil, false
	}
	var value T
	if err := json.Unmarshal([]byte(cached), &value); err != nil {
		return nil, false
	}
	return &value, true
}

// degrade handles retry exhaustion for one plan: retained stale value first,
// synthetic record second, error when the kind must not fabricate.
func degrade[T any](ctx context.Context, s *marketService, plan fetchPlan[T], policy kindPolicy, fetchErr error) (*T, error) {
	logging.Market().FetchFailed(ctx, plan.kind, plan.symbol, fetchErr)

	if stale, ok := staleLookup[T](ctx, s, plan.key); ok {
		metrics.RecordStaleServe(plan.kind)
		metrics.RecordDataRequest(plan.kind, "stale")
		plan.markStale(stale)
		logging.Market().DataServed(ctx, plan.kind, plan.symbol, "stale_cache", true)
		return stale, nil
	}

	if plan.synthesize == nil || !s.fallbackEnabled {
		return nil, fmt.Errorf("failed to fetch %s for %s after %d attempts: %w",
			plan.kind, plan.symbol, s.retrier.Attempts(), fetchErr)
	}

	metrics.RecordFallbackActivation(plan.kind)
	logging.Market().FallbackActivated(ctx, plan.kind, plan.symbol, fetchErr)

	synthetic := plan.synthesize()
	if policy.cacheOnFallback {
		store(ctx, s, plan.kind, plan.key, synthetic)
	}
	logging.Market().DataServed(ctx, plan.kind, plan.symbol, "synthetic", false)
	return synthetic, nil
}

// GetQuote returns one quote, degrading per the quote policy.
func (s *marketService) GetQuote(ctx context.Context, symbol string, forceRefresh bool) (*entities.Quote, error) {
	symbol = cachepkg.NormalizeSymbol(symbol)
	plan := fetchPlan[entities.Quote]{
		kind:         KindQuote,
		symbol:       symbol,
		key:          cachepkg.BuildKey(KindQuote, symbol),
		forceRefresh: forceRefresh,
		fetch: func(ctx context.Context) (*entities.Quote, error) {
			quote, err := s.provider.GetQuote(ctx, symbol)
			if err != nil {
				return nil, err
			}
			metrics.UpdateCurrentPrice(symbol, quote.Price)
			return quote, nil
		},
		synthesize: func() *entities.Quote {
			return s.generator.Quote(symbol)
		},
		markCached: func(q *entities.Quote) { q.FromCache = true },
		markStale: func(q *entities.Quote) {
			q.FromCache = true
			q.Warning = staleWarning
		},
	}
	return resolve(ctx, s, plan)
}

// GetQuotes returns a batch of quotes. Each symbol is cached individually so
// partial cache hits only fetch the missing symbols; a failed batch fetch
// degrades per symbol.
func (s *marketService) GetQuotes(ctx context.Context, symbols []string, forceRefresh bool) ([]*entities.Quote, error) {
	normalized := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		if n := cachepkg.NormalizeSymbol(symbol); n != "" {
			normalized = append(normalized, n)
		}
	}
	if len(normalized) == 0 {
		return nil, fmt.Errorf("no valid symbols in request")
	}

	resolved := make(map[string]*entities.Quote, len(normalized))
	missing := make([]string, 0, len(normalized))

	for _, symbol := range normalized {
		if _, seen := resolved[symbol]; seen {
			continue
		}
		if !forceRefresh {
			if cached, ok := cacheLookup[entities.Quote](ctx, s, KindQuote, cachepkg.BuildKey(KindQuote, symbol)); ok {
				cached.FromCache = true
				resolved[symbol] = cached
				continue
			}
		} else {
			metrics.RecordDataRequest(KindQuote, "miss")
		}
		missing = append(missing, symbol)
	}

	if len(missing) > 0 {
		batchKey := cachepkg.BuildKey(KindQuote, "batch", cachepkg.SortedList(missing))
		result, _, _ := s.group.Do(batchKey, func() (interface{}, error) {
			return s.fetchQuoteBatch(ctx, missing), nil
		})
		for symbol, quote := range result.(map[string]*entities.Quote) {
			resolved[symbol] = quote
		}
	}

	quotes := make([]*entities.Quote, 0, len(normalized))
	seen := make(map[string]bool, len(normalized))
	for _, symbol := range normalized {
		if seen[symbol] {
			continue
		}
		seen[symbol] = true
		if quote, ok := resolved[symbol]; ok {
			quotes = append(quotes, quote)
		}
	}
	return quotes, nil
}

// fetchQuoteBatch retry-wraps one batch call and degrades each missing symbol
// individually on exhaustion. It never fails: quotes are fallback-eligible.
func (s *marketService) fetchQuoteBatch(ctx context.Context, symbols []string) map[string]*entities.Quote {
	var fetched []*entities.Quote
	err := s.retrier.Do(ctx, KindQuote, func() error {
		batch, fetchErr := s.provider.GetQuotes(ctx, symbols)
		if fetchErr != nil {
			return fetchErr
		}
		fetched = batch
		return nil
	})

	out := make(map[string]*entities.Quote, len(symbols))
	if err == nil {
		for _, quote := range fetched {
			symbol := cachepkg.NormalizeSymbol(quote.Symbol)
			out[symbol] = quote
			store(ctx, s, KindQuote, cachepkg.BuildKey(KindQuote, symbol), quote)
			metrics.UpdateCurrentPrice(symbol, quote.Price)
		}
		// Symbols upstream silently dropped still degrade below.
	}

	for _, symbol := range symbols {
		if _, ok := out[symbol]; ok {
			continue
		}
		failure := err
		if failure == nil {
			failure = fmt.Errorf("symbol %s missing from batch response", symbol)
		}
		plan := fetchPlan[entities.Quote]{
			kind:   KindQuote,
			symbol: symbol,
			key:    cachepkg.BuildKey(KindQuote, symbol),
			synthesize: func() *entities.Quote {
				return s.generator.Quote(symbol)
			},
			markStale: func(q *entities.Quote) {
				q.FromCache = true
				q.Warning = staleWarning
			},
		}
		quote, degradeErr := degrade(ctx, s, plan, s.policies[KindQuote], failure)
		if degradeErr != nil {
			// Quotes are fallback-eligible; this only happens with fallback
			// disabled by configuration. Skip the symbol.
			continue
		}
		out[symbol] = quote
	}
	return out
}

// GetHistory returns historical bars. Stale history is served after
// exhaustion; synthetic history is generated but never cached, so a
// recovered provider is consulted on the next request.
func (s *marketService) GetHistory(ctx context.Context, symbol, rng, interval string, forceRefresh bool) (*entities.History, error) {
	symbol = cachepkg.NormalizeSymbol(symbol)
	plan := fetchPlan[entities.History]{
		kind:         KindHistory,
		symbol:       symbol,
		key:          cachepkg.BuildKey(KindHistory, symbol, rng, interval),
		forceRefresh: forceRefresh,
		fetch: func(ctx context.Context) (*entities.History, error) {
			return s.provider.GetHistory(ctx, symbol, rng, interval)
		},
		synthesize: func() *entities.History {
			return s.generator.History(symbol, rng, interval)
		},
		markCached: func(h *entities.History) { h.FromCache = true },
		markStale: func(h *entities.History) {
			h.FromCache = true
			h.Warning = staleWarning
		},
	}
	return resolve(ctx, s, plan)
}

// GetSummary returns the module-keyed company summary. Summaries are never
// fabricated: exhaustion with no retained stale entry is an error.
func (s *marketService) GetSummary(ctx context.Context, symbol string, modules []string, forceRefresh bool) (*entities.Summary, error) {
	symbol = cachepkg.NormalizeSymbol(symbol)
	plan := fetchPlan[entities.Summary]{
		kind:         KindSummary,
		symbol:       symbol,
		key:          cachepkg.BuildKey(KindSummary, symbol, cachepkg.SortedList(modules)),
		forceRefresh: forceRefresh,
		fetch: func(ctx context.Context) (*entities.Summary, error) {
			return s.provider.GetSummary(ctx, symbol, modules)
		},
		synthesize: nil,
		markCached: func(sum *entities.Summary) { sum.FromCache = true },
		markStale: func(sum *entities.Summary) {
			sum.FromCache = true
			sum.Warning = staleWarning
		},
	}
	return resolve(ctx, s, plan)
}

// Search returns symbol matches for a free-text query.
func (s *marketService) Search(ctx context.Context, query string, forceRefresh bool) (*entities.SearchResponse, error) {
	query = strings.TrimSpace(query)
	normalizedQuery := strings.ToLower(query)
	plan := fetchPlan[entities.SearchResponse]{
		kind:         KindSearch,
		symbol:       normalizedQuery,
		key:          cachepkg.BuildKey(KindSearch, normalizedQuery),
		forceRefresh: forceRefresh,
		fetch: func(ctx context.Context) (*entities.SearchResponse, error) {
			results, err := s.provider.Search(ctx, query, 10)
			if err != nil {
				return nil, err
			}
			return &entities.SearchResponse{Query: query, Results: results}, nil
		},
		synthesize: func() *entities.SearchResponse {
			return &entities.SearchResponse{
				Query:   query,
				Results: s.generator.Search(query, 10),
				IsMock:  true,
				Warning: fallback.DefaultWarning,
			}
		},
		markCached: func(r *entities.SearchResponse) { r.FromCache = true },
		markStale: func(r *entities.SearchResponse) {
			r.FromCache = true
			r.Warning = staleWarning
		},
	}
	return resolve(ctx, s, plan)
}

// GetTrending returns the trending symbols for a region.
func (s *marketService) GetTrending(ctx context.Context, region string, forceRefresh bool) (*entities.TrendingList, error) {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = "US"
	}
	plan := fetchPlan[entities.TrendingList]{
		kind:         KindTrending,
		symbol:       region,
		key:          cachepkg.BuildKey(KindTrending, region),
		forceRefresh: forceRefresh,
		fetch: func(ctx context.Context) (*entities.TrendingList, error) {
			symbols, err := s.provider.GetTrending(ctx, region, 10)
			if err != nil {
				return nil, err
			}
			return &entities.TrendingList{Region: region, Symbols: symbols}, nil
		},
		synthesize: func() *entities.TrendingList {
			return &entities.TrendingList{
				Region:  region,
				Symbols: s.generator.Trending(8),
				IsMock:  true,
				Warning: fallback.DefaultWarning,
			}
		},
		markCached: func(l *entities.TrendingList) { l.FromCache = true },
		markStale: func(l *entities.TrendingList) {
			l.FromCache = true
			l.Warning = staleWarning
		},
	}
	return resolve(ctx, s, plan)
}

// GetDailyGainers returns the day-gainers screener for a region.
func (s *marketService) GetDailyGainers(ctx context.Context, region string, count int, forceRefresh bool) (*entities.GainersList, error) {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = "US"
	}
	if count <= 0 {
		count = 5
	}
	plan := fetchPlan[entities.GainersList]{
		kind:         KindGainers,
		symbol:       region,
		key:          cachepkg.BuildKey(KindGainers, region, strconv.Itoa(count)),
		forceRefresh: forceRefresh,
		fetch: func(ctx context.Context) (*entities.GainersList, error) {
			gainers, err := s.provider.GetDailyGainers(ctx, region, count)
			if err != nil {
				return nil, err
			}
			return &entities.GainersList{Region: region, Gainers: gainers}, nil
		},
		synthesize: func() *entities.GainersList {
			return &entities.GainersList{
				Region:  region,
				Gainers: s.generator.Gainers(count),
				IsMock:  true,
				Warning: fallback.DefaultWarning,
			}
		},
		markCached: func(l *entities.GainersList) { l.FromCache = true },
		markStale: func(l *entities.GainersList) {
			l.FromCache = true
			l.Warning = staleWarning
		},
	}
	return resolve(ctx, s, plan)
}

// GetEarnings returns the earnings calendar for a symbol.
func (s *marketService) GetEarnings(ctx context.Context, symbol string, forceRefresh bool) (*entities.EarningsCalendar, error) {
	symbol = cachepkg.NormalizeSymbol(symbol)
	plan := fetchPlan[entities.EarningsCalendar]{
		kind:         KindEarnings,
		symbol:       symbol,
		key:          cachepkg.BuildKey(KindEarnings, symbol),
		forceRefresh: forceRefresh,
		fetch: func(ctx context.Context) (*entities.EarningsCalendar, error) {
			events, err := s.provider.GetEarnings(ctx, symbol)
			if err != nil {
				return nil, err
			}
			return &entities.EarningsCalendar{Symbol: symbol, Events: events}, nil
		},
		synthesize: func() *entities.EarningsCalendar {
			return &entities.EarningsCalendar{
				Symbol:  symbol,
				Events:  s.generator.Earnings(symbol),
				IsMock:  true,
				Warning: fallback.DefaultWarning,
			}
		},
		markCached: func(c *entities.EarningsCalendar) { c.FromCache = true },
		markStale: func(c *entities.EarningsCalendar) {
			c.FromCache = true
			c.Warning = staleWarning
		},
	}
	return resolve(ctx, s, plan)
}
