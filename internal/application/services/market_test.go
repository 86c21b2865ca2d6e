package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-data-service/internal/domain/entities"
	"stock-data-service/internal/domain/interfaces"
	"stock-data-service/internal/infrastructure/config"
	"stock-data-service/internal/infrastructure/fallback"
	"stock-data-service/internal/infrastructure/provider/yahoo"
	cachepkg "stock-data-service/internal/infrastructure/repositories/cache"
	"stock-data-service/internal/infrastructure/retry"
)

// stubProvider is a programmable MarketProvider for service tests.
type stubProvider struct {
	mu sync.Mutex

	failWith error
	delay    time.Duration

	quoteCalls    int
	batchCalls    int
	historyCalls  int
	summaryCalls  int
	searchCalls   int
	trendingCalls int
	gainersCalls  int
	earningsCalls int

	lastBatchSymbols []string
}

func (p *stubProvider) block() error {
	p.mu.Lock()
	failWith := p.failWith
	delay := p.delay
	p.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	return failWith
}

func (p *stubProvider) setFailure(err error) {
	p.mu.Lock()
	p.failWith = err
	p.mu.Unlock()
}

func (p *stubProvider) GetQuote(ctx context.Context, symbol string) (*entities.Quote, error) {
	p.mu.Lock()
	p.quoteCalls++
	p.mu.Unlock()
	if err := p.block(); err != nil {
		return nil, err
	}
	return entities.NewQuote(symbol, 100.0, 98.0, 1000, 1e9, "USD"), nil
}

func (p *stubProvider) GetQuotes(ctx context.Context, symbols []string) ([]*entities.Quote, error) {
	p.mu.Lock()
	p.batchCalls++
	p.lastBatchSymbols = append([]string(nil), symbols...)
	p.mu.Unlock()
	if err := p.block(); err != nil {
		return nil, err
	}
	quotes := make([]*entities.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		quotes = append(quotes, entities.NewQuote(symbol, 100.0, 98.0, 1000, 1e9, "USD"))
	}
	return quotes, nil
}

func (p *stubProvider) GetHistory(ctx context.Context, symbol, rng, interval string) (*entities.History, error) {
	p.mu.Lock()
	p.historyCalls++
	p.mu.Unlock()
	if err := p.block(); err != nil {
		return nil, err
	}
	return &entities.History{
		Meta:   entities.HistoryMeta{Symbol: symbol, Range: rng, Interval: interval, Currency: "USD"},
		Points: []entities.HistoryPoint{{Timestamp: time.Now(), Open: 99, High: 101, Low: 98, Close: 100, Volume: 500}},
	}, nil
}

func (p *stubProvider) GetSummary(ctx context.Context, symbol string, modules []string) (*entities.Summary, error) {
	p.mu.Lock()
	p.summaryCalls++
	p.mu.Unlock()
	if err := p.block(); err != nil {
		return nil, err
	}
	return &entities.Summary{Symbol: symbol, Modules: map[string]json.RawMessage{"price": json.RawMessage(`{}`)}}, nil
}

func (p *stubProvider) Search(ctx context.Context, query string, limit int) ([]*entities.SearchResult, error) {
	p.mu.Lock()
	p.searchCalls++
	p.mu.Unlock()
	if err := p.block(); err != nil {
		return nil, err
	}
	return []*entities.SearchResult{{Symbol: "AAPL", Name: "Apple Inc."}}, nil
}

func (p *stubProvider) GetTrending(ctx context.Context, region string, count int) ([]string, error) {
	p.mu.Lock()
	p.trendingCalls++
	p.mu.Unlock()
	if err := p.block(); err != nil {
		return nil, err
	}
	return []string{"NVDA", "TSLA"}, nil
}

func (p *stubProvider) GetDailyGainers(ctx context.Context, region string, count int) ([]*entities.Gainer, error) {
	p.mu.Lock()
	p.gainersCalls++
	p.mu.Unlock()
	if err := p.block(); err != nil {
		return nil, err
	}
	return []*entities.Gainer{{Symbol: "XYZ", Name: "XYZ Corp", Price: 10, ChangePercent: 12}}, nil
}

func (p *stubProvider) GetEarnings(ctx context.Context, symbol string) ([]*entities.EarningsEvent, error) {
	p.mu.Lock()
	p.earningsCalls++
	p.mu.Unlock()
	if err := p.block(); err != nil {
		return nil, err
	}
	return []*entities.EarningsEvent{{Date: time.Now().AddDate(0, 1, 0), EPSEstimate: 1.5}}, nil
}

const testAttempts = 3

func newTestService(provider interfaces.MarketProvider, ttls config.KindTTLConfig, fallbackEnabled bool) (interfaces.MarketService, interfaces.Cache) {
	cache := cachepkg.NewMemoryCache()
	retrier := retry.NewController("yahoo", testAttempts, time.Millisecond, 2*time.Millisecond, yahoo.IsRetryable)
	service := NewMarketService(provider, cache, retrier, fallback.NewWithSeed(1), ttls, fallbackEnabled)
	return service, cache
}

func defaultTTLs() config.KindTTLConfig {
	return config.KindTTLConfig{
		Quote:    time.Minute,
		History:  time.Minute,
		Summary:  time.Minute,
		Search:   time.Minute,
		Trending: time.Minute,
		Gainers:  time.Minute,
		Earnings: time.Minute,
	}
}

func TestMarketService_GetQuote_ColdFetchThenWarmHit(t *testing.T) {
	provider := &stubProvider{}
	service, _ := newTestService(provider, defaultTTLs(), true)
	ctx := context.Background()

	first, err := service.GetQuote(ctx, "aapl", false)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", first.Symbol)
	assert.False(t, first.FromCache)
	assert.False(t, first.IsMock)

	second, err := service.GetQuote(ctx, "AAPL", false)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Price, second.Price)

	// The warm hit never touched the provider.
	assert.Equal(t, 1, provider.quoteCalls)
}

func TestMarketService_GetQuote_UpstreamDownServesSynthetic(t *testing.T) {
	provider := &stubProvider{failWith: yahoo.ErrRetryableRequest}
	service, _ := newTestService(provider, defaultTTLs(), true)

	quote, err := service.GetQuote(context.Background(), "AAPL", false)

	require.NoError(t, err)
	assert.True(t, quote.IsMock)
	assert.NotEmpty(t, quote.Warning)
	assert.Greater(t, quote.Price, 0.0)
	assert.Equal(t, testAttempts, provider.quoteCalls)
}

func TestMarketService_GetQuote_StaleBeatsSynthetic(t *testing.T) {
	provider := &stubProvider{}
	ttls := defaultTTLs()
	ttls.Quote = 30 * time.Millisecond
	service, _ := newTestService(provider, ttls, true)
	ctx := context.Background()

	real, err := service.GetQuote(ctx, "AAPL", false)
	require.NoError(t, err)
	require.False(t, real.IsMock)

	// Let the entry expire but stay inside the stale window, then kill the
	// provider.
	time.Sleep(50 * time.Millisecond)
	provider.setFailure(yahoo.ErrRetryableRequest)

	degraded, err := service.GetQuote(ctx, "AAPL", false)

	require.NoError(t, err)
	assert.False(t, degraded.IsMock, "retained real value must win over synthetic")
	assert.True(t, degraded.FromCache)
	assert.NotEmpty(t, degraded.Warning)
	assert.Equal(t, real.Price, degraded.Price)
}

func TestMarketService_GetQuote_NonRetryableFailsFast(t *testing.T) {
	provider := &stubProvider{failWith: yahoo.ErrNonRetryable}
	service, _ := newTestService(provider, defaultTTLs(), true)

	quote, err := service.GetQuote(context.Background(), "AAPL", false)

	require.NoError(t, err)
	assert.True(t, quote.IsMock)
	// Non-retryable outcome consumes exactly one attempt.
	assert.Equal(t, 1, provider.quoteCalls)
}

func TestMarketService_GetQuote_ForceRefreshBypassesCache(t *testing.T) {
	provider := &stubProvider{}
	service, _ := newTestService(provider, defaultTTLs(), true)
	ctx := context.Background()

	_, err := service.GetQuote(ctx, "AAPL", false)
	require.NoError(t, err)

	refreshed, err := service.GetQuote(ctx, "AAPL", true)
	require.NoError(t, err)

	assert.False(t, refreshed.FromCache)
	assert.Equal(t, 2, provider.quoteCalls)

	// The forced fetch overwrote the cache entry.
	cached, err := service.GetQuote(ctx, "AAPL", false)
	require.NoError(t, err)
	assert.True(t, cached.FromCache)
	assert.Equal(t, 2, provider.quoteCalls)
}

func TestMarketService_GetQuote_ConcurrentRequestsShareOneFlight(t *testing.T) {
	provider := &stubProvider{delay: 50 * time.Millisecond}
	service, _ := newTestService(provider, defaultTTLs(), true)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			quote, err := service.GetQuote(context.Background(), "AAPL", false)
			assert.NoError(t, err)
			assert.NotNil(t, quote)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, provider.quoteCalls)
}

func TestMarketService_GetQuote_FallbackIsCachedForQuotes(t *testing.T) {
	provider := &stubProvider{failWith: yahoo.ErrRetryableRequest}
	service, _ := newTestService(provider, defaultTTLs(), true)
	ctx := context.Background()

	first, err := service.GetQuote(ctx, "AAPL", false)
	require.NoError(t, err)
	require.True(t, first.IsMock)
	callsAfterFirst := provider.quoteCalls

	second, err := service.GetQuote(ctx, "AAPL", false)
	require.NoError(t, err)
	assert.True(t, second.IsMock)
	assert.True(t, second.FromCache)
	// The cached synthetic quote absorbed the second request.
	assert.Equal(t, callsAfterFirst, provider.quoteCalls)
}

func TestMarketService_GetHistory_FallbackIsNotCached(t *testing.T) {
	provider := &stubProvider{failWith: yahoo.ErrRetryableRequest}
	service, _ := newTestService(provider, defaultTTLs(), true)
	ctx := context.Background()

	first, err := service.GetHistory(ctx, "AAPL", "1mo", "1d", false)
	require.NoError(t, err)
	require.True(t, first.IsMock)
	callsAfterFirst := provider.historyCalls

	// History fallback is never cached, so a recovered provider is consulted
	// on the very next request.
	provider.setFailure(nil)
	second, err := service.GetHistory(ctx, "AAPL", "1mo", "1d", false)
	require.NoError(t, err)
	assert.False(t, second.IsMock)
	assert.Greater(t, provider.historyCalls, callsAfterFirst)
}

func TestMarketService_GetHistory_OHLCShapeSurvivesFallback(t *testing.T) {
	provider := &stubProvider{failWith: yahoo.ErrRetryableRequest}
	service, _ := newTestService(provider, defaultTTLs(), true)

	history, err := service.GetHistory(context.Background(), "AAPL", "1mo", "1d", false)

	require.NoError(t, err)
	require.NotEmpty(t, history.Points)
	assert.Equal(t, "AAPL", history.Meta.Symbol)
	assert.Equal(t, "1mo", history.Meta.Range)
	for _, point := range history.Points {
		assert.LessOrEqual(t, point.Low, point.Open)
		assert.GreaterOrEqual(t, point.High, point.Close)
	}
}

func TestMarketService_GetSummary_ExhaustionIsAnError(t *testing.T) {
	provider := &stubProvider{failWith: yahoo.ErrRetryableRequest}
	service, _ := newTestService(provider, defaultTTLs(), true)

	_, err := service.GetSummary(context.Background(), "AAPL", []string{"price"}, false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "AAPL")
	assert.Contains(t, err.Error(), "summary")
	assert.Equal(t, testAttempts, provider.summaryCalls)
}

func TestMarketService_GetSummary_StaleStillServedAfterExpiry(t *testing.T) {
	provider := &stubProvider{}
	ttls := defaultTTLs()
	ttls.Summary = 30 * time.Millisecond
	service, _ := newTestService(provider, ttls, true)
	ctx := context.Background()

	_, err := service.GetSummary(ctx, "AAPL", []string{"price"}, false)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	provider.setFailure(yahoo.ErrRetryableRequest)

	summary, err := service.GetSummary(ctx, "AAPL", []string{"price"}, false)

	require.NoError(t, err)
	assert.True(t, summary.FromCache)
	assert.NotEmpty(t, summary.Warning)
	assert.Contains(t, summary.Modules, "price")
}

func TestMarketService_GetSummary_ModuleOrderDoesNotChangeKey(t *testing.T) {
	provider := &stubProvider{}
	service, _ := newTestService(provider, defaultTTLs(), true)
	ctx := context.Background()

	_, err := service.GetSummary(ctx, "AAPL", []string{"price", "financialData"}, false)
	require.NoError(t, err)

	summary, err := service.GetSummary(ctx, "AAPL", []string{"financialData", "price"}, false)
	require.NoError(t, err)

	assert.True(t, summary.FromCache)
	assert.Equal(t, 1, provider.summaryCalls)
}

func TestMarketService_GetQuotes_PartialCacheHitFetchesOnlyMissing(t *testing.T) {
	provider := &stubProvider{}
	service, _ := newTestService(provider, defaultTTLs(), true)
	ctx := context.Background()

	_, err := service.GetQuote(ctx, "AAPL", false)
	require.NoError(t, err)

	quotes, err := service.GetQuotes(ctx, []string{"AAPL", "MSFT"}, false)

	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, 1, provider.batchCalls)
	assert.Equal(t, []string{"MSFT"}, provider.lastBatchSymbols)

	bySymbol := map[string]*entities.Quote{}
	for _, quote := range quotes {
		bySymbol[quote.Symbol] = quote
	}
	assert.True(t, bySymbol["AAPL"].FromCache)
	assert.False(t, bySymbol["MSFT"].FromCache)
}

func TestMarketService_GetQuotes_UpstreamDownDegradesEverySymbol(t *testing.T) {
	provider := &stubProvider{failWith: yahoo.ErrRetryableRequest}
	service, _ := newTestService(provider, defaultTTLs(), true)

	quotes, err := service.GetQuotes(context.Background(), []string{"AAPL", "MSFT"}, false)

	require.NoError(t, err)
	require.Len(t, quotes, 2)
	for _, quote := range quotes {
		assert.True(t, quote.IsMock)
		assert.NotEmpty(t, quote.Warning)
	}
}

func TestMarketService_GetQuotes_DeduplicatesSymbols(t *testing.T) {
	provider := &stubProvider{}
	service, _ := newTestService(provider, defaultTTLs(), true)

	quotes, err := service.GetQuotes(context.Background(), []string{"AAPL", "aapl", " AAPL "}, false)

	require.NoError(t, err)
	assert.Len(t, quotes, 1)
}

func TestMarketService_Search_FallbackCarriesMarkers(t *testing.T) {
	provider := &stubProvider{failWith: yahoo.ErrRetryableRequest}
	service, _ := newTestService(provider, defaultTTLs(), true)

	response, err := service.Search(context.Background(), "apple", false)

	require.NoError(t, err)
	assert.True(t, response.IsMock)
	assert.NotEmpty(t, response.Warning)
	assert.NotEmpty(t, response.Results)
	assert.Equal(t, "apple", response.Query)
}

func TestMarketService_GetTrending_FallbackDisabledReturnsError(t *testing.T) {
	provider := &stubProvider{failWith: yahoo.ErrRetryableRequest}
	service, _ := newTestService(provider, defaultTTLs(), false)

	_, err := service.GetTrending(context.Background(), "US", false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "trending")
}

func TestMarketService_GetDailyGainers_SuccessThenCacheHit(t *testing.T) {
	provider := &stubProvider{}
	service, _ := newTestService(provider, defaultTTLs(), true)
	ctx := context.Background()

	first, err := service.GetDailyGainers(ctx, "us", 5, false)
	require.NoError(t, err)
	require.Len(t, first.Gainers, 1)
	assert.Equal(t, "US", first.Region)

	second, err := service.GetDailyGainers(ctx, "US", 5, false)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, 1, provider.gainersCalls)
}

func TestMarketService_GetEarnings_FallbackIsForwardPlaceholder(t *testing.T) {
	provider := &stubProvider{failWith: yahoo.ErrRetryableRequest}
	service, _ := newTestService(provider, defaultTTLs(), true)

	calendar, err := service.GetEarnings(context.Background(), "AAPL", false)

	require.NoError(t, err)
	assert.True(t, calendar.IsMock)
	require.NotEmpty(t, calendar.Events)
	assert.True(t, calendar.Events[0].Date.After(time.Now()))
}

func TestMarketService_EmptyPayloadIsRetried(t *testing.T) {
	provider := &stubProvider{failWith: fmt.Errorf("wrapped: %w", yahoo.ErrEmptyPayload)}
	service, _ := newTestService(provider, defaultTTLs(), true)

	quote, err := service.GetQuote(context.Background(), "AAPL", false)

	require.NoError(t, err)
	assert.True(t, quote.IsMock)
	assert.Equal(t, testAttempts, provider.quoteCalls)
}
