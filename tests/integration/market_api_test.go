package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-data-service/internal/application/services"
	"stock-data-service/internal/domain/entities"
	"stock-data-service/internal/infrastructure/config"
	"stock-data-service/internal/infrastructure/fallback"
	"stock-data-service/internal/infrastructure/provider/yahoo"
	"stock-data-service/internal/infrastructure/ratelimit"
	cachepkg "stock-data-service/internal/infrastructure/repositories/cache"
	"stock-data-service/internal/infrastructure/retry"
	"stock-data-service/internal/infrastructure/web/handlers"
)

// upstream is a scriptable stand-in for the financial data provider. Setting
// down makes every data endpoint return 500.
type upstream struct {
	server    *httptest.Server
	down      atomic.Bool
	quoteHits atomic.Int64
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{}

	mux := http.NewServeMux()
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "A3", Value: "session-cookie"})
	})
	mux.HandleFunc("/v1/test/getcrumb", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("test-crumb"))
	})
	mux.HandleFunc("/v7/finance/quote", func(w http.ResponseWriter, r *http.Request) {
		u.quoteHits.Add(1)
		if u.down.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{
			"quoteResponse": {
				"result": [{
					"symbol": "AAPL",
					"longName": "Apple Inc.",
					"currency": "USD",
					"regularMarketPrice": 190.5,
					"regularMarketPreviousClose": 188.0,
					"regularMarketVolume": 52000000
				}],
				"error": null
			}
		}`))
	})
	mux.HandleFunc("/v10/finance/quoteSummary/AAPL", func(w http.ResponseWriter, r *http.Request) {
		if u.down.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{
			"quoteSummary": {
				"result": [{"price": {"regularMarketPrice": {"raw": 190.5}}}],
				"error": null
			}
		}`))
	})

	u.server = httptest.NewServer(mux)
	t.Cleanup(u.server.Close)
	return u
}

// newAPI wires the full service stack against the mock upstream with a tight
// retry budget so failure paths finish quickly.
func newAPI(t *testing.T, u *upstream) http.Handler {
	t.Helper()

	providerCfg := config.ProviderConfig{
		BaseURL:            u.server.URL,
		SessionURL:         u.server.URL + "/session",
		Timeout:            2 * time.Second,
		RequestTimeout:     2 * time.Second,
		RateLimitPerMinute: 100000,
	}
	client := yahoo.NewClient(providerCfg)
	retrier := retry.NewController("yahoo", 2, time.Millisecond, 2*time.Millisecond, yahoo.IsRetryable)
	store := cachepkg.NewMemoryCache()
	generator := fallback.NewWithSeed(7)

	ttls := config.KindTTLConfig{
		Quote: time.Minute, History: time.Minute, Summary: time.Minute,
		Search: time.Minute, Trending: time.Minute, Gainers: time.Minute,
		Earnings: time.Minute,
	}
	svc := services.NewMarketService(client, store, retrier, generator, ttls, true)

	marketHandler := handlers.NewMarketHandler(svc)
	healthHandler := handlers.NewHealthHandler(store, "test")
	limiter := ratelimit.NewMiddleware(config.RateLimitConfig{Enabled: false})

	return handlers.NewRouter(marketHandler, healthHandler, limiter)
}

func get(router http.Handler, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestQuoteEndToEnd(t *testing.T) {
	u := newUpstream(t)
	router := newAPI(t, u)

	rec := get(router, "/api/v1/quote?symbol=AAPL")
	require.Equal(t, http.StatusOK, rec.Code)

	var quote entities.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, 190.5, quote.Price)
	assert.False(t, quote.IsMock)
	assert.False(t, quote.FromCache)

	// Second request is served from cache without touching the upstream.
	hitsBefore := u.quoteHits.Load()
	rec = get(router, "/api/v1/quote?symbol=AAPL")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.True(t, quote.FromCache)
	assert.Equal(t, hitsBefore, u.quoteHits.Load())
}

func TestQuoteFallsBackWhenUpstreamDown(t *testing.T) {
	u := newUpstream(t)
	u.down.Store(true)
	router := newAPI(t, u)

	rec := get(router, "/api/v1/quote?symbol=TSLA")
	require.Equal(t, http.StatusOK, rec.Code)

	var quote entities.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, "TSLA", quote.Symbol)
	assert.True(t, quote.IsMock)
	assert.NotEmpty(t, quote.Warning)
	assert.Greater(t, quote.Price, 0.0)
}

func TestStaleQuotePreferredOverSynthetic(t *testing.T) {
	u := newUpstream(t)
	router := newAPI(t, u)

	// Warm the cache with real data, then force-refresh past it while the
	// upstream is down: the retained real value must win over fabrication.
	rec := get(router, "/api/v1/quote?symbol=AAPL")
	require.Equal(t, http.StatusOK, rec.Code)

	u.down.Store(true)
	rec = get(router, "/api/v1/quote?symbol=AAPL&refresh=true")
	require.Equal(t, http.StatusOK, rec.Code)

	var quote entities.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.False(t, quote.IsMock)
	assert.True(t, quote.FromCache)
	assert.Equal(t, 190.5, quote.Price)
	assert.NotEmpty(t, quote.Warning)
}

func TestSummaryUpstreamDownIsBadGateway(t *testing.T) {
	u := newUpstream(t)
	u.down.Store(true)
	router := newAPI(t, u)

	rec := get(router, "/api/v1/summary?symbol=AAPL&modules=price")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", body["error"])
}

func TestSummarySucceedsUpstreamUp(t *testing.T) {
	u := newUpstream(t)
	router := newAPI(t, u)

	rec := get(router, "/api/v1/summary?symbol=AAPL&modules=price")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary entities.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "AAPL", summary.Symbol)
	assert.Contains(t, summary.Modules, "price")
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	u := newUpstream(t)
	router := newAPI(t, u)

	rec := get(router, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(router, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(router, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stock_data")
}

func TestUnknownRouteIs404(t *testing.T) {
	u := newUpstream(t)
	router := newAPI(t, u)

	rec := get(router, "/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
