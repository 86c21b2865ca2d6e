package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"stock-data-service/internal/domain/entities"
	"stock-data-service/internal/infrastructure/config"
	"stock-data-service/internal/infrastructure/logging"
	"stock-data-service/internal/infrastructure/metrics"
)

const (
	serviceName = "yahoo"

	// maxBodyBytes bounds response reads so a misbehaving upstream cannot
	// exhaust memory.
	maxBodyBytes = 8 << 20

	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Client is the upstream adapter for the Yahoo Finance endpoints. Each public
// method performs exactly one logical call: the retry budget lives in the
// caller. The only internal repetition is the one-time session refresh when
// the provider rejects the crumb, which does not count against retries.
type Client struct {
	baseURL    string
	sessionURL string
	userAgent  string

	httpClient     *http.Client
	requestTimeout time.Duration
	limiter        *rate.Limiter

	mu    sync.Mutex
	crumb string
}

// NewClient builds a client from provider configuration. The cookie jar holds
// the session cookies the crumb endpoint requires.
func NewClient(cfg config.ProviderConfig) *Client {
	jar, _ := cookiejar.New(nil)

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	perSecond := float64(cfg.RateLimitPerMinute) / 60.0
	if perSecond <= 0 {
		perSecond = 1
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		sessionURL:     cfg.SessionURL,
		userAgent:      userAgent,
		requestTimeout: cfg.RequestTimeout,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
		limiter: rate.NewLimiter(rate.Limit(perSecond), cfg.RateLimitPerMinute),
	}
}

// GetQuote fetches a single normalized quote.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*entities.Quote, error) {
	quotes, err := c.GetQuotes(ctx, []string{symbol})
	if err != nil {
		return nil, err
	}
	return quotes[0], nil
}

// GetQuotes fetches a batch of quotes in one upstream call.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) ([]*entities.Quote, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: no symbols given", ErrInvalidParams)
	}

	query := url.Values{}
	query.Set("symbols", strings.Join(symbols, ","))

	var resp quoteResponse
	if err := c.getJSON(ctx, "/v7/finance/quote", query, true, &resp); err != nil {
		return nil, err
	}
	if resp.QuoteResponse.Error != nil {
		return nil, c.apiFailure("/v7/finance/quote", resp.QuoteResponse.Error)
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("%w: no quote rows for %s", ErrEmptyPayload, strings.Join(symbols, ","))
	}

	quotes := make([]*entities.Quote, 0, len(resp.QuoteResponse.Result))
	for i := range resp.QuoteResponse.Result {
		quotes = append(quotes, resp.QuoteResponse.Result[i].toQuote())
	}
	return quotes, nil
}

// GetHistory fetches historical OHLCV bars for the given range and interval.
func (c *Client) GetHistory(ctx context.Context, symbol, rng, interval string) (*entities.History, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrInvalidParams)
	}

	query := url.Values{}
	query.Set("range", rng)
	query.Set("interval", interval)
	query.Set("includePrePost", "false")

	var resp chartResponse
	endpoint := "/v8/finance/chart/" + url.PathEscape(symbol)
	if err := c.getJSON(ctx, endpoint, query, false, &resp); err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, c.apiFailure("/v8/finance/chart", resp.Chart.Error)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: no chart data for %s", ErrEmptyPayload, symbol)
	}

	history := resp.Chart.Result[0].toHistory(rng, interval)
	if len(history.Points) == 0 {
		return nil, fmt.Errorf("%w: chart for %s has no usable bars", ErrEmptyPayload, symbol)
	}
	return history, nil
}

// GetSummary fetches the allow-listed quoteSummary modules. The module list
// is filtered before the request is built; an empty filtered list fails
// without contacting upstream.
func (c *Client) GetSummary(ctx context.Context, symbol string, modules []string) (*entities.Summary, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrInvalidParams)
	}
	filtered := FilterModules(modules)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("%w: no valid modules in %v", ErrInvalidParams, modules)
	}

	raw, err := c.fetchSummaryModules(ctx, symbol, filtered)
	if err != nil {
		return nil, err
	}

	summary := &entities.Summary{
		Symbol:  symbol,
		Modules: raw,
	}

	// A partial result is still a success; the caller sees which modules the
	// provider had nothing for.
	missing := make([]string, 0)
	for _, module := range filtered {
		if _, ok := raw[module]; !ok {
			missing = append(missing, module)
		}
	}
	if len(missing) > 0 {
		summary.Warning = "provider returned no data for modules: " + strings.Join(missing, ",")
	}

	return summary, nil
}

// Search performs a free-text symbol search.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]*entities.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrInvalidParams)
	}
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", fmt.Sprintf("%d", limit))
	params.Set("newsCount", "0")

	var resp searchResponse
	if err := c.getJSON(ctx, "/v1/finance/search", params, false, &resp); err != nil {
		return nil, err
	}

	results := make([]*entities.SearchResult, 0, len(resp.Quotes))
	for i := range resp.Quotes {
		if resp.Quotes[i].Symbol == "" {
			continue
		}
		results = append(results, resp.Quotes[i].toSearchResult())
	}
	return results, nil
}

// GetTrending fetches the trending symbol list for a region.
func (c *Client) GetTrending(ctx context.Context, region string, count int) ([]string, error) {
	if region == "" {
		region = "US"
	}
	if count <= 0 {
		count = 10
	}

	params := url.Values{}
	params.Set("count", fmt.Sprintf("%d", count))

	var resp financeListResponse
	endpoint := "/v1/finance/trending/" + url.PathEscape(strings.ToUpper(region))
	if err := c.getJSON(ctx, endpoint, params, false, &resp); err != nil {
		return nil, err
	}
	if resp.Finance.Error != nil {
		return nil, c.apiFailure("/v1/finance/trending", resp.Finance.Error)
	}
	if len(resp.Finance.Result) == 0 || len(resp.Finance.Result[0].Quotes) == 0 {
		return nil, fmt.Errorf("%w: no trending symbols for region %s", ErrEmptyPayload, region)
	}

	symbols := make([]string, 0, len(resp.Finance.Result[0].Quotes))
	for _, q := range resp.Finance.Result[0].Quotes {
		if q.Symbol != "" {
			symbols = append(symbols, q.Symbol)
		}
	}
	return symbols, nil
}

// GetDailyGainers fetches the predefined day-gainers screener.
func (c *Client) GetDailyGainers(ctx context.Context, region string, count int) ([]*entities.Gainer, error) {
	if region == "" {
		region = "US"
	}
	if count <= 0 {
		count = 5
	}

	params := url.Values{}
	params.Set("scrIds", "day_gainers")
	params.Set("count", fmt.Sprintf("%d", count))
	params.Set("region", strings.ToUpper(region))

	var resp financeListResponse
	if err := c.getJSON(ctx, "/v1/finance/screener/predefined/saved", params, true, &resp); err != nil {
		return nil, err
	}
	if resp.Finance.Error != nil {
		return nil, c.apiFailure("/v1/finance/screener", resp.Finance.Error)
	}
	if len(resp.Finance.Result) == 0 || len(resp.Finance.Result[0].Quotes) == 0 {
		return nil, fmt.Errorf("%w: screener returned no gainers", ErrEmptyPayload)
	}

	gainers := make([]*entities.Gainer, 0, len(resp.Finance.Result[0].Quotes))
	for i := range resp.Finance.Result[0].Quotes {
		gainers = append(gainers, resp.Finance.Result[0].Quotes[i].toGainer())
	}
	return gainers, nil
}

// GetEarnings builds an earnings calendar from the earnings-related summary
// modules. Historical rows come from earningsHistory, forward dates from
// calendarEvents.
func (c *Client) GetEarnings(ctx context.Context, symbol string) ([]*entities.EarningsEvent, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrInvalidParams)
	}

	raw, err := c.fetchSummaryModules(ctx, symbol, earningsModules)
	if err != nil {
		return nil, err
	}

	events := make([]*entities.EarningsEvent, 0, 8)

	if data, ok := raw["earningsHistory"]; ok {
		var history earningsHistoryModule
		if err := json.Unmarshal(data, &history); err == nil {
			for _, row := range history.History {
				when := row.Quarter.Time()
				if when.IsZero() {
					continue
				}
				events = append(events, &entities.EarningsEvent{
					Date:        when,
					EPSEstimate: row.EPSEstimate.Value,
					EPSActual:   row.EPSActual.Value,
					Quarter:     row.Quarter.Fmt,
				})
			}
		}
	}

	if data, ok := raw["calendarEvents"]; ok {
		var calendar calendarEventsModule
		if err := json.Unmarshal(data, &calendar); err == nil {
			for _, date := range calendar.Earnings.EarningsDate {
				when := date.Time()
				if when.IsZero() {
					continue
				}
				events = append(events, &entities.EarningsEvent{
					Date:        when,
					EPSEstimate: calendar.Earnings.EarningsAverage.Value,
				})
			}
		}
	}

	if len(events) == 0 {
		return nil, fmt.Errorf("%w: no earnings rows for %s", ErrEmptyPayload, symbol)
	}
	return events, nil
}

// fetchSummaryModules performs the quoteSummary call shared by GetSummary and
// GetEarnings and returns the raw module map.
func (c *Client) fetchSummaryModules(ctx context.Context, symbol string, modules []string) (map[string]json.RawMessage, error) {
	params := url.Values{}
	params.Set("modules", strings.Join(modules, ","))

	var resp quoteSummaryResponse
	endpoint := "/v10/finance/quoteSummary/" + url.PathEscape(symbol)
	if err := c.getJSON(ctx, endpoint, params, true, &resp); err != nil {
		return nil, err
	}
	if resp.QuoteSummary.Error != nil {
		return nil, c.apiFailure("/v10/finance/quoteSummary", resp.QuoteSummary.Error)
	}
	if len(resp.QuoteSummary.Result) == 0 || len(resp.QuoteSummary.Result[0]) == 0 {
		return nil, fmt.Errorf("%w: no summary modules for %s", ErrEmptyPayload, symbol)
	}
	return resp.QuoteSummary.Result[0], nil
}

// getJSON performs one GET with classification and, when the session is
// rejected, a single refresh-and-replay that does not count against the
// caller's retry budget.
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, needsCrumb bool, out interface{}) error {
	err := c.doGet(ctx, endpoint, query, needsCrumb, out)
	if err == nil || !isAuthErr(err) {
		return err
	}

	logging.Warn(ctx, "Session rejected by provider, refreshing once", logging.Fields{
		"service":  serviceName,
		"endpoint": endpoint,
	})

	if refreshErr := c.refreshSession(ctx); refreshErr != nil {
		metrics.RecordSessionRefresh(false)
		return fmt.Errorf("%w: session refresh failed: %v", ErrRetryableRequest, refreshErr)
	}
	metrics.RecordSessionRefresh(true)

	err = c.doGet(ctx, endpoint, query, needsCrumb, out)
	if err != nil && isAuthErr(err) {
		// Refreshed session still rejected. Hand the attempt back to the
		// retry budget as a transient failure.
		return fmt.Errorf("%w: auth still rejected after refresh: %v", ErrRetryableRequest, err)
	}
	return err
}

// doGet issues the request and classifies the response status.
func (c *Client) doGet(ctx context.Context, endpoint string, query url.Values, needsCrumb bool, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter wait aborted: %v", ErrRetryableRequest, err)
	}

	if needsCrumb {
		crumb, err := c.ensureSession(ctx)
		if err != nil {
			return err
		}
		query = cloneValues(query)
		query.Set("crumb", crumb)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	reqURL := c.baseURL + endpoint
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to build request: %v", ErrNonRetryable, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	durationMs := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordExternalAPICall(serviceName, endpoint, 0, durationMs)
		return fmt.Errorf("%w: request to %s failed: %v", ErrRetryableRequest, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.RecordExternalAPICall(serviceName, endpoint, resp.StatusCode, durationMs)
	logging.ExternalRequest(ctx, serviceName, endpoint, durationMs, resp.StatusCode, nil)

	if err := classifyStatus(resp.StatusCode, endpoint); err != nil {
		if resp.StatusCode == http.StatusTooManyRequests {
			metrics.RecordProviderRateLimitDrop(endpoint)
		}
		return err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", ErrRetryableRequest, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %v", ErrRetryableRequest, endpoint, err)
	}
	return nil
}

// ensureSession returns the current crumb, establishing the session on first
// use.
func (c *Client) ensureSession(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.crumb != "" {
		return c.crumb, nil
	}
	if err := c.establishSession(ctx); err != nil {
		return "", err
	}
	return c.crumb, nil
}

// refreshSession drops the cached crumb and establishes a new session.
func (c *Client) refreshSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.crumb = ""
	return c.establishSession(ctx)
}

// establishSession hits the consent host to collect session cookies, then
// exchanges them for a crumb. Callers must hold c.mu.
func (c *Client) establishSession(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	cookieReq, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.sessionURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build session request: %w", err)
	}
	cookieReq.Header.Set("User-Agent", c.userAgent)

	cookieResp, err := c.httpClient.Do(cookieReq)
	if err != nil {
		return fmt.Errorf("session cookie request failed: %w", err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(cookieResp.Body, maxBodyBytes))
	_ = cookieResp.Body.Close()

	crumbCtx, cancelCrumb := context.WithTimeout(ctx, c.requestTimeout)
	defer cancelCrumb()

	crumbReq, err := http.NewRequestWithContext(crumbCtx, http.MethodGet, c.baseURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return fmt.Errorf("failed to build crumb request: %w", err)
	}
	crumbReq.Header.Set("User-Agent", c.userAgent)

	crumbResp, err := c.httpClient.Do(crumbReq)
	if err != nil {
		return fmt.Errorf("crumb request failed: %w", err)
	}
	defer func() { _ = crumbResp.Body.Close() }()

	if crumbResp.StatusCode != http.StatusOK {
		return fmt.Errorf("crumb endpoint returned HTTP %d", crumbResp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(crumbResp.Body, 4096))
	if err != nil {
		return fmt.Errorf("failed to read crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if crumb == "" || strings.Contains(crumb, "<") {
		return fmt.Errorf("crumb endpoint returned unusable body")
	}

	c.crumb = crumb
	logging.Debug(ctx, "Provider session established", logging.Fields{
		"service": serviceName,
	})
	return nil
}

// apiFailure maps an in-body provider error block onto the sentinel taxonomy.
func (c *Client) apiFailure(endpoint string, apiErr *apiError) error {
	code := strings.ToLower(apiErr.Code)
	switch {
	case strings.Contains(code, "unauthorized"), strings.Contains(code, "crumb"):
		return fmt.Errorf("%w: %s: %s", ErrAuthExpired, endpoint, apiErr.Description)
	case strings.Contains(code, "not found"), strings.Contains(code, "argument"):
		return fmt.Errorf("%w: %s: %s", ErrNonRetryable, endpoint, apiErr.Description)
	default:
		return fmt.Errorf("%w: %s: %s %s", ErrRetryableRequest, endpoint, apiErr.Code, apiErr.Description)
	}
}

func classifyStatus(status int, endpoint string) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d from %s", ErrAuthExpired, status, endpoint)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: HTTP 429 from %s", ErrRateLimited, endpoint)
	case status >= 500:
		return fmt.Errorf("%w: HTTP %d from %s", ErrRetryableRequest, status, endpoint)
	default:
		return fmt.Errorf("%w: HTTP %d from %s", ErrNonRetryable, status, endpoint)
	}
}

func isAuthErr(err error) bool {
	return errors.Is(err, ErrAuthExpired)
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v)+1)
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
