package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"stock-data-service/internal/domain/interfaces"
	"stock-data-service/internal/infrastructure/logging"
	"stock-data-service/internal/infrastructure/provider/yahoo"
)

// Valid chart parameters, matching the upstream chart endpoint.
var (
	validRanges = map[string]bool{
		"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true,
		"1y": true, "2y": true, "5y": true, "max": true,
	}
	validIntervals = map[string]bool{
		"1m": true, "5m": true, "15m": true, "30m": true, "1h": true,
		"1d": true, "1wk": true, "1mo": true,
	}
	symbolPattern = regexp.MustCompile(`^[A-Za-z0-9.\-^=]{1,12}$`)
)

const maxBatchSymbols = 25

// MarketHandler exposes the market data endpoints. It only parses and
// validates parameters; policy lives in the service.
type MarketHandler struct {
	service interfaces.MarketService
}

// NewMarketHandler creates the market data handler.
func NewMarketHandler(service interfaces.MarketService) *MarketHandler {
	return &MarketHandler{service: service}
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// GetQuote godoc
// @Summary Get a stock quote
// @Description Returns the latest quote for one symbol. Degraded data carries from_cache / is_mock / warning markers instead of an error status.
// @Tags market
// @Accept json
// @Produce json
// @Param symbol query string true "Ticker symbol" example(AAPL)
// @Param refresh query bool false "Bypass the cache and fetch fresh data"
// @Success 200 {object} entities.Quote
// @Failure 400 {object} handlers.errorResponse "Invalid symbol"
// @Router /api/v1/quote [get]
func (h *MarketHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	symbol, ok := h.requireSymbol(w, r, "symbol")
	if !ok {
		return
	}

	quote, err := h.service.GetQuote(r.Context(), symbol, wantsRefresh(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, quote)
}

// GetQuotes godoc
// @Summary Get a batch of stock quotes
// @Description Returns quotes for a comma-separated symbol list. Symbols that cannot be fetched degrade individually.
// @Tags market
// @Accept json
// @Produce json
// @Param symbols query string true "Comma-separated ticker symbols" example(AAPL,MSFT)
// @Param refresh query bool false "Bypass the cache and fetch fresh data"
// @Success 200 {array} entities.Quote
// @Failure 400 {object} handlers.errorResponse "No valid symbols"
// @Router /api/v1/quotes [get]
func (h *MarketHandler) GetQuotes(w http.ResponseWriter, r *http.Request) {
	raw := strings.Split(r.URL.Query().Get("symbols"), ",")
	symbols := make([]string, 0, len(raw))
	for _, symbol := range raw {
		symbol = strings.TrimSpace(symbol)
		if symbol == "" {
			continue
		}
		if !symbolPattern.MatchString(symbol) {
			h.writeError(w, http.StatusBadRequest, "INVALID_PARAMETER", "invalid symbol: "+symbol)
			return
		}
		symbols = append(symbols, symbol)
	}
	if len(symbols) == 0 {
		h.writeError(w, http.StatusBadRequest, "INVALID_PARAMETER", "symbols parameter is required")
		return
	}
	if len(symbols) > maxBatchSymbols {
		h.writeError(w, http.StatusBadRequest, "INVALID_PARAMETER", "too many symbols, max is "+strconv.Itoa(maxBatchSymbols))
		return
	}

	quotes, err := h.service.GetQuotes(r.Context(), symbols, wantsRefresh(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, quotes)
}

// GetHistory godoc
// @Summary Get historical bars
// @Description Returns OHLCV bars for a symbol over the requested range and interval.
// @Tags market
// @Accept json
// @Produce json
// @Param symbol query string true "Ticker symbol" example(AAPL)
// @Param range query string false "Bar range" Enums(1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, max) default(1mo)
// @Param interval query string false "Bar interval" Enums(1m, 5m, 15m, 30m, 1h, 1d, 1wk, 1mo) default(1d)
// @Param refresh query bool false "Bypass the cache and fetch fresh data"
// @Success 200 {object} entities.History
// @Failure 400 {object} handlers.errorResponse "Invalid symbol, range or interval"
// @Router /api/v1/history [get]
func (h *MarketHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	symbol, ok := h.requireSymbol(w, r, "symbol")
	if !ok {
		return
	}

	rng := r.URL.Query().Get("range")
	if rng == "" {
		rng = "1mo"
	}
	if !validRanges[rng] {
		h.writeError(w, http.StatusBadRequest, "INVALID_PARAMETER", "invalid range: "+rng)
		return
	}

	interval := r.URL.Query().Get("interval")
	if interval == "" {
		interval = "1d"
	}
	if !validIntervals[interval] {
		h.writeError(w, http.StatusBadRequest, "INVALID_PARAMETER", "invalid interval: "+interval)
		return
	}

	history, err := h.service.GetHistory(r.Context(), symbol, rng, interval, wantsRefresh(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, history)
}

// GetSummary godoc
// @Summary Get a company summary
// @Description Returns the requested summary modules for a symbol. Unknown module names are dropped; summaries are never fabricated, so upstream exhaustion is an error.
// @Tags market
// @Accept json
// @Produce json
// @Param symbol query string true "Ticker symbol" example(AAPL)
// @Param modules query string false "Comma-separated module names" default(price,summaryDetail)
// @Param refresh query bool false "Bypass the cache and fetch fresh data"
// @Success 200 {object} entities.Summary
// @Failure 400 {object} handlers.errorResponse "Invalid symbol or no valid modules"
// @Failure 502 {object} handlers.errorResponse "Upstream exhausted and summaries must not be fabricated"
// @Router /api/v1/summary [get]
func (h *MarketHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	symbol, ok := h.requireSymbol(w, r, "symbol")
	if !ok {
		return
	}

	modulesParam := r.URL.Query().Get("modules")
	if modulesParam == "" {
		modulesParam = "price,summaryDetail"
	}
	modules := strings.Split(modulesParam, ",")
	for i := range modules {
		modules[i] = strings.TrimSpace(modules[i])
	}
	if len(yahoo.FilterModules(modules)) == 0 {
		h.writeError(w, http.StatusBadRequest, "INVALID_PARAMETER", "no valid modules in: "+modulesParam)
		return
	}

	summary, err := h.service.GetSummary(r.Context(), symbol, modules, wantsRefresh(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// Search godoc
// @Summary Search for symbols
// @Description Free-text symbol search.
// @Tags market
// @Accept json
// @Produce json
// @Param q query string true "Search query" example(apple)
// @Success 200 {object} entities.SearchResponse
// @Failure 400 {object} handlers.errorResponse "Missing query"
// @Router /api/v1/search [get]
func (h *MarketHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "INVALID_PARAMETER", "q parameter is required")
		return
	}

	response, err := h.service.Search(r.Context(), query, wantsRefresh(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response)
}

// GetTrending godoc
// @Summary Get trending symbols
// @Description Returns the trending symbols for a region.
// @Tags market
// @Accept json
// @Produce json
// @Param region query string false "Region code" default(US)
// @Success 200 {object} entities.TrendingList
// @Router /api/v1/trending [get]
func (h *MarketHandler) GetTrending(w http.ResponseWriter, r *http.Request) {
	trending, err := h.service.GetTrending(r.Context(), r.URL.Query().Get("region"), wantsRefresh(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, trending)
}

// GetGainers godoc
// @Summary Get daily gainers
// @Description Returns the day-gainers screener for a region.
// @Tags market
// @Accept json
// @Produce json
// @Param region query string false "Region code" default(US)
// @Param count query int false "Number of rows" default(5)
// @Success 200 {object} entities.GainersList
// @Failure 400 {object} handlers.errorResponse "Invalid count"
// @Router /api/v1/gainers [get]
func (h *MarketHandler) GetGainers(w http.ResponseWriter, r *http.Request) {
	count := 5
	if countParam := r.URL.Query().Get("count"); countParam != "" {
		parsed, err := strconv.Atoi(countParam)
		if err != nil || parsed <= 0 || parsed > 50 {
			h.writeError(w, http.StatusBadRequest, "INVALID_PARAMETER", "invalid count: "+countParam)
			return
		}
		count = parsed
	}

	gainers, err := h.service.GetDailyGainers(r.Context(), r.URL.Query().Get("region"), count, wantsRefresh(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, gainers)
}

// GetEarnings godoc
// @Summary Get an earnings calendar
// @Description Returns earnings history and upcoming report dates for a symbol.
// @Tags market
// @Accept json
// @Produce json
// @Param symbol query string true "Ticker symbol" example(AAPL)
// @Param refresh query bool false "Bypass the cache and fetch fresh data"
// @Success 200 {object} entities.EarningsCalendar
// @Failure 400 {object} handlers.errorResponse "Invalid symbol"
// @Router /api/v1/earnings [get]
func (h *MarketHandler) GetEarnings(w http.ResponseWriter, r *http.Request) {
	symbol, ok := h.requireSymbol(w, r, "symbol")
	if !ok {
		return
	}

	calendar, err := h.service.GetEarnings(r.Context(), symbol, wantsRefresh(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, calendar)
}

// requireSymbol reads and validates a symbol parameter, writing a 400 when it
// is missing or malformed.
func (h *MarketHandler) requireSymbol(w http.ResponseWriter, r *http.Request, param string) (string, bool) {
	symbol := strings.TrimSpace(r.URL.Query().Get(param))
	if symbol == "" {
		h.writeError(w, http.StatusBadRequest, "INVALID_PARAMETER", param+" parameter is required")
		return "", false
	}
	if !symbolPattern.MatchString(symbol) {
		h.writeError(w, http.StatusBadRequest, "INVALID_PARAMETER", "invalid symbol: "+symbol)
		return "", false
	}
	return symbol, true
}

// writeServiceError maps service failures onto HTTP statuses. Invalid
// parameters that slipped past handler validation are 400; everything else
// reaching here is an exhausted must-not-fabricate kind, which is the
// upstream's fault, not the caller's.
func (h *MarketHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logging.ErrorWithError(r.Context(), "Request failed", err, logging.Fields{
		"path": r.URL.Path,
	})

	if errors.Is(err, yahoo.ErrInvalidParams) {
		h.writeError(w, http.StatusBadRequest, "INVALID_PARAMETER", err.Error())
		return
	}
	h.writeError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", err.Error())
}

func (h *MarketHandler) writeError(w http.ResponseWriter, statusCode int, code, message string) {
	h.writeJSON(w, statusCode, errorResponse{
		Error:   code,
		Message: message,
		Code:    statusCode,
	})
}

func (h *MarketHandler) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_, _ = w.Write([]byte(`{"error":"ENCODING_ERROR","message":"Failed to encode response"}`))
	}
}

// wantsRefresh reads the cache bypass flag.
func wantsRefresh(r *http.Request) bool {
	refresh := strings.ToLower(r.URL.Query().Get("refresh"))
	return refresh == "true" || refresh == "1"
}
