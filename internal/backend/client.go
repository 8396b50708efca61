package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ForecastBoard/internal/logger"
	"ForecastBoard/internal/marketdata"
	"ForecastBoard/internal/metrics"
	"ForecastBoard/internal/model"

	"go.uber.org/zap"
)

// maxErrorBody caps how much of a failed response body is kept in a StatusError.
const maxErrorBody = 512

// Client talks to the prediction backend over JSON/HTTP and to the market-data
// provider for ticker validation. No call is retried.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Oracle  marketdata.Oracle
}

// NewClient creates a backend client. A zero timeout keeps the HTTP client's default (none).
func NewClient(baseURL string, oracle marketdata.Oracle, timeout time.Duration, proxyURL string) *Client {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		Oracle: oracle,
	}
}

type tickerRequest struct {
	Ticker string `json:"ticker"`
}

type addResponse struct {
	Message string `json:"message"`
}

type historicalResponse struct {
	Dates []string   `json:"dates"`
	Close []*float64 `json:"close"`
}

type predictionResponse struct {
	Predictions []float64 `json:"predictions"`
}

// ListTickers returns the backend's ticker list. The returned list is never nil,
// so callers can range over it even when err is set.
func (c *Client) ListTickers(ctx context.Context) (model.TickerList, error) {
	var raw []string
	if err := c.do(ctx, http.MethodGet, "/tickers", "tickers", nil, &raw); err != nil {
		return model.TickerList{}, err
	}
	list := make(model.TickerList, 0, len(raw))
	for _, t := range raw {
		list = append(list, model.Ticker(t))
	}
	return list, nil
}

// IsValidTicker checks candidate against the market-data provider.
func (c *Client) IsValidTicker(ctx context.Context, candidate string) bool {
	return marketdata.IsValidTicker(ctx, c.Oracle, candidate)
}

// AddTicker validates candidate and, if valid, registers it with the backend.
// Duplicates are left for the backend to reject.
func (c *Client) AddTicker(ctx context.Context, candidate string) AddResult {
	ticker := model.NormalizeTicker(candidate)
	if !c.IsValidTicker(ctx, string(ticker)) {
		return AddResult{Outcome: AddInvalid, Ticker: ticker}
	}

	var resp addResponse
	if err := c.do(ctx, http.MethodPost, "/add", "add", tickerRequest{Ticker: string(ticker)}, &resp); err != nil {
		return AddResult{Outcome: AddTransportFailure, Ticker: ticker, Err: err}
	}
	msg := resp.Message
	if msg == "" {
		msg = fmt.Sprintf("Ticker %s added", ticker)
	}
	return AddResult{Outcome: AddAdded, Ticker: ticker, Message: msg}
}

// FetchHistorical returns the backend's historical closes for ticker, oldest first.
// An empty dates list yields ErrNoData rather than a zero-length series.
func (c *Client) FetchHistorical(ctx context.Context, ticker model.Ticker) (*model.HistoricalSeries, error) {
	var raw historicalResponse
	path := "/historical_data/" + url.PathEscape(string(ticker))
	if err := c.do(ctx, http.MethodGet, path, "historical_data", nil, &raw); err != nil {
		return nil, err
	}
	if len(raw.Dates) == 0 {
		return nil, fmt.Errorf("historical data for %s: %w", ticker, ErrNoData)
	}
	if len(raw.Dates) != len(raw.Close) {
		return nil, fmt.Errorf("%w: %d dates but %d closes", ErrMalformed, len(raw.Dates), len(raw.Close))
	}

	hist := &model.HistoricalSeries{
		Dates: make([]time.Time, len(raw.Dates)),
		Close: make([]float64, len(raw.Close)),
	}
	for i, d := range raw.Dates {
		t, err := ParseDate(d)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if raw.Close[i] == nil {
			return nil, fmt.Errorf("%w: null close at %s", ErrMalformed, d)
		}
		hist.Dates[i] = t
		hist.Close[i] = *raw.Close[i]
	}
	hist.SortChronologically()
	return hist, nil
}

// FetchPredictions returns the backend's forecast for ticker.
func (c *Client) FetchPredictions(ctx context.Context, ticker model.Ticker) (model.PredictionSeries, error) {
	var raw predictionResponse
	if err := c.do(ctx, http.MethodPost, "/predict", "predict", tickerRequest{Ticker: string(ticker)}, &raw); err != nil {
		return nil, err
	}
	if len(raw.Predictions) == 0 {
		return nil, fmt.Errorf("predictions for %s: %w", ticker, ErrNoData)
	}
	preds := model.PredictionSeries(raw.Predictions)
	if err := preds.Validate(); err != nil {
		return nil, err
	}
	return preds, nil
}

// do performs one JSON request. in is encoded as the body when non-nil; out receives the decoded response.
func (c *Client) do(ctx context.Context, method, path, endpoint string, in, out any) (err error) {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.BackendRequests.WithLabelValues(endpoint, status).Inc()
		metrics.BackendRequestDuration.WithLabelValues(endpoint, status).Observe(time.Since(start).Seconds())
		if err != nil {
			logger.Log.Warn("backend request failed",
				zap.String("method", method), zap.String("path", path), zap.Error(err))
		}
	}()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", endpoint, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Endpoint: method + " " + path, Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrMalformed)
		}
		return fmt.Errorf("%w: decode %s: %v", ErrMalformed, endpoint, err)
	}
	return nil
}
