package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ForecastBoard/internal/marketdata"
	"ForecastBoard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	tickers    []string
	historical map[string]string
	predict    string
	addStatus  int
	addCalls   atomic.Int32
	lastAdd    string
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tickers", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(f.tickers)
	})
	mux.HandleFunc("POST /add", func(w http.ResponseWriter, r *http.Request) {
		f.addCalls.Add(1)
		var req tickerRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.lastAdd = req.Ticker
		if f.addStatus != 0 && f.addStatus != http.StatusOK {
			w.WriteHeader(f.addStatus)
			_, _ = w.Write([]byte(`{"detail":"Ticker already exists"}`))
			return
		}
		f.tickers = append(f.tickers, req.Ticker)
		_, _ = w.Write([]byte(`{"message":"Ticker ` + req.Ticker + ` added successfully"}`))
	})
	mux.HandleFunc("GET /historical_data/{ticker}", func(w http.ResponseWriter, r *http.Request) {
		body, ok := f.historical[r.PathValue("ticker")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("POST /predict", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(f.predict))
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeBackend, oracle marketdata.Oracle) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", oracle, 5*time.Second, "")
}

func TestListTickers(t *testing.T) {
	f := &fakeBackend{tickers: []string{"AAPL", "MSFT"}}
	c := newTestClient(t, f, marketdata.NewStaticOracle())

	list, err := c.ListTickers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.TickerList{"AAPL", "MSFT"}, list)
}

func TestListTickers_BackendDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := NewClient(srv.URL, marketdata.NewStaticOracle(), 0, "")
	srv.Close()

	list, err := c.ListTickers(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	require.NotNil(t, list)
	assert.Empty(t, list)
	for range list {
		t.Fatal("expected no tickers")
	}
}

func TestListTickers_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, marketdata.NewStaticOracle(), 0, "")

	list, err := c.ListTickers(context.Background())
	assert.NotNil(t, list)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Status)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAddTicker_InvalidSkipsBackend(t *testing.T) {
	f := &fakeBackend{}
	oracle := marketdata.NewStaticOracle("AAPL")
	c := newTestClient(t, f, oracle)

	res := c.AddTicker(context.Background(), "ZZZZINVALID")
	assert.Equal(t, AddInvalid, res.Outcome)
	assert.Equal(t, model.Ticker("ZZZZINVALID"), res.Ticker)
	assert.Equal(t, int32(0), f.addCalls.Load())
	assert.Equal(t, int32(1), oracle.Calls.Load())
}

func TestAddTicker_ProviderErrorIsInvalid(t *testing.T) {
	f := &fakeBackend{}
	oracle := marketdata.NewStaticOracle("AAPL")
	oracle.Err = errors.New("rate limited")
	c := newTestClient(t, f, oracle)

	res := c.AddTicker(context.Background(), "AAPL")
	assert.Equal(t, AddInvalid, res.Outcome)
	assert.Equal(t, int32(0), f.addCalls.Load())
}

func TestAddTicker_Added(t *testing.T) {
	f := &fakeBackend{}
	c := newTestClient(t, f, marketdata.NewStaticOracle("NVDA"))

	res := c.AddTicker(context.Background(), "  nvda ")
	require.Equal(t, AddAdded, res.Outcome)
	assert.Equal(t, "Ticker NVDA added successfully", res.Message)
	assert.Equal(t, "NVDA", f.lastAdd)
	assert.Equal(t, int32(1), f.addCalls.Load())
}

func TestAddTicker_BackendRejects(t *testing.T) {
	f := &fakeBackend{addStatus: http.StatusBadRequest}
	c := newTestClient(t, f, marketdata.NewStaticOracle("AAPL"))

	res := c.AddTicker(context.Background(), "AAPL")
	require.Equal(t, AddTransportFailure, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrUnavailable)
	assert.Contains(t, res.Err.Error(), "Ticker already exists")
}

func TestFetchHistorical(t *testing.T) {
	f := &fakeBackend{historical: map[string]string{
		"AAPL": `{"dates":["2024-01-02","2024-01-01"],"close":[102,100]}`,
	}}
	c := newTestClient(t, f, marketdata.NewStaticOracle())

	hist, err := c.FetchHistorical(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, 2, hist.Len())
	assert.Equal(t, "2024-01-01", hist.Dates[0].Format("2006-01-02"))
	assert.Equal(t, []float64{100, 102}, hist.Close)
}

func TestFetchHistorical_Failures(t *testing.T) {
	f := &fakeBackend{historical: map[string]string{
		"EMPTY":    `{"dates":[],"close":[]}`,
		"MISSING":  `{}`,
		"MISMATCH": `{"dates":["2024-01-01"],"close":[1,2]}`,
		"BADDATE":  `{"dates":["yesterday"],"close":[1]}`,
		"NULLS":    `{"dates":["2024-01-01"],"close":[null]}`,
		"GARBAGE":  `not json`,
	}}
	c := newTestClient(t, f, marketdata.NewStaticOracle())

	cases := map[model.Ticker]error{
		"EMPTY":    ErrNoData,
		"MISSING":  ErrNoData,
		"MISMATCH": ErrMalformed,
		"BADDATE":  ErrMalformed,
		"NULLS":    ErrMalformed,
		"GARBAGE":  ErrMalformed,
		"UNKNOWN":  ErrUnavailable,
	}
	for ticker, want := range cases {
		hist, err := c.FetchHistorical(context.Background(), ticker)
		assert.Nil(t, hist, ticker)
		assert.ErrorIs(t, err, want, ticker)
	}
}

func TestFetchPredictions(t *testing.T) {
	f := &fakeBackend{predict: `{"predictions":[103,104,105,106,107,108,109]}`}
	c := newTestClient(t, f, marketdata.NewStaticOracle())

	preds, err := c.FetchPredictions(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Len(t, preds, model.ForecastHorizon)
	assert.Equal(t, 109.0, preds[6])
}

func TestFetchPredictions_Failures(t *testing.T) {
	cases := []struct {
		body string
		want error
	}{
		{`{"predictions":[]}`, ErrNoData},
		{`{"error":"model not trained"}`, ErrNoData},
		{`{"predictions":[1,2,3]}`, model.ErrForecastHorizon},
		{`[1,2]`, ErrMalformed},
	}
	for _, tc := range cases {
		f := &fakeBackend{predict: tc.body}
		c := newTestClient(t, f, marketdata.NewStaticOracle())

		preds, err := c.FetchPredictions(context.Background(), "AAPL")
		assert.Nil(t, preds, tc.body)
		assert.ErrorIs(t, err, tc.want, tc.body)
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{
		"2024-01-02",
		"2024-01-02T00:00:00",
		"2024-01-02 00:00:00",
		"2024-01-02T00:00:00Z",
		"2024-01-02 00:00:00-05:00",
		"Tue, 02 Jan 2024 00:00:00 GMT",
	} {
		d, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, 2, d.Day(), in)
	}
	_, err := ParseDate("02/01/2024")
	assert.Error(t, err)
}
