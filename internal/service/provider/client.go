// Package provider talks to the external market-data API: daily OHLCV
// history over REST and live quotes over WebSocket.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	domsvc "TradePulse/internal/domain/service"
	xhttp "TradePulse/pkg/http"
)

// Client is the REST market-data client.
type Client struct {
	baseURL string
	apiKey  string
	http    *xhttp.Client
}

// NewClient builds a REST client with timeout and base URL from config values.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type barPayload struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type historyPayload struct {
	Symbol string       `json:"symbol"`
	Bars   []barPayload `json:"bars"`
}

// GetDailyCandles fetches daily OHLCV history for a symbol. A provider 404 or
// an empty bar list maps to ErrSymbolNotFound.
func (c *Client) GetDailyCandles(ctx context.Context, symbol string, period domrepo.Period) ([]models.Candle, error) {
	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v1/history",
		Headers: map[string]string{
			"Authorization": "Bearer " + c.apiKey,
		},
		QueryParams: map[string][]string{
			"symbol":   {symbol},
			"period":   {string(period)},
			"interval": {"1d"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch history %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domsvc.ErrSymbolNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("history %s: status %d: %s", symbol, resp.StatusCode, b)
	}

	var payload historyPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode history %s: %w", symbol, err)
	}
	if len(payload.Bars) == 0 {
		return nil, domsvc.ErrSymbolNotFound
	}

	out := make([]models.Candle, 0, len(payload.Bars))
	for _, b := range payload.Bars {
		d, err := time.Parse("2006-01-02", b.Date)
		if err != nil {
			continue
		}
		out = append(out, models.Candle{
			Date: d, Symbol: symbol,
			Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume,
		})
	}
	if len(out) == 0 {
		return nil, domsvc.ErrSymbolNotFound
	}
	return out, nil
}

type optionQuote struct {
	Strike float64 `json:"strike"`
	Volume float64 `json:"volume"`
}

type chainPayload struct {
	Symbol string        `json:"symbol"`
	Expiry string        `json:"expiry"`
	Calls  []optionQuote `json:"calls"`
	Puts   []optionQuote `json:"puts"`
}

// GetPutCallRatio derives the nearest-expiry put/call volume ratio from the
// option chain. A missing chain or zero call volume returns nil, not an
// error: absent sentiment is a first-class state for the composite.
func (c *Client) GetPutCallRatio(ctx context.Context, symbol string) (*float64, error) {
	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v1/options/chain",
		Headers: map[string]string{
			"Authorization": "Bearer " + c.apiKey,
		},
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"expiry": {"nearest"},
		},
	})
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil
	}

	var payload chainPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, nil
	}

	var callVol, putVol float64
	for _, o := range payload.Calls {
		callVol += o.Volume
	}
	for _, o := range payload.Puts {
		putVol += o.Volume
	}
	if callVol <= 0 {
		return nil, nil
	}
	ratio := putVol / callVol
	return &ratio, nil
}

var _ domsvc.MarketDataProvider = (*Client)(nil)
