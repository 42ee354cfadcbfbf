// Package coingecko fetches coin quotes from the CoinGecko public API
package coingecko

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/raykavin/coinbot/pkg/core"
	"github.com/raykavin/coinbot/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	DefaultTimeout = 10 * time.Second

	pricePath  = "market_data.current_price.usd"
	changePath = "market_data.price_change_percentage_24h"

	// responses beyond this size are not coin documents
	maxBodySize = 8 << 20
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=coingecko -destination=mock_http_client_test.go -source=coingecko.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements core.PriceSource on top of GET /coins/{id}
type Client struct {
	baseURL    string
	httpClient HTTPClient
	header     http.Header
	log        logger.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API base URL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client used for requests
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout uses a dedicated http.Client with the given timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithHeader adds headers sent with every request, eg: x-cg-demo-api-key
func WithHeader(header http.Header) Option {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// New creates a CoinGecko client
func New(log logger.Logger, options ...Option) *Client {
	client := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		header:     http.Header{"Accept": []string{"application/json"}},
		log:        log,
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// Name implements core.PriceSource
func (c *Client) Name() string {
	return "coingecko"
}

// FetchPrice implements core.PriceSource. Every failure is logged and reported as ok == false.
func (c *Client) FetchPrice(ctx context.Context, symbol core.Symbol) (core.PriceQuote, bool) {
	quote, err := c.fetch(ctx, symbol)
	if err != nil {
		c.log.WithError(err).WithField("symbol", symbol).Warn("failed to fetch coin price")
		return core.PriceQuote{}, false
	}

	return quote, true
}

func (c *Client) fetch(ctx context.Context, symbol core.Symbol) (core.PriceQuote, error) {
	endpoint := fmt.Sprintf("%s/coins/%s", c.baseURL, url.PathEscape(symbol.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return core.PriceQuote{}, fmt.Errorf("%w: build request: %v", core.ErrPriceFetchFailed, err)
	}
	for key, values := range c.header {
		req.Header[key] = values
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return core.PriceQuote{}, fmt.Errorf("%w: %v", core.ErrPriceFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return core.PriceQuote{}, fmt.Errorf("%w: unexpected status %s", core.ErrPriceFetchFailed, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return core.PriceQuote{}, fmt.Errorf("%w: read body: %v", core.ErrPriceFetchFailed, err)
	}

	return parseQuote(body)
}

// parseQuote extracts the USD price and 24h change, ignoring any other field
func parseQuote(body []byte) (core.PriceQuote, error) {
	if !gjson.ValidBytes(body) {
		return core.PriceQuote{}, fmt.Errorf("%w: invalid json", core.ErrPriceFetchFailed)
	}

	price, err := decimalAt(body, pricePath)
	if err != nil {
		return core.PriceQuote{}, err
	}

	change, err := decimalAt(body, changePath)
	if err != nil {
		return core.PriceQuote{}, err
	}

	return core.PriceQuote{Price: price, Change24h: change}, nil
}

func decimalAt(body []byte, path string) (decimal.Decimal, error) {
	result := gjson.GetBytes(body, path)
	if result.Type != gjson.Number {
		return decimal.Zero, fmt.Errorf("%w: %s is missing or not a number", core.ErrPriceFetchFailed, path)
	}

	// Raw keeps the exact digits sent by the API
	value, err := decimal.NewFromString(result.Raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", core.ErrPriceFetchFailed, path, err)
	}

	return value, nil
}
