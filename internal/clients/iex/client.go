// Package iex provides a client for the IEX Cloud quote API
package iex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/stonkbot/internal/common"
	"github.com/bobmcallan/stonkbot/internal/models"
)

const (
	DefaultBaseURL   = "https://cloud.iexapis.com/stable"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 10 // requests per second
	DefaultRetries   = 3
)

// ErrPriceUnavailable wraps every quote failure mode: network errors, bad
// responses, unknown tickers. Callers degrade the affected ticker and move on.
var ErrPriceUnavailable = errors.New("price unavailable")

// Client implements the PriceClient interface against IEX Cloud.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	retries    int
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRetries sets the number of attempts for transient failures.
func WithRetries(retries int) ClientOption {
	return func(c *Client) {
		if retries > 0 {
			c.retries = retries
		}
	}
}

// NewClient creates a new IEX Cloud client
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
		retries: DefaultRetries,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("iex api error %d on %s: %s", e.StatusCode, e.Endpoint, e.Message)
}

// retryable reports whether another attempt could succeed. Client errors
// (unknown ticker, bad token) are final.
func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type quoteResponse struct {
	Symbol      string          `json:"symbol"`
	LatestPrice decimal.Decimal `json:"latestPrice"`
}

// GetPrice fetches the latest quote for a ticker. Transient failures are
// retried with exponential backoff; every terminal failure is reported as
// ErrPriceUnavailable.
func (c *Client) GetPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	ticker = models.NormalizeTicker(ticker)
	if ticker == "" {
		return decimal.Zero, fmt.Errorf("%w: empty ticker", models.ErrInvalidArgument)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 250 * time.Millisecond
	policy.MaxInterval = 2 * time.Second

	notify := func(err error, wait time.Duration) {
		c.logger.Debug().Err(err).Dur("backoff", wait).Str("ticker", ticker).Msg("Quote retry")
	}

	operation := func() (decimal.Decimal, error) {
		price, err := c.fetchQuote(ctx, ticker)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && !apiErr.retryable() {
				return decimal.Zero, backoff.Permanent(err)
			}
			return decimal.Zero, err
		}
		return price, nil
	}

	price, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(c.retries)),
		backoff.WithNotify(notify))
	if err != nil {
		c.logger.Warn().Err(err).Str("ticker", ticker).Msg("Quote failed")
		return decimal.Zero, fmt.Errorf("%w: %s: %v", ErrPriceUnavailable, ticker, err)
	}

	return price, nil
}

func (c *Client) fetchQuote(ctx context.Context, ticker string) (decimal.Decimal, error) {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := fmt.Sprintf("/stock/%s/quote", url.PathEscape(ticker))
	params := url.Values{}
	params.Set("token", c.token)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("ticker", ticker).Msg("IEX quote request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return decimal.Zero, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   endpoint,
		}
	}

	var quote quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode response: %w", err)
	}

	if !quote.LatestPrice.IsPositive() {
		return decimal.Zero, fmt.Errorf("no usable price in quote for %s", ticker)
	}

	return quote.LatestPrice, nil
}
