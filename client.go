package petkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the PetKit passport server used for region discovery
	// and login before a regional gateway is resolved.
	DefaultBaseURL = "https://passport.petkt.com"

	// ChinaBaseURL is the dedicated gateway for accounts in the China region.
	ChinaBaseURL = "https://api.petkit.cn/6"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRegion is used when no region is configured.
	DefaultRegion = "de"

	// DefaultTimezone is used when no timezone is configured.
	DefaultTimezone = "Europe/Berlin"
)

// Client impersonation constants sent with every request; the vendor API
// rejects requests that do not look like the official Android app.
const (
	apiVersion     = "12.4.9"
	clientPlatform = "android"
	clientOSVer    = "15.1"
	clientModel    = "23127PN0CG"
	clientSource   = "app.petkit-android"
	clientBrand    = "Xiaomi"
	userAgent      = "okhttp/3.14.19"
)

// RetryConfig configures automatic retry behavior for transient failures.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (default: 4).
	MaxRetries int
	// InitialBackoff is the initial backoff duration (default: 1s).
	InitialBackoff time.Duration
	// MaxBackoff is the maximum backoff duration (default: 16s).
	MaxBackoff time.Duration
	// Multiplier is the backoff multiplier (default: 2.0).
	Multiplier float64
}

// DefaultRetryConfig returns sensible retry defaults.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:     4,
		InitialBackoff: time.Second,
		MaxBackoff:     16 * time.Second,
		Multiplier:     2.0,
	}
}

// Client is a PetKit API client. It owns the per-account entity map that a
// refresh cycle populates; the map is safe for concurrent access.
type Client struct {
	username string
	password string
	region   string
	timezone string
	location *time.Location

	baseURL     string
	passportURL string
	httpClient  *http.Client
	retryConfig *RetryConfig
	batchConfig *BatchConfig
	logger      *slog.Logger
	media       MediaFetcher

	session   *SessionInfo
	sessionMu sync.RWMutex

	accounts []AccountData

	entities map[int64]Entity
	entityMu sync.RWMutex

	// Explicit dispatch tables, built once at construction.
	payloads map[payloadType]payloadSpec
	actions  map[DeviceAction]actionSpec

	videoCache Cache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL, bypassing region server discovery.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP request timeout.
// This option can be applied in any order relative to other options.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// WithRetry overrides the automatic retry configuration.
// Retries are attempted on server-busy responses, timeouts and 5xx statuses.
func WithRetry(config *RetryConfig) Option {
	return func(c *Client) {
		c.retryConfig = config
	}
}

// WithBatchConfig overrides the concurrency limit for fetch batches.
func WithBatchConfig(config *BatchConfig) Option {
	return func(c *Client) {
		c.batchConfig = config
	}
}

// WithMediaFetcher sets the collaborator that downloads cloud media for
// camera-equipped devices. Without one, media operations are skipped.
func WithMediaFetcher(fetcher MediaFetcher) Option {
	return func(c *Client) {
		c.media = fetcher
	}
}

// NewClient creates a new PetKit API client for the given account.
// Region and timezone fall back to DefaultRegion and DefaultTimezone when
// empty. Returns ErrEmptyUsername or ErrEmptyPassword on missing credentials.
func NewClient(username, password, region, timezone string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrEmptyUsername
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if strings.TrimSpace(region) == "" {
		region = DefaultRegion
	}
	if strings.TrimSpace(timezone) == "" {
		timezone = DefaultTimezone
	}

	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("petkit: invalid timezone %q: %w", timezone, err)
	}

	c := &Client{
		username: username,
		password: password,
		region:   strings.ToLower(region),
		timezone: timezone,
		location: location,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				DisableKeepAlives:   false,
			},
		},
		passportURL: DefaultBaseURL,
		retryConfig: DefaultRetryConfig(),
		batchConfig: DefaultBatchConfig(),
		entities:    make(map[int64]Entity),
		payloads:    defaultPayloads(),
		actions:     defaultActions(),
		videoCache:  NewMemoryCache(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// baseHeaders builds the vendor headers sent with every request.
func (c *Client) baseHeaders() map[string]string {
	return map[string]string{
		"Accept":          "*/*",
		"Accept-Language": "en-US;q=1, it-US;q=0.9",
		"Accept-Encoding": "gzip, deflate",
		"Content-Type":    "application/x-www-form-urlencoded",
		"User-Agent":      userAgent,
		"X-Img-Version":   "1",
		"X-Locale":        "en-US",
		"X-Client":        fmt.Sprintf("%s(%s;%s)", clientPlatform, clientOSVer, clientModel),
		"X-Hour":          "24",
		"X-TimezoneId":    c.timezone,
		"X-Api-Version":   apiVersion,
		"X-Timezone":      c.timezoneOffset(),
	}
}

// timezoneOffset returns the configured timezone's current UTC offset in
// hours, formatted the way the vendor app sends it (e.g. "2.0").
func (c *Client) timezoneOffset() string {
	_, seconds := time.Now().In(c.location).Zone()
	return fmt.Sprintf("%.1f", float64(seconds)/3600)
}

// todayDate returns the current day in the client's timezone as yyyymmdd,
// the format record and stat endpoints expect.
func (c *Client) todayDate() string {
	return time.Now().In(c.location).Format("20060102")
}

// buildURL joins a relative path onto the base URL. Absolute URLs (cloud
// video and playlist key lookups) pass through unchanged.
func (c *Client) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// do performs one HTTP request against the vendor API and decodes the
// {result, error} envelope. When authed is true the session headers are
// attached, logging in first if necessary.
func (c *Client) do(ctx context.Context, method, path string, query, form url.Values, authed bool) (json.RawMessage, error) {
	var extra map[string]string
	if authed {
		headers, err := c.sessionHeaders(ctx)
		if err != nil {
			return nil, err
		}
		extra = headers
	}
	return c.doRequest(ctx, method, path, query, form, extra)
}

// doRequest performs the request with explicit extra headers. Query
// parameters and form data are both form-encoded, matching the official app.
func (c *Client) doRequest(ctx context.Context, method, path string, query, form url.Values, extra map[string]string) (json.RawMessage, error) {
	reqURL := c.buildURL(path)
	if encoded := query.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range c.baseHeaders() {
		req.Header.Set(k, v)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	for k, v := range extra {
		req.Header.Set(k, v)
	}

	c.logDebug(ctx, "api_request",
		slog.String("method", method),
		slog.String("url", reqURL),
		slog.String("request_id", requestID),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logDebug(ctx, "api_response",
		slog.String("method", method),
		slog.String("url", reqURL),
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	return c.handleEnvelope(resp.StatusCode, respBody, reqURL)
}

// handleEnvelope maps HTTP statuses and vendor error codes to errors and
// extracts the result payload.
func (c *Client) handleEnvelope(statusCode int, body []byte, url string) (json.RawMessage, error) {
	if statusCode >= 400 {
		return nil, &HTTPStatusError{StatusCode: statusCode, URL: url}
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code int    `json:"code"`
			Msg  string `json:"msg"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v (body: %s)", ErrInvalidResponseFormat, err, truncatePreview(body))
	}

	if envelope.Error != nil {
		switch envelope.Error.Code {
		case apiCodeServerBusy:
			return nil, fmt.Errorf("%w: %s", ErrServerBusy, envelope.Error.Msg)
		case apiCodeSessionExpired:
			return nil, fmt.Errorf("%w: %s", ErrSessionExpired, envelope.Error.Msg)
		case apiCodeAuthFailed:
			return nil, fmt.Errorf("%w: %s", ErrAuthenticationFailed, envelope.Error.Msg)
		case apiCodeUnregisteredEmail:
			return nil, ErrUnregisteredEmail
		default:
			return nil, &APIError{Code: envelope.Error.Code, Message: envelope.Error.Msg, URL: url}
		}
	}

	if envelope.Result != nil {
		return envelope.Result, nil
	}

	return nil, fmt.Errorf("%w (body: %s)", ErrInvalidResponseFormat, truncatePreview(body))
}

// doWithRetry performs a request with automatic retry on transient failures.
func (c *Client) doWithRetry(ctx context.Context, method, path string, query, form url.Values, authed bool) (json.RawMessage, error) {
	if c.retryConfig == nil {
		return c.do(ctx, method, path, query, form, authed)
	}

	var lastErr error
	backoff := c.retryConfig.InitialBackoff

	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		data, err := c.do(ctx, method, path, query, form, authed)
		if err == nil {
			return data, nil
		}

		// Only retry on transient errors
		if !c.isRetryable(err) {
			return nil, err
		}

		lastErr = err

		if attempt < c.retryConfig.MaxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff = time.Duration(float64(backoff) * c.retryConfig.Multiplier)
				if backoff > c.retryConfig.MaxBackoff {
					backoff = c.retryConfig.MaxBackoff
				}
			}
		}
	}

	return nil, lastErr
}

// isRetryable returns true if the error is a transient failure worth retrying.
func (c *Client) isRetryable(err error) bool {
	if IsServerBusy(err) {
		return true
	}
	if IsTimeout(err) {
		return true
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		// Retry on 5xx server errors
		return statusErr.StatusCode >= 500 && statusErr.StatusCode < 600
	}
	return false
}

// getResult performs an authenticated GET and returns the envelope result.
func (c *Client) getResult(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.doWithRetry(ctx, http.MethodGet, path, query, nil, true)
}

// postResult performs an authenticated POST with query parameters and
// returns the envelope result.
func (c *Client) postResult(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.doWithRetry(ctx, http.MethodPost, path, query, nil, true)
}

// postForm performs an authenticated POST with a form body and returns the
// envelope result.
func (c *Client) postForm(ctx context.Context, path string, form url.Values) (json.RawMessage, error) {
	return c.doWithRetry(ctx, http.MethodPost, path, nil, form, true)
}

// rawGet performs an authenticated GET for a non-envelope resource (m3u8
// playlists, AES keys) and returns the raw body.
func (c *Client) rawGet(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(rawURL), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range c.baseHeaders() {
		req.Header.Set(k, v)
	}
	sessionHeaders, err := c.sessionHeaders(ctx)
	if err != nil {
		return nil, err
	}
	for k, v := range sessionHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	return io.ReadAll(resp.Body)
}
