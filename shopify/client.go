package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

const (
	accessTokenHeader = "X-Shopify-Access-Token"
	requestIDHeader   = "X-Request-Id"
	myshopifySuffix   = ".myshopify.com"
)

// Client represents a Shopify Admin API client bound to a single shop
type Client struct {
	shopURL     *url.URL
	apiVersion  string
	accessToken string
	userAgent   string
	httpClient  *http.Client
	logger      zerolog.Logger
}

// Response is a successful (2xx) Admin API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// RequestID returns the X-Request-Id Shopify assigned to the call.
func (r *Response) RequestID() string {
	return r.Header.Get(requestIDHeader)
}

// NewClient creates a new Shopify client for the given shop. The shop may be given as
// "my-shop", "my-shop.myshopify.com" or a full URL.
func NewClient(shopDomain, accessToken string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	shopURL, err := NormalizeShopURL(shopDomain)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(accessToken) == "" {
		return nil, ErrMissingAccessToken
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = newHTTPClient(o, logger)
	}

	return &Client{
		shopURL:     shopURL,
		apiVersion:  o.apiVersion,
		accessToken: accessToken,
		userAgent:   o.userAgent,
		httpClient:  httpClient,
		logger:      logger,
	}, nil
}

func newHTTPClient(o clientOptions, logger zerolog.Logger) *http.Client {
	if o.retryMax == 0 {
		return &http.Client{Timeout: o.timeout}
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = o.retryMax
	rc.HTTPClient.Timeout = o.timeout
	if o.retryWait[0] > 0 {
		rc.RetryWaitMin, rc.RetryWaitMax = o.retryWait[0], o.retryWait[1]
	}
	rc.Logger = retryLogger{logger: logger}
	rc.CheckRetry = checkRetry
	// hand the last response back so it still becomes an APIError
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return rc.StandardClient()
}

type methodKey struct{}

// checkRetry retries writes only when Shopify throttled them, since a write that
// failed with a 5xx or a dropped connection may already have been applied.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if method, _ := ctx.Value(methodKey{}).(string); !isIdempotent(method) {
		return err == nil && resp != nil && resp.StatusCode == http.StatusTooManyRequests, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

func isIdempotent(method string) bool {
	switch method {
	case "", http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// NormalizeShopURL turns the accepted shop notations into https://<shop>.myshopify.com.
// Hosts with an explicit scheme other than https (test servers) are kept as given.
func NormalizeShopURL(shopDomain string) (*url.URL, error) {
	shopDomain = strings.TrimSpace(shopDomain)
	if shopDomain == "" {
		return nil, ErrMissingShopDomain
	}
	if !strings.Contains(shopDomain, "://") {
		shopDomain = "https://" + shopDomain
	}

	u, err := url.Parse(shopDomain)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid shop domain %q: %v", ErrInvalidConfig, shopDomain, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: invalid shop domain %q", ErrInvalidConfig, shopDomain)
	}

	host := strings.ToLower(u.Host)
	if !strings.ContainsAny(host, ".:") {
		host += myshopifySuffix
	}
	return &url.URL{Scheme: u.Scheme, Host: host}, nil
}

// ShopURL returns the normalized shop URL.
func (c *Client) ShopURL() string {
	return c.shopURL.String()
}

// APIVersion returns the Admin API version requests are sent to.
func (c *Client) APIVersion() string {
	return c.apiVersion
}

func (c *Client) adminRoot() string {
	return fmt.Sprintf("%s/admin/api/%s", c.shopURL.String(), c.apiVersion)
}

// ExecuteRaw sends a request and returns the raw body of a 2xx response.
// Any other status is returned as an *APIError.
func (c *Client) ExecuteRaw(ctx context.Context, method string, req *Request, body *Body) (*Response, error) {
	var reader io.Reader
	if body != nil {
		r, err := body.reader()
		if err != nil {
			return nil, err
		}
		reader = r
	}

	endpoint := req.URL(c.adminRoot())
	ctx = context.WithValue(ctx, methodKey{}, method)
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(accessTokenHeader, c.accessToken)
	httpReq.Header.Set("Accept", ContentTypeJSON)
	httpReq.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		httpReq.Header.Set("Content-Type", body.ContentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Shopify API request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := ParseErrorBody(resp.StatusCode, respBody)
		apiErr.RequestID = resp.Header.Get(requestIDHeader)
		return nil, apiErr
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

// Execute sends a request and decodes the response's rootElement into out. An empty
// rootElement decodes the whole body; a nil out skips decoding.
func (c *Client) Execute(ctx context.Context, method string, req *Request, body *Body, rootElement string, out any) error {
	resp, err := c.ExecuteRaw(ctx, method, req, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return Unwrap(resp.Body, rootElement, out)
}

// Get is Execute for GET requests.
func (c *Client) Get(ctx context.Context, req *Request, rootElement string, out any) error {
	return c.Execute(ctx, http.MethodGet, req, nil, rootElement, out)
}

// Post is Execute for POST requests.
func (c *Client) Post(ctx context.Context, req *Request, body *Body, rootElement string, out any) error {
	return c.Execute(ctx, http.MethodPost, req, body, rootElement, out)
}

// Unwrap decodes the value stored under rootElement of a JSON envelope into out.
func Unwrap(data []byte, rootElement string, out any) error {
	if rootElement == "" {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		return nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	raw, ok := envelope[rootElement]
	if !ok {
		return fmt.Errorf("%w %q", ErrMissingRootElement, rootElement)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse %q: %w", rootElement, err)
	}
	return nil
}

// retryLogger adapts zerolog to retryablehttp.LeveledLogger
type retryLogger struct {
	logger zerolog.Logger
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}

// Logger returns the client's logger so services can log with the same context.
func (c *Client) Logger() zerolog.Logger {
	return c.logger
}
