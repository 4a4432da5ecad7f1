package cloudmersive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
)

// Client represents a Cloudmersive Convert API client. It is safe for
// concurrent use and its configuration never changes after NewClient.
type Client struct {
	baseURL        string
	apiKey         string
	defaultHeaders map[string]string
	cache          bool
	userAgent      string
	httpClient     *http.Client
	retryClient    *retryablehttp.Client
	logger         zerolog.Logger
	metrics        *Metrics
	now            func() time.Time
}

// NewClient creates a new Cloudmersive client. Without options it targets
// the hosted API with a 60 second timeout, caching on and cookies off.
func NewClient(opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(o.basePath), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: base path %q is not an absolute URL", ErrInvalidConfig, o.basePath)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
		if o.enableCookies {
			jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
			if err != nil {
				return nil, fmt.Errorf("failed to create cookie jar: %w", err)
			}
			httpClient.Jar = jar
		}
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = httpClient
	retryClient.RetryMax = o.maxRetries
	retryClient.RetryWaitMin = o.retryDelay
	retryClient.RetryWaitMax = 4 * o.retryDelay
	retryClient.Logger = retryLogger{logger: o.logger}
	// Hand the last response back untouched so API errors keep their body.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL:        baseURL,
		apiKey:         o.apiKey,
		defaultHeaders: o.defaultHeaders,
		cache:          o.cache,
		userAgent:      o.userAgent,
		httpClient:     httpClient,
		retryClient:    retryClient,
		logger:         o.logger,
		metrics:        o.metrics,
		now:            time.Now,
	}, nil
}

var (
	defaultMu     sync.RWMutex
	defaultClient *Client
)

// DefaultClient returns the shared client used by endpoint groups created
// without an explicit client.
func DefaultClient() *Client {
	defaultMu.RLock()
	c := defaultClient
	defaultMu.RUnlock()
	if c != nil {
		return c
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		// The defaults are always a valid configuration
		defaultClient, _ = NewClient()
	}
	return defaultClient
}

// SetDefaultClient replaces the shared client. Passing nil resets it to
// the defaults on next use.
func SetDefaultClient(c *Client) {
	defaultMu.Lock()
	defaultClient = c
	defaultMu.Unlock()
}

// orDefault resolves an optional client reference
func orDefault(c *Client) *Client {
	if c != nil {
		return c
	}
	return DefaultClient()
}

// BasePath returns the URL endpoint paths are resolved against
func (c *Client) BasePath() string {
	return c.baseURL
}

// formFile is one multipart file field
type formFile struct {
	field string
	file  File
}

// request describes a single API call
type request struct {
	method string
	path   string
	query  url.Values
	header http.Header
	files  []formFile
	body   any
}

func newFileRequest(path string, files ...formFile) (*request, error) {
	for _, ff := range files {
		if ff.file.IsEmpty() {
			return nil, fmt.Errorf("%s: %w", ff.field, ErrEmptyInput)
		}
	}
	return &request{
		method: http.MethodPost,
		path:   path,
		header: http.Header{},
		files:  files,
	}, nil
}

// setHeader sets an endpoint parameter header, skipping empty values
func (r *request) setHeader(name, value string) *request {
	if value != "" {
		r.header.Set(name, value)
	}
	return r
}

// encode serializes the request body and returns its content type
func (r *request) encode() ([]byte, string, error) {
	switch {
	case len(r.files) > 0:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for _, ff := range r.files {
			name := ff.file.Name
			if name == "" {
				name = ff.field
			}
			part, err := w.CreateFormFile(ff.field, name)
			if err != nil {
				return nil, "", fmt.Errorf("failed to create form field %s: %w", ff.field, err)
			}
			if _, err := part.Write(ff.file.Data); err != nil {
				return nil, "", fmt.Errorf("failed to write form field %s: %w", ff.field, err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
		}
		return buf.Bytes(), w.FormDataContentType(), nil
	case r.body != nil:
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request body: %w", err)
		}
		return data, "application/json", nil
	default:
		return nil, "", nil
	}
}

// doRequest performs an HTTP request with authentication and returns the raw body
func (c *Client) doRequest(ctx context.Context, r *request) ([]byte, error) {
	payload, contentType, err := r.encode()
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	for k, v := range r.query {
		query[k] = v
	}
	if r.method == http.MethodGet && !c.cache {
		query.Set("_", strconv.FormatInt(c.now().UnixMilli(), 10))
	}
	endpoint := c.baseURL + r.path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body any
	if payload != nil {
		body = payload
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range c.defaultHeaders {
		req.Header.Set(k, v)
	}
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range r.header {
		req.Header[k] = v
	}

	requestID := uuid.NewString()
	start := time.Now()
	resp, err := c.retryClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(r.path, 0, elapsed)
		c.logger.Debug().
			Err(err).
			Str("request_id", requestID).
			Str("method", r.method).
			Str("path", r.path).
			Dur("duration", elapsed).
			Msg("Cloudmersive request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.metrics.observe(r.path, resp.StatusCode, elapsed)
	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("duration", elapsed).
		Msg("Cloudmersive request completed")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp, data)
	}

	return data, nil
}

// decode performs the request and unmarshals the JSON answer into out
func (c *Client) decode(ctx context.Context, r *request, out any) error {
	data, err := c.doRequest(ctx, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// doResult decodes a result record and turns Successful=false into an
// OperationError. The record is returned in both cases.
func doResult[T any, P interface {
	*T
	succeeded
}](ctx context.Context, c *Client, op string, r *request) (P, error) {
	var out T
	p := P(&out)
	if err := c.decode(ctx, r, p); err != nil {
		return nil, err
	}
	if ok, msg := p.success(); !ok {
		return p, &OperationError{Operation: op, Message: msg}
	}
	return p, nil
}

// newAPIError builds an APIError, preferring the service's own message
func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
		Body:       string(body),
		Header:     resp.Header.Clone(),
	}

	var payload struct {
		Message      string `json:"Message"`
		ErrorMessage string `json:"ErrorMessage"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			apiErr.Message = payload.Message
		case payload.ErrorMessage != "":
			apiErr.Message = payload.ErrorMessage
		}
		return apiErr
	}

	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		apiErr.Message = text
	}
	return apiErr
}
