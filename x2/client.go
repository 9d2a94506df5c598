package x2

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/elnormous/contenttype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/s0up4200/x2rest/sanitize"
)

var jsonMediaType = contenttype.NewMediaType("application/json")

// Client represents an X2 CRM REST API client
type Client struct {
	baseURL    string
	user       string
	apiKey     string
	httpClient HTTPDoer
	purify     bool
	sanitizer  sanitize.Sanitizer
	userAgent  string
	now        func() time.Time
	logger     zerolog.Logger
}

// NewClient creates a new X2 client. baseURL is the API root, for example
// https://crm.example.com/index.php/api2.
func NewClient(baseURL, user, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: x2 URL is required", ErrInvalidConfig)
	}
	if user == "" {
		return nil, fmt.Errorf("%w: x2 API user is required", ErrInvalidConfig)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: x2 API key is required", ErrInvalidConfig)
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid x2 URL: %v", ErrInvalidConfig, err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: o.timeout}
	}
	if o.sanitizer == nil {
		o.sanitizer = sanitize.New()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		user:       user,
		apiKey:     apiKey,
		httpClient: o.httpClient,
		purify:     o.purify,
		sanitizer:  o.sanitizer,
		userAgent:  o.userAgent,
		now:        o.now,
		logger:     logger,
	}, nil
}

// Purify reports whether string values are sanitized before writes
func (c *Client) Purify() bool {
	return c.purify
}

// TestConnection checks the URL and credentials by fetching the dropdown
// catalog, which every X2 user can read.
func (c *Client) TestConnection(ctx context.Context) error {
	var raw []Entity
	return c.doRequest(ctx, http.MethodGet, "dropdowns", nil, nil, &raw)
}

// doRequest performs an authenticated JSON request. body, when non-nil, is
// encoded as the request body; out, when non-nil, receives the decoded
// response.
func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, body, out any) error {
	endpoint := c.baseURL + "/" + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.SetBasicAuth(c.user, c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("took", time.Since(start)).
		Msg("X2 API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(data),
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "" {
		if mt := contenttype.NewMediaType(ct); !mt.Matches(jsonMediaType) {
			return &DecodeError{Path: path, ContentType: ct, Err: fmt.Errorf("expected a JSON response")}
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Path: path, ContentType: ct, Err: err}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, params, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.doRequest(ctx, http.MethodPut, path, nil, body, out)
}

// purifyValue sanitizes string values when purifying is enabled; every
// other value passes through.
func (c *Client) purifyValue(value any) any {
	s, ok := value.(string)
	if !c.purify || !ok {
		return value
	}
	return c.sanitizer.Sanitize(s)
}

func entityPath(entity string, id int64) string {
	return fmt.Sprintf("%s/%d", url.PathEscape(entity), id)
}
