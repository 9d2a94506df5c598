package x2

import (
	"net/http"
	"time"

	"github.com/s0up4200/x2rest/sanitize"
)

// HTTPDoer sends a request and returns the response. *http.Client
// satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout    time.Duration
	httpClient HTTPDoer
	purify     bool
	sanitizer  sanitize.Sanitizer
	userAgent  string
	now        func() time.Time
}

func defaultOptions() clientOptions {
	return clientOptions{
		timeout:   30 * time.Second,
		purify:    true,
		userAgent: "x2rest",
		now:       time.Now,
	}
}

// WithTimeout sets the HTTP client timeout. Ignored when WithHTTPClient is
// also given.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithHTTPClient replaces the transport used for every request.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(o *clientOptions) {
		o.httpClient = doer
	}
}

// WithPurify toggles sanitizing of string field values before writes.
func WithPurify(purify bool) Option {
	return func(o *clientOptions) {
		o.purify = purify
	}
}

// WithSanitizer replaces the HTML sanitizer used when purifying.
func WithSanitizer(s sanitize.Sanitizer) Option {
	return func(o *clientOptions) {
		o.sanitizer = s
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithClock sets the time source used for action create dates.
func WithClock(now func() time.Time) Option {
	return func(o *clientOptions) {
		o.now = now
	}
}
