// Package http provides an HTTP-based implementation of textract.Getter
// used by relays to reach sources and relay services.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/textract"
)

// DefaultTimeout is the default timeout for one relay request.
// Kept consistent with rod.DefaultTimeout.
const DefaultTimeout = 30 * time.Second

// DefaultMaxBodySize caps how much of a response body is read.
const DefaultMaxBodySize = 64 << 20

// DefaultUserAgent identifies requests made by the getter.
const DefaultUserAgent = "textract/1.0"

// Ensure Getter implements textract.Getter at compile time.
var _ textract.Getter = (*Getter)(nil)

// Getter performs plain HTTP GET requests. It does not execute JavaScript.
type Getter struct {
	client      *http.Client
	timeout     time.Duration
	maxBodySize int64
	userAgent   string
}

// Option configures a Getter.
type Option func(*Getter)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(g *Getter) {
		g.timeout = d
	}
}

// WithMaxBodySize sets the largest response body accepted, in bytes.
// Defaults to DefaultMaxBodySize if not specified.
func WithMaxBodySize(n int64) Option {
	return func(g *Getter) {
		g.maxBodySize = n
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(g *Getter) {
		g.userAgent = ua
	}
}

// NewGetter creates a new HTTP-based Getter.
func NewGetter(opts ...Option) *Getter {
	g := &Getter{
		timeout:     DefaultTimeout,
		maxBodySize: DefaultMaxBodySize,
		userAgent:   DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.client = &http.Client{
		Timeout: g.timeout,
	}

	return g
}

// Get retrieves url. Non-2xx statuses and oversized bodies are returned as
// ERELAY errors.
func (g *Getter) Get(ctx context.Context, url string) (*textract.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, textract.Errorf(textract.EINVALID, "invalid request URL: %v", err)
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, textract.Errorf(textract.ERELAY, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, g.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > g.maxBodySize {
		return nil, textract.Errorf(textract.ERELAY, "response from %s exceeds %d bytes", url, g.maxBodySize)
	}

	return &textract.Response{
		URL:         url,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
