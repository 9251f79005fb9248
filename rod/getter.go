// Package rod provides a headless-browser relay for pages that only render
// their content with JavaScript.
package rod

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/textract"
	"github.com/go-rod/rod/lib/proto"
)

// RelayID identifies the browser relay.
const RelayID = "browser"

// DefaultTimeout bounds loading and rendering one page.
const DefaultTimeout = 30 * time.Second

// DefaultMaxPages is the number of pages rendered before Chrome is restarted.
// Chrome's memory baseline grows with every page and never returns.
const DefaultMaxPages = 75

// Ensure Getter implements textract.Getter at compile time.
var _ textract.Getter = (*Getter)(nil)

// Getter renders pages in headless Chrome and returns the resulting DOM.
// Chrome is launched on the first request. Getter is safe for concurrent use.
type Getter struct {
	maxPages int
	headless bool
	timeout  time.Duration

	mu      sync.Mutex
	current *session
	closed  bool

	// launch starts a browser session. Replaced in tests.
	launch func(headless bool) (*session, error)
}

// Option configures a Getter.
type Option func(*Getter)

// WithMaxPages sets how many pages are rendered before Chrome is restarted.
func WithMaxPages(n int) Option {
	return func(g *Getter) {
		g.maxPages = n
	}
}

// WithTimeout sets how long one page may take to load.
// Defaults to DefaultTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(g *Getter) {
		g.timeout = d
	}
}

// WithHeadless controls whether Chrome runs without a window.
func WithHeadless(headless bool) Option {
	return func(g *Getter) {
		g.headless = headless
	}
}

// NewGetter creates a new Getter. Close must be called when it is no longer
// needed.
func NewGetter(opts ...Option) *Getter {
	g := &Getter{
		maxPages: DefaultMaxPages,
		headless: true,
		timeout:  DefaultTimeout,
		launch:   launch,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Relay returns a relay that loads targets directly in the browser.
func (g *Getter) Relay() textract.Relay {
	return textract.Relay{
		ID:     RelayID,
		Name:   "Headless Browser",
		Wrap:   func(target string) string { return target },
		Unwrap: textract.UnwrapBody,
		Getter: g,
	}
}

// Get navigates to url, waits for the load event and returns the rendered
// HTML. Browser and navigation failures return ERELAY.
func (g *Getter) Get(ctx context.Context, url string) (*textract.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s, err := g.session()
	if err != nil {
		return nil, err
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, textract.Errorf(textract.ERELAY, "opening page: %v", err)
	}
	defer page.Close()

	loading := page.Context(ctx)
	if g.timeout > 0 {
		loading = loading.Timeout(g.timeout)
	}
	if err := loading.Navigate(url); err != nil {
		return nil, g.relayError(ctx, "navigating to %s: %v", url, err)
	}
	if err := loading.WaitLoad(); err != nil {
		return nil, g.relayError(ctx, "loading %s: %v", url, err)
	}

	html, err := loading.HTML()
	if err != nil {
		return nil, g.relayError(ctx, "reading %s: %v", url, err)
	}

	return &textract.Response{
		URL:         url,
		StatusCode:  200,
		ContentType: "text/html",
		Body:        []byte(html),
	}, nil
}

// Close shuts Chrome down. Close is safe to call multiple times.
func (g *Getter) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closed = true
	if g.current == nil {
		return nil
	}
	err := g.current.close()
	g.current = nil
	return err
}

// LauncherPID returns the process ID of the running Chrome launcher, or 0 if
// Chrome has not been started.
func (g *Getter) LauncherPID() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return 0
	}
	return g.current.pid()
}

// session returns the current browser session, launching Chrome on first use
// and restarting it once maxPages pages were rendered. If a restart fails the
// old session keeps serving.
func (g *Getter) session() (*session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil, textract.Errorf(textract.ERELAY, "browser is closed")
	}

	if g.current == nil {
		s, err := g.launch(g.headless)
		if err != nil {
			return nil, textract.Errorf(textract.ERELAY, "%v", err)
		}
		g.current = s
	} else if g.maxPages > 0 && g.current.pages >= g.maxPages {
		if s, err := g.launch(g.headless); err == nil {
			_ = g.current.close()
			g.current = s
		}
	}

	g.current.pages++
	return g.current, nil
}

func (g *Getter) relayError(ctx context.Context, format string, args ...any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return textract.Errorf(textract.ERELAY, format, args...)
}
