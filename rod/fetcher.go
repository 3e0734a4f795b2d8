// Package rod provides a civsearch.Fetcher backed by headless Chrome.
// Municipal sites increasingly render navigation and notices with
// JavaScript, which plain HTTP fetching misses.
package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/civsearch/civsearch"
)

// DefaultMaxPages is the number of pages fetched before the browser is
// recycled. Chrome accumulates memory under sustained load and never
// returns to its baseline, so long crawls need periodic restarts.
const DefaultMaxPages = 75

// DefaultFetchTimeout bounds a single page load.
const DefaultFetchTimeout = 30 * time.Second

var _ civsearch.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation. It owns
// the browser lifecycle and recycles the browser after maxPages fetches.
// Fetcher is safe for concurrent use.
type Fetcher struct {
	mu        sync.Mutex
	browser   *rod.Browser
	launcher  *launcher.Launcher
	pageCount int
	maxPages  int
	timeout   time.Duration
	closed    bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithMaxPages sets the number of pages fetched before browser recycling.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) { f.maxPages = n }
}

// WithFetchTimeout sets the per-page load timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// NewFetcher launches a headless Chrome browser. Close must be called when
// the Fetcher is no longer needed.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		maxPages: DefaultMaxPages,
		timeout:  DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	if err := f.launch(); err != nil {
		return nil, err
	}
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := f.acquire()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	html, err := page.HTML()
	if err != nil {
		return "", err
	}
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true
	return f.shutdown()
}

// LauncherPID returns the process ID of the browser launcher, for tests
// verifying process cleanup.
func (f *Fetcher) LauncherPID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.launcher == nil {
		return 0
	}
	return f.launcher.PID()
}

// acquire returns the live browser, recycling it when the page budget is
// spent. The page counter advances per acquire, so a failed fetch still
// counts toward recycling.
func (f *Fetcher) acquire() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, civsearch.Errorf(civsearch.EINVALID, "fetcher is closed")
	}

	if f.pageCount >= f.maxPages {
		f.recycle()
	}
	f.pageCount++
	return f.browser, nil
}

// launch starts a browser with stability flags. Must be called with mu held
// (or before the Fetcher is shared).
func (f *Fetcher) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = l
	return nil
}

// recycle swaps in a fresh browser. The old browser is kept if the new one
// fails to launch. Must be called with mu held.
func (f *Fetcher) recycle() {
	oldBrowser := f.browser
	oldLauncher := f.launcher
	f.browser = nil
	f.launcher = nil

	if err := f.launch(); err != nil {
		f.browser = oldBrowser
		f.launcher = oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	f.pageCount = 0
}

// shutdown closes the browser and kills the launcher. Must be called with
// mu held.
func (f *Fetcher) shutdown() error {
	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.launcher != nil {
		f.launcher.Kill()
		f.launcher = nil
	}
	return err
}
