// Package automation wraps go-rod for catalog pages that only render
// their result list after client-side scripting has run.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Options holds common configuration for browser automation.
type Options struct {
	Headless bool
}

// BrowserSession wraps a rod browser for catalog automation workflows.
type BrowserSession struct {
	Browser *rod.Browser
	cleanup func()
}

// Close cleans up the browser session.
func (s *BrowserSession) Close() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

// NewBrowser creates a new rod browser with the given options.
func NewBrowser(opts Options) (*BrowserSession, error) {
	l := launcher.New().
		Headless(opts.Headless).
		Set("disable-gpu").
		Set("disable-sync").
		Set("mute-audio").
		Set("disable-default-apps").
		Set("no-default-browser-check")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	cleanup := func() {
		_ = browser.Close()
		l.Kill()
	}

	return &BrowserSession{
		Browser: browser,
		cleanup: cleanup,
	}, nil
}

// NavigatePage creates a new page and navigates to the given URL.
func NavigatePage(browser *rod.Browser, url string) (*rod.Page, error) {
	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed to wait for page load at %s: %w", url, err)
	}
	return page, nil
}

// WaitForSelector polls until one of the given selectors becomes
// available on the page, respecting context cancellation. Supports
// both CSS selectors and XPath selectors (prefixed with //).
func WaitForSelector(ctx context.Context, page *rod.Page, selectors []string, description string, timeout time.Duration) (string, *rod.Element, error) {
	slog.Debug("Waiting for selector", "desc", description, "selectors", strings.Join(selectors, " | "))

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		for _, sel := range selectors {
			var el *rod.Element
			var err error

			if strings.HasPrefix(sel, "//") {
				els, findErr := page.ElementsX(sel)
				if findErr == nil && len(els) > 0 {
					el = els[0]
				}
			} else {
				has, _, findErr := page.Has(sel)
				if findErr == nil && has {
					el, err = page.Element(sel)
				}
			}

			if err == nil && el != nil {
				slog.Debug("Found selector", "desc", description, "selector", sel)
				return sel, el, nil
			}
		}

		if time.Now().After(deadline) {
			url := page.MustInfo().URL
			slog.Debug("Selector timeout", "desc", description, "url", url)
			return "", nil, fmt.Errorf("timeout waiting for %s", description)
		}

		select {
		case <-ctx.Done():
			return "", nil, fmt.Errorf("selector wait canceled for %s: %w", description, ctx.Err())
		case <-ticker.C:
		}
	}
}

// PageHTML returns the rendered HTML of the page's root element.
func PageHTML(page *rod.Page) (string, error) {
	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return html, nil
}

// ScreenshotPath builds a timestamped path for a debug screenshot of
// a failed page load.
func ScreenshotPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("catalog_error_%d.png", now.Unix()))
}

// SaveScreenshot captures the page into a timestamped file under dir.
// Failures are logged, never returned; screenshots are debug aids.
func SaveScreenshot(page *rod.Page, dir string) {
	path := ScreenshotPath(dir, time.Now())
	data, err := page.Screenshot(false, nil)
	if err != nil {
		slog.Debug("Screenshot capture failed", "error", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Debug("Screenshot write failed", "path", path, "error", err)
		return
	}
	slog.Debug("Saved debug screenshot", "path", path)
}
