package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
)

const (
	navigationTimeout = 30 * time.Second
	waitTimeout       = 10 * time.Second
)

// hides navigator.webdriver from the page.
const stealthScript = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`

type LaunchOptions struct {
	Headless  bool
	UserAgent string
	Disabled  bool
}

// PlaywrightManager owns one Chromium process and hands out isolated
// browser contexts as sessions.
type PlaywrightManager struct {
	opts   LaunchOptions
	logger zerolog.Logger

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewPlaywright(opts LaunchOptions, logger zerolog.Logger) *PlaywrightManager {
	return &PlaywrightManager{opts: opts, logger: logger}
}

func (pm *PlaywrightManager) start() (playwright.Browser, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.opts.Disabled {
		return nil, ErrUnavailable
	}
	if pm.browser != nil && pm.browser.IsConnected() {
		return pm.browser, nil
	}

	if pm.pw == nil {
		pw, err := playwright.Run()
		if err != nil {
			pm.logger.Warn().Err(err).Msg("playwright driver unavailable")
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		pm.pw = pw
	}

	b, err := pm.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(pm.opts.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-blink-features=AutomationControlled",
		},
	})
	if err != nil {
		pm.logger.Warn().Err(err).Msg("chromium launch failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	pm.logger.Debug().Bool("headless", pm.opts.Headless).Msg("chromium started")
	pm.browser = b
	return b, nil
}

func (pm *PlaywrightManager) Available(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	_, err := pm.start()
	return err == nil
}

func (pm *PlaywrightManager) NewSession(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := pm.start()
	if err != nil {
		return nil, err
	}

	opts := playwright.BrowserNewContextOptions{}
	if pm.opts.UserAgent != "" {
		opts.UserAgent = playwright.String(pm.opts.UserAgent)
	}
	bctx, err := b.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("new browser context: %w", err)
	}
	if err := bctx.AddInitScript(playwright.Script{Content: playwright.String(stealthScript)}); err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("install init script: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}
	return &pageSession{bctx: bctx, page: page}, nil
}

func (pm *PlaywrightManager) Close() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	var errs []string
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			errs = append(errs, err.Error())
		}
		pm.browser = nil
	}
	if pm.pw != nil {
		if err := pm.pw.Stop(); err != nil {
			errs = append(errs, err.Error())
		}
		pm.pw = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("close playwright: %s", strings.Join(errs, "; "))
	}
	return nil
}

type pageSession struct {
	bctx playwright.BrowserContext
	page playwright.Page
	once sync.Once
}

func (s *pageSession) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   timeoutMillis(ctx, navigationTimeout),
	})
	return err
}

func (s *pageSession) Fill(selector string, value string) error {
	return s.page.Locator(selector).First().Fill(value)
}

func (s *pageSession) Press(selector string, key string) error {
	return s.page.Locator(selector).First().Press(key)
}

func (s *pageSession) WaitFor(ctx context.Context, selector string) error {
	_, err := s.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		Timeout: timeoutMillis(ctx, waitTimeout),
	})
	return err
}

func (s *pageSession) URL() string {
	return s.page.URL()
}

func (s *pageSession) ScrollToBottom() error {
	_, err := s.page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	return err
}

func (s *pageSession) Document() (*goquery.Document, error) {
	content, err := s.page.Content()
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(content))
}

func (s *pageSession) Close() error {
	var err error
	s.once.Do(func() {
		err = s.bctx.Close()
	})
	return err
}
