package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jimezsa/internhunt/internal/browser"
	"github.com/jimezsa/internhunt/internal/config"
	"github.com/jimezsa/internhunt/internal/engine"
	"github.com/jimezsa/internhunt/internal/network"
	"github.com/jimezsa/internhunt/internal/notify"
	"github.com/jimezsa/internhunt/internal/scraper"
	"github.com/jimezsa/internhunt/internal/store"
	"github.com/rs/zerolog"
)

const proxyBanDuration = 10 * time.Minute

type runtimeOptions struct {
	Proxies    string
	Sites      []string
	NoBrowser  bool
	MaxResults int
	// WithStore opens the candidate store; search-only runs skip it.
	WithStore bool
}

// runtime is every long-lived dependency a command may need.
type runtime struct {
	renderer *browser.PlaywrightManager
	registry map[string]scraper.Scraper
	engine   *engine.Engine
	store    store.Store
	// sms reaches the candidate; mirror copies summaries to the operator.
	sms    notify.Notifier
	mirror notify.Notifier
}

func newRuntime(ctx context.Context, c *Context, opts runtimeOptions) (*runtime, error) {
	cfg := c.Config

	client, err := newHTTPClient(cfg.Search, opts.Proxies)
	if err != nil {
		return nil, err
	}

	renderer := browser.NewPlaywright(browser.LaunchOptions{
		Headless: cfg.Browser.Headless,
		Disabled: !cfg.Browser.Enabled || opts.NoBrowser,
	}, component(c.Logger, "browser"))

	registry := scraper.Registry(scraperDeps(cfg, client, renderer, component(c.Logger, "scraper")))

	sites := opts.Sites
	if len(sites) == 0 {
		sites = cfg.Search.Sites
	}
	primary := scraper.Primary(registry, sites)
	if len(primary) == 0 {
		_ = renderer.Close()
		return nil, fmt.Errorf("no primary sites selected (known: %v)", scraper.PrimaryOrder)
	}

	rt := &runtime{
		renderer: renderer,
		registry: registry,
		engine:   engine.New(primary, registry[scraper.SiteGoogle], engineOptions(cfg.Search, opts.MaxResults), component(c.Logger, "engine")),
		store:    store.Disabled{},
		sms:      newSMS(cfg),
		mirror:   notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID),
	}

	if opts.WithStore {
		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			c.Logger.Warn().Err(err).Str("driver", cfg.Store.Driver).Msg("candidate store unavailable, continuing without it")
		} else {
			rt.store = st
		}
	}

	return rt, nil
}

func (rt *runtime) Close() error {
	return errors.Join(rt.renderer.Close(), rt.store.Close())
}

func newHTTPClient(search config.SearchConfig, proxiesFlag string) (*network.Client, error) {
	proxies, err := config.LoadProxies(proxiesFlag)
	if err != nil {
		return nil, err
	}

	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, proxyBanDuration)
		if err != nil {
			return nil, err
		}
	}

	var limiter *network.HostLimiter
	if search.HostRatePerSecond > 0 {
		limiter = network.NewHostLimiter(search.HostRatePerSecond, 2)
	}

	return network.NewClient(rotator, network.Options{
		Timeout: search.HTTPTimeout(),
		Limiter: limiter,
	})
}

func scraperDeps(cfg config.Config, client network.Doer, renderer browser.Renderer, logger zerolog.Logger) scraper.Deps {
	return scraper.Deps{
		Client:   client,
		Renderer: renderer,
		LinkedIn: scraper.Credentials{Email: cfg.LinkedIn.Email, Password: cfg.LinkedIn.Password},
		Pause:    browser.RandomDelay,
		Delays:   delaysFromConfig(cfg.Search),
		Logger:   logger,
	}
}

func delaysFromConfig(search config.SearchConfig) scraper.Delays {
	delays := scraper.DefaultDelays
	if w, ok := window(search.LoginDelayMinMs, search.LoginDelayMaxMs); ok {
		delays.Login = w
	}
	if w, ok := window(search.ScrollDelayMinMs, search.ScrollDelayMaxMs); ok {
		delays.Scroll = w
	}
	return delays
}

func window(minMs, maxMs int) (browser.Window, bool) {
	if minMs <= 0 && maxMs <= 0 {
		return browser.Window{}, false
	}
	if maxMs < minMs {
		maxMs = minMs
	}
	return browser.Window{
		Min: time.Duration(minMs) * time.Millisecond,
		Max: time.Duration(maxMs) * time.Millisecond,
	}, true
}

func engineOptions(search config.SearchConfig, maxResults int) engine.Options {
	if maxResults <= 0 {
		maxResults = search.MaxResults
	}
	return engine.Options{
		AdapterTimeout: search.AdapterTimeout(),
		MaxResults:     maxResults,
		PerSourceLimit: search.PerSourceLimit,
	}
}

func newSMS(cfg config.Config) notify.Notifier {
	return notify.NewTwilioSMS(notify.SMSConfig{
		AccountSID:    cfg.SMS.AccountSID,
		AuthToken:     cfg.SMS.AuthToken,
		From:          cfg.SMS.From,
		CountryPrefix: cfg.SMS.CountryPrefix,
	})
}

// notifiers groups every outbound channel for status reporting.
func (rt *runtime) notifiers() notify.Multi {
	return notify.Multi{rt.sms, rt.mirror}
}

func component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
