package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/internhunt/internal/browser"
	"github.com/jimezsa/internhunt/internal/models"
	"github.com/jimezsa/internhunt/internal/network"
	"github.com/rs/zerolog"
)

var indeedRenderedLayout = cardLayout{
	source:  SourceIndeed,
	cards:   selectorChain{"div[data-jk]", ".job_seen_beacon"},
	title:   selectorChain{"h2.jobTitle a", "h2 a[data-jk]", "h2.jobTitle"},
	company: selectorChain{"span.companyName", ".companyName", "[data-testid='company-name']"},
	href:    indeedHref,
}

var indeedStaticLayout = cardLayout{
	source:  SourceIndeed,
	cards:   selectorChain{"div[data-jk]"},
	title:   selectorChain{"h2.jobTitle"},
	company: selectorChain{"span.companyName"},
	href:    indeedHref,
}

// indeedHref prefers the canonical viewjob link built from the job key over
// the click-tracking href on the title.
func indeedHref(card *goquery.Selection, title *goquery.Selection) string {
	jk, ok := card.Attr("data-jk")
	if !ok || strings.TrimSpace(jk) == "" {
		jk, ok = card.Find("a[data-jk]").First().Attr("data-jk")
	}
	if ok && strings.TrimSpace(jk) != "" {
		return "/viewjob?jk=" + url.QueryEscape(strings.TrimSpace(jk))
	}
	return anchorHref(title)
}

// Indeed renders the search page in a browser and degrades to a plain
// HTTP fetch when no render session can be created.
type Indeed struct {
	renderer browser.Renderer
	client   network.Doer
	pause    browser.Pauser
	delays   Delays
	logger   zerolog.Logger
	baseURL  string
}

func NewIndeed(renderer browser.Renderer, client network.Doer, pause browser.Pauser, delays Delays, logger zerolog.Logger) *Indeed {
	if pause == nil {
		pause = browser.RandomDelay
	}
	return &Indeed{
		renderer: renderer,
		client:   client,
		pause:    pause,
		delays:   delays,
		logger:   logger,
		baseURL:  "https://www.indeed.com",
	}
}

func (i *Indeed) Name() string {
	return SiteIndeed
}

func (i *Indeed) Search(ctx context.Context, params models.SearchParams) ([]models.JobPosting, error) {
	if i.renderer == nil {
		return i.searchStatic(ctx, params)
	}

	session, err := i.renderer.NewSession(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		i.logger.Info().Err(err).Str("source", SiteIndeed).Msg("render session unavailable, using static fetch")
		return i.searchStatic(ctx, params)
	}
	defer session.Close()

	if err := session.Goto(ctx, i.searchURL(params)); err != nil {
		return nil, fmt.Errorf("indeed: %w", err)
	}
	if err := session.WaitFor(ctx, indeedRenderedLayout.cards[0]); err != nil {
		i.logger.Debug().Err(err).Str("source", SiteIndeed).Msg("cards did not appear")
	}
	if err := session.ScrollToBottom(); err == nil {
		if err := i.pause(ctx, i.delays.Scroll); err != nil {
			return nil, err
		}
	}

	doc, err := session.Document()
	if err != nil {
		return nil, fmt.Errorf("indeed: %w: %v", ErrNoDocument, err)
	}
	return indeedRenderedLayout.extract(doc, i.baseURL, limitOrDefault(params.Limit), i.logger), nil
}

func (i *Indeed) searchStatic(ctx context.Context, params models.SearchParams) ([]models.JobPosting, error) {
	if i.client == nil {
		return nil, errors.New("indeed: no http client")
	}
	doc, err := fetchDocument(ctx, i.client, i.searchURL(params), nil)
	if err != nil {
		return nil, fmt.Errorf("indeed: %w", err)
	}

	limit := limitOrDefault(params.Limit)
	jobs := indeedStaticLayout.extract(doc, i.baseURL, limit, i.logger)
	if len(jobs) == 0 {
		jobs = parseJSONLDPostings(doc, SourceIndeed, i.baseURL)
		if len(jobs) > limit {
			jobs = jobs[:limit]
		}
	}
	return jobs, nil
}

func (i *Indeed) searchURL(params models.SearchParams) string {
	skills := append(params.SkillList(), "internship")
	location := strings.Join(strings.Fields(params.Location), " ")
	return fmt.Sprintf("%s/jobs?q=%s&l=%s", i.baseURL, plusJoin(skills...), url.QueryEscape(location))
}
