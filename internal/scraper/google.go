package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/internhunt/internal/models"
	"github.com/jimezsa/internhunt/internal/network"
	"github.com/rs/zerolog"
)

// UnknownCompany stands in when a search result names no employer.
const UnknownCompany = "N/A"

var googleLayout = cardLayout{
	source:         SourceGoogle,
	cards:          selectorChain{"div.g"},
	title:          selectorChain{"h3"},
	company:        selectorChain{"span.b"},
	defaultCompany: UnknownCompany,
	href:           googleHref,
	filter:         hasInternKeyword,
}

func googleHref(card *goquery.Selection, title *goquery.Selection) string {
	href := anchorHref(title)
	if href == "" {
		href, _ = card.Find("a[href]").First().Attr("href")
	}
	return unwrapRedirect(href)
}

// unwrapRedirect returns the target of a /url?q=... result redirect.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil || u.Path != "/url" {
		return href
	}
	for _, key := range []string{"q", "url"} {
		if target := u.Query().Get(key); target != "" {
			return target
		}
	}
	return href
}

// Google is the low-precision fallback used only when every primary source
// came back empty.
type Google struct {
	client  network.Doer
	logger  zerolog.Logger
	baseURL string
}

func NewGoogle(client network.Doer, logger zerolog.Logger) *Google {
	return &Google{client: client, logger: logger, baseURL: "https://www.google.com"}
}

func (g *Google) Name() string {
	return SiteGoogle
}

func (g *Google) Search(ctx context.Context, params models.SearchParams) ([]models.JobPosting, error) {
	doc, err := fetchDocument(ctx, g.client, g.searchURL(params), nil)
	if err != nil {
		return nil, fmt.Errorf("google: %w", err)
	}
	return googleLayout.extract(doc, g.baseURL, limitOrDefault(params.Limit), g.logger), nil
}

func (g *Google) searchURL(params models.SearchParams) string {
	query := strings.Join(strings.Fields(fmt.Sprintf("internship %s in %s",
		strings.Join(params.SkillList(), " "), params.Location)), " ")
	values := url.Values{}
	values.Set("q", query)
	values.Set("hl", "en")
	values.Set("gl", "us")
	return g.baseURL + "/search?" + values.Encode()
}
