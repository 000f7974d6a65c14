package scraper

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/internhunt/internal/models"
	"github.com/jimezsa/internhunt/internal/network"
	"github.com/rs/zerolog"
)

// DefaultLimit caps the postings a single adapter call returns.
const DefaultLimit = 10

var internKeywords = []string{"intern", "internship", "trainee", "graduate"}

func fetchDocument(ctx context.Context, client network.Doer, target string, headers map[string]string) (*goquery.Document, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	applyHeaders(req, headers)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: http %d", ErrNoDocument, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func applyHeaders(req *fhttp.Request, headers map[string]string) {
	if headers == nil {
		headers = map[string]string{}
	}
	if _, ok := headers["accept"]; !ok {
		headers["accept"] = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	}
	if _, ok := headers["accept-language"]; !ok {
		headers["accept-language"] = "en-US,en;q=0.9"
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
}

func cleanText(value string) string {
	value = html.UnescapeString(value)
	return strings.Join(strings.Fields(value), " ")
}

func absoluteURL(base string, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

// stripQuery drops the whole query string and fragment from link. Only
// sources whose postings are identified by path alone use it.
func stripQuery(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// trackingParams are query keys that never identify a posting.
var trackingParams = map[string]bool{
	"gclid": true, "fbclid": true, "msclkid": true,
	"mc_cid": true, "mc_eid": true, "mkt_tok": true,
	"refid": true, "trackingid": true, "src": true, "guid": true,
}

// stripTracking removes analytics parameters and the fragment, keeping the
// query keys that carry the posting's identity.
func stripTracking(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	u.Fragment = ""
	q := u.Query()
	for key := range q {
		lk := strings.ToLower(key)
		if strings.HasPrefix(lk, "utm_") || trackingParams[lk] {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func isAbsoluteHTTP(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// hasInternKeyword reports whether title mentions an internship-style role.
func hasInternKeyword(title string) bool {
	title = strings.ToLower(title)
	for _, kw := range internKeywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

func limitOrDefault(limit int) int {
	if limit <= 0 || limit > DefaultLimit {
		return DefaultLimit
	}
	return limit
}

// selectorChain is an ordered list of CSS selectors; the first one that
// matches wins.
type selectorChain []string

func (c selectorChain) first(root *goquery.Selection) *goquery.Selection {
	for _, sel := range c {
		if found := root.Find(sel).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}

func (c selectorChain) all(doc *goquery.Document) *goquery.Selection {
	for _, sel := range c {
		if found := doc.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return nil
}

// cardLayout describes how one source lays out its result cards.
type cardLayout struct {
	source  string
	cards   selectorChain
	title   selectorChain
	company selectorChain
	// link is consulted when the title element carries no href.
	link selectorChain
	// href overrides link discovery entirely when set.
	href func(card *goquery.Selection, title *goquery.Selection) string

	defaultCompany string
	// canonical rewrites the resolved link, typically to drop tracking.
	canonical func(link string) string
	filter    func(title string) bool
}

// extract walks the cards in document order and returns at most limit
// postings. Cards missing a title, company or usable link are skipped.
func (l cardLayout) extract(doc *goquery.Document, base string, limit int, logger zerolog.Logger) []models.JobPosting {
	cards := l.cards.all(doc)
	if cards == nil {
		return nil
	}

	var jobs []models.JobPosting
	cards.EachWithBreak(func(idx int, card *goquery.Selection) bool {
		job, ok := l.posting(card, base)
		if !ok {
			logger.Debug().Str("source", l.source).Int("index", idx).Msg("card skipped")
			return true
		}
		if l.filter != nil && !l.filter(job.Title) {
			return true
		}
		jobs = append(jobs, job)
		return len(jobs) < limit
	})
	return jobs
}

func (l cardLayout) posting(card *goquery.Selection, base string) (models.JobPosting, bool) {
	titleSel := l.title.first(card)
	if titleSel == nil {
		return models.JobPosting{}, false
	}
	title := cleanText(titleSel.Text())

	company := l.defaultCompany
	if companySel := l.company.first(card); companySel != nil {
		if text := cleanText(companySel.Text()); text != "" {
			company = text
		}
	}
	if title == "" || company == "" {
		return models.JobPosting{}, false
	}

	var href string
	if l.href != nil {
		href = l.href(card, titleSel)
	} else {
		href = anchorHref(titleSel)
		if href == "" {
			if linkSel := l.link.first(card); linkSel != nil {
				href, _ = linkSel.Attr("href")
			}
		}
	}

	link := absoluteURL(base, href)
	if l.canonical != nil {
		link = l.canonical(link)
	}
	if !isAbsoluteHTTP(link) {
		return models.JobPosting{}, false
	}

	return models.JobPosting{
		Title:   title,
		Company: company,
		Link:    link,
		Source:  l.source,
	}, true
}

// anchorHref finds the href on s itself, inside it, or on its enclosing anchor.
func anchorHref(s *goquery.Selection) string {
	if href, ok := s.Attr("href"); ok && strings.TrimSpace(href) != "" {
		return href
	}
	if href, ok := s.Find("a[href]").First().Attr("href"); ok {
		return href
	}
	if href, ok := s.Closest("a[href]").Attr("href"); ok {
		return href
	}
	return ""
}
