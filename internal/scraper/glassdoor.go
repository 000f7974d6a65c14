package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/jimezsa/internhunt/internal/models"
	"github.com/jimezsa/internhunt/internal/network"
	"github.com/rs/zerolog"
)

var glassdoorLayout = cardLayout{
	source:    SourceGlassdoor,
	cards:     selectorChain{"li.react-job-listing", "li[data-test='jobListing']"},
	title:     selectorChain{"a[data-test='job-link']", "a.jobLink", "[data-test='job-title']"},
	company:   selectorChain{"a[data-test='employer-link']", "[data-test='employer-short-name']", ".jobEmployerName"},
	link:      selectorChain{"a[data-test='job-link']", "a.jobLink"},
	canonical: stripTracking,
}

type Glassdoor struct {
	client  network.Doer
	logger  zerolog.Logger
	baseURL string
}

func NewGlassdoor(client network.Doer, logger zerolog.Logger) *Glassdoor {
	return &Glassdoor{client: client, logger: logger, baseURL: "https://www.glassdoor.com"}
}

func (g *Glassdoor) Name() string {
	return SiteGlassdoor
}

func (g *Glassdoor) Search(ctx context.Context, params models.SearchParams) ([]models.JobPosting, error) {
	doc, err := fetchDocument(ctx, g.client, g.searchURL(params), nil)
	if err != nil {
		return nil, fmt.Errorf("glassdoor: %w", err)
	}

	limit := limitOrDefault(params.Limit)
	jobs := glassdoorLayout.extract(doc, g.baseURL, limit, g.logger)
	if len(jobs) == 0 {
		jobs = parseJSONLDPostings(doc, SourceGlassdoor, g.baseURL)
		for idx := range jobs {
			jobs[idx].Link = stripTracking(jobs[idx].Link)
		}
		if len(jobs) > limit {
			jobs = jobs[:limit]
		}
	}
	return jobs, nil
}

// searchURL follows the keyword path grammar:
// /jobs/internship-<skills>-jobs-in-<location>-SRCH_IL.0,14.html
func (g *Glassdoor) searchURL(params models.SearchParams) string {
	skills := strings.Join(skillSlugs(params, "-"), "-")
	location := slug(params.Location, "-")
	return fmt.Sprintf("%s/jobs/internship-%s-jobs-in-%s-SRCH_IL.0,14.html", g.baseURL, skills, location)
}
