package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/jimezsa/internhunt/internal/models"
	"github.com/jimezsa/internhunt/internal/network"
	"github.com/rs/zerolog"
)

var internshalaLayout = cardLayout{
	source:    SourceInternshala,
	cards:     selectorChain{"div.internship_details", "div.individual_internship"},
	title:     selectorChain{"a.view_detail_button", "h3.job-internship-name a", ".profile a"},
	company:   selectorChain{"a.company_name", ".company_name", "p.company-name"},
	canonical: stripQuery,
}

type Internshala struct {
	client  network.Doer
	logger  zerolog.Logger
	baseURL string
}

func NewInternshala(client network.Doer, logger zerolog.Logger) *Internshala {
	return &Internshala{client: client, logger: logger, baseURL: "https://internshala.com"}
}

func (i *Internshala) Name() string {
	return SiteInternshala
}

func (i *Internshala) Search(ctx context.Context, params models.SearchParams) ([]models.JobPosting, error) {
	doc, err := fetchDocument(ctx, i.client, i.searchURL(params), nil)
	if err != nil {
		return nil, fmt.Errorf("internshala: %w", err)
	}
	return internshalaLayout.extract(doc, i.baseURL, limitOrDefault(params.Limit), i.logger), nil
}

// searchURL builds /internships/<location>-internship/<skill+skill>.
func (i *Internshala) searchURL(params models.SearchParams) string {
	location := slug(params.Location, "-")
	skills := strings.Join(skillSlugs(params, "-"), "+")
	return fmt.Sprintf("%s/internships/%s-internship/%s", i.baseURL, location, skills)
}
