package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jimezsa/internhunt/internal/browser"
	"github.com/jimezsa/internhunt/internal/models"
	"github.com/rs/zerolog"
)

const linkedInScrolls = 3

var linkedInLayout = cardLayout{
	source: SourceLinkedIn,
	cards:  selectorChain{"div.base-card", "li.jobs-search-results__list-item", "div.job-search-card"},
	title: selectorChain{
		"h3.base-search-card__title a",
		"h4.base-search-card__title a",
		"a.job-card-list__title",
		".job-card-container__link",
		"h3.base-search-card__title",
	},
	company: selectorChain{
		"h4.base-search-card__subtitle a",
		"a.job-card-container__company-name",
		".job-card-list__company-name",
		"h4.base-search-card__subtitle",
	},
	link:      selectorChain{"a.base-card__full-link", "a[href*='/jobs/view/']"},
	canonical: stripQuery,
	filter:    hasInternKeyword,
}

// Credentials is the single account used for the scripted LinkedIn login.
type Credentials struct {
	Email    string
	Password string
}

func (c Credentials) Set() bool {
	return c.Email != "" && c.Password != ""
}

// Delays are the politeness windows used by rendered adapters.
type Delays struct {
	Login  browser.Window
	Scroll browser.Window
}

var DefaultDelays = Delays{
	Login:  browser.Window{Min: 2 * time.Second, Max: 4 * time.Second},
	Scroll: browser.Window{Min: 1 * time.Second, Max: 3 * time.Second},
}

type LinkedIn struct {
	renderer browser.Renderer
	creds    Credentials
	pause    browser.Pauser
	delays   Delays
	logger   zerolog.Logger
	baseURL  string
}

func NewLinkedIn(renderer browser.Renderer, creds Credentials, pause browser.Pauser, delays Delays, logger zerolog.Logger) *LinkedIn {
	if pause == nil {
		pause = browser.RandomDelay
	}
	return &LinkedIn{
		renderer: renderer,
		creds:    creds,
		pause:    pause,
		delays:   delays,
		logger:   logger,
		baseURL:  "https://www.linkedin.com",
	}
}

func (l *LinkedIn) Name() string {
	return SiteLinkedIn
}

func (l *LinkedIn) Search(ctx context.Context, params models.SearchParams) ([]models.JobPosting, error) {
	if l.renderer == nil {
		return nil, fmt.Errorf("linkedin: %w", browser.ErrUnavailable)
	}
	session, err := l.renderer.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("linkedin: %w", err)
	}
	defer session.Close()

	if l.creds.Set() {
		if err := l.login(ctx, session); err != nil {
			return nil, fmt.Errorf("linkedin: %w", err)
		}
	}

	if err := session.Goto(ctx, l.searchURL(params)); err != nil {
		return nil, fmt.Errorf("linkedin: %w", err)
	}
	if err := l.pause(ctx, l.delays.Login); err != nil {
		return nil, err
	}
	for i := 0; i < linkedInScrolls; i++ {
		if err := session.ScrollToBottom(); err != nil {
			l.logger.Debug().Err(err).Str("source", SiteLinkedIn).Msg("scroll failed")
			break
		}
		if err := l.pause(ctx, l.delays.Scroll); err != nil {
			return nil, err
		}
	}

	doc, err := session.Document()
	if err != nil {
		return nil, fmt.Errorf("linkedin: %w: %v", ErrNoDocument, err)
	}
	return linkedInLayout.extract(doc, l.baseURL, limitOrDefault(params.Limit), l.logger), nil
}

// login performs one scripted sign-in attempt. Landing back on a login or
// checkpoint page means the account was challenged.
func (l *LinkedIn) login(ctx context.Context, session browser.Session) error {
	if err := session.Goto(ctx, l.baseURL+"/login"); err != nil {
		return err
	}
	if err := session.Fill("#username", l.creds.Email); err != nil {
		return err
	}
	if err := session.Fill("#password", l.creds.Password); err != nil {
		return err
	}
	if err := session.Press("#password", "Enter"); err != nil {
		return err
	}
	if err := l.pause(ctx, l.delays.Login); err != nil {
		return err
	}

	landed := strings.ToLower(session.URL())
	if strings.Contains(landed, "challenge") || strings.Contains(landed, "login") {
		return fmt.Errorf("%w: landed on %s", ErrLoginFailed, landed)
	}
	return nil
}

func (l *LinkedIn) searchURL(params models.SearchParams) string {
	values := url.Values{}
	values.Set("keywords", strings.Join(params.SkillList(), " "))
	values.Set("location", strings.TrimSpace(params.Location))
	values.Set("f_TPR", "r86400")
	values.Set("f_JT", "I")
	return l.baseURL + "/jobs/search/?" + values.Encode()
}
