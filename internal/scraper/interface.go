package scraper

import (
	"context"
	"errors"

	"github.com/jimezsa/internhunt/internal/models"
)

var (
	ErrLoginFailed = errors.New("login rejected")
	ErrNoDocument  = errors.New("no document")
)

// Scraper is one source adapter. Search may return an error; callers are
// expected to run it behind engine.Guard, which turns failures into zero
// postings.
type Scraper interface {
	Name() string
	Search(ctx context.Context, params models.SearchParams) ([]models.JobPosting, error)
}
