package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/jimezsa/internhunt/internal/models"
	"github.com/jimezsa/internhunt/internal/scraper"
	"github.com/rs/zerolog"
)

type searchOutcome struct {
	jobs []models.JobPosting
	err  error
}

// Guard runs one adapter under its own deadline. Whatever happens inside,
// errors and panics included, the caller gets a slice of at most limit
// valid postings and nothing else. An adapter that ignores ctx is abandoned
// once the deadline passes and its late results are discarded.
func Guard(ctx context.Context, s scraper.Scraper, params models.SearchParams, timeout time.Duration, logger zerolog.Logger) []models.JobPosting {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// Buffered so an abandoned adapter can still finish and exit.
	done := make(chan searchOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- searchOutcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		raw, err := s.Search(ctx, params)
		done <- searchOutcome{jobs: raw, err: err}
	}()

	var raw []models.JobPosting
	select {
	case out := <-done:
		if out.err != nil {
			logFailure(logger, s.Name(), params, out.err)
			return nil
		}
		raw = out.jobs
	case <-ctx.Done():
		logFailure(logger, s.Name(), params, fmt.Errorf("abandoned: %w", ctx.Err()))
		return nil
	}

	limit := params.Limit
	if limit <= 0 {
		limit = scraper.DefaultLimit
	}
	jobs := make([]models.JobPosting, 0, min(len(raw), limit))
	for _, job := range raw {
		if !job.Valid() {
			continue
		}
		jobs = append(jobs, job)
		if len(jobs) == limit {
			break
		}
	}
	return jobs
}

func logFailure(logger zerolog.Logger, source string, params models.SearchParams, err error) {
	logger.Warn().
		Err(err).
		Str("source", source).
		Str("skills", params.Skills).
		Str("location", params.Location).
		Msg("adapter failed")
}
