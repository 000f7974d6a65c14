package engine

import (
	"context"
	"time"

	"github.com/jimezsa/internhunt/internal/models"
	"github.com/jimezsa/internhunt/internal/scraper"
	"github.com/jimezsa/internhunt/internal/seen"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultAdapterTimeout = 45 * time.Second
	DefaultMaxResults     = 10
)

type Options struct {
	AdapterTimeout time.Duration
	MaxResults     int
	PerSourceLimit int
	// KeepDuplicates disables cross-source de-duplication.
	KeepDuplicates bool
}

// Finder is what request handlers need from the engine.
type Finder interface {
	FindJobs(ctx context.Context, params models.SearchParams) models.FindResult
}

// Engine fans a search out to the primary adapters and escalates to the
// fallback adapter only when none of them produced anything.
type Engine struct {
	primary  []scraper.Scraper
	fallback scraper.Scraper
	opts     Options
	logger   zerolog.Logger
}

func New(primary []scraper.Scraper, fallback scraper.Scraper, opts Options, logger zerolog.Logger) *Engine {
	if opts.AdapterTimeout <= 0 {
		opts.AdapterTimeout = DefaultAdapterTimeout
	}
	if opts.MaxResults <= 0 || opts.MaxResults > DefaultMaxResults {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.PerSourceLimit <= 0 {
		opts.PerSourceLimit = scraper.DefaultLimit
	}
	return &Engine{primary: primary, fallback: fallback, opts: opts, logger: logger}
}

func (e *Engine) FindJobs(ctx context.Context, params models.SearchParams) models.FindResult {
	start := time.Now()
	params.Limit = e.opts.PerSourceLimit

	perSource := make([][]models.JobPosting, len(e.primary))
	var g errgroup.Group
	for idx, s := range e.primary {
		idx, s := idx, s
		g.Go(func() error {
			perSource[idx] = Guard(ctx, s, params, e.opts.AdapterTimeout, e.logger)
			return nil
		})
	}
	_ = g.Wait()

	// Join in priority order, never completion order.
	var jobs []models.JobPosting
	counts := zerolog.Dict()
	for idx, s := range e.primary {
		jobs = append(jobs, perSource[idx]...)
		counts.Int(s.Name(), len(perSource[idx]))
	}

	usedFallback := false
	if len(jobs) == 0 && e.fallback != nil {
		usedFallback = true
		jobs = Guard(ctx, e.fallback, params, e.opts.AdapterTimeout, e.logger)
		counts.Int(e.fallback.Name(), len(jobs))
	}

	removed := 0
	if !e.opts.KeepDuplicates {
		jobs, removed = seen.Dedupe(jobs)
	}

	total := len(jobs)
	if len(jobs) > e.opts.MaxResults {
		jobs = jobs[:e.opts.MaxResults]
	}
	if jobs == nil {
		jobs = []models.JobPosting{}
	}

	e.logger.Info().
		Dict("sources", counts).
		Bool("fallback", usedFallback).
		Int("duplicates", removed).
		Int("total", total).
		Dur("took", time.Since(start)).
		Msg("search finished")

	return models.FindResult{
		Jobs:         jobs,
		TotalFound:   total,
		UsedFallback: usedFallback,
	}
}
