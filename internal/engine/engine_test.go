package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jimezsa/internhunt/internal/models"
	"github.com/jimezsa/internhunt/internal/scraper"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScraper struct {
	name  string
	jobs  []models.JobPosting
	err   error
	panic bool
	delay time.Duration
	// deaf makes the delay ignore ctx, like a blocking driver call.
	deaf  bool
	calls atomic.Int32
}

func (s *stubScraper) Name() string { return s.name }

func (s *stubScraper) Search(ctx context.Context, _ models.SearchParams) ([]models.JobPosting, error) {
	s.calls.Add(1)
	if s.delay > 0 && s.deaf {
		time.Sleep(s.delay)
	} else if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.panic {
		panic("selector exploded")
	}
	return s.jobs, s.err
}

func postings(source string, n int) []models.JobPosting {
	out := make([]models.JobPosting, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.JobPosting{
			Title:   fmt.Sprintf("%s Intern %d", source, i),
			Company: "Co " + source,
			Link:    fmt.Sprintf("https://%s.example/jobs/%d", source, i),
			Source:  source,
		})
	}
	return out
}

func adapters(stubs ...*stubScraper) []scraper.Scraper {
	out := make([]scraper.Scraper, 0, len(stubs))
	for _, s := range stubs {
		out = append(out, s)
	}
	return out
}

var params = models.SearchParams{Skills: "python,react", Location: "Austin, TX"}

func TestFindJobsJoinsInPriorityOrder(t *testing.T) {
	a := &stubScraper{name: "a", jobs: postings("a", 2), delay: 30 * time.Millisecond}
	b := &stubScraper{name: "b"}
	c := &stubScraper{name: "c", jobs: postings("c", 3)}
	d := &stubScraper{name: "d"}
	fb := &stubScraper{name: "fallback", jobs: postings("g", 1)}

	e := New(adapters(a, b, c, d), fb, Options{}, zerolog.Nop())
	res := e.FindJobs(context.Background(), params)

	require.Len(t, res.Jobs, 5)
	assert.Equal(t, 5, res.TotalFound)
	assert.False(t, res.UsedFallback)
	assert.Equal(t, int32(0), fb.calls.Load(), "fallback must not run")
	for i, want := range []string{"a", "a", "c", "c", "c"} {
		assert.Equal(t, want, res.Jobs[i].Source, "position %d", i)
	}
	assert.Equal(t, "a Intern 0", res.Jobs[0].Title)
}

func TestFindJobsFallbackOnlyWhenEmpty(t *testing.T) {
	primary := []*stubScraper{
		{name: "a"},
		{name: "b", err: errors.New("http 403")},
		{name: "c", panic: true},
		{name: "d"},
	}
	fb := &stubScraper{name: "fallback", jobs: postings("g", 4)}

	e := New(adapters(primary...), fb, Options{}, zerolog.Nop())
	res := e.FindJobs(context.Background(), params)

	assert.True(t, res.UsedFallback)
	assert.Equal(t, int32(1), fb.calls.Load())
	assert.Len(t, res.Jobs, 4)
	assert.Equal(t, 4, res.TotalFound)
	for _, s := range primary {
		assert.Equal(t, int32(1), s.calls.Load(), "primary %s runs exactly once", s.name)
	}
}

func TestFindJobsEverythingFails(t *testing.T) {
	fb := &stubScraper{name: "fallback", err: errors.New("captcha")}
	e := New(adapters(&stubScraper{name: "a", err: errors.New("boom")}), fb, Options{}, zerolog.Nop())
	res := e.FindJobs(context.Background(), params)

	assert.NotNil(t, res.Jobs)
	assert.Empty(t, res.Jobs)
	assert.Zero(t, res.TotalFound)
	assert.True(t, res.UsedFallback)
}

func TestFindJobsCapsAndReportsTotal(t *testing.T) {
	e := New(adapters(
		&stubScraper{name: "a", jobs: postings("a", 7)},
		&stubScraper{name: "b", jobs: postings("b", 8)},
	), nil, Options{}, zerolog.Nop())
	res := e.FindJobs(context.Background(), params)

	assert.Len(t, res.Jobs, DefaultMaxResults)
	assert.Equal(t, 15, res.TotalFound)
	assert.Equal(t, "b", res.Jobs[9].Source)
}

func TestFindJobsDedupesAcrossSources(t *testing.T) {
	dup := models.JobPosting{Title: "Software Intern", Company: "Acme", Link: "https://www.linkedin.com/jobs/view/1", Source: "LinkedIn"}
	again := dup
	again.Link = "https://in.linkedin.com/jobs/view/99"
	again.Source = "LinkedIn"

	e := New(adapters(
		&stubScraper{name: "a", jobs: []models.JobPosting{dup}},
		&stubScraper{name: "b", jobs: []models.JobPosting{again, postings("b", 1)[0]}},
	), nil, Options{}, zerolog.Nop())
	res := e.FindJobs(context.Background(), params)

	require.Len(t, res.Jobs, 2)
	assert.Equal(t, dup.Link, res.Jobs[0].Link)
	assert.Equal(t, 2, res.TotalFound)

	keep := New(adapters(
		&stubScraper{name: "a", jobs: []models.JobPosting{dup}},
		&stubScraper{name: "b", jobs: []models.JobPosting{again}},
	), nil, Options{KeepDuplicates: true}, zerolog.Nop())
	assert.Equal(t, 2, keep.FindJobs(context.Background(), params).TotalFound)
}

func TestFindJobsSlowAdapterTimesOut(t *testing.T) {
	slow := &stubScraper{name: "slow", jobs: postings("s", 3), delay: time.Second}
	fast := &stubScraper{name: "fast", jobs: postings("f", 1)}

	e := New(adapters(slow, fast), nil, Options{AdapterTimeout: 20 * time.Millisecond}, zerolog.Nop())
	start := time.Now()
	res := e.FindJobs(context.Background(), params)

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, "f", res.Jobs[0].Source)
}

func TestGuardContainsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	jobs := Guard(context.Background(), &stubScraper{name: "linkedin", panic: true}, params, time.Second, logger)
	assert.Empty(t, jobs)
	assert.Contains(t, buf.String(), `"source":"linkedin"`)
	assert.Contains(t, buf.String(), `"skills":"python,react"`)
	assert.Contains(t, buf.String(), `"location":"Austin, TX"`)

	jobs = Guard(context.Background(), &stubScraper{name: "glassdoor", err: errors.New("http 403")}, params, time.Second, logger)
	assert.Empty(t, jobs)
	assert.Contains(t, buf.String(), "http 403")
}

func TestGuardCapsAndDropsInvalid(t *testing.T) {
	raw := postings("x", 37)
	raw[0].Company = ""
	jobs := Guard(context.Background(), &stubScraper{name: "x", jobs: raw}, models.SearchParams{}, time.Second, zerolog.Nop())

	require.Len(t, jobs, 10)
	assert.Equal(t, "x Intern 1", jobs[0].Title)
}

func TestFindJobsAbandonsAdapterIgnoringDeadline(t *testing.T) {
	stuck := &stubScraper{name: "stuck", jobs: postings("s", 3), delay: 300 * time.Millisecond, deaf: true}
	fast := &stubScraper{name: "fast", jobs: postings("f", 2)}

	var buf bytes.Buffer
	e := New(adapters(stuck, fast), nil, Options{AdapterTimeout: 20 * time.Millisecond}, zerolog.New(&buf))
	start := time.Now()
	res := e.FindJobs(context.Background(), params)

	assert.Less(t, time.Since(start), 200*time.Millisecond)
	require.Len(t, res.Jobs, 2)
	for _, job := range res.Jobs {
		assert.Equal(t, "f", job.Source)
	}
	assert.Contains(t, buf.String(), `"source":"stuck"`)
	assert.Contains(t, buf.String(), "deadline exceeded")
}

func TestNewClampsMaxResults(t *testing.T) {
	e := New(adapters(
		&stubScraper{name: "a", jobs: postings("a", 10)},
		&stubScraper{name: "b", jobs: postings("b", 10)},
	), nil, Options{MaxResults: 50}, zerolog.Nop())
	res := e.FindJobs(context.Background(), params)

	assert.Len(t, res.Jobs, DefaultMaxResults)
	assert.Equal(t, 20, res.TotalFound)
}
