package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jimezsa/internhunt/internal/config"
	"github.com/jimezsa/internhunt/internal/export"
	"github.com/jimezsa/internhunt/internal/models"
	"github.com/jimezsa/internhunt/internal/seen"
	"github.com/muesli/termenv"
)

type SearchCmd struct {
	Skills string `arg:"" help:"Comma-separated skills, e.g. \"python,react\"."`
	SearchOptions
}

type SearchOptions struct {
	Location   string `help:"Preferred location." required:"" env:"INTERNHUNT_DEFAULT_LOCATION"`
	Sites      string `help:"Comma-separated primary sites (default: all)."`
	Limit      int    `help:"Maximum postings returned (capped at 10)."`
	NoBrowser  bool   `name:"no-browser" help:"Skip rendered sources; Indeed falls back to plain HTTP."`
	Format     string `help:"Output format: table, csv, json, md, tsv." enum:",table,csv,json,md,tsv" default:""`
	Links      string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output     string `name:"output" short:"o" help:"Write output to a file."`
	Proxies    string `help:"Comma-separated proxy URLs." env:"INTERNHUNT_PROXIES"`
	Seen       string `help:"Path to seen postings JSON file."`
	History    bool   `help:"Use the history file in the config directory as --seen."`
	NewOnly    bool   `help:"Output only unseen postings (requires --seen)."`
	NewOut     string `help:"Write unseen postings JSON to a file (requires --seen)."`
	SeenUpdate bool   `help:"Merge unseen postings into the --seen file after the search."`
}

func (s *SearchCmd) Run(ctx *Context) error {
	return runSearch(ctx, s.Skills, s.SearchOptions)
}

func runSearch(ctx *Context, skills string, opts SearchOptions) error {
	if opts.History && strings.TrimSpace(opts.Seen) == "" {
		path, err := config.HistoryPath()
		if err != nil {
			return err
		}
		opts.Seen = path
	}
	if err := validateSeenFlags(opts); err != nil {
		return err
	}

	params := models.SearchParams{Skills: strings.TrimSpace(skills), Location: strings.TrimSpace(opts.Location)}
	if len(params.SkillList()) == 0 {
		return fmt.Errorf("at least one skill is required")
	}
	if params.Location == "" {
		return fmt.Errorf("--location is required")
	}

	outputPath := strings.TrimSpace(opts.Output)
	if err := checkDistinctPaths(outputPath, opts.NewOut, opts.Seen); err != nil {
		return err
	}
	format, err := resolveFormat(ctx, opts, outputPath)
	if err != nil {
		return err
	}

	bg := context.Background()
	rt, err := newRuntime(bg, ctx, runtimeOptions{
		Proxies:    opts.Proxies,
		Sites:      splitSites(opts.Sites),
		NoBrowser:  opts.NoBrowser,
		MaxResults: opts.Limit,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			ctx.Logger.Debug().Err(err).Msg("runtime close")
		}
	}()

	stopIndicator := startSearchIndicator(ctx)
	searchCtx, cancel := context.WithTimeout(bg, ctx.Config.Search.RequestTimeout())
	result := rt.engine.FindJobs(searchCtx, params)
	cancel()
	if stopIndicator != nil {
		stopIndicator()
	}

	jobs := result.Jobs
	var unseenJobs []models.JobPosting
	if strings.TrimSpace(opts.Seen) != "" {
		seenJobs, err := seen.ReadJobsAllowMissing(opts.Seen)
		if err != nil {
			return fmt.Errorf("read --seen: %w", err)
		}
		unseenJobs, _ = seen.Diff(jobs, seenJobs)
	}

	outputJobs := jobs
	if opts.NewOnly {
		outputJobs = unseenJobs
	}

	if strings.TrimSpace(opts.NewOut) != "" {
		if err := seen.WriteJobs(opts.NewOut, unseenJobs); err != nil {
			return fmt.Errorf("write --new-out: %w", err)
		}
	}

	writer := ctx.Out
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled
	linkStyle := export.LinkStyleShort
	if strings.EqualFold(opts.Links, string(export.LinkStyleFull)) {
		linkStyle = export.LinkStyleFull
	}
	if err := export.WriteJobs(writer, outputJobs, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   colorEnabled && isTTY(writer),
		LinkStyle:    linkStyle,
	}); err != nil {
		return err
	}

	if opts.SeenUpdate {
		if err := updateSeenHistory(opts.Seen, unseenJobs); err != nil {
			return err
		}
	}

	summaryJobs := jobs
	if strings.TrimSpace(opts.Seen) != "" {
		summaryJobs = unseenJobs
	}
	printSearchSummary(ctx, result, summaryJobs)
	return nil
}

func validateSeenFlags(opts SearchOptions) error {
	hasSeen := strings.TrimSpace(opts.Seen) != ""
	switch {
	case opts.NewOnly && !hasSeen:
		return fmt.Errorf("--new-only requires --seen")
	case strings.TrimSpace(opts.NewOut) != "" && !hasSeen:
		return fmt.Errorf("--new-out requires --seen")
	case opts.SeenUpdate && !hasSeen:
		return fmt.Errorf("--seen-update requires --seen")
	}
	return nil
}

func checkDistinctPaths(output, newOut, seenPath string) error {
	if pathsEqual(output, newOut) {
		return fmt.Errorf("--new-out path must differ from --output")
	}
	if pathsEqual(output, seenPath) {
		return fmt.Errorf("--output path must differ from --seen")
	}
	if pathsEqual(newOut, seenPath) {
		return fmt.Errorf("--new-out path must differ from --seen")
	}
	return nil
}

func pathsEqual(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil {
		return absA == absB
	}
	return filepath.Clean(a) == filepath.Clean(b)
}

func updateSeenHistory(seenPath string, inputJobs []models.JobPosting) error {
	seenJobs, err := seen.ReadJobsAllowMissing(seenPath)
	if err != nil {
		return fmt.Errorf("read --seen: %w", err)
	}
	merged, _ := seen.Merge(seenJobs, inputJobs)
	if err := seen.WriteJobs(seenPath, merged); err != nil {
		return fmt.Errorf("write --seen: %w", err)
	}
	return nil
}

func printSearchSummary(ctx *Context, result models.FindResult, jobs []models.JobPosting) {
	if ctx == nil || ctx.Err == nil {
		return
	}
	_, _ = fmt.Fprintln(ctx.Err, formatSearchSummary(result, jobs))
}

func formatSearchSummary(result models.FindResult, jobs []models.JobPosting) string {
	counts := countJobsBySource(jobs)
	bySource := "none"
	if len(counts) > 0 {
		parts := make([]string, 0, len(counts))
		for _, count := range counts {
			parts = append(parts, fmt.Sprintf("%s:%d", count.source, count.total))
		}
		bySource = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("summary: found=%d shown=%d fallback=%t by_source=%s",
		result.TotalFound, len(jobs), result.UsedFallback, bySource)
}

type sourceCount struct {
	source string
	total  int
}

func countJobsBySource(jobs []models.JobPosting) []sourceCount {
	totals := make(map[string]int, len(jobs))
	for _, job := range jobs {
		source := strings.TrimSpace(job.Source)
		if source == "" {
			source = "unknown"
		}
		totals[source]++
	}

	counts := make([]sourceCount, 0, len(totals))
	for source, total := range totals {
		counts = append(counts, sourceCount{source: source, total: total})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return strings.ToLower(counts[i].source) < strings.ToLower(counts[j].source)
	})
	return counts
}

func resolveFormat(ctx *Context, opts SearchOptions, outputPath string) (export.Format, error) {
	switch {
	case ctx.JSONOutput:
		return export.FormatJSON, nil
	case ctx.PlainText:
		return export.FormatTSV, nil
	case opts.Format != "":
		return export.ParseFormat(opts.Format)
	case outputPath != "":
		return export.FormatCSV, nil
	case isTTY(ctx.Out):
		return export.FormatTable, nil
	default:
		return export.FormatCSV, nil
	}
}

func splitSites(raw string) []string {
	if strings.TrimSpace(raw) == "" || strings.EqualFold(strings.TrimSpace(raw), "all") {
		return nil
	}
	return strings.Split(raw, ",")
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}

func startSearchIndicator(ctx *Context) func() {
	if ctx == nil || ctx.Err == nil || ctx.UI == nil {
		return nil
	}
	if !isTTY(ctx.Err) {
		return nil
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		start := time.Now()
		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()

		for index := 0; ; {
			select {
			case <-done:
				fmt.Fprint(ctx.Err, "\r\033[2K")
				return
			case <-ticker.C:
				fmt.Fprintf(ctx.Err, "\r\033[2KSearching... %ds %s", int(time.Since(start).Seconds()), frames[index%len(frames)])
				index++
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}
