package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jimezsa/internhunt/internal/config"
	"github.com/jimezsa/internhunt/internal/seen"
)

type SeenCmd struct {
	Diff   SeenDiffCmd   `cmd:"" help:"Write unseen postings (A-B) to JSON."`
	Update SeenUpdateCmd `cmd:"" help:"Merge postings into seen history JSON."`
}

type SeenDiffCmd struct {
	New   string `name:"new" required:"" help:"Path to new postings JSON file (A)."`
	Seen  string `name:"seen" help:"Path to seen postings JSON file (B); defaults to the history file. Missing file is treated as empty."`
	Out   string `name:"out" required:"" help:"Output path for unseen postings JSON file (C)."`
	Stats bool   `name:"stats" help:"Print comparison stats."`
}

type SeenUpdateCmd struct {
	Seen  string `name:"seen" help:"Path to seen postings JSON file; defaults to the history file."`
	Input string `name:"input" required:"" help:"Path to postings JSON file to merge into history."`
	Out   string `name:"out" help:"Output path for the merged history (default: overwrite --seen)."`
	Stats bool   `name:"stats" help:"Print merge stats."`
}

func (c *SeenDiffCmd) Run(ctx *Context) error {
	seenPath, err := historyOr(c.Seen)
	if err != nil {
		return err
	}
	newJobs, err := seen.ReadJobs(c.New)
	if err != nil {
		return fmt.Errorf("read --new: %w", err)
	}
	seenJobs, err := seen.ReadJobsAllowMissing(seenPath)
	if err != nil {
		return fmt.Errorf("read --seen: %w", err)
	}

	unseenJobs, stats := seen.Diff(newJobs, seenJobs)
	if err := seen.WriteJobs(c.Out, unseenJobs); err != nil {
		return fmt.Errorf("write --out: %w", err)
	}
	if !c.Stats {
		return nil
	}
	return printStats(ctx, map[string]int{
		"total_new":       stats.TotalNew,
		"total_seen":      stats.TotalSeen,
		"invalid_skipped": stats.InvalidSkipped(),
		"unseen_emitted":  stats.Unseen,
	}, "total_new", "total_seen", "invalid_skipped", "unseen_emitted")
}

func (c *SeenUpdateCmd) Run(ctx *Context) error {
	seenPath, err := historyOr(c.Seen)
	if err != nil {
		return err
	}
	seenJobs, err := seen.ReadJobsAllowMissing(seenPath)
	if err != nil {
		return fmt.Errorf("read --seen: %w", err)
	}
	inputJobs, err := seen.ReadJobs(c.Input)
	if err != nil {
		return fmt.Errorf("read --input: %w", err)
	}

	merged, stats := seen.Merge(seenJobs, inputJobs)
	out := firstNonEmpty(c.Out, seenPath)
	if err := seen.WriteJobs(out, merged); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	if !c.Stats {
		return nil
	}
	return printStats(ctx, map[string]int{
		"total_seen":      stats.TotalSeen,
		"total_input":     stats.TotalInput,
		"invalid_skipped": stats.InvalidSkipped(),
		"added":           stats.Added,
		"total_out":       stats.TotalOut,
	}, "total_seen", "total_input", "invalid_skipped", "added", "total_out")
}

func historyOr(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		return path, nil
	}
	return config.HistoryPath()
}

func printStats(ctx *Context, stats map[string]int, order ...string) error {
	if ctx.JSONOutput {
		return json.NewEncoder(ctx.Out).Encode(stats)
	}
	parts := make([]string, 0, len(order))
	for _, key := range order {
		parts = append(parts, fmt.Sprintf("%s=%d", key, stats[key]))
	}
	_, err := fmt.Fprintln(ctx.Out, strings.Join(parts, " "))
	return err
}
