package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jimezsa/internhunt/internal/store"
)

type HealthCmd struct {
	Timeout int `help:"Seconds to wait for each check." default:"20"`
}

type healthReport struct {
	Store    string `json:"store"`
	Notifier string `json:"notifier"`
	Render   string `json:"render"`
}

func (h *HealthCmd) Run(ctx *Context) error {
	checkCtx, cancel := context.WithTimeout(context.Background(), time.Duration(max(h.Timeout, 1))*time.Second)
	defer cancel()

	rt, err := newRuntime(checkCtx, ctx, runtimeOptions{WithStore: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	storeState, storeOK := store.Status(checkCtx, rt.store)
	report := healthReport{Store: storeState, Notifier: "not configured", Render: "not available"}
	notifiers := rt.notifiers()
	notifierOK := notifiers.Configured()
	if notifierOK {
		report.Notifier = "configured (" + notifiers.Name() + ")"
	}
	renderOK := rt.renderer.Available(checkCtx)
	if renderOK {
		report.Render = "available"
	}

	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	if ctx.PlainText {
		_, err := fmt.Fprintf(ctx.Out, "%s\t%s\t%s\n", report.Store, report.Notifier, report.Render)
		return err
	}

	ctx.UI.Status("store", report.Store, storeOK)
	ctx.UI.Status("notifier", report.Notifier, notifierOK)
	ctx.UI.Status("render", report.Render, renderOK)
	return nil
}
