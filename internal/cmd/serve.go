package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jimezsa/internhunt/internal/server"
)

type ServeCmd struct {
	Listen    string `help:"Listen address (default from config)." env:"INTERNHUNT_LISTEN"`
	Sites     string `help:"Comma-separated primary sites (default: all)."`
	Proxies   string `help:"Comma-separated proxy URLs." env:"INTERNHUNT_PROXIES"`
	NoBrowser bool   `name:"no-browser" help:"Skip rendered sources."`
}

func (s *ServeCmd) Run(ctx *Context) error {
	if !ctx.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(runCtx, ctx, runtimeOptions{
		Proxies:   s.Proxies,
		Sites:     splitSites(s.Sites),
		NoBrowser: s.NoBrowser,
		WithStore: true,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			ctx.Logger.Warn().Err(err).Msg("shutdown")
		}
	}()

	ctx.Logger.Info().
		Str("store", rt.store.Name()).
		Str("notifier", rt.notifiers().Name()).
		Msg("dependencies ready")

	srv := server.New(server.Deps{
		Finder:         rt.engine,
		Store:          rt.store,
		Notifier:       rt.sms,
		Mirror:         rt.mirror,
		Render:         rt.renderer,
		Logger:         component(ctx.Logger, "http"),
		RequestTimeout: ctx.Config.Search.RequestTimeout(),
		AllowedOrigins: ctx.Config.AllowedOrigins,
	})

	addr := firstNonEmpty(s.Listen, ctx.Config.Listen)
	return srv.Run(runCtx, addr)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}
