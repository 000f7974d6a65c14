package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jimezsa/internhunt/internal/engine"
	"github.com/jimezsa/internhunt/internal/notify"
	"github.com/jimezsa/internhunt/internal/store"
	"github.com/rs/zerolog"
)

const DefaultRequestTimeout = 120 * time.Second

// RenderChecker reports whether rendered sources can run.
type RenderChecker interface {
	Available(ctx context.Context) bool
}

type Deps struct {
	Finder         engine.Finder
	Store          store.Store
	// Notifier delivers the summary to the candidate's phone.
	Notifier       notify.Notifier
	// Mirror optionally copies the summary to an operator channel. Its
	// outcome never affects the response.
	Mirror         notify.Notifier
	Render         RenderChecker
	Logger         zerolog.Logger
	RequestTimeout time.Duration
	AllowedOrigins []string
}

type Server struct {
	deps   Deps
	router *gin.Engine
}

func New(deps Deps) *Server {
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = DefaultRequestTimeout
	}
	if deps.Store == nil {
		deps.Store = store.Disabled{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Disabled{}
	}
	if deps.Mirror == nil {
		deps.Mirror = notify.Disabled{}
	}

	s := &Server{deps: deps}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), accessLog(s.deps.Logger), recovery(s.deps.Logger), cors(s.deps.AllowedOrigins))

	api := r.Group("/api")
	api.GET("/test", s.handleTest)
	api.GET("/health", s.handleHealth)
	api.POST("/submit-profile", s.handleSubmitProfile)
	api.POST("/test-scrape", s.handleTestScrape)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.deps.Logger.Info().Msg("server stopped")
	return nil
}
