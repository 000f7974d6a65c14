package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jimezsa/internhunt/internal/models"
	"github.com/rs/zerolog"
)

var ErrNotConfigured = errors.New("candidate store not configured")

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store persists submitted candidate profiles.
type Store interface {
	Name() string
	Insert(ctx context.Context, rec models.CandidateRecord) error
	Ping(ctx context.Context) error
	Close() error
}

// Open picks a backend from driver. An empty dsn yields Disabled.
func Open(ctx context.Context, driver string, dsn string) (Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return Disabled{}, nil
	}
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverPostgres, "postgresql", "supabase", "pgx":
		return OpenPostgres(ctx, dsn)
	case DriverSQLite, "":
		return OpenSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// Save inserts rec and reports whether it was stored. Failures are logged
// and never returned.
func Save(ctx context.Context, s Store, rec models.CandidateRecord, logger zerolog.Logger) bool {
	if s == nil {
		return false
	}
	if err := s.Insert(ctx, rec); err != nil {
		if errors.Is(err, ErrNotConfigured) {
			logger.Debug().Msg("candidate store not configured, skipping insert")
		} else {
			logger.Warn().Err(err).Str("store", s.Name()).Msg("candidate insert failed")
		}
		return false
	}
	return true
}

// Status is the health label for s.
func Status(ctx context.Context, s Store) (string, bool) {
	if s == nil {
		return "not configured", false
	}
	if _, ok := s.(Disabled); ok {
		return "not configured", false
	}
	if err := s.Ping(ctx); err != nil {
		return "unreachable", false
	}
	return "connected", true
}

type Disabled struct{}

func (Disabled) Name() string { return "disabled" }

func (Disabled) Insert(context.Context, models.CandidateRecord) error { return ErrNotConfigured }

func (Disabled) Ping(context.Context) error { return ErrNotConfigured }

func (Disabled) Close() error { return nil }
