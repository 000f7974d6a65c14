package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimezsa/internhunt/internal/models"
)

const insertCandidate = `
	INSERT INTO candidates (
		id, name, email, phone_number, tech_stacks, location, city,
		project_details, experience, preferred_role, sms_notifications
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Postgres writes to a Supabase-style candidates table.
type Postgres struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour
	// Transaction-mode poolers reject prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Name() string { return DriverPostgres }

func (p *Postgres) Insert(ctx context.Context, rec models.CandidateRecord) error {
	_, err := p.pool.Exec(ctx, insertCandidate, candidateArgs(rec)...)
	if err != nil {
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func candidateArgs(rec models.CandidateRecord) []any {
	return []any{
		uuid.NewString(),
		rec.Name,
		rec.Email,
		rec.PhoneNumber,
		rec.TechStacks,
		rec.Location,
		rec.City,
		rec.ProjectDetails,
		rec.Experience,
		rec.PreferredRole,
		rec.SMSNotifications,
	}
}
