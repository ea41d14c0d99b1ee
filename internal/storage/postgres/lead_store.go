// Package postgres provides Postgres-backed persistence implementations.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/magicplate/outreach/internal/lead"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// LeadStoreConfig controls the Postgres connection pool used for lead rows.
type LeadStoreConfig struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// LeadStore upserts lead rows into Postgres. It exists so historical runs
// can be queried beyond the dated export files; the pipeline treats it as
// optional and only builds one when a DSN is configured.
type LeadStore struct {
	pool  execCloser
	table string
}

// NewLeadStore creates a Postgres-backed LeadStore using the provided config.
func NewLeadStore(ctx context.Context, cfg LeadStoreConfig) (*LeadStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "leads"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &LeadStore{pool: pool, table: table}, nil
}

// NewLeadStoreWithPool constructs a store from an existing pool (primarily for testing).
func NewLeadStoreWithPool(pool execCloser, table string) (*LeadStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "leads"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &LeadStore{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *LeadStore) Close() {
	s.pool.Close()
}

// UpsertLead writes one lead row keyed on place_id. Re-running a scrape
// refreshes the row rather than duplicating it.
//
// Expected schema:
//
//	CREATE TABLE leads (
//	    place_id TEXT PRIMARY KEY,
//	    name TEXT NOT NULL,
//	    address TEXT NOT NULL,
//	    website TEXT,
//	    rating DOUBLE PRECISION,
//	    user_ratings_total INT NOT NULL,
//	    photos_count INT NOT NULL,
//	    emails JSONB NOT NULL,
//	    scraped_at TIMESTAMPTZ NOT NULL,
//	    status TEXT NOT NULL
//	);
func (s *LeadStore) UpsertLead(ctx context.Context, l lead.Lead) error {
	emails, err := json.Marshal(l.Emails)
	if err != nil {
		return fmt.Errorf("marshal emails: %w", err)
	}
	query := fmt.Sprintf(`INSERT INTO %s
		(place_id, name, address, website, rating, user_ratings_total, photos_count, emails, scraped_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (place_id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			website = EXCLUDED.website,
			rating = EXCLUDED.rating,
			user_ratings_total = EXCLUDED.user_ratings_total,
			photos_count = EXCLUDED.photos_count,
			emails = EXCLUDED.emails,
			scraped_at = EXCLUDED.scraped_at,
			status = EXCLUDED.status`, s.table)

	if _, err := s.pool.Exec(ctx, query,
		l.PlaceID,
		l.Name,
		l.Address,
		l.Website,
		l.Rating,
		l.UserRatingsTotal,
		l.PhotosCount,
		emails,
		l.ScrapedAt,
		string(l.Status),
	); err != nil {
		return fmt.Errorf("upsert lead %s: %w", l.PlaceID, err)
	}
	return nil
}

// UpsertLeads writes the whole collection, stopping at the first failure.
func (s *LeadStore) UpsertLeads(ctx context.Context, leads []lead.Lead) error {
	for _, l := range leads {
		if err := s.UpsertLead(ctx, l); err != nil {
			return err
		}
	}
	return nil
}
