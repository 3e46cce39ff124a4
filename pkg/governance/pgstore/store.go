// Package pgstore backs the governance state store and action log with
// PostgreSQL for durable, auditable deployments.
package pgstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"dtri/pkg/governance"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store implements governance.StateStore and governance.ActionLog on Postgres.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres, runs pending migrations and returns the store.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewWithDB wraps an existing connection without running migrations.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) migrate() error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}
	driver, err := postgres.WithInstance(s.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get reads the entity state, defaulting to active for unknown entities.
func (s *Store) Get(ctx context.Context, entityID string) (governance.State, error) {
	state := governance.State{EntityID: entityID, Status: governance.StatusActive}
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT status, updated_at FROM governance_states WHERE entity_id = $1`,
		entityID,
	).Scan(&status, &state.UpdatedAt)
	if err == sql.ErrNoRows {
		return state, nil
	}
	if err != nil {
		return governance.State{}, fmt.Errorf("query state: %w", err)
	}
	state.Status = governance.Status(status)
	return state, nil
}

// CompareAndSwap transitions the entity inside a transaction, taking a row
// lock so concurrent evaluators cannot race past each other.
func (s *Store) CompareAndSwap(ctx context.Context, entityID string, from, to governance.Status, at time.Time) (governance.State, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return governance.State{}, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Seed the row so the lock below always has something to hold.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO governance_states (entity_id, status, updated_at)
		 VALUES ($1, 'active', now())
		 ON CONFLICT (entity_id) DO NOTHING`,
		entityID,
	); err != nil {
		return governance.State{}, false, fmt.Errorf("seed state: %w", err)
	}

	var current string
	var updatedAt time.Time
	if err := tx.QueryRowContext(ctx,
		`SELECT status, updated_at FROM governance_states WHERE entity_id = $1 FOR UPDATE`,
		entityID,
	).Scan(&current, &updatedAt); err != nil {
		return governance.State{}, false, fmt.Errorf("lock state: %w", err)
	}

	if governance.Status(current) != from {
		return governance.State{EntityID: entityID, Status: governance.Status(current), UpdatedAt: updatedAt}, false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE governance_states SET status = $2, updated_at = $3 WHERE entity_id = $1`,
		entityID, string(to), at,
	); err != nil {
		return governance.State{}, false, fmt.Errorf("update state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return governance.State{}, false, fmt.Errorf("commit state: %w", err)
	}
	return governance.State{EntityID: entityID, Status: to, UpdatedAt: at}, true, nil
}

// Append inserts action entries in one transaction.
func (s *Store) Append(ctx context.Context, entries []governance.ActionLogEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO governance_actions (id, entity_id, action, rule_id, reason, at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			e.ID, e.EntityID, string(e.Action), e.RuleID, e.Reason, e.At,
		); err != nil {
			return fmt.Errorf("insert action: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit actions: %w", err)
	}
	return nil
}

// Recent returns up to limit entries for the entity, newest first.
func (s *Store) Recent(ctx context.Context, entityID string, limit int) ([]governance.ActionLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, entity_id, action, rule_id, reason, at
		 FROM governance_actions
		 WHERE entity_id = $1
		 ORDER BY at DESC
		 LIMIT $2`,
		entityID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	var entries []governance.ActionLogEntry
	for rows.Next() {
		var e governance.ActionLogEntry
		var action string
		var ruleID sql.NullString
		if err := rows.Scan(&e.ID, &e.EntityID, &action, &ruleID, &e.Reason, &e.At); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		e.Action = governance.ActionType(action)
		e.RuleID = ruleID.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
