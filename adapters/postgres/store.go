// Package postgres persists fitted-model summaries. The estimation core
// never touches the database; the store consumes finished FittedModel values
// through the record type below.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"vipfit/domain/core"
)

// FitRecord is the persisted summary of one fit run.
type FitRecord struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Method    string    `db:"method" json:"method"`
	V         int       `db:"inflated_value" json:"inflated_value"`
	Truncated bool      `db:"truncated" json:"truncated"`
	Link      string    `db:"link" json:"link"`
	NumObs    int       `db:"num_obs" json:"num_obs"`
	LogLik    float64   `db:"loglik" json:"loglik"`
	AIC       float64   `db:"aic" json:"aic"`
	BIC       float64   `db:"bic" json:"bic"`

	Coefficients []CoefRecord `db:"-" json:"coefficients"`
}

// CoefRecord is one persisted coefficient row.
type CoefRecord struct {
	FitID    string          `db:"fit_id" json:"-"`
	Position int             `db:"position" json:"-"`
	Name     string          `db:"name" json:"name"`
	Estimate float64         `db:"estimate" json:"estimate"`
	StdErr   sql.NullFloat64 `db:"std_err" json:"std_err"`
	Z        sql.NullFloat64 `db:"z" json:"z"`
	P        sql.NullFloat64 `db:"p" json:"p"`
}

// Store is the Postgres-backed fit-result store.
type Store struct {
	db *sqlx.DB
}

// Connect opens a Postgres connection pool for the store.
func Connect(url string) (*sqlx.DB, error) {
	return sqlx.Connect("postgres", url)
}

// NewStore wraps an existing connection pool.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS fits (
	id             TEXT PRIMARY KEY,
	created_at     TIMESTAMPTZ NOT NULL,
	method         TEXT NOT NULL,
	inflated_value INTEGER NOT NULL,
	truncated      BOOLEAN NOT NULL,
	link           TEXT NOT NULL,
	num_obs        INTEGER NOT NULL,
	loglik         DOUBLE PRECISION NOT NULL,
	aic            DOUBLE PRECISION NOT NULL,
	bic            DOUBLE PRECISION NOT NULL
);
CREATE TABLE IF NOT EXISTS fit_coefficients (
	fit_id   TEXT NOT NULL REFERENCES fits(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	name     TEXT NOT NULL,
	estimate DOUBLE PRECISION NOT NULL,
	std_err  DOUBLE PRECISION,
	z        DOUBLE PRECISION,
	p        DOUBLE PRECISION,
	PRIMARY KEY (fit_id, position)
);`

// EnsureSchema creates the store tables when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Save persists a fit record and its coefficients in one transaction.
func (s *Store) Save(ctx context.Context, rec *FitRecord) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO fits (id, created_at, method, inflated_value, truncated, link, num_obs, loglik, aic, bic)
		VALUES (:id, :created_at, :method, :inflated_value, :truncated, :link, :num_obs, :loglik, :aic, :bic)`,
		rec)
	if err != nil {
		return err
	}

	for _, c := range rec.Coefficients {
		c.FitID = rec.ID
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO fit_coefficients (fit_id, position, name, estimate, std_err, z, p)
			VALUES (:fit_id, :position, :name, :estimate, :std_err, :z, :p)`,
			c); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Get retrieves a fit record with its coefficients.
func (s *Store) Get(ctx context.Context, id string) (*FitRecord, error) {
	var rec FitRecord
	err := s.db.GetContext(ctx, &rec, `SELECT * FROM fits WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrFitNotFound
	}
	if err != nil {
		return nil, err
	}

	err = s.db.SelectContext(ctx, &rec.Coefficients, `
		SELECT fit_id, position, name, estimate, std_err, z, p
		FROM fit_coefficients WHERE fit_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns the most recent fit records, without coefficients.
func (s *Store) List(ctx context.Context, limit int) ([]FitRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var recs []FitRecord
	err := s.db.SelectContext(ctx, &recs, `
		SELECT * FROM fits ORDER BY created_at DESC LIMIT $1`, limit)
	return recs, err
}
