// Package database stores extracted listings and prepared applications in Postgres.
package database

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-startup-automation/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// DBPool is the subset of pgxpool.Pool the repository uses.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

type Repository struct {
	db    DBPool
	newID func() string
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// Transaction-mode poolers (PgBouncer, Supabase) reject cached prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return NewRepositoryWithPool(pool), nil
}

// NewRepositoryWithPool wraps an existing pool, e.g. a pgxmock pool in tests.
func NewRepositoryWithPool(pool DBPool) *Repository {
	return &Repository{db: pool, newID: uuid.NewString}
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// Migrate creates the tables when they do not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// ---------------- LISTING OPERATIONS ----------------

const upsertListing = `
		INSERT INTO listings (id, title, company, url, location, salary, equity, experience, job_type, visa, payload, extracted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id)
		DO UPDATE SET title = EXCLUDED.title, company = EXCLUDED.company, url = EXCLUDED.url,
			location = EXCLUDED.location, salary = EXCLUDED.salary, equity = EXCLUDED.equity,
			experience = EXCLUDED.experience, job_type = EXCLUDED.job_type, visa = EXCLUDED.visa,
			payload = EXCLUDED.payload, extracted_at = EXCLUDED.extracted_at, updated_at = now()`

// SaveListing inserts a listing or refreshes the stored copy.
func (r *Repository) SaveListing(ctx context.Context, rec models.ListingRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode listing %s: %w", rec.ID, err)
	}

	_, err = r.db.Exec(ctx, upsertListing,
		rec.ID, rec.Title, rec.Company.Name, rec.URL, rec.Location, rec.Salary, rec.Equity,
		rec.Experience, rec.JobType, rec.Visa, payload, rec.ExtractedAt)
	if err != nil {
		return fmt.Errorf("failed to save listing %s: %w", rec.ID, err)
	}
	return nil
}

// GetListing returns the stored copy of a listing.
func (r *Repository) GetListing(ctx context.Context, id string) (*models.ListingRecord, error) {
	var payload []byte
	err := r.db.QueryRow(ctx, `SELECT payload FROM listings WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("listing %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get listing %s: %w", id, err)
	}

	var rec models.ListingRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode listing %s: %w", id, err)
	}
	return &rec, nil
}

// ---------------- APPLICATION OPERATIONS ----------------

const upsertApplication = `
		INSERT INTO applications (id, listing_id, status, cover_letter, notes, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (listing_id)
		DO UPDATE SET status = EXCLUDED.status, cover_letter = EXCLUDED.cover_letter,
			notes = EXCLUDED.notes, applied_at = EXCLUDED.applied_at, updated_at = now()
		RETURNING id, created_at, updated_at`

// SaveApplication stores one application per listing; saving again replaces the
// letter and status but keeps the original id.
func (r *Repository) SaveApplication(ctx context.Context, app *models.Application) (*models.Application, error) {
	if app.ID == "" {
		app.ID = r.newID()
	}
	if app.Status == "" {
		app.Status = models.StatusDraft
	}

	err := r.db.QueryRow(ctx, upsertApplication,
		app.ID, app.ListingID, string(app.Status), app.CoverLetter, app.Notes, app.AppliedAt).
		Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save application for %s: %w", app.ListingID, err)
	}
	return app, nil
}

// UpdateApplicationStatus changes the application state
func (r *Repository) UpdateApplicationStatus(ctx context.Context, appID string, status models.ApplicationStatus) error {
	tag, err := r.db.Exec(ctx, "UPDATE applications SET status = $1, updated_at = now() WHERE id = $2", string(status), appID)
	if err != nil {
		return fmt.Errorf("failed to update application %s: %w", appID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("application %s: %w", appID, ErrNotFound)
	}
	return nil
}

// ListApplications returns the most recently updated applications first.
func (r *Repository) ListApplications(ctx context.Context, limit int) ([]models.Application, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, listing_id, status, cover_letter, notes, applied_at, created_at, updated_at
		FROM applications ORDER BY updated_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		var (
			app    models.Application
			status string
		)
		if err := rows.Scan(&app.ID, &app.ListingID, &status, &app.CoverLetter, &app.Notes, &app.AppliedAt, &app.CreatedAt, &app.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		app.Status = models.ApplicationStatus(status)
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}
