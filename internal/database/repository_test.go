package database

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"go-startup-automation/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	repo := NewRepositoryWithPool(mock)
	repo.newID = func() string { return "5f0c6a52-8f62-4a4e-9d43-2a7d3c1f0b11" }
	return repo, mock
}

func sampleListing() models.ListingRecord {
	return models.ListingRecord{
		ID:          "12345",
		Title:       "Backend Engineer",
		Company:     models.Company{Name: "Acme", Details: []string{}},
		URL:         "https://www.workatastartup.com/jobs/12345",
		Location:    "San Francisco, CA, US",
		Salary:      "$120K - $160K",
		JobType:     "fulltime",
		Metadata:    []string{"$120K - $160K"},
		ExtractedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRepository_Migrate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS listings")).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, repo.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SaveListing(t *testing.T) {
	repo, mock := newMockRepo(t)
	rec := sampleListing()
	payload, _ := json.Marshal(rec)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO listings")).
		WithArgs(rec.ID, rec.Title, "Acme", rec.URL, rec.Location, rec.Salary, "", "", "fulltime", "", payload, rec.ExtractedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.SaveListing(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SaveListingError(t *testing.T) {
	repo, mock := newMockRepo(t)

	args := make([]interface{}, 12)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO listings")).
		WithArgs(args...).
		WillReturnError(errors.New("connection reset"))

	err := repo.SaveListing(context.Background(), sampleListing())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NotContains(t, err.Error(), "arguments")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetListing(t *testing.T) {
	repo, mock := newMockRepo(t)
	rec := sampleListing()
	payload, _ := json.Marshal(rec)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM listings")).
		WithArgs("12345").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(payload))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM listings")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetListing(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, rec.Title, got.Title)
	assert.Equal(t, rec.Metadata, got.Metadata)

	_, err = repo.GetListing(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SaveApplication(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	app := &models.Application{ListingID: "12345", CoverLetter: "Dear Hiring Manager,"}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO applications")).
		WithArgs("5f0c6a52-8f62-4a4e-9d43-2a7d3c1f0b11", "12345", "draft", "Dear Hiring Manager,", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("5f0c6a52-8f62-4a4e-9d43-2a7d3c1f0b11", created, created))

	saved, err := repo.SaveApplication(context.Background(), app)

	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, saved.Status)
	assert.Equal(t, created, saved.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateApplicationStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE applications SET status")).
		WithArgs("submitted", "app-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE applications SET status")).
		WithArgs("failed", "app-2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.UpdateApplicationStatus(context.Background(), "app-1", models.StatusSubmitted))
	err := repo.UpdateApplicationStatus(context.Background(), "app-2", models.StatusFailed)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListApplications(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	notes := "sent via portal"
	applied := at.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("FROM applications ORDER BY updated_at DESC")).
		WithArgs(10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "listing_id", "status", "cover_letter", "notes", "applied_at", "created_at", "updated_at"}).
			AddRow("app-1", "12345", "submitted", "letter", &notes, &applied, at, at))

	apps, err := repo.ListApplications(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, models.StatusSubmitted, apps[0].Status)
	require.NotNil(t, apps[0].Notes)
	assert.Equal(t, notes, *apps[0].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
