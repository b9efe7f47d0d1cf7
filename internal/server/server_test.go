package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-startup-automation/internal/analyzer"
	"go-startup-automation/internal/letter"
	"go-startup-automation/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/kataras/golog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeApps struct {
	apps []models.Application
	err  error
}

func (f fakeApps) ListApplications(ctx context.Context, limit int) ([]models.Application, error) {
	return f.apps, f.err
}

func newServer(apps ApplicationLister) *Server {
	logger := golog.New()
	logger.SetLevel("disable")
	return New(letter.NewComposer(letter.Profile{Name: "Sam Rivera"}, logger), apps, logger)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, newServer(nil), http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestClassify(t *testing.T) {
	w := do(t, newServer(nil), http.MethodPost, "/classify",
		`{"description": "3 years of experience; you will also own onboarding\nYou will ship features"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var got analyzer.Classified
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []string{"3 years of experience; you will also own onboarding"}, got.Requirements)
	assert.Equal(t, []string{"You will ship features"}, got.Responsibilities)
}

func TestClassify_BadRequest(t *testing.T) {
	w := do(t, newServer(nil), http.MethodPost, "/classify", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLetters(t *testing.T) {
	w := do(t, newServer(nil), http.MethodPost, "/letters", `{
		"listing": {"id": "1", "title": "Backend Engineer", "company": {"name": "Acme"}, "url": "https://x/jobs/1"},
		"description": "Requirements: 3 years experience.\nResponsibilities: you will own onboarding."
	}`)

	require.Equal(t, http.StatusOK, w.Code)
	var got letterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Contains(t, got.Letter, "- I can own onboarding.")
	assert.Contains(t, got.Letter, "Sam Rivera")
	assert.Len(t, got.Classified.Requirements, 1)
}

func TestLetters_RequiresListing(t *testing.T) {
	w := do(t, newServer(nil), http.MethodPost, "/letters", `{"description": "x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplications(t *testing.T) {
	w := do(t, newServer(nil), http.MethodGet, "/applications", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	apps := fakeApps{apps: []models.Application{{ID: "app-1", ListingID: "1", Status: models.StatusDraft}}}
	w = do(t, newServer(apps), http.MethodGet, "/applications?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"listing_id":"1"`)

	w = do(t, newServer(apps), http.MethodGet, "/applications?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, newServer(fakeApps{err: errors.New("db down")}), http.MethodGet, "/applications", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
