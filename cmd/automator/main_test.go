package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go-startup-automation/internal/models"

	"github.com/kataras/golog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "automator", cmd.Use)
	assert.NotEmpty(t, cmd.Version)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"run", "letter", "version"}, names)
}

func TestVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)

	assert.True(t, strings.HasPrefix(out.String(), "automator version "))
	assert.Contains(t, out.String(), "commit: ")
}

func TestLetterCmd_Markdown(t *testing.T) {
	dir := t.TempDir()
	listingPath := filepath.Join(dir, "job.json")
	require.NoError(t, os.WriteFile(listingPath, []byte(`{
		"id": "12345",
		"title": "Backend Engineer",
		"company": {"name": "Acme Corp"},
		"url": "https://www.workatastartup.com/jobs/12345"
	}`), 0644))

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader("Requirements: experience with Go\nYou will build billing services\n"))
	root.SetArgs([]string{
		"letter",
		"--config", filepath.Join(dir, "missing.yaml"),
		"--listing", listingPath,
		"--description", "-",
	})

	require.NoError(t, root.Execute())

	letter := out.String()
	assert.True(t, strings.HasPrefix(letter, "Dear Hiring Manager,"))
	assert.Contains(t, letter, "Backend Engineer")
	assert.Contains(t, letter, "Acme Corp")
}

func TestLetterCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	listingPath := filepath.Join(dir, "job.json")
	require.NoError(t, os.WriteFile(listingPath, []byte(`{"title": "x"}`), 0644))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"pdf without output", []string{"--listing", listingPath, "--format", "pdf"}, "--output is required"},
		{"unknown format", []string{"--listing", listingPath, "--format", "docx"}, "unknown format"},
		{"missing listing", []string{"--listing", filepath.Join(dir, "nope.json")}, "read listing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewRootCmd()
			root.SetOut(&bytes.Buffer{})
			root.SetArgs(append([]string{"letter", "--config", filepath.Join(dir, "missing.yaml")}, tt.args...))

			err := root.Execute()

			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestSaveReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	report := &models.RunReport{
		StartTime: time.Date(2026, 3, 1, 9, 5, 7, 0, time.UTC),
		Status:    models.RunCompleted,
	}

	path, err := saveReport(dir, report)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "automation-report-2026-03-01_09-05-07.json"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status": "completed"`)
}

func TestLetterName(t *testing.T) {
	assert.Equal(t, "cover-letter-12345", letterName(models.ListingRecord{ID: "12345"}))
	assert.Equal(t, "cover-letter-general-acme-corp", letterName(models.ListingRecord{ID: "general-acme-corp"}))
	assert.Equal(t, "cover-letter-a-b", letterName(models.ListingRecord{ID: "../a/b"}))
	assert.Equal(t, "cover-letter-listing", letterName(models.ListingRecord{}))
}

func TestLetterWriter(t *testing.T) {
	dir := t.TempDir()
	w := letterWriter{dir: dir, log: golog.New()}
	report := &models.RunReport{Applications: []models.ApplicationResult{
		{Listing: models.ListingRecord{ID: "1"}, Success: true, CoverLetter: "Dear Hiring Manager,"},
		{Listing: models.ListingRecord{ID: "2"}, Success: false},
	}}

	assert.Equal(t, 1, w.writeAll(report))

	data, err := os.ReadFile(filepath.Join(dir, "letters", "cover-letter-1.md"))
	require.NoError(t, err)
	assert.Equal(t, "Dear Hiring Manager,", string(data))
	assert.NoFileExists(t, filepath.Join(dir, "letters", "cover-letter-2.md"))
}
