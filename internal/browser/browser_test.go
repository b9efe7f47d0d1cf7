package browser

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name": "session", "value": "abc", "domain": ".workatastartup.com", "path": "/", "expires": 1900000000, "httpOnly": true, "secure": true, "sameSite": "Lax"},
		{"name": "pref", "value": "1", "domain": "www.workatastartup.com", "sameSite": "no_restriction"},
		{"name": "", "value": "orphan", "domain": "x"}
	]`), 0600))

	cookies, err := LoadCookies(path)

	require.NoError(t, err)
	require.Len(t, cookies, 2)

	assert.Equal(t, "session", cookies[0].Name)
	assert.Equal(t, ".workatastartup.com", *cookies[0].Domain)
	assert.Equal(t, 1900000000.0, *cookies[0].Expires)
	assert.True(t, *cookies[0].HttpOnly)
	assert.Equal(t, playwright.SameSiteAttributeLax, cookies[0].SameSite)

	assert.Equal(t, "/", *cookies[1].Path)
	assert.Nil(t, cookies[1].Expires)
	assert.Nil(t, cookies[1].Secure)
	assert.Equal(t, playwright.SameSiteAttributeNone, cookies[1].SameSite)
}

func TestLoadCookies_Errors(t *testing.T) {
	_, err := LoadCookies(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{not json`), 0600))
	_, err = LoadCookies(bad)
	assert.Error(t, err)
}

func TestFromPlaywright(t *testing.T) {
	c := FromPlaywright(playwright.Cookie{
		Name:     "session",
		Value:    "abc",
		Domain:   ".workatastartup.com",
		Path:     "/",
		HttpOnly: true,
		SameSite: playwright.SameSiteAttributeStrict,
	})

	assert.Equal(t, "Strict", c.SameSite)
	assert.Equal(t, c, FromPlaywright(playwright.Cookie{
		Name: "session", Value: "abc", Domain: ".workatastartup.com", Path: "/", HttpOnly: true,
		SameSite: c.ToPlaywright().SameSite,
	}))
}

func TestScreenshotDebuggerPath(t *testing.T) {
	dir := t.TempDir()
	s, err := NewScreenshotDebugger(dir, nil)
	require.NoError(t, err)

	at := time.Date(2026, 3, 1, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, filepath.Join(dir, "login_failed_2026-03-01_09-05-07.png"), s.Path("login_failed", at))
}

func TestJitter(t *testing.T) {
	for i := 0; i < 50; i++ {
		d := jitter(100, 300)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 300*time.Millisecond)
	}
	assert.Equal(t, 200*time.Millisecond, jitter(200, 200))
}

func TestRandomDelay_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := RandomDelay(ctx, 1000, 2000)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
