package app

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	_ "github.com/yanizio/folio/components/contact"
	_ "github.com/yanizio/folio/components/pages"
	"github.com/yanizio/folio/internal/config"
	"github.com/yanizio/folio/internal/prefs"
)

func newApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	cfg := config.Defaults()
	cfg.Paths.Root = t.TempDir()
	if mutate != nil {
		mutate(&cfg)
	}
	a, err := New(Options{Config: &cfg, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	return a
}

func do(a *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	return rec
}

func get(a *App, path string) *httptest.ResponseRecorder {
	return do(a, httptest.NewRequest(http.MethodGet, path, nil))
}

func TestHome_LayoutAndHeaders(t *testing.T) {
	a := newApp(t, nil)
	rec := get(a, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Home | Charan Naga Sai Kosuri</title>")
	assert.Contains(t, body, `<a class="skip-link" href="#main">Skip to content</a>`)
	assert.Contains(t, body, `<a href="/" class="active" aria-current="page">Home</a>`)
	assert.NotContains(t, body, `<a href="/about" class="active"`)
	assert.Contains(t, body, `href="/resume">Download Resume</a>`)
	assert.Contains(t, body, "All rights reserved.")
	assert.Contains(t, body, `<a href="mailto:your.email@example.com">Email</a>`)
	assert.Contains(t, body, `<meta name="twitter:card" content="summary_large_image">`)
	assert.Contains(t, body, `<meta property="og:image" content="/static/img/og-image.png">`)
	assert.Contains(t, body, `"@type":"Person"`)
	assert.Contains(t, body, `data-theme="light"`)

	h := rec.Header()
	assert.NotEmpty(t, h.Get("X-Request-ID"))
	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Contains(t, h.Get("Content-Security-Policy"), "default-src 'self'")
	assert.Contains(t, h.Get("Accept-CH"), "Sec-CH-Prefers-Color-Scheme")
}

func TestNav_ActiveByPrefix(t *testing.T) {
	a := newApp(t, nil)
	body := get(a, "/about").Body.String()
	assert.Contains(t, body, `<a href="/about" class="active" aria-current="page">About</a>`)
	assert.NotContains(t, body, `<a href="/" class="active"`)
}

func TestContentPages(t *testing.T) {
	a := newApp(t, nil)
	for path, want := range map[string]string{
		"/education": "Texas A&amp;M University Kingsville",
		"/skills":    `<li class="chip chip-node-js">Node.js</li>`,
		"/projects":  `<article class="card project" id="api-monitor">`,
		"/resume":    "Available upon request",
	} {
		rec := get(a, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), want, path)
	}
}

func TestNotFound(t *testing.T) {
	a := newApp(t, nil)
	rec := get(a, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Page not found | Charan Naga Sai Kosuri</title>")
	assert.Contains(t, rec.Body.String(), "<code>/nope</code>")

	assert.Equal(t, http.StatusNotFound, get(a, "/resume/download").Code)
}

func TestStaticAssets(t *testing.T) {
	a := newApp(t, nil)

	rec := get(a, "/static/css/site.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))

	assert.Equal(t, http.StatusOK, get(a, "/static/img/og-image.png").Code)
	assert.Equal(t, http.StatusNotFound, get(a, "/static/").Code)
	assert.Equal(t, http.StatusNotFound, get(a, "/static/css/missing.css").Code)
}

func TestHealthAndMetrics(t *testing.T) {
	a := newApp(t, nil)

	rec := get(a, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = get(a, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "folio_http_requests_total")

	off := newApp(t, func(c *config.Config) { c.Metrics.Enabled = false })
	assert.Equal(t, http.StatusNotFound, get(off, "/metrics").Code)
}

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

func postTheme(a *App, form url.Values, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/preferences/theme", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: prefs.CookieName, Value: cookie})
	}
	return do(a, req)
}

func TestThemePreference(t *testing.T) {
	a := newApp(t, nil)

	rec := postTheme(a, url.Values{"theme": {"dark"}, "next": {"/about"}}, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/about", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), prefs.CookieName+"=dark")

	rec = postTheme(a, url.Values{"next": {"//evil.example"}}, "dark")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"), "off-site next is dropped")
	assert.Contains(t, rec.Header().Get("Set-Cookie"), prefs.CookieName+"=light", "toggle flips dark")

	assert.Equal(t, http.StatusBadRequest, postTheme(a, url.Values{"theme": {"sepia"}}, "").Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", chromeUA)
	req.AddCookie(&http.Cookie{Name: prefs.CookieName, Value: "dark"})
	body := do(a, req).Body.String()
	assert.Contains(t, body, `data-theme="dark"`)
	assert.Contains(t, body, `aria-label="Switch to light theme"`)
	assert.Contains(t, body, `<body class="device-desktop">`)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	assert.NotContains(t, do(a, req).Body.String(), `class="theme-toggle"`, "no toggle for crawlers")
}

func TestLocalPath(t *testing.T) {
	for in, want := range map[string]string{
		"":                 "/",
		"/about":           "/about",
		"/a?b=c":           "/a?b=c",
		"https://evil.dev": "/",
		"//evil.dev":       "/",
		`/\evil.dev`:       "/",
		"relative":         "/",
	} {
		assert.Equal(t, want, localPath(in), in)
	}
}

var tokenRE = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

func TestContactRoundTrip(t *testing.T) {
	a := newApp(t, nil)

	rec := get(a, "/contact")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<a href="/contact" class="active" aria-current="page">Contact</a>`)
	m := tokenRE.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2)

	form := url.Values{"csrf_token": {m[1]}, "name": {"Jane"}, "email": {"jane@"}, "message": {"Hi"}}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = do(a, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please enter a valid email address.")
	assert.Contains(t, body, `value="Jane"`)
	assert.Contains(t, body, "All rights reserved.", "rendered inside the layout")
}

func TestForceHTTPS(t *testing.T) {
	a := newApp(t, func(c *config.Config) { c.HTTP.ForceHTTPS = true })

	req := httptest.NewRequest(http.MethodGet, "http://jane.dev/about?x=1", nil)
	rec := do(a, req)
	assert.Equal(t, http.StatusPermanentRedirect, rec.Code)
	assert.Equal(t, "https://jane.dev/about?x=1", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "http://jane.dev/about", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = do(a, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestSetConfig_BaseURL(t *testing.T) {
	a := newApp(t, nil)
	assert.Contains(t, get(a, "/about").Body.String(), `<link rel="canonical" href="/about">`)

	next := *a.Config()
	next.Site.BaseURL = "https://jane.dev"
	a.SetConfig(&next)
	assert.Contains(t, get(a, "/about").Body.String(), `<link rel="canonical" href="https://jane.dev/about">`)
}

func TestThemeOverrideDir(t *testing.T) {
	dir := t.TempDir()
	pages := filepath.Join(dir, "default", "templates", "pages")
	require.NoError(t, os.MkdirAll(pages, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pages, "about.html"),
		[]byte(`{{ define "content" }}<p>local about</p>{{ end }}`), 0o644))

	a := newApp(t, func(c *config.Config) { c.Site.OverrideDir = dir })
	assert.Contains(t, get(a, "/about").Body.String(), "<p>local about</p>")
	assert.Contains(t, get(a, "/skills").Body.String(), "<h1>Skills</h1>", "other files come from the base theme")
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	cfg := config.Defaults()
	cfg.Site.Theme = "missing"
	_, err = New(Options{Config: &cfg, Logger: zap.NewNop().Sugar()})
	assert.ErrorContains(t, err, "missing")

	cfg = config.Defaults()
	cfg.Security.CSRFKey = "c2hvcnQ"
	_, err = New(Options{Config: &cfg, Logger: zap.NewNop().Sugar()})
	assert.ErrorContains(t, err, "csrf_key")
}

func TestBuiltinThemeParses(t *testing.T) {
	a := newApp(t, nil)
	n, err := a.Views().Check()
	require.NoError(t, err)
	assert.Equal(t, 8, n, "seven pages plus the contact form")
}
