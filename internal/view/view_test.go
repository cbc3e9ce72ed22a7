package view

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/folio/internal/metrics"
	"github.com/yanizio/folio/internal/prefs"
	"github.com/yanizio/folio/internal/theme"
	"github.com/yanizio/folio/internal/widget"
)

var testFS = fstest.MapFS{
	"templates/layout/base.html": {Data: []byte(
		`{{ define "base" }}<html data-theme="{{ .Ctx.Prefs.Resolved }}">{{ template "nav" . }}<main>{{ template "content" . }}</main></html>{{ end }}`)},
	"templates/layout/nav.html": {Data: []byte(
		`{{ define "nav" }}<a href="/about"{{ if isActive .Ctx.Path "/about" }} aria-current="page"{{ end }}>About</a>{{ end }}`)},
	"templates/pages/home.html": {Data: []byte(
		`{{ define "content" }}Home {{ .Data }} {{ template "chip" "Go" }}{{ end }}`)},
	"templates/pages/about.html": {Data: []byte(
		`{{ define "content" }}About <link href="{{ asset "css/site.css" }}">{{ end }}`)},
	"templates/pages/partials/chip.html": {Data: []byte(
		`{{ define "chip" }}<span class="chip chip-{{ slug . }}">{{ . }}</span>{{ end }}`)},
	"templates/pages/broken.html": {Data: []byte(`{{ define "content" }}{{ .Nope.Nope }}{{ end }}`)},
	"templates/fragments/card.html": {Data: []byte(
		`<div>{{ .title }}</div>{{ widget "test/echo" nil (dict "x" "1") }}`)},
	"templates/fragments/badge.html": {Data: []byte(
		`ignored{{ define "badge" }}<b>{{ . }}</b>{{ end }}`)},
}

type page struct {
	Ctx  *Context
	Data any
}

type echoWidget struct{}

func (echoWidget) ID() string { return "test/echo" }
func (echoWidget) Render(_ any, p map[string]any) (template.HTML, widget.Policy, error) {
	return template.HTML("<i>" + p["x"].(string) + "</i>"), widget.CacheSkip, nil
}

func newEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := New(theme.New("test", testFS), opts)
	require.NoError(t, err)
	return e
}

func ctxFor(path string) *Context {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	c := NewContext(r)
	c.Prefs = prefs.Prefs{Theme: prefs.ThemeDark}
	return c
}

func TestRender_PageThroughLayout(t *testing.T) {
	e := newEngine(t, Options{})
	w := httptest.NewRecorder()

	err := e.Render(w, http.StatusOK, "pages", "home", page{Ctx: ctxFor("/"), Data: "<hi>"})
	require.NoError(t, err)

	body := w.Body.String()
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, body, `data-theme="dark"`)
	assert.Contains(t, body, `Home &lt;hi&gt;`)
	assert.Contains(t, body, `<span class="chip chip-go">Go</span>`)
	assert.NotContains(t, body, `aria-current`)
}

func TestRender_ActiveNavAndAsset(t *testing.T) {
	e := newEngine(t, Options{})
	w := httptest.NewRecorder()

	require.NoError(t, e.Render(w, http.StatusTeapot, "pages", "about", page{Ctx: ctxFor("/about")}))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Contains(t, w.Body.String(), `aria-current="page"`)
	assert.Contains(t, w.Body.String(), `href="/static/css/site.css"`)
}

func TestRender_FailureLeavesWriterUntouched(t *testing.T) {
	e := newEngine(t, Options{})

	w := httptest.NewRecorder()
	err := e.Render(w, http.StatusOK, "pages", "broken", page{Ctx: ctxFor("/")})
	require.Error(t, err)
	assert.False(t, w.Flushed)
	assert.Empty(t, w.Body.String())

	err = e.Render(w, http.StatusOK, "pages", "missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.RenderString("..", "x", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenderString_FileAndDefine(t *testing.T) {
	widget.Register(echoWidget{})
	e := newEngine(t, Options{})

	out, err := e.RenderString("fragments", "card", map[string]any{"title": "T"})
	require.NoError(t, err)
	assert.Equal(t, `<div>T</div><i>1</i>`, string(out))

	out, err = e.RenderString("fragments", "badge", "x")
	require.NoError(t, err)
	assert.Equal(t, `<b>x</b>`, string(out))
}

func TestLoad_CachesAndReloadBypasses(t *testing.T) {
	e := newEngine(t, Options{})
	misses := testutil.ToFloat64(metrics.TemplateCacheMisses)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.load("pages", "home")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	first, err := e.load("pages", "home")
	require.NoError(t, err)
	second, err := e.load("pages", "home")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, misses+1, testutil.ToFloat64(metrics.TemplateCacheMisses))

	e.Purge()
	third, err := e.load("pages", "home")
	require.NoError(t, err)
	assert.NotSame(t, first, third)

	dev := newEngine(t, Options{Reload: true})
	a, _ := dev.load("pages", "home")
	b, _ := dev.load("pages", "home")
	assert.NotSame(t, a, b)
}

func TestCheck_ReportsBrokenTemplates(t *testing.T) {
	bad := fstest.MapFS{
		"templates/layout/base.html": {Data: []byte(`{{ define "base" }}{{ end }}`)},
		"templates/pages/ok.html":    {Data: []byte(`fine`)},
		"templates/pages/bad.html":   {Data: []byte(`{{ if }}`)},
	}
	e, err := New(theme.New("bad", bad), Options{})
	require.NoError(t, err)

	n, err := e.Check()
	assert.Equal(t, 1, n)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "bad.html"))

	n, err = newEngine(t, Options{}).Check()
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestIsActive(t *testing.T) {
	assert.True(t, IsActive("/", "/"))
	assert.False(t, IsActive("/about", "/"))
	assert.True(t, IsActive("/projects", "/projects"))
	assert.True(t, IsActive("/projects/taskflow", "/projects/"))
	assert.False(t, IsActive("/projectsx", "/projects"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "node-js", Slug("Node.js"))
	assert.Equal(t, "c", Slug("C++"))
	assert.Equal(t, "item", Slug("★★"))
	assert.Len(t, Slug(strings.Repeat("ab ", 80)), 100)
}
