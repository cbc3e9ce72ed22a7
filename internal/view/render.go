// internal/view/render.go
//
// Central view engine: template lookup, func-map injection, and an LRU of
// parsed *template.Template* sets.
//
// Public helpers
// --------------
//   - Render         – execute a page through the layout and write it.
//   - RenderString   – execute one named template and return template.HTML.
//   - Check          – parse every component template (used by `folio check`).
//
// Template sets
// -------------
// Each set holds the theme's layout files plus one component file:
//
//	templates/layout/*.html
//	templates/<comp>/partials/*.html   (optional, shared by that component)
//	templates/<comp>/<name>.html
//
// Page files fill the blocks the layout declares ({{ define "content" }}).
// Because every page gets its own set, two pages may both define "content"
// without clashing.
//
// Caching
// -------
// Sets are cached under "<theme>::<comp>::<name>".  A cold miss is parsed
// once even under a thundering herd (singleflight).  With Options.Reload the
// cache is bypassed so edits in an override directory show up immediately.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/folio/internal/cache"
	"github.com/yanizio/folio/internal/metrics"
	"github.com/yanizio/folio/internal/theme"
)

// ErrNotFound is returned when no template file matches comp/name.
var ErrNotFound = errors.New("view: template not found")

const (
	layoutDir   = "layout"
	layoutEntry = "base"

	defaultCacheSize = 256
)

// Options tune an Engine.
type Options struct {
	Reload    bool // bypass the LRU; development only
	CacheSize int  // parsed sets kept; zero means 256
	Logger    *zap.SugaredLogger
}

// Engine renders templates from one theme.
type Engine struct {
	theme  *theme.Theme
	tpls   fs.FS
	funcs  template.FuncMap
	lru    *cache.LRU
	group  singleflight.Group
	reload bool
	log    *zap.SugaredLogger
}

// New builds an Engine for th.
func New(th *theme.Theme, opts Options) (*Engine, error) {
	tpls, err := th.Templates()
	if err != nil {
		return nil, err
	}
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	log := opts.Logger
	if log == nil {
		log = zap.S()
	}
	return &Engine{
		theme:  th,
		tpls:   tpls,
		funcs:  funcMap(th.AssetFunc),
		lru:    cache.New(size),
		reload: opts.Reload,
		log:    log,
	}, nil
}

// Theme returns the engine's theme.
func (e *Engine) Theme() *theme.Theme { return e.theme }

// Purge drops every cached set.
func (e *Engine) Purge() { e.lru.Purge() }

//
// public helpers
//

// Render executes the layout entry ("base") of comp/name into a buffer and,
// only when that succeeds, writes status and body to w.  A failed render
// leaves w untouched so the caller can still send a 500.
func (e *Engine) Render(w http.ResponseWriter, status int, comp, name string, data any) error {
	t, err := e.load(comp, name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layoutEntry, data); err != nil {
		return fmt.Errorf("view: execute %s/%s: %w", comp, name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// RenderString executes the template named name inside the comp/name set.
// A file may either wrap its markup in {{ define "<name>" }} or be plain
// markup; the define wins when both exist.
func (e *Engine) RenderString(comp, name string, data any) (template.HTML, error) {
	t, err := e.load(comp, name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, execName(t, name), data); err != nil {
		return "", fmt.Errorf("view: execute %s/%s: %w", comp, name, err)
	}
	return template.HTML(buf.String()), nil
}

// Check parses every component template once, bypassing the cache, and
// reports all failures together.
func (e *Engine) Check() (int, error) {
	dirs, err := fs.ReadDir(e.tpls, ".")
	if err != nil {
		return 0, err
	}
	var (
		n    int
		errs []error
	)
	for _, d := range dirs {
		if !d.IsDir() || d.Name() == layoutDir {
			continue
		}
		files, err := fs.Glob(e.tpls, path.Join(d.Name(), "*.html"))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, f := range files {
			name := strings.TrimSuffix(path.Base(f), ".html")
			if _, err := e.parse(d.Name(), name); err != nil {
				errs = append(errs, err)
				continue
			}
			n++
		}
	}
	return n, errors.Join(errs...)
}

//
// internal: load and parse
//

func (e *Engine) load(comp, name string) (*template.Template, error) {
	if e.reload {
		return e.parse(comp, name)
	}

	key := e.theme.Name + "::" + comp + "::" + name
	if v, ok := e.lru.Get(key); ok {
		metrics.TemplateCacheHits.Inc()
		return v.(*template.Template), nil
	}

	v, err, _ := e.group.Do(key, func() (any, error) {
		if v, ok := e.lru.Get(key); ok {
			return v, nil
		}
		metrics.TemplateCacheMisses.Inc()
		t, err := e.parse(comp, name)
		if err != nil {
			return nil, err
		}
		e.lru.Add(key, t)
		e.log.Debugw("template set parsed", "theme", e.theme.Name, "comp", comp, "name", name)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*template.Template), nil
}

// parse builds a fresh set for comp/name.
func (e *Engine) parse(comp, name string) (*template.Template, error) {
	if !validSegment(comp) || !validSegment(name) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, comp, name)
	}
	file := path.Join(comp, name+".html")
	if _, err := fs.Stat(e.tpls, file); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, file)
	}

	files, err := fs.Glob(e.tpls, path.Join(layoutDir, "*.html"))
	if err != nil {
		return nil, err
	}
	partials, err := theme.CollectHTML(e.tpls, path.Join(comp, "partials"))
	if err != nil {
		return nil, err
	}
	files = append(files, partials...)
	files = append(files, file)

	t, err := template.New(name).Funcs(e.funcs).ParseFS(e.tpls, files...)
	if err != nil {
		return nil, fmt.Errorf("view: parse %s: %w", file, err)
	}
	return t, nil
}

//
// helpers
//

// execName picks the template name to execute.
//
// Priority:
//  1. A {{ define "<name>" }} block.
//  2. The file itself ("<name>.html").
func execName(t *template.Template, name string) string {
	if tmpl := t.Lookup(name); tmpl != nil && tmpl.Tree != nil {
		return name
	}
	return name + ".html"
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
