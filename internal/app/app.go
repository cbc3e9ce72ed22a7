// internal/app/app.go
//
// Site assembly: theme, views, content, tokens, middleware, and routes.
//
/*
Context
-------
An App is one running portfolio.  New() loads the theme, builds the view
engine, opens the content store, and mounts every registered component
behind the shared middleware stack.  The App itself is the
component.SiteInfo handed to each component's Init.

Middleware order (outermost first):

  1. chi Recoverer      – turns a handler panic into a 500.
  2. requestinfo        – request id, UA, geo, request-scoped logger.
  3. AccessLog          – one log line and the HTTP metrics per request.
  4. Security           – security headers.
  5. ForceHTTPS         – 308 to https when enabled.
  6. prefs              – theme and reduced-motion preferences.

Site routes (components add the rest):

  GET  /healthz            liveness
  GET  <metrics.path>      Prometheus, when enabled
  GET  /static/*           theme assets
  POST /preferences/theme  theme cookie, then 303 back

Notes
-----
  • Component routes are copied onto the site router with chi.Walk rather
    than mounted, so several components may share "/" and the access log
    sees the full route pattern.  Two components claiming the same method
    and pattern is a boot error.
  • Config and content are read per request, so SetConfig() and a content
    reload take effect without rebuilding the router.  Theme, metrics, and
    HTTPS settings are fixed at New().
*/
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/component"
	"github.com/yanizio/folio/internal/config"
	"github.com/yanizio/folio/internal/content"
	"github.com/yanizio/folio/internal/form"
	"github.com/yanizio/folio/internal/middleware"
	"github.com/yanizio/folio/internal/prefs"
	"github.com/yanizio/folio/internal/requestinfo"
	"github.com/yanizio/folio/internal/theme"
	"github.com/yanizio/folio/internal/view"
	"github.com/yanizio/folio/web"
)

var _ component.SiteInfo = (*App)(nil)

// Options wires external resources into New.  Only Config is required.
type Options struct {
	Config  *config.Config
	Themes  fs.FS                 // holds themes/<name>; defaults to web.FS
	Content *content.Store        // nil opens cfg.Content.Path
	Tokens  *form.Tokens          // nil builds from cfg.Security
	Geo     requestinfo.GeoLookup // nil disables country lookup
	Logger  *zap.SugaredLogger
}

// App is one assembled site.
type App struct {
	cfg     atomic.Pointer[config.Config]
	views   *view.Engine
	store   *content.Store
	tokens  *form.Tokens
	log     *zap.SugaredLogger
	handler http.Handler
}

// New assembles the site described by opts.Config.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	log := opts.Logger
	if log == nil {
		log = zap.S()
	}

	themes := opts.Themes
	if themes == nil {
		themes = web.FS
	}
	mgr := &theme.Manager{Base: themes, OverrideDir: cfg.Abs(cfg.Site.OverrideDir)}
	th, err := mgr.Load(cfg.Site.Theme)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	views, err := view.New(th, view.Options{Reload: cfg.Site.TemplateReload, Logger: log})
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	store := opts.Content
	if store == nil {
		if store, err = content.NewStore(cfg.Abs(cfg.Content.Path)); err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
	}

	tokens := opts.Tokens
	if tokens == nil {
		var ephemeral bool
		tokens, ephemeral, err = form.NewTokens(cfg.Security.CSRFKey, cfg.Security.CSRFMaxAge)
		if err != nil {
			return nil, fmt.Errorf("app: security.csrf_key: %w", err)
		}
		if ephemeral {
			log.Warnw("security.csrf_key unset; using a per-process key")
		}
	}

	a := &App{views: views, store: store, tokens: tokens, log: log}
	a.cfg.Store(cfg)

	if a.handler, err = a.routes(th, requestinfo.NewEnricher(opts.Geo, log)); err != nil {
		return nil, err
	}
	return a, nil
}

/*──────────────────────────── SiteInfo ─────────────────────────────────────*/

func (a *App) Config() *config.Config     { return a.cfg.Load() }
func (a *App) Content() *content.Site     { return a.store.Get() }
func (a *App) Views() *view.Engine        { return a.views }
func (a *App) Tokens() *form.Tokens       { return a.tokens }
func (a *App) Logger() *zap.SugaredLogger { return a.log }

/*──────────────────────────── lifecycle ────────────────────────────────────*/

// Handler is the root http.Handler.
func (a *App) Handler() http.Handler { return a.handler }

// Store returns the content store, e.g. for the file watcher.
func (a *App) Store() *content.Store { return a.store }

// SetConfig swaps in a reloaded Config and drops cached templates.
func (a *App) SetConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	a.cfg.Store(cfg)
	a.views.Purge()
}

/*──────────────────────────── router ───────────────────────────────────────*/

func (a *App) routes(th *theme.Theme, enricher *requestinfo.Enricher) (http.Handler, error) {
	cfg := a.Config()
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(enricher.Middleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Security)
	r.Use(middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS))
	r.Use(prefs.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	static, err := th.Static()
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	r.Handle(theme.StaticPrefix+"*", staticHandler(static))

	r.Post("/preferences/theme", a.postTheme)

	if err := a.mountComponents(r); err != nil {
		return nil, err
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		component.NotFound(a, w, req)
	})
	return r, nil
}

// mountComponents initialises every registered component and copies its
// routes onto r.
func (a *App) mountComponents(r chi.Router) error {
	owner := map[string]string{}
	for _, c := range component.All() {
		if err := c.Init(a); err != nil {
			return fmt.Errorf("app: component %s: %w", c.Name(), err)
		}
		err := chi.Walk(c.Routes(), func(method, route string, h http.Handler, mws ...func(http.Handler) http.Handler) error {
			key := method + " " + route
			if prev, ok := owner[key]; ok {
				return fmt.Errorf("app: %s registered by both %s and %s", key, prev, c.Name())
			}
			owner[key] = c.Name()
			r.With(mws...).Method(method, route, h)
			return nil
		})
		if err != nil {
			return err
		}
		a.log.Debugw("component mounted", "component", c.Name())
	}
	return nil
}

// staticHandler serves theme assets with a short shared cache.
func staticHandler(fsys fs.FS) http.Handler {
	files := http.StripPrefix(theme.StaticPrefix, http.FileServer(http.FS(fsys)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r) // no directory listings
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}

// postTheme stores an explicit theme, or flips the painted one when the
// form omits it, then returns to a local "next" path.
func (a *App) postTheme(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	t := prefs.FromContext(r.Context()).Toggled()
	if v := r.PostForm.Get("theme"); v != "" {
		parsed, ok := prefs.ParseTheme(v)
		if !ok {
			http.Error(w, "unknown theme", http.StatusBadRequest)
			return
		}
		t = parsed
	}
	prefs.SetTheme(w, r, t)
	http.Redirect(w, r, localPath(r.PostForm.Get("next")), http.StatusSeeOther)
}

// localPath returns p when it is a same-site absolute path, else "/".
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, `/\`) {
		return "/"
	}
	return p
}
