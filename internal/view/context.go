package view

import (
	"net/http"

	"github.com/yanizio/folio/internal/head"
	"github.com/yanizio/folio/internal/prefs"
	"github.com/yanizio/folio/internal/requestinfo"
)

// Context is the per-request view state handed to templates as .Ctx and to
// widgets as their rctx argument.
type Context struct {
	Request *http.Request
	Head    *head.Builder
	Info    *requestinfo.Info // nil when the enricher did not run
	Prefs   prefs.Prefs
	Path    string
}

// NewContext collects what the middleware stack stored on r.
func NewContext(r *http.Request) *Context {
	return &Context{
		Request: r,
		Head:    head.New(),
		Info:    requestinfo.FromContext(r.Context()),
		Prefs:   prefs.FromContext(r.Context()),
		Path:    r.URL.Path,
	}
}
