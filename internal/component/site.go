// internal/component/site.go
//
// SiteInfo is what a component sees of the running site, plus the shared
// page-render helper every component uses.
//
// Context
//   Components never import internal/app; the app hands itself over as a
//   SiteInfo in Init.  Content() and Config() return the live snapshot, so
//   a hot reload is visible on the next request without re-mounting.
//
//------------------------------------------------------------------------------

package component

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/config"
	"github.com/yanizio/folio/internal/content"
	"github.com/yanizio/folio/internal/form"
	"github.com/yanizio/folio/internal/head"
	"github.com/yanizio/folio/internal/logger"
	"github.com/yanizio/folio/internal/view"
)

// SiteInfo exposes site-wide resources to Components during Init.
type SiteInfo interface {
	Config() *config.Config
	Content() *content.Site
	Views() *view.Engine
	Tokens() *form.Tokens
	Logger() *zap.SugaredLogger
}

// PageData is the root value every page template receives.
type PageData struct {
	Ctx        *view.Context
	Site       *content.Site
	ResumeHref string // PDF download when configured, else the web resume
	Data       any
}

// Page describes one full-page render.
type Page struct {
	Status int    // zero means 200
	Comp   string // template directory under templates/
	Name   string // file name without .html
	ID     string // content.Site.Pages key used for SEO
	Data   any

	// Head runs after the SEO defaults, e.g. to add JSON-LD.
	Head func(*head.Builder, *content.Site)
}

// RenderPage seeds <head> from the page's SEO entry and renders it through
// the theme layout.  Failures are logged and answered with a bare 500.
func RenderPage(si SiteInfo, w http.ResponseWriter, r *http.Request, p Page) {
	vctx := view.NewContext(r)
	site := si.Content()
	cfg := si.Config()

	pm, _ := site.Page(p.ID)
	head.Apply(vctx.Head, head.SEO{
		Title:       pm.Title,
		Description: pm.Description,
		Path:        r.URL.Path,
		Image:       pm.Image,
		Type:        pm.Type,
	}, head.Defaults{
		SiteName: site.Owner.Name,
		BaseURL:  cfg.Site.BaseURL,
		Image:    cfg.Site.OGImage,
	})
	if p.Head != nil {
		p.Head(vctx.Head, site)
	}

	status := p.Status
	if status == 0 {
		status = http.StatusOK
	}
	data := PageData{Ctx: vctx, Site: site, ResumeHref: ResumeHref(cfg), Data: p.Data}
	if err := si.Views().Render(w, status, p.Comp, p.Name, data); err != nil {
		logger.FromContext(r.Context()).Errorw("page render failed",
			"comp", p.Comp, "page", p.Name, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// ResumeHref is the target of the header's "Download Resume" link.
func ResumeHref(cfg *config.Config) string {
	if cfg != nil && cfg.Resume.Path != "" {
		return "/resume/download"
	}
	return "/resume"
}

// NotFound renders the theme's pages/notfound template with a 404.
func NotFound(si SiteInfo, w http.ResponseWriter, r *http.Request) {
	RenderPage(si, w, r, Page{
		Status: http.StatusNotFound,
		Comp:   "pages",
		Name:   "notfound",
		ID:     "notfound",
	})
}
