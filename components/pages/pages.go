// components/pages/pages.go
//
// Pages component – the read-only portfolio pages.
//
//	GET /                 hero
//	GET /about            biography
//	GET /education        degrees and leadership
//	GET /skills           skill groups
//	GET /projects         project gallery
//	GET /resume           accessible web resume
//	GET /resume/download  the configured PDF as an attachment
//
// Every page reads the live content snapshot, so edits to the content file
// show up on the next request once the watcher has reloaded it.

package pages

import (
	"encoding/json"
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/folio/internal/component"
	"github.com/yanizio/folio/internal/content"
	"github.com/yanizio/folio/internal/head"
	"github.com/yanizio/folio/internal/logger"
)

// compile-time assertions
var (
	_ component.Component   = (*Comp)(nil)
	_ component.Initializer = (*Comp)(nil)
)

func init() {
	component.Register("pages", func() component.Component { return &Comp{} })
}

// Comp implements component.Component.
type Comp struct {
	site component.SiteInfo
}

func (c *Comp) Name() string { return "pages" }

func (c *Comp) Init(si component.SiteInfo) error {
	c.site = si
	return nil
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", c.page("home", personJSONLD))
	for _, id := range []string{"about", "education", "skills", "projects", "resume"} {
		r.Get("/"+id, c.page(id, nil))
	}
	r.Get("/resume/download", c.downloadResume)
	return r
}

// page renders templates/pages/<id>.html with the SEO entry <id>.
func (c *Comp) page(id string, extra func(*head.Builder, *content.Site)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		component.RenderPage(c.site, w, r, component.Page{
			Comp: "pages",
			Name: id,
			ID:   id,
			Head: extra,
		})
	}
}

// personJSONLD adds a schema.org Person for the home page.
func personJSONLD(b *head.Builder, site *content.Site) {
	p := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Person",
		"name":     site.Owner.Name,
		"jobTitle": site.Owner.Role,
	}
	var same []string
	for _, u := range []string{site.Owner.LinkedIn, site.Owner.GitHub} {
		if u != "" {
			same = append(same, u)
		}
	}
	if len(same) > 0 {
		p["sameAs"] = same
	}
	// json.Marshal escapes <, >, and & so the payload cannot close the tag.
	if js, err := json.Marshal(p); err == nil {
		b.JSONLD(string(js))
	}
}

func (c *Comp) downloadResume(w http.ResponseWriter, r *http.Request) {
	cfg := c.site.Config()
	if cfg.Resume.Path == "" {
		component.NotFound(c.site, w, r)
		return
	}

	path := cfg.Abs(cfg.Resume.Path)
	f, err := os.Open(path)
	if err != nil {
		log := logger.FromContext(r.Context())
		if errors.Is(err, fs.ErrNotExist) {
			log.Warnw("resume file missing", "path", path)
		} else {
			log.Errorw("resume open failed", "path", path, "err", err)
		}
		component.NotFound(c.site, w, r)
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil || st.IsDir() {
		component.NotFound(c.site, w, r)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": cfg.Resume.DownloadName}))
	http.ServeContent(w, r, cfg.Resume.DownloadName, st.ModTime(), f)
}
