// components/contact/routes.go
//
// Contact component – HTML form and JSON validation endpoint.
//
//	GET  /contact               mounted (idle) form with a fresh CSRF token
//	POST /contact               token check, submit, re-render
//	POST /api/contact/validate  JSON FieldValues in, Result out
//
// Status codes: 200 when the submit validated, 422 when a field failed,
// 403 for a missing or stale token, 400 for an unreadable body.  The JSON
// endpoint only validates and has no side effects, so it carries no token.

package contact

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/folio/internal/component"
	"github.com/yanizio/folio/internal/form"
	"github.com/yanizio/folio/internal/logger"
	"github.com/yanizio/folio/internal/metrics"
)

// compile-time assertions
var (
	_ component.Component   = (*Comp)(nil)
	_ component.Initializer = (*Comp)(nil)
)

func init() {
	component.Register("contact", func() component.Component { return &Comp{} })
}

// maxBody caps a posted form or JSON document.
const maxBody = 64 << 10

// Comp implements component.Component.
type Comp struct {
	site component.SiteInfo
}

func (c *Comp) Name() string { return "contact" }

// Init keeps the site handle and refuses an override that renamed fields.
func (c *Comp) Init(si component.SiteInfo) error {
	c.site = si
	return checkDefinition(definition())
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/contact", c.getContact)
	r.Post("/contact", c.postContact)

	r.Route("/api/contact", func(api chi.Router) {
		api.Post("/validate", c.postValidate)
	})
	return r
}

// PageData feeds templates/contact/index.html as .Data.
type PageData struct {
	State form.Result
	CSRF  string
	Form  *form.FormDef
}

func (c *Comp) getContact(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusOK, NewController())
}

func (c *Comp) postContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	log := logger.FromContext(r.Context())

	ctl := NewController()
	res, err := form.HandleSubmit(ctl.Form(), c.site.Tokens(), r)
	switch {
	case form.IsCSRFError(err):
		metrics.ContactSubmissionsTotal.WithLabelValues("forbidden").Inc()
		log.Warnw("contact submit rejected", "reason", "csrf")
		http.Error(w, "Your form session expired.  Please reload the page and try again.", http.StatusForbidden)
		return
	case err != nil:
		metrics.ContactSubmissionsTotal.WithLabelValues("bad_request").Inc()
		log.Warnw("contact submit unreadable", "err", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	metrics.ContactSubmissionsTotal.WithLabelValues(res.Status.String()).Inc()
	log.Infow("contact form validated", "status", res.Status.String(), "invalid_fields", len(res.Errors))
	c.render(w, r, statusFor(res.Status), ctl)
}

func (c *Comp) postValidate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	var v FieldValues
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		metrics.ContactSubmissionsTotal.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request body must be a JSON object"})
		return
	}

	res := NewController().Submit(v)
	metrics.ContactSubmissionsTotal.WithLabelValues(res.Status.String()).Inc()
	writeJSON(w, statusFor(res.Status), res)
}

// render shows the form in ctl's state with a new token.
func (c *Comp) render(w http.ResponseWriter, r *http.Request, status int, ctl *Controller) {
	tok, err := c.site.Tokens().Generate()
	if err != nil {
		logger.FromContext(r.Context()).Errorw("csrf token generation failed", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	component.RenderPage(c.site, w, r, component.Page{
		Status: status,
		Comp:   "contact",
		Name:   "index",
		ID:     "contact",
		Data: PageData{
			State: ctl.Form().Result(),
			CSRF:  tok,
			Form:  ctl.Form().Def(),
		},
	})
}

func statusFor(s form.Status) int {
	if s == form.StatusError {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) // headers are out; nothing left to report
}
