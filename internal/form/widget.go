// internal/form/widget.go
//
// Folio – Forms subsystem: widget integration.
//
// Context
//   Templates embed forms through the widget system:
//
//       {{ widget "form/contact" .Ctx (dict "state" .Data.State "csrf" .Data.CSRF) }}
//
//   Recognised params:
//
//   - "state"  form.Result – values, errors, and status to reflect
//   - "csrf"   string      – token for the hidden csrf_token input
//   - "action" string      – POST target
//
//   The widget always returns widget.CacheSkip because every render carries
//   a fresh token and per-request state.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"html/template"

	"github.com/yanizio/folio/internal/widget"
)

var _ widget.Widget = (*formWidget)(nil)

type formWidget struct{ formID string }

// ID implements widget.Widget.
func (w *formWidget) ID() string { return "form/" + w.formID }

// Render implements widget.Widget.  The definition is looked up on every
// call so a later override registration takes effect.
func (w *formWidget) Render(_ any, params map[string]any) (template.HTML, widget.Policy, error) {
	fd, ok := GetFormDef(w.formID)
	if !ok {
		return "", widget.CacheSkip, fmt.Errorf("%w: %q", ErrUnknownForm, w.formID)
	}

	opts := RenderOptions{State: NewController(fd).Result()}
	if params != nil {
		if s, ok := params["state"].(Result); ok {
			opts.State = s
		}
		if t, ok := params["csrf"].(string); ok {
			opts.CSRFToken = t
		}
		if a, ok := params["action"].(string); ok {
			opts.Action = a
		}
	}
	return RenderForm(fd, opts), widget.CacheSkip, nil
}

// injectWidgetRegistration is called by Register after each definition loads.
func injectWidgetRegistration(fd *FormDef) { widget.Register(&formWidget{formID: fd.ID}) }
