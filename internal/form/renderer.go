// internal/form/renderer.go
//
// Folio – Forms subsystem: HTML renderer.
//
// Context
//   RenderForm converts a FormDef plus the current controller state into
//   accessible markup.  Each field gets a label, its current value, an
//   `aria-invalid` flag, and a `role="alert"` paragraph that carries the
//   field's message.  A polite live region below the submit button carries
//   the summary for the last submit.  Browser validation is disabled
//   (`novalidate`) so the server's messages are the only ones shown.
//
// Workflow
//   •  The caller supplies the Result snapshot, a CSRF token, and the action.
//   •  Fields are written in definition order via writeField.
//   •  The output is template.HTML so surrounding templates do not escape it.
//
// Style
//   Plain markup with class hooks only.  Inputs use id="<name>", messages
//   use id="<name>-error", and the summary uses id="<form>-status".
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"html"
	"html/template"
	"strconv"
)

// RenderOptions bundles the state and wiring for one render.
type RenderOptions struct {
	Action    string // POST target, defaults to "".
	CSRFToken string // Embedded as hidden csrf_token when non-empty.
	State     Result // Values, errors, and status to reflect.
}

// RenderForm returns markup for fd in the given state.
func RenderForm(fd *FormDef, opts RenderOptions) template.HTML {
	var buf bytes.Buffer
	statusID := html.EscapeString(fd.ID) + "-status"

	buf.WriteString(`<form class="folio-form" method="post" novalidate`)
	if opts.Action != "" {
		buf.WriteString(` action="` + html.EscapeString(opts.Action) + `"`)
	}
	buf.WriteString(` aria-describedby="` + statusID + `">` + "\n")

	for i := range fd.Fields {
		writeField(&buf, &fd.Fields[i], opts.State)
	}

	if opts.CSRFToken != "" {
		buf.WriteString(`<input type="hidden" name="csrf_token" value="` + html.EscapeString(opts.CSRFToken) + `">` + "\n")
	}

	buf.WriteString(`<div class="form-actions"><button type="submit" class="btn">` +
		html.EscapeString(fd.Submit) + `</button></div>` + "\n")

	buf.WriteString(`<div id="` + statusID + `" class="form-status" aria-live="polite">`)
	switch opts.State.Status {
	case StatusSuccess:
		buf.WriteString(`<p class="form-status-success">` + html.EscapeString(fd.Success) + `</p>`)
	case StatusError:
		buf.WriteString(`<p class="form-status-error">` + html.EscapeString(fd.Failure) + `</p>`)
	}
	buf.WriteString(`</div>` + "\n")

	buf.WriteString(`</form>`)
	return template.HTML(buf.String())
}

// writeField emits one labelled control and its message slot.
func writeField(buf *bytes.Buffer, f *FieldDef, state Result) {
	name := html.EscapeString(f.Name)
	val := html.EscapeString(state.Values[f.Name])
	msg, invalid := state.Errors[f.Name]
	errID := name + "-error"

	buf.WriteString(`<div class="form-field">` + "\n")
	buf.WriteString(`<label for="` + name + `">` + html.EscapeString(f.Label) + `</label>` + "\n")

	attrs := ` id="` + name + `" name="` + name + `"`
	if f.Placeholder != "" {
		attrs += ` placeholder="` + html.EscapeString(f.Placeholder) + `"`
	}
	if invalid {
		attrs += ` aria-invalid="true" aria-describedby="` + errID + `"`
	} else {
		attrs += ` aria-invalid="false"`
	}

	switch f.Type {
	case "textarea":
		rows := f.Rows
		if rows == 0 {
			rows = 5
		}
		buf.WriteString(`<textarea` + attrs + ` rows="` + strconv.Itoa(rows) + `">` + val + `</textarea>` + "\n")
	default:
		buf.WriteString(`<input` + attrs + ` type="` + f.Type + `" value="` + val + `">` + "\n")
	}

	buf.WriteString(`<p id="` + errID + `" class="form-error" role="alert">`)
	if invalid {
		buf.WriteString(html.EscapeString(msg))
	}
	buf.WriteString(`</p>` + "\n")
	buf.WriteString(`</div>` + "\n")
}
