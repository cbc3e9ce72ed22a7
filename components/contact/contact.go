// components/contact/contact.go
//
// Contact form: typed values, validation, and the submission controller.
//
// Context
//   The generic form module works on string maps.  This file gives the
//   contact form its own typed surface (FieldValues, Validate, Controller)
//   on top of the registered "contact" definition, so handlers and tests
//   read like the form they describe.
//
// Notes
//   The definition is looked up on every call, so an override loaded from
//   `forms.dirs` replaces the built-in messages without a restart of this
//   package.  Nothing here sends or stores a message.
//
//------------------------------------------------------------------------------

package contact

import (
	_ "embed"
	"fmt"

	"github.com/yanizio/folio/internal/form"
)

// FormID is the registry key of the contact form.
const FormID = "contact"

//go:embed forms/contact.yaml
var contactYAML []byte

var builtin = form.MustRegisterYAML(contactYAML, "components/contact/forms/contact.yaml")

// definition returns the live contact definition.
func definition() *form.FormDef {
	if fd, ok := form.GetFormDef(FormID); ok {
		return fd
	}
	return builtin
}

// checkDefinition reports an override that dropped one of the typed fields.
func checkDefinition(fd *form.FormDef) error {
	have := make(map[string]bool, len(fd.Fields))
	for _, n := range fd.FieldNames() {
		have[n] = true
	}
	for _, n := range []string{"name", "email", "message"} {
		if !have[n] {
			return fmt.Errorf("contact: form definition lacks field %q", n)
		}
	}
	return nil
}

// FieldValues is the raw input of one contact form.  Values are stored as
// typed and only trimmed during validation.
type FieldValues struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (v FieldValues) values() form.Values {
	return form.Values{"name": v.Name, "email": v.Email, "message": v.Message}
}

func fieldValues(m form.Values) FieldValues {
	return FieldValues{Name: m["name"], Email: m["email"], Message: m["message"]}
}

// Validate checks every field independently and returns messages for the
// failing ones only.  It is pure and never fails.
func Validate(v FieldValues) form.Errors {
	return form.Validate(definition(), v.values())
}

// Result is the controller state after a submit.
type Result struct {
	Status form.Status `json:"status"`
	Errors form.Errors `json:"errors"`
	Values FieldValues `json:"values"`
}

// Controller owns one mounted contact form.  It is not safe for concurrent
// use; handlers mount one per request.
type Controller struct {
	c *form.Controller
}

// NewController mounts an empty, idle form.
func NewController() *Controller {
	return &Controller{c: form.NewController(definition())}
}

// Submit validates v.  On success the values are cleared; on failure they
// are kept so the user can correct them.
func (c *Controller) Submit(v FieldValues) Result {
	return toResult(c.c.Submit(v.values()))
}

// Reset returns to the mounted state.
func (c *Controller) Reset() { c.c.Reset() }

func (c *Controller) Status() form.Status { return c.c.Status() }
func (c *Controller) Errors() form.Errors { return c.c.Errors() }
func (c *Controller) Values() FieldValues { return fieldValues(c.c.Values()) }
func (c *Controller) Result() Result      { return toResult(c.c.Result()) }

// Form exposes the generic controller, e.g. for form.HandleSubmit.
func (c *Controller) Form() *form.Controller { return c.c }

func toResult(r form.Result) Result {
	return Result{Status: r.Status, Errors: r.Errors, Values: fieldValues(r.Values)}
}
