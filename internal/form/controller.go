// internal/form/controller.go
//
// Folio – Forms subsystem: submission-state controller.
//
// Context
//   A Controller is one mounted form instance.  It owns the current field
//   values, the errors from the last validation pass, and a tri-state status.
//
//     idle ──submit(valid)──▶ success   (errors cleared, values reset)
//     idle ──submit(invalid)▶ error     (errors replaced, values kept)
//
//   Every Submit recomputes all three from scratch, whatever the current
//   status.  Nothing moves back to idle except Reset (a remount).
//
//   Controllers are single-owner.  The HTTP layer creates one per request.
//
//------------------------------------------------------------------------------

package form

import (
	"encoding/json"
	"fmt"
)

// Status is the outcome of the most recent submit.
type Status int

const (
	StatusIdle Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalJSON encodes the status as its lowercase name.
func (s Status) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// UnmarshalJSON accepts the names MarshalJSON produces.
func (s *Status) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	switch name {
	case "idle":
		*s = StatusIdle
	case "success":
		*s = StatusSuccess
	case "error":
		*s = StatusError
	default:
		return fmt.Errorf("form: unknown status %q", name)
	}
	return nil
}

// Result is the state visible to the caller after Submit.
type Result struct {
	Status Status `json:"status"`
	Errors Errors `json:"errors"`
	Values Values `json:"values"`
}

// Controller holds state for one form instance.  Zero value is unusable;
// construct with NewController.
type Controller struct {
	def    *FormDef
	values Values
	errors Errors
	status Status
}

// NewController mounts fd: empty values, no errors, idle.
func NewController(fd *FormDef) *Controller {
	c := &Controller{def: fd}
	c.Reset()
	return c
}

// NewControllerFor mounts the registered form formID.
func NewControllerFor(formID string) (*Controller, error) {
	fd, ok := GetFormDef(formID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownForm, formID)
	}
	return NewController(fd), nil
}

// Def returns the form definition.
func (c *Controller) Def() *FormDef { return c.def }

// Reset returns the controller to its freshly mounted state.
func (c *Controller) Reset() {
	c.values = c.emptyValues()
	c.errors = Errors{}
	c.status = StatusIdle
}

// Submit validates values and updates state.  Only keys named by the
// definition are kept.
func (c *Controller) Submit(values Values) Result {
	captured := c.emptyValues()
	for name := range captured {
		captured[name] = values[name]
	}

	errs := Validate(c.def, captured)
	if errs.Empty() {
		c.status = StatusSuccess
		c.errors = Errors{}
		c.values = c.emptyValues()
	} else {
		c.status = StatusError
		c.errors = errs
		c.values = captured
	}
	return c.Result()
}

// Result snapshots the current state.  Maps are copies.
func (c *Controller) Result() Result {
	return Result{
		Status: c.status,
		Errors: c.errors.Clone(),
		Values: c.values.Clone(),
	}
}

// Status returns the current submission status.
func (c *Controller) Status() Status { return c.status }

// Errors returns a copy of the current field errors.
func (c *Controller) Errors() Errors { return c.errors.Clone() }

// Values returns a copy of the current field values.
func (c *Controller) Values() Values { return c.values.Clone() }

func (c *Controller) emptyValues() Values {
	v := make(Values, len(c.def.Fields))
	for _, f := range c.def.Fields {
		v[f.Name] = ""
	}
	return v
}
