// internal/form/submit.go
//
// Folio – Forms subsystem: consolidated submit helper.
//
// Context
//   POST handlers want one call that parses the body, checks the CSRF
//   token, and hands the raw field values to a Controller.  HandleSubmit
//   does exactly that so component code stays terse.  A token failure is a
//   transport problem, not a field error, so it is returned as ErrCSRF and
//   the controller is left untouched.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"net/http"
)

// ErrCSRF is returned when the posted csrf_token is missing or invalid.
var ErrCSRF = errors.New("form: security token invalid")

// HandleSubmit parses r, verifies its token with tokens (skipped when
// tokens is nil), and submits the posted values to c.
func HandleSubmit(c *Controller, tokens *Tokens, r *http.Request) (Result, error) {
	if err := r.ParseForm(); err != nil {
		return c.Result(), err
	}
	if tokens != nil && !tokens.Verify(r.PostForm.Get("csrf_token")) {
		return c.Result(), ErrCSRF
	}

	posted := make(Values, len(c.def.Fields))
	for _, f := range c.def.Fields {
		posted[f.Name] = r.PostForm.Get(f.Name)
	}
	return c.Submit(posted), nil
}

// IsCSRFError reports whether err came from a failed token check.
func IsCSRFError(err error) bool { return errors.Is(err, ErrCSRF) }
