// internal/form/validate.go
//
// Folio – Forms subsystem: field validation.
//
// Context
//   Validate turns raw submitted values into an Errors map.  Each field is
//   trimmed, then its rules run in definition order; the first failing rule
//   supplies the field's message and the rest are skipped, so a field never
//   carries two messages.  Fields are independent of one another.
//
//   The function is pure: no I/O, no clock, no shared mutable state beyond
//   the concurrency-safe validator instance.  Calling it twice with the same
//   input yields equal output.
//
//   Check rules run through go-playground/validator.  We register one custom
//   tag, “emailshape”, which accepts “local@domain.tld” where each part is
//   one or more characters that are neither whitespace nor “@”.  Whitespace
//   follows the browser definition (Unicode space separators, \v, and BOM)
//   rather than RE2's ASCII-only \s.
//
// Style
//   Two-space sentence spacing, Oxford comma.
//
//------------------------------------------------------------------------------

package form

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Values holds raw field input keyed by field name.
type Values map[string]string

// Errors holds one message per failing field.  Valid fields are absent.
type Errors map[string]string

// Empty reports whether no field failed.
func (e Errors) Empty() bool { return len(e) == 0 }

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, s := range v {
		out[k] = s
	}
	return out
}

// Clone returns an independent copy.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for k, s := range e {
		out[k] = s
	}
	return out
}

// -----------------------------------------------------------------------------
// Rule engine
// -----------------------------------------------------------------------------

// emailShape mirrors /^[^\s@]+@[^\s@]+\.[^\s@]+$/ with ECMAScript \s.
var emailShape = regexp.MustCompile(
	`^[^\t\n\v\f\r \p{Z}\x{FEFF}@]+@[^\t\n\v\f\r \p{Z}\x{FEFF}@]+\.[^\t\n\v\f\r \p{Z}\x{FEFF}@]+$`,
)

var rules = newRuleValidator()

func newRuleValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

type compiledRule struct {
	check   string
	pattern *regexp.Regexp
	message string
}

func (r compiledRule) passes(val string) bool {
	if r.pattern != nil {
		return r.pattern.MatchString(val)
	}
	return rules.Var(val, r.check) == nil
}

// knownCheck reports whether tag is usable on a string.  validator panics on
// undefined tags, so we probe once at definition load.
func knownCheck(tag string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_ = rules.Var("", tag)
	return true
}

// MatchesEmailShape reports whether s (untrimmed) has the accepted email shape.
func MatchesEmailShape(s string) bool { return emailShape.MatchString(s) }

// -----------------------------------------------------------------------------
// Public API
// -----------------------------------------------------------------------------

// Validate runs every field rule of fd against values.  Missing keys are
// treated as empty input.  The result is never nil.
func Validate(fd *FormDef, values Values) Errors {
	errs := make(Errors)
	for _, f := range fd.Fields {
		val := strings.TrimSpace(values[f.Name])
		for _, r := range fd.compiled[f.Name] {
			if !r.passes(val) {
				errs[f.Name] = r.message
				break
			}
		}
	}
	return errs
}

// ValidateForm looks formID up in the registry and validates values.
func ValidateForm(formID string, values Values) (Errors, error) {
	fd, ok := GetFormDef(formID)
	if !ok {
		return nil, ErrUnknownForm
	}
	return Validate(fd, values), nil
}
