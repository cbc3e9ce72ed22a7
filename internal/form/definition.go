// internal/form/definition.go
//
// Folio – Forms subsystem: YAML definition loader.
//
// Context
//   Each HTML form is declared in YAML.  A definition names the form, lists
//   its fields in render order, and attaches an ordered rule list to every
//   field.  Components embed their default definitions and register them at
//   init; operators may drop overriding YAMLs into the directories listed
//   under `forms.dirs`, which RegisterForms loads at boot.  Later
//   registrations replace earlier ones by ID.
//
// Workflow
//   •  Structs mirror the YAML schema: FormDef → FieldDef → RuleDef.
//   •  ParseFormDef decodes raw YAML and validates structural rules.
//   •  LoadFormDef reads one file and delegates to ParseFormDef.
//   •  RegisterForms walks directories, loads every “*.yaml”, and registers.
//   •  GetFormDef offers read-only access by ID.
//
// Style
//   Full sentences, two spaces after periods, Oxford commas.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrUnknownForm is returned when a form ID has no registered definition.
var ErrUnknownForm = errors.New("form: unknown form")

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition.
type FormDef struct {
	ID       string     `yaml:"id"`       // Registry key, e.g. “contact”.
	Title    string     `yaml:"title"`    // Display title, optional.
	Submit   string     `yaml:"submit"`   // Submit button label.
	Success  string     `yaml:"success"`  // Summary shown on success.
	Failure  string     `yaml:"failure"`  // Summary shown when any field fails.
	Fields   []FieldDef `yaml:"fields"`   // Render and validation order.
	compiled map[string][]compiledRule
}

// FieldDef describes a single input control and its rules.
type FieldDef struct {
	Name        string    `yaml:"name"`        // Submission key.  Required.
	Label       string    `yaml:"label"`       // Human-readable label.  Required.
	Type        string    `yaml:"type"`        // text, email, textarea.
	Placeholder string    `yaml:"placeholder"` // Optional.
	Rows        int       `yaml:"rows"`        // textarea only.
	Rules       []RuleDef `yaml:"rules"`       // Evaluated in order, first failure wins.
}

// RuleDef is one validation step.  Exactly one of Check or Pattern is set.
//
// Check names a validator tag (“required”, “max=200”, “emailshape”).
// Pattern is an RE2 expression the trimmed value must match.
type RuleDef struct {
	Check   string `yaml:"check"`
	Pattern string `yaml:"pattern"`
	Message string `yaml:"message"`
}

const (
	defaultSubmit  = "Submit"
	defaultSuccess = "Thanks!  Your submission was received."
	defaultFailure = "Please fix the errors above and try again."
)

// FieldNames returns field names in definition order.
func (fd *FormDef) FieldNames() []string {
	out := make([]string, len(fd.Fields))
	for i, f := range fd.Fields {
		out[i] = f.Name
	}
	return out
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*FormDef)
)

// GetFormDef returns a registered FormDef.  The boolean is false when the ID
// is unknown.
func GetFormDef(id string) (*FormDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fd, ok := registry[id]
	return fd, ok
}

// IDs lists registered form IDs in lexical order.
func IDs() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for id := range registry {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Register inserts or replaces fd in the registry and exposes it as the
// “form/<id>” widget.  fd must come from ParseFormDef or LoadFormDef.
func Register(fd *FormDef) {
	registryMu.Lock()
	registry[fd.ID] = fd
	registryMu.Unlock()
	injectWidgetRegistration(fd)
}

// MustRegisterYAML parses raw and registers the result.  Intended for
// component init() with embedded definitions; panics on a bad definition.
func MustRegisterYAML(raw []byte, source string) *FormDef {
	fd, err := ParseFormDef(raw, source)
	if err != nil {
		panic(err)
	}
	Register(fd)
	return fd
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// ParseFormDef decodes one YAML document and validates it.  source is used
// only in error messages.  It never touches the registry.
func ParseFormDef(raw []byte, source string) (*FormDef, error) {
	var fd FormDef
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse form YAML %s: %w", source, err)
	}
	if err := validateFormDef(&fd, source); err != nil {
		return nil, err
	}
	if fd.Submit == "" {
		fd.Submit = defaultSubmit
	}
	if fd.Success == "" {
		fd.Success = defaultSuccess
	}
	if fd.Failure == "" {
		fd.Failure = defaultFailure
	}
	return &fd, nil
}

// LoadFormDef reads and parses one YAML file.
func LoadFormDef(path string) (*FormDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", path, err)
	}
	return ParseFormDef(raw, path)
}

// RegisterForms walks each directory in order and registers every “*.yaml”
// it finds.  Missing directories are skipped; a bad file aborts the walk so
// mistakes surface at boot.  It returns the number of definitions loaded.
func RegisterForms(dirs []string) (int, error) {
	n := 0
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() || !isYAML(d.Name()) {
				return nil
			}
			fd, err := LoadFormDef(path)
			if err != nil {
				return err
			}
			Register(fd)
			n++
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return n, err
		}
	}
	return n, nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// -----------------------------------------------------------------------------
// Structural checks
// -----------------------------------------------------------------------------

func validateFormDef(fd *FormDef, source string) error {
	if fd.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", source)
	}
	if len(fd.Fields) == 0 {
		return fmt.Errorf("form definition %s: must have 'fields'", source)
	}

	fd.compiled = make(map[string][]compiledRule, len(fd.Fields))
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if err := validateField(f, source); err != nil {
			return err
		}
		if _, dup := fd.compiled[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", source, f.Name)
		}
		rules, err := compileRules(f, source)
		if err != nil {
			return err
		}
		fd.compiled[f.Name] = rules
	}
	return nil
}

var fieldTypes = map[string]bool{"text": true, "email": true, "textarea": true}

func validateField(f *FieldDef, source string) error {
	if f.Name == "" {
		return fmt.Errorf("form %s: field missing 'name'", source)
	}
	if f.Label == "" {
		return fmt.Errorf("form %s: field '%s' missing 'label'", source, f.Name)
	}
	if f.Type == "" {
		f.Type = "text"
	}
	if !fieldTypes[f.Type] {
		return fmt.Errorf("form %s: field '%s' has unsupported type %q", source, f.Name, f.Type)
	}
	if f.Rows < 0 {
		return fmt.Errorf("form %s: field '%s' rows cannot be negative", source, f.Name)
	}
	return nil
}

func compileRules(f *FieldDef, source string) ([]compiledRule, error) {
	out := make([]compiledRule, 0, len(f.Rules))
	for i, r := range f.Rules {
		switch {
		case r.Message == "":
			return nil, fmt.Errorf("form %s: field '%s' rule %d missing 'message'", source, f.Name, i+1)
		case r.Check != "" && r.Pattern != "":
			return nil, fmt.Errorf("form %s: field '%s' rule %d sets both 'check' and 'pattern'", source, f.Name, i+1)
		case r.Check != "":
			if !knownCheck(r.Check) {
				return nil, fmt.Errorf("form %s: field '%s' rule %d unknown check %q", source, f.Name, i+1, r.Check)
			}
			out = append(out, compiledRule{check: r.Check, message: r.Message})
		case r.Pattern != "":
			re, err := regexp.Compile(r.Pattern)
			if err != nil {
				return nil, fmt.Errorf("form %s: field '%s' invalid regex pattern: %v", source, f.Name, err)
			}
			out = append(out, compiledRule{pattern: re, message: r.Message})
		default:
			return nil, fmt.Errorf("form %s: field '%s' rule %d needs 'check' or 'pattern'", source, f.Name, i+1)
		}
	}
	return out, nil
}
