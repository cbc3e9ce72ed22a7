// internal/content/model.go
//
// Typed model for the site's copy: who the owner is, what the pages say,
// and which projects and skills to list.
//
// Context
// -------
// Everything a visitor reads lives in one YAML document so the owner can
// edit text without touching templates.  The embedded default.yaml ships
// with the binary; `content.path` in config points at an on-disk
// replacement.
//
// Validation runs right after unmarshal, so a typo in the file surfaces at
// boot (or on hot reload) instead of as a blank section in production.
//
// Notes
// -----
//   • Struct tags use `yaml:"…"` for gopkg.in/yaml.v3 and `validate:"…"`
//     for go-playground/validator.
//   • Oxford commas, two spaces after periods.  No em-dash.

package content

//
// owner and navigation
//

// Owner is the person the site belongs to.
type Owner struct {
	Name      string `yaml:"name"       validate:"required"`
	ShortName string `yaml:"short_name"` // header brand; defaults to Name
	Role      string `yaml:"role"       validate:"required"`
	Email     string `yaml:"email"      validate:"omitempty,email"`
	LinkedIn  string `yaml:"linkedin"   validate:"omitempty,url"`
	GitHub    string `yaml:"github"     validate:"omitempty,url"`
}

// Brand returns ShortName, falling back to Name.
func (o Owner) Brand() string {
	if o.ShortName != "" {
		return o.ShortName
	}
	return o.Name
}

// Link is a labelled href.
type Link struct {
	Label string `yaml:"label" validate:"required"`
	Href  string `yaml:"href"  validate:"required"`
}

// NavItem is one header entry.  Paths are site-local.
type NavItem struct {
	Label string `yaml:"label" validate:"required"`
	Path  string `yaml:"path"  validate:"required,startswith=/"`
}

//
// page sections
//

type Hero struct {
	Eyebrow string `yaml:"eyebrow"`
	Tagline string `yaml:"tagline" validate:"required"`
	Actions []Link `yaml:"actions" validate:"dive"`
}

type About struct {
	Paragraphs []string `yaml:"paragraphs" validate:"min=1,dive,required"`
}

// Degree is one entry on the education timeline.
type Degree struct {
	When       string   `yaml:"when"       validate:"required"`
	Title      string   `yaml:"title"      validate:"required"`
	School     string   `yaml:"school"     validate:"required"`
	GPA        string   `yaml:"gpa"`
	Coursework []string `yaml:"coursework"`
}

// Role is a leadership position.
type Role struct {
	Title   string `yaml:"title"   validate:"required"`
	Summary string `yaml:"summary"`
}

type SkillGroup struct {
	Title string   `yaml:"title" validate:"required"`
	Items []string `yaml:"items" validate:"min=1,dive,required"`
}

type Project struct {
	Name        string   `yaml:"name"        validate:"required"`
	Description string   `yaml:"description" validate:"required"`
	Stack       []string `yaml:"stack"`
	GitHub      string   `yaml:"github"`
	Demo        string   `yaml:"demo"`
}

// Resume is the accessible web version of the downloadable PDF.
type Resume struct {
	Summary    string   `yaml:"summary"    validate:"required"`
	Education  []string `yaml:"education"`
	Skills     []string `yaml:"skills"`
	Experience string   `yaml:"experience"`
}

// PageMeta carries SEO fields for one page.
type PageMeta struct {
	Title       string `yaml:"title"       validate:"required"`
	Description string `yaml:"description" validate:"required"`
	Type        string `yaml:"type"`
	Image       string `yaml:"image"`
}

//
// root aggregate
//

// Site is immutable once loaded; reloads swap the whole value.
type Site struct {
	Owner      Owner               `yaml:"owner"`
	Nav        []NavItem           `yaml:"nav"        validate:"min=1,dive"`
	Hero       Hero                `yaml:"hero"`
	About      About               `yaml:"about"`
	Education  []Degree            `yaml:"education"  validate:"dive"`
	Leadership []Role              `yaml:"leadership" validate:"dive"`
	Skills     []SkillGroup        `yaml:"skills"     validate:"dive"`
	Projects   []Project           `yaml:"projects"   validate:"dive"`
	Resume     Resume              `yaml:"resume"`
	Pages      map[string]PageMeta `yaml:"pages"      validate:"required,dive"`
}

// Page returns the metadata for id.  ok is false when the file has no
// entry, in which case the owner's name and role stand in.
func (s *Site) Page(id string) (PageMeta, bool) {
	if pm, ok := s.Pages[id]; ok {
		return pm, true
	}
	return PageMeta{Title: s.Owner.Name, Description: s.Owner.Role}, false
}
