// internal/config/model.go
//
// Typed configuration model for Folio.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from its overlay layers:
//
//   • built-in defaults                       – Defaults() below,
//   • `conf/global.yaml`                      – primary static file,
//   • `FOLIO_`-prefixed environment overrides – highest precedence,
//     optionally seeded from `conf/.env`.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the secret resolver *before* unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import (
	"path/filepath"
	"time"
)

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      validate:"required,hostname_port"`
	ForceHTTPS      bool          `koanf:"force_https"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

//
// Site section
//

// Site controls presentation.
type Site struct {
	BaseURL        string `koanf:"base_url"        validate:"omitempty,url"`
	Theme          string `koanf:"theme"           validate:"required,alphanum"`
	OverrideDir    string `koanf:"override_dir"`    // on-disk theme overrides
	OGImage        string `koanf:"og_image"`        // default social image
	TemplateReload bool   `koanf:"template_reload"` // bypass template cache (dev)
}

// Content points at the site copy.  An empty Path uses the embedded file.
type Content struct {
	Path  string `koanf:"path"`
	Watch bool   `koanf:"watch"` // hot-reload content and config on change
}

// Forms lists extra directories of form definitions (*.yaml).  Later
// directories override earlier ones, and all of them override the built-in
// contact form.
type Forms struct {
	Dirs []string `koanf:"dirs"`
}

// Resume configures the downloadable PDF.  An empty Path disables
// /resume/download.
type Resume struct {
	Path         string `koanf:"path"`
	DownloadName string `koanf:"download_name" validate:"required"`
}

//
// Security section
//

// Security holds the CSRF signing key.  The key is usually a
// `vault:` reference.  Empty means a per-process random key, which is fine
// for a single instance but breaks tokens across restarts and replicas.
type Security struct {
	CSRFKey    string        `koanf:"csrf_key"`
	CSRFMaxAge time.Duration `koanf:"csrf_max_age" validate:"gt=0"`
}

//
// Ambient sections
//

type Log struct {
	Dir   string `koanf:"dir"   validate:"required"`
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

type Metrics struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path" validate:"startswith=/"`
}

// Geo enables country lookup when DBPath names a GeoLite2-City file.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

// Vault tunes secret resolution.  Connection details come from the SDK's
// VAULT_* environment variables.
type Vault struct {
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.  The loader
// discovers `Root` (FOLIO_ROOT or the first parent holding conf/global.yaml)
// so later code can build absolute file paths.
type Paths struct {
	Root string
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Site     Site     `koanf:"site"`
	Content  Content  `koanf:"content"`
	Forms    Forms    `koanf:"forms"`
	Resume   Resume   `koanf:"resume"`
	Security Security `koanf:"security"`
	Log      Log      `koanf:"log"`
	Metrics  Metrics  `koanf:"metrics"`
	Geo      Geo      `koanf:"geo"`
	Vault    Vault    `koanf:"vault"`
	Paths    Paths    `koanf:"-"`
}

// Defaults returns the lowest-precedence layer.
func Defaults() Config {
	return Config{
		HTTP: HTTP{
			ListenAddr:      ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Site: Site{
			Theme:   "default",
			OGImage: "/static/img/og-image.png",
		},
		Resume:   Resume{DownloadName: "resume.pdf"},
		Security: Security{CSRFMaxAge: 2 * time.Hour},
		Log:      Log{Dir: "logs", Level: "info"},
		Metrics:  Metrics{Enabled: true, Path: "/metrics"},
		Vault:    Vault{CacheTTL: 5 * time.Minute},
	}
}

// Abs resolves p against Paths.Root.  Empty and absolute paths pass through.
func (c *Config) Abs(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Paths.Root, p)
}
