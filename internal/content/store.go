// internal/content/store.go
//
// Loading, validation, and hot-swap storage for site content.
//
// Workflow
// --------
//  1. NewStore(path) loads the file (or the embedded default when path is
//     empty) and fails fast on any error.
//  2. Handlers call store.Get() per request; the pointer is swapped
//     atomically so readers never see a half-built Site.
//  3. Reload() re-reads the same source.  On failure the previous content
//     stays live and the error is returned for logging.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/yanizio/folio/internal/metrics"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalid wraps every parse or validation failure.
var ErrInvalid = errors.New("content: invalid")

var v = validator.New()

// Parse decodes and validates raw YAML.  source names the origin in errors.
func Parse(raw []byte, source string) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, source, err)
	}
	if err := v.Struct(&s); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, source, err)
	}
	return &s, nil
}

// Load reads path, or the embedded default when path is empty.
func Load(path string) (*Site, error) {
	if path == "" {
		return Parse(defaultYAML, "embedded default.yaml")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}
	return Parse(raw, path)
}

// Store holds the live Site.
type Store struct {
	path string
	cur  atomic.Pointer[Site]
}

// NewStore loads path once.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	site, err := Load(path)
	if err != nil {
		return nil, err
	}
	s.cur.Store(site)
	return s, nil
}

// NewStoreFrom wraps an already-loaded Site.  Reload re-reads path.
func NewStoreFrom(site *Site, path string) *Store {
	s := &Store{path: path}
	s.cur.Store(site)
	return s
}

// Get returns the live Site.  Never nil for a Store built by NewStore.
func (s *Store) Get() *Site { return s.cur.Load() }

// Path returns the on-disk source, or "" for the embedded default.
func (s *Store) Path() string { return s.path }

// Reload re-reads the source and swaps it in on success.
func (s *Store) Reload() error {
	site, err := Load(s.path)
	metrics.Reload(err)
	if err != nil {
		zap.S().Errorw("content reload failed", "path", s.path, "err", err)
		return err
	}
	s.cur.Store(site)
	zap.S().Infow("content reloaded",
		"path", s.path,
		"projects", len(site.Projects),
		"skill_groups", len(site.Skills),
	)
	return nil
}
