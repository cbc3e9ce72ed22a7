package theme

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Manager discovers and loads themes.
//
// Precedence (high → low):
//  1. <OverrideDir>/<name>/...   (on-disk overrides, optional)
//  2. Base:themes/<name>/...     (embedded defaults)
type Manager struct {
	Base        fs.FS  // holds themes/<name>/...
	OverrideDir string // e.g. "/srv/folio/themes"; empty disables overrides
}

// Load resolves the named theme.  The embedded copy must provide
// templates/layout, the override directory is optional.
func (m *Manager) Load(name string) (*Theme, error) {
	if name == "" || name != path.Base(name) {
		return nil, fmt.Errorf("theme %q: invalid name", name)
	}

	base, err := fs.Sub(m.Base, path.Join("themes", name))
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", name, err)
	}
	if st, err := fs.Stat(base, "templates/layout"); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("theme %s not found: templates/layout missing", name)
	}

	var override fs.FS
	if m.OverrideDir != "" {
		dir := filepath.Join(m.OverrideDir, name)
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			override = os.DirFS(dir)
		}
	}

	return New(name, Layer(override, base)), nil
}
