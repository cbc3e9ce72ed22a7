// Package theme holds the data structures that describe one visual theme.
// A Theme combines:
//
//   - Name       – the theme directory name (for example, “default”).
//   - FS         – the theme tree: templates/ and static/.  Usually the
//     embedded copy with an optional on-disk override layered on top.
//   - AssetFunc  – helper injected into templates so they can resolve
//     `{{ asset "css/site.css" }}` to a URL.
//
// Layout inside FS:
//
//	templates/layout/*.html     base, header, footer (parsed with every page)
//	templates/<component>/*.html
//	static/**                   served under /static/
package theme

import (
	"fmt"
	"io/fs"
)

// StaticPrefix is where the site mounts Static().
const StaticPrefix = "/static/"

// Theme is returned by the Manager once the tree is resolved.
type Theme struct {
	Name      string
	FS        fs.FS
	AssetFunc func(string) string
}

// New constructs a Theme whose AssetFunc points at StaticPrefix.
func New(name string, fsys fs.FS) *Theme {
	return &Theme{
		Name: name,
		FS:   fsys,
		AssetFunc: func(p string) string {
			return StaticPrefix + trimSlash(p)
		},
	}
}

// Templates returns the templates/ subtree.
func (t *Theme) Templates() (fs.FS, error) {
	sub, err := fs.Sub(t.FS, "templates")
	if err != nil {
		return nil, fmt.Errorf("theme %s: templates: %w", t.Name, err)
	}
	return sub, nil
}

// Static returns the static/ subtree.
func (t *Theme) Static() (fs.FS, error) {
	sub, err := fs.Sub(t.FS, "static")
	if err != nil {
		return nil, fmt.Errorf("theme %s: static: %w", t.Name, err)
	}
	return sub, nil
}

func trimSlash(p string) string {
	for len(p) > 0 && p[0] == '/' {
		p = p[1:]
	}
	return p
}
