// fs.go holds the filesystem helpers the theme layer needs.
//
// Layer stacks several fs.FS values so an on-disk override directory can
// shadow individual files of the embedded theme.  The first layer that has
// a file wins; directory listings are merged so fs.Glob and fs.WalkDir see
// the union.
//
// CollectHTML returns every .html file under a directory, since template
// glob patterns such as “**/*.html” are not available in the standard
// library.
package theme

import (
	"errors"
	"io/fs"
	"path"
	"sort"
	"strings"
)

type layered []fs.FS

// Layer returns an fs.FS that reads from layers in order.  Nil layers are
// skipped.
func Layer(layers ...fs.FS) fs.FS {
	var l layered
	for _, f := range layers {
		if f != nil {
			l = append(l, f)
		}
	}
	if len(l) == 1 {
		return l[0]
	}
	return l
}

func (l layered) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	for _, f := range l {
		file, err := f.Open(name)
		if err == nil {
			return file, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// ReadDir merges the listings of every layer that has name as a directory.
func (l layered) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	seen := make(map[string]struct{})
	var out []fs.DirEntry
	found := false
	for _, f := range l {
		entries, err := fs.ReadDir(f, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		found = true
		for _, e := range entries {
			if _, dup := seen[e.Name()]; dup {
				continue
			}
			seen[e.Name()] = struct{}{}
			out = append(out, e)
		}
	}
	if !found {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// CollectHTML walks root inside fsys and returns every *.html path, sorted.
// A missing root yields an empty list.
func CollectHTML(fsys fs.FS, root string) ([]string, error) {
	var files []string

	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(path.Ext(d.Name()), ".html") {
			files = append(files, p)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
