// Package web embeds the built-in themes.  Each theme lives under
// themes/<name>/ with templates/ and static/ subdirectories; operators may
// shadow any file through `site.override_dir`.
package web

import "embed"

//go:embed themes
var FS embed.FS
