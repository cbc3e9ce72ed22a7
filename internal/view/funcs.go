// internal/view/funcs.go
//
// Template function map.  Every helper is request-independent so parsed
// sets can be cached and shared; request data reaches helpers as an
// explicit argument (usually .Ctx).
//
//	{{ asset "css/site.css" }}
//	{{ widget "form/contact" .Ctx (dict "csrf" .Data.CSRF) }}
//	{{ if isActive .Ctx.Path "/about" }}aria-current="page"{{ end }}
//	{{ slug "Node.js" }}   → "node-js"
//	{{ year }}
//	{{ if isBot .Ctx.Info }}…{{ end }}

package view

import (
	"html/template"
	"strings"
	"time"

	"github.com/yanizio/folio/internal/logger"
	"github.com/yanizio/folio/internal/requestinfo"
	"github.com/yanizio/folio/internal/widget"
)

func funcMap(asset func(string) string) template.FuncMap {
	return template.FuncMap{
		"asset":    asset,
		"dict":     dict,
		"widget":   renderWidget,
		"isActive": IsActive,
		"slug":     Slug,
		"join":     strings.Join,
		"year":     func() int { return time.Now().Year() },
		"isBot": func(i *requestinfo.Info) bool {
			return i != nil && i.UA.IsBot
		},
		"device": func(i *requestinfo.Info) string {
			if i == nil {
				return ""
			}
			return strings.ToLower(i.UA.Device)
		},
	}
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

// renderWidget renders a registered widget and returns safe HTML.  Errors
// are hidden behind <!-- comments --> so end-users never see stack traces.
func renderWidget(key string, rctx *Context, params map[string]any) template.HTML {
	w := widget.Lookup(key)
	if w == nil {
		return template.HTML("<!-- widget not found -->")
	}
	html, _, err := w.Render(rctx, params)
	if err != nil {
		if rctx != nil && rctx.Request != nil {
			logger.FromContext(rctx.Request.Context()).Warnw("widget render failed", "widget", key, "err", err)
		}
		return template.HTML("<!-- widget error -->")
	}
	return html
}

// IsActive reports whether a nav link to target should be highlighted on
// current.  "/" matches only itself; other targets match themselves and
// any path below them ("/projects" matches "/projects/x" but not
// "/projectsx").
func IsActive(current, target string) bool {
	if target == "/" {
		return current == "/"
	}
	target = strings.TrimRight(target, "/")
	return current == target || strings.HasPrefix(current, target+"/")
}

// Slug converts text to lower-kebab ASCII, restricted to a-z, 0-9, and
// "-".  Empty results become "item"; slugs are capped at 100 bytes.
func Slug(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastWasDash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasDash = false
		default:
			if !lastWasDash {
				b.WriteRune('-')
				lastWasDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "item"
	}
	if len(slug) > 100 {
		slug = strings.TrimRight(slug[:100], "-")
	}
	return slug
}
