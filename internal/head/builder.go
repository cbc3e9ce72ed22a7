// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page's
// <head> element.  It is scoped to a single request.  Components push tags
// into the builder, then the theme's base layout decides where to emit each
// slice.
//
// Features
// --------
//   - SetTitle           – single <title> tag (last call wins).
//   - Meta, Link, Script – raw tags with deduplication.
//   - MetaName, MetaProperty, LinkRel – escaped helpers for common tags.
//   - JSONLD             – raw JSON-LD wrapped in <script type="application/ld+json">.
//   - Render helpers     – concat methods that return template.HTML.
package head

import (
	"html/template"
	"strings"
	"sync"
)

// Builder is safe for concurrent use, though typical use is one goroutine
// per request.
type Builder struct {
	mu sync.Mutex

	title string

	metas   []string
	links   []string
	scripts []string
	jsonLD  []string

	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// ------------------------------------------------------------------
// Single-value helper
// ------------------------------------------------------------------

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// TitleText returns the raw title string.
func (b *Builder) TitleText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.title
}

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	t := b.TitleText()
	if t == "" {
		return ""
	}
	return template.HTML("<title>" + template.HTMLEscapeString(t) + "</title>")
}

// ------------------------------------------------------------------
// Slice helpers with deduplication
// ------------------------------------------------------------------

// Meta, Link, and Script take pre-built, already-escaped tags.
func (b *Builder) Meta(tag string)   { b.add("meta:"+tag, &b.metas, tag) }
func (b *Builder) Link(tag string)   { b.add("link:"+tag, &b.links, tag) }
func (b *Builder) Script(tag string) { b.add("script:"+tag, &b.scripts, tag) }
func (b *Builder) JSONLD(js string)  { b.add("jsonld:"+js, &b.jsonLD, js) }

// MetaName adds <meta name=… content=…>.  One tag per name; the first wins.
func (b *Builder) MetaName(name, content string) {
	b.add("meta-name:"+name, &b.metas,
		`<meta name="`+esc(name)+`" content="`+esc(content)+`">`)
}

// MetaProperty adds <meta property=… content=…> (Open Graph).  One tag per
// property; the first wins.
func (b *Builder) MetaProperty(prop, content string) {
	b.add("meta-prop:"+prop, &b.metas,
		`<meta property="`+esc(prop)+`" content="`+esc(content)+`">`)
}

// LinkRel adds <link rel=… href=…>.  One tag per rel; the first wins.
func (b *Builder) LinkRel(rel, href string) {
	b.add("link-rel:"+rel, &b.links,
		`<link rel="`+esc(rel)+`" href="`+esc(href)+`">`)
}

func (b *Builder) add(key string, tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

func esc(s string) string { return template.HTMLEscapeString(s) }

// ------------------------------------------------------------------
// Rendering helpers called from theme templates
// ------------------------------------------------------------------

func (b *Builder) Metas() template.HTML   { return b.concat(&b.metas) }
func (b *Builder) Links() template.HTML   { return b.concat(&b.links) }
func (b *Builder) Scripts() template.HTML { return b.concat(&b.scripts) }

// JSON returns all JSON-LD blocks wrapped in <script> tags.
func (b *Builder) JSON() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.jsonLD) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, js := range b.jsonLD {
		sb.WriteString(`<script type="application/ld+json">`)
		sb.WriteString(js)
		sb.WriteString(`</script>`)
	}
	return template.HTML(sb.String())
}

// concat joins pre-escaped tags with newlines.
func (b *Builder) concat(sl *[]string) template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	return template.HTML(strings.Join(*sl, "\n"))
}
