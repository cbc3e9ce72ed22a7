// internal/head/seo.go
//
// SEO metadata injector.
//
// Apply pushes the standard search and social tags for one page into a
// Builder:
//
//   - <title>            "<page> | <site>"
//   - description, canonical
//   - og:title, og:description, og:type, og:image, og:url
//   - twitter:card (summary_large_image), twitter:title,
//     twitter:description, twitter:image
//
// Canonical and og:url are absolute when the site has a BaseURL, otherwise
// they fall back to the bare path.  Image follows the same rule.
package head

import "strings"

// SEO describes one page's metadata.
type SEO struct {
	Title       string
	Description string
	Path        string // defaults to "/"
	Image       string // defaults to Defaults.Image
	Type        string // defaults to "website"
}

// Defaults carries site-wide values used when a page leaves a field empty.
type Defaults struct {
	SiteName string // appended to every title
	BaseURL  string // e.g. https://example.dev, no trailing slash needed
	Image    string // default og/twitter image path or URL
}

// Apply writes s into b.
func Apply(b *Builder, s SEO, d Defaults) {
	path := s.Path
	if path == "" {
		path = "/"
	}
	typ := s.Type
	if typ == "" {
		typ = "website"
	}
	image := s.Image
	if image == "" {
		image = d.Image
	}

	title := s.Title
	switch {
	case title == "":
		title = d.SiteName
	case d.SiteName != "":
		title = title + " | " + d.SiteName
	}

	url := absolute(d.BaseURL, path)
	image = absolute(d.BaseURL, image)

	b.SetTitle(title)
	b.MetaName("description", s.Description)
	b.LinkRel("canonical", url)

	b.MetaProperty("og:title", title)
	b.MetaProperty("og:description", s.Description)
	b.MetaProperty("og:type", typ)
	if image != "" {
		b.MetaProperty("og:image", image)
	}
	b.MetaProperty("og:url", url)

	b.MetaName("twitter:card", "summary_large_image")
	b.MetaName("twitter:title", title)
	b.MetaName("twitter:description", s.Description)
	if image != "" {
		b.MetaName("twitter:image", image)
	}
}

// absolute joins base and p unless p is already absolute or base is empty.
func absolute(base, p string) string {
	if p == "" || base == "" || strings.Contains(p, "://") {
		return p
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}
