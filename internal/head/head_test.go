package head

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_DedupAndEscape(t *testing.T) {
	b := New()
	b.SetTitle(`A <b> & "c"`)
	b.MetaName("description", `x "quoted" <y>`)
	b.MetaName("description", "second is ignored")
	b.Link(`<link rel="icon" href="/favicon.ico">`)
	b.Link(`<link rel="icon" href="/favicon.ico">`)
	b.JSONLD(`{"@type":"Person"}`)

	assert.Equal(t, `<title>A &lt;b&gt; &amp; &#34;c&#34;</title>`, string(b.Title()))
	assert.Equal(t, `<meta name="description" content="x &#34;quoted&#34; &lt;y&gt;">`, string(b.Metas()))
	assert.Equal(t, 1, strings.Count(string(b.Links()), "favicon"))
	assert.Equal(t, `<script type="application/ld+json">{"@type":"Person"}</script>`, string(b.JSON()))
	assert.Equal(t, "", string(New().Title()))
}

func TestApply_FullTagSet(t *testing.T) {
	b := New()
	Apply(b, SEO{
		Title:       "Contact",
		Description: "Reach out.",
		Path:        "/contact",
	}, Defaults{SiteName: "Jane Doe", BaseURL: "https://jane.dev/", Image: "/static/img/og-image.png"})

	metas := string(b.Metas())
	assert.Equal(t, "Contact | Jane Doe", b.TitleText())
	assert.Contains(t, string(b.Links()), `<link rel="canonical" href="https://jane.dev/contact">`)
	for _, want := range []string{
		`<meta name="description" content="Reach out.">`,
		`<meta property="og:title" content="Contact | Jane Doe">`,
		`<meta property="og:description" content="Reach out.">`,
		`<meta property="og:type" content="website">`,
		`<meta property="og:image" content="https://jane.dev/static/img/og-image.png">`,
		`<meta property="og:url" content="https://jane.dev/contact">`,
		`<meta name="twitter:card" content="summary_large_image">`,
		`<meta name="twitter:title" content="Contact | Jane Doe">`,
		`<meta name="twitter:description" content="Reach out.">`,
		`<meta name="twitter:image" content="https://jane.dev/static/img/og-image.png">`,
	} {
		assert.Contains(t, metas, want)
	}
}

func TestApply_RelativeWithoutBaseURL(t *testing.T) {
	b := New()
	Apply(b, SEO{Title: "Home", Image: "https://cdn.example/x.png", Type: "profile"}, Defaults{SiteName: "J"})

	assert.Contains(t, string(b.Links()), `href="/"`)
	metas := string(b.Metas())
	assert.Contains(t, metas, `og:type" content="profile"`)
	assert.Contains(t, metas, `og:image" content="https://cdn.example/x.png"`)
}
