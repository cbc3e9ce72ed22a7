package form

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/folio/internal/widget"
)

func TestRenderForm_IdleHasNoMessages(t *testing.T) {
	fd := mustParse(t, feedbackYAML)
	out := string(RenderForm(fd, RenderOptions{
		Action:    "/feedback",
		CSRFToken: "tok",
		State:     NewController(fd).Result(),
	}))

	assert.Contains(t, out, `action="/feedback"`)
	assert.Contains(t, out, `novalidate`)
	assert.Contains(t, out, `name="csrf_token" value="tok"`)
	assert.Contains(t, out, `<label for="email">Email</label>`)
	assert.Contains(t, out, `id="email" name="email" aria-invalid="false" type="email" value=""`)
	assert.Contains(t, out, `<div id="feedback-status" class="form-status" aria-live="polite"></div>`)
	assert.NotContains(t, out, `form-status-error`)
}

func TestRenderForm_ErrorStateEscapesAndFlags(t *testing.T) {
	fd := mustParse(t, feedbackYAML)
	c := NewController(fd)
	res := c.Submit(Values{"name": "", "email": `<x>"`, "code": "ABC"})

	out := string(RenderForm(fd, RenderOptions{State: res}))

	assert.Contains(t, out, `aria-invalid="true" aria-describedby="name-error"`)
	assert.Contains(t, out, `<p id="name-error" class="form-error" role="alert">Please enter your name.</p>`)
	assert.Contains(t, out, `value="&lt;x&gt;&#34;"`)
	assert.Contains(t, out, `Please fix the errors above and try again.`)
	assert.NotContains(t, out, `<x>`)
}

func TestRenderForm_SuccessSummary(t *testing.T) {
	fd := mustParse(t, feedbackYAML)
	res := NewController(fd).Submit(Values{"name": "A", "email": "a@b.co", "code": "ABC"})

	out := string(RenderForm(fd, RenderOptions{State: res}))
	assert.Contains(t, out, `<p class="form-status-success">Thanks!</p>`)
}

func TestFormWidget_RegisteredOnRegister(t *testing.T) {
	Register(mustParse(t, feedbackYAML))

	w := widget.Lookup("form/feedback")
	require.NotNil(t, w)

	html, policy, err := w.Render(nil, map[string]any{"csrf": "abc", "action": "/fb"})
	require.NoError(t, err)
	assert.Equal(t, widget.CacheSkip, policy)
	assert.Contains(t, string(html), `value="abc"`)
	assert.Contains(t, string(html), `action="/fb"`)
}

func TestTokens_RoundTrip(t *testing.T) {
	tok, eph, err := NewTokens("", time.Hour)
	require.NoError(t, err)
	assert.True(t, eph)

	s, err := tok.Generate()
	require.NoError(t, err)
	assert.True(t, tok.Verify(s))
	assert.False(t, tok.Verify(""))
	assert.False(t, tok.Verify("not-base64!"))
	assert.False(t, tok.Verify(s[:len(s)-2]+"AA"))

	other, _, err := NewTokens("", time.Hour)
	require.NoError(t, err)
	assert.False(t, other.Verify(s), "different key must reject")
}

func TestTokens_Expiry(t *testing.T) {
	tok, _, err := NewTokens(strings.Repeat("k", 43), time.Minute)
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tok.now = func() time.Time { return base }
	s, err := tok.Generate()
	require.NoError(t, err)

	tok.now = func() time.Time { return base.Add(59 * time.Second) }
	assert.True(t, tok.Verify(s))

	tok.now = func() time.Time { return base.Add(2 * time.Minute) }
	assert.False(t, tok.Verify(s), "expired")

	tok.now = func() time.Time { return base.Add(-2 * time.Minute) }
	assert.False(t, tok.Verify(s), "issued in the future")
}

func TestNewTokens_ShortKey(t *testing.T) {
	_, _, err := NewTokens("c2hvcnQ", time.Hour)
	assert.ErrorIs(t, err, ErrShortKey)
}

func TestHandleSubmit(t *testing.T) {
	fd := mustParse(t, feedbackYAML)
	tokens, _, err := NewTokens("", time.Hour)
	require.NoError(t, err)
	good, err := tokens.Generate()
	require.NoError(t, err)

	post := func(v url.Values) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(v.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return r
	}

	c := NewController(fd)
	_, err = HandleSubmit(c, tokens, post(url.Values{"csrf_token": {"bad"}, "name": {"A"}}))
	assert.True(t, IsCSRFError(err))
	assert.Equal(t, StatusIdle, c.Status(), "controller untouched on token failure")

	res, err := HandleSubmit(c, tokens, post(url.Values{
		"csrf_token": {good}, "name": {" A "}, "email": {"a@b.co"}, "code": {"ABC"},
	}))
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)

	res, err = HandleSubmit(c, nil, post(url.Values{"name": {" A "}}))
	require.NoError(t, err)
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, " A ", res.Values["name"], "raw value kept untrimmed")
}
