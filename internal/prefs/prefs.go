// internal/prefs/prefs.go
//
// Per-request display preferences.
//
// Context
//   Pages need two ambient UI settings: the colour theme and whether to
//   tone down motion.  Neither lives in process globals.  The middleware
//   reads them from each request and stores a Prefs value in the context,
//   where handlers and templates pick it up.
//
// Sources (first hit wins)
//   • Theme – the “folio_theme” cookie (light, dark, or system), then the
//     Sec-CH-Prefers-Color-Scheme client hint, then light.
//   • Reduced motion – the Sec-CH-Prefers-Reduced-Motion client hint.
//
//   The middleware advertises both hints with Accept-CH so Chromium-based
//   browsers send them on subsequent requests.  Others fall back to CSS
//   media queries in the theme stylesheet.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package prefs

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Theme is the user's stored choice.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

const (
	CookieName = "folio_theme"

	hintColorScheme   = "Sec-CH-Prefers-Color-Scheme"
	hintReducedMotion = "Sec-CH-Prefers-Reduced-Motion"

	cookieLifetime = 365 * 24 * time.Hour
)

// ParseTheme maps s onto a Theme.  ok is false for anything unknown.
func ParseTheme(s string) (t Theme, ok bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	case ThemeSystem:
		return ThemeSystem, true
	}
	return "", false
}

// Prefs is the resolved view of one request.
type Prefs struct {
	Theme         Theme // stored choice; ThemeSystem when no cookie
	SystemDark    bool  // client hint says the OS prefers dark
	ReducedMotion bool
}

// Resolved returns the concrete scheme to paint: "light" or "dark".
func (p Prefs) Resolved() Theme {
	switch p.Theme {
	case ThemeLight, ThemeDark:
		return p.Theme
	}
	if p.SystemDark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggled returns the explicit opposite of what is currently painted.
func (p Prefs) Toggled() Theme {
	if p.Resolved() == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Parse reads preferences from r.
func Parse(r *http.Request) Prefs {
	p := Prefs{Theme: ThemeSystem}
	if c, err := r.Cookie(CookieName); err == nil {
		if t, ok := ParseTheme(c.Value); ok {
			p.Theme = t
		}
	}
	p.SystemDark = hint(r, hintColorScheme) == "dark"
	p.ReducedMotion = hint(r, hintReducedMotion) == "reduce"
	return p
}

// hint returns a structured-header token with quotes removed.
func hint(r *http.Request, name string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(r.Header.Get(name)), `"`))
}

/*──────────────────────────── middleware ───────────────────────────────────*/

type ctxKey struct{}

// Middleware parses Prefs, stores them in the context, and asks the browser
// for the client hints we read.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Accept-CH", hintColorScheme+", "+hintReducedMotion)
		h.Add("Vary", hintColorScheme)
		h.Add("Vary", hintReducedMotion)
		h.Add("Vary", "Cookie")

		ctx := WithPrefs(r.Context(), Parse(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithPrefs stores p in ctx.
func WithPrefs(ctx context.Context, p Prefs) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the stored Prefs or the zero-config default.
func FromContext(ctx context.Context) Prefs {
	if p, ok := ctx.Value(ctxKey{}).(Prefs); ok {
		return p
	}
	return Prefs{Theme: ThemeSystem}
}

// SetTheme writes the theme cookie.  ThemeSystem clears it.
func SetTheme(w http.ResponseWriter, r *http.Request, t Theme) {
	if t == ThemeSystem {
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    string(t),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // only send over HTTPS
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(cookieLifetime),
	})
}
