// internal/widget/registry.go
//
// Widget registry and lookup helpers.
//
// A **Widget** is a reusable view fragment rendered inside a page.  Widgets
// register themselves by calling `widget.Register(w)` from an init() func
// or, for forms, when a definition is registered.
//
// The registration key is `<group>/<name>`, for example "form/contact", and
// must be returned by the widget's `ID` method.
//
// Template authors embed a widget with:
//
//	{{ widget "form/contact" .Ctx (dict "csrf" .Data.CSRF) }}
//
// The view engine looks the widget up, invokes `Render`, and inlines the
// returned HTML.
package widget

import (
	"html/template"
	"sort"
	"sync"
)

// Policy hints how a rendered fragment may be cached.
type Policy int

const (
	CacheDefault Policy = iota // obey global TTL
	CacheSkip                  // never cache
	CacheForce                 // always cache (long TTL, reserved)
)

// Widget renders a view fragment.  rctx is the per-request view context,
// typed `any` to keep this package free of view imports.  params may be nil.
//
// Render MUST be concurrency-safe; multiple goroutines may call it.
type Widget interface {
	ID() string
	Render(rctx any, params map[string]any) (html template.HTML, policy Policy, err error)
}

var (
	mu       sync.RWMutex
	registry = map[string]Widget{}
)

// Register adds w.  A duplicate key replaces the earlier entry.
func Register(w Widget) {
	mu.Lock()
	registry[w.ID()] = w
	mu.Unlock()
}

// Lookup returns the widget or nil.
func Lookup(key string) Widget {
	mu.RLock()
	defer mu.RUnlock()
	return registry[key]
}

// IDs returns registered keys in lexical order.
func IDs() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
