// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  The app assembler asks the
// registry for fresh instances, calls Init() when the component implements
// the Initializer interface, and mounts every component's Routes() at "/".
//
// Components register a Factory rather than a value so two sites built in
// the same process (tests, `folio check`) never share handler state.

package component

import (
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Initializer is optional.  If a Component implements it, the app calls
// Init(site) once before mounting its routes.
type Initializer interface {
	Init(SiteInfo) error
}

// Component contract.
//
// Routes() should mount BOTH page and API endpoints, e.g:
//
//	r := chi.NewRouter()
//	r.Get("/contact", c.getContact)
//	r.Route("/api/contact", func(api chi.Router) { ... })
//	return r
type Component interface {
	Name() string
	Routes() chi.Router
	Initializer // embed so Components may omit Init
}

// Factory builds one unmounted Component.
type Factory func() Component

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register is invoked from component init() functions.  A later call with
// the same name replaces the earlier factory.
func Register(name string, f Factory) {
	mu.Lock()
	registry[name] = f
	mu.Unlock()
}

// Names returns the registered component names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// All returns a fresh instance of every registered component, ordered by
// name so mount order is stable.
func All() []Component {
	names := Names()
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(names))
	for _, n := range names {
		if f := registry[n]; f != nil {
			out = append(out, f())
		}
	}
	return out
}
