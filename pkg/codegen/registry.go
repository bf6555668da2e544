package codegen

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-typegen/pkg/tgerrors"
)

// Aliased is implemented by targets reachable under more than one language
// name, such as "golang" for "go".
type Aliased interface {
	Aliases() []string
}

// Registry maps language names given on the command line to targets.
// Lookups ignore case and surrounding space, and accept aliases.
type Registry struct {
	mu      sync.RWMutex
	targets map[string]Target
	// aliases maps every accepted name, canonical names included, to the
	// canonical name.
	aliases map[string]string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		targets: make(map[string]Target),
		aliases: make(map[string]string),
	}
}

func languageKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds target under its Name and aliases. A name already taken by
// another target is an error, and nothing is registered.
func (r *Registry) Register(target Target) error {
	if target == nil {
		return fmt.Errorf("codegen: target is required")
	}
	name := languageKey(target.Name())
	if name == "" {
		return fmt.Errorf("codegen: target name is required")
	}
	if ext := target.FileExtension(); !strings.HasPrefix(ext, ".") || len(ext) < 2 {
		return fmt.Errorf("codegen: target %q has invalid file extension %q", name, ext)
	}

	keys := []string{name}
	if aliased, ok := target.(Aliased); ok {
		for _, alias := range aliased.Aliases() {
			if key := languageKey(alias); key != "" && key != name {
				keys = append(keys, key)
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range keys {
		if owner, taken := r.aliases[key]; taken {
			return fmt.Errorf("codegen: language %q is already provided by target %q", key, owner)
		}
	}
	r.targets[name] = target
	for _, key := range keys {
		r.aliases[key] = name
	}
	return nil
}

// MustRegister panics when Register fails.
func (r *Registry) MustRegister(target Target) {
	if err := r.Register(target); err != nil {
		panic(err)
	}
}

// Get resolves a language name or alias. Unknown names yield an error
// matching tgerrors.ErrUnsupportedLanguage that lists the known targets.
func (r *Registry) Get(name string) (Target, error) {
	r.mu.RLock()
	target, ok := r.targets[r.aliases[languageKey(name)]]
	r.mu.RUnlock()

	if !ok {
		return nil, tgerrors.UnsupportedLanguage(name, r.List())
	}
	return target, nil
}

// List returns the canonical target names, sorted. Aliases are omitted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name or alias resolves to a target.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.aliases[languageKey(name)]
	return ok
}
