// Package tts exposes the uniform gateway surface: a provider registry and
// a facade that fronts whichever provider is selected.
package tts

import (
	"fmt"
	"sort"
	"sync"

	"ttsgateway/internal/platform/errors"
	"ttsgateway/internal/platform/logging"
	"ttsgateway/internal/tts/inter"
)

// Factory builds a configured provider. Configuration errors (missing
// credentials) surface as invalid-configuration.
type Factory func(log *logging.Logger) (inter.Provider, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a provider constructible by name. Called from provider
// package init functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("tts: provider %q registered twice", name))
	}
	registry[name] = factory
}

// NewProvider builds the named provider.
func NewProvider(name string, log *logging.Logger) (inter.Provider, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, errors.InvalidConfiguration("registry",
			fmt.Sprintf("unknown provider %q, available: %v", name, Names()))
	}
	return factory(log)
}

// Names lists registered providers in stable order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
