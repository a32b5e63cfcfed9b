package upload

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/zinc-sig/pyramid/internal/settings"
)

// DefaultProvider is used when the settings name none.
const DefaultProvider = "minio"

// Factory creates an unconfigured provider.
type Factory func() Provider

var (
	mu        sync.RWMutex
	factories = map[string]Factory{
		"minio": func() Provider { return NewMinioProvider() },
	}
)

// Register makes a provider available by name, replacing any previous one.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = factory
}

// Providers lists the registered provider names.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a provider by name.
func New(name string) (Provider, error) {
	mu.RLock()
	factory, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown upload provider: %s", name)
	}
	return factory(), nil
}

// Open creates the provider named by config["provider"] and configures it.
func Open(ctx context.Context, config map[string]any) (Provider, error) {
	name := settings.String(config, "provider")
	if name == "" {
		name = DefaultProvider
	}

	p, err := New(name)
	if err != nil {
		return nil, err
	}
	if err := p.Configure(ctx, config); err != nil {
		return nil, err
	}
	return p, nil
}
