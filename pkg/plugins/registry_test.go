package plugins

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/turtle/pkg/bootstrap"
)

func named(name string) bootstrap.Plugin {
	return bootstrap.NamedPlugin{PluginName: name}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	assert.Equal(t, 0, registry.Count())

	require.NoError(t, registry.Register(named("Sitemap")))
	assert.True(t, registry.Has("Sitemap"))
	assert.False(t, registry.Has("Other"))

	plugin, err := registry.Get("Sitemap")
	require.NoError(t, err)
	assert.Equal(t, "Sitemap", plugin.Name())

	_, err = registry.Get("Other")
	assert.ErrorIs(t, err, ErrPluginNotFound)
}

func TestRegistry_RegisterErrors(t *testing.T) {
	registry := NewRegistry()

	assert.Error(t, registry.Register(nil))
	assert.Error(t, registry.Register(named("")))

	require.NoError(t, registry.Register(named("Sitemap")))
	assert.ErrorIs(t, registry.Register(named("Sitemap")), ErrPluginExists)
	assert.Equal(t, 1, registry.Count())
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(named("Sitemap")))

	require.NoError(t, registry.Unregister("Sitemap"))
	assert.False(t, registry.Has("Sitemap"))
	assert.ErrorIs(t, registry.Unregister("Sitemap"), ErrPluginNotFound)
}

func TestRegistry_ListAndClear(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		require.NoError(t, registry.Register(named(name)))
	}

	var names []string
	for _, p := range registry.List() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, names)

	registry.Clear()
	assert.Equal(t, 0, registry.Count())
	assert.Empty(t, registry.List())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = registry.Register(named(fmt.Sprintf("plugin-%d", i)))
		}(i)
		go func(i int) {
			defer wg.Done()
			_ = registry.Has(fmt.Sprintf("plugin-%d", i))
			_ = registry.List()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, registry.Count())
}
