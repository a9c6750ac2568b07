// Package provider wires the extension managers into the process-wide registry.
package provider

import (
	"sync"

	"github.com/anisan-cli/katalog/extension"
	"github.com/anisan-cli/katalog/extension/script"
	"github.com/anisan-cli/katalog/extension/yomi"
	"github.com/anisan-cli/katalog/filesystem"
	"github.com/anisan-cli/katalog/key"
	"github.com/anisan-cli/katalog/log"
	"github.com/anisan-cli/katalog/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

var (
	registry     *extension.Registry
	registryErr  error
	registryOnce sync.Once
)

// Managers returns the managers of every supported ecosystem, in probing order.
func Managers() []extension.Manager {
	return []extension.Manager{
		yomi.NewAniyomiManager(yomi.DefaultSymbols),
		yomi.NewTachiyomiManager(yomi.DefaultSymbols),
		script.NewManager(script.Default(), filesystem.ReadOnly()),
	}
}

// Registry returns the default registry, installing the packages of where.Extensions()
// on first use. Packages with broken manifests are reported in the error; the registry
// is usable either way.
func Registry() (*extension.Registry, error) {
	registryOnce.Do(func() {
		registry = extension.NewRegistry(Managers()...)

		installed, err := registry.InstallDir(filesystem.ReadOnly(), where.Extensions())
		if err != nil {
			log.Warnf("installing extensions: %s", err)
			registryErr = err
		}
		log.Infof("loaded %d providers", len(installed))
	})
	return registry, registryErr
}

// Providers returns the providers having every capability in mask, honouring the
// NSFW and async settings.
func Providers(mask extension.Capability) []extension.Provider {
	r, _ := Registry()

	providers := r.Providers(mask)
	if !viper.GetBool(key.ExtensionsShowNSFW) {
		providers = lo.Reject(providers, func(p extension.Provider, _ int) bool {
			return p.NSFW()
		})
	}
	return lo.Map(providers, func(p extension.Provider, _ int) extension.Provider {
		return decorate(p)
	})
}

// Find looks a provider up by id or name.
func Find(name string) (extension.Provider, bool) {
	r, _ := Registry()

	p, ok := r.Find(name)
	if !ok {
		return nil, false
	}
	return decorate(p), true
}

// Defaults returns the providers named by extensions.default that are loaded.
func Defaults() []extension.Provider {
	return lo.FilterMap(viper.GetStringSlice(key.ExtensionsDefault), func(name string, _ int) (extension.Provider, bool) {
		return Find(name)
	})
}

// DisplayName prefixes the provider name with its ecosystem label.
func DisplayName(p extension.Provider) string {
	r, _ := Registry()

	if m, ok := r.Manager(p.Manager()); ok {
		return extension.DisplayName(m.Descriptor(), p)
	}
	return p.Name()
}

// decorate moves native calls off the caller's goroutine when extensions.async_native is
// set. Script providers are asynchronous already.
func decorate(p extension.Provider) extension.Provider {
	if p.Manager() == script.Lua.ID || !viper.GetBool(key.ExtensionsAsyncCall) {
		return p
	}
	return extension.Go(p)
}
