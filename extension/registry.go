package extension

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/anisan-cli/katalog/log"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Registry owns the providers created by its managers and exposes them by reference.
type Registry struct {
	managers []Manager

	mu        sync.RWMutex
	providers map[string]Provider   // by provider id
	packages  map[string][]Provider // by package id
}

// NewRegistry creates a registry probing packages against the managers in the given order.
func NewRegistry(managers ...Manager) *Registry {
	return &Registry{
		managers:  managers,
		providers: make(map[string]Provider),
		packages:  make(map[string][]Provider),
	}
}

// Managers returns the registered managers.
func (r *Registry) Managers() []Manager {
	return append([]Manager{}, r.managers...)
}

// Manager returns the manager with the given id.
func (r *Registry) Manager(id string) (Manager, bool) {
	return lo.Find(r.managers, func(m Manager) bool {
		return m.Descriptor().ID == id
	})
}

// Install probes every manager with the package and registers the resulting providers.
// Managers that do not target the package, and entry objects that fail to load, are
// skipped. Reinstalling a package replaces its providers.
func (r *Registry) Install(pkg *Package) []Provider {
	var created []Provider

	for _, manager := range r.managers {
		descriptor := manager.Descriptor()
		if !descriptor.Supports(pkg) {
			continue
		}

		var entry any
		if loader, ok := manager.(EntryLoader); ok {
			loaded, err := loader.LoadEntry(pkg)
			if err != nil {
				log.WithFields(logrus.Fields{
					"manager": descriptor.ID,
					"package": pkg.ID,
				}).Warnf("failed to load entry: %s", err)
				continue
			}
			entry = loaded
		}

		created = append(created, manager.CreateProviders(pkg, entry)...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.uninstall(pkg.ID)
	for _, p := range created {
		r.providers[p.ID()] = p
	}
	if len(created) > 0 {
		r.packages[pkg.ID] = created
	}

	log.Infof("package %s produced %d providers", pkg.ID, len(created))
	return created
}

// InstallDir installs every package found in the immediate sub-directories of dir.
// Directories without a manifest are ignored; malformed manifests are joined into the error.
func (r *Registry) InstallDir(fs afero.Fs, dir string) ([]Provider, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}

	var (
		installed []Provider
		errs      []error
	)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		pkg, err := ReadManifest(fs, filepath.Join(dir, entry.Name()))
		if errors.Is(err, ErrNoManifest) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}

		installed = append(installed, r.Install(pkg)...)
	}

	return installed, errors.Join(errs...)
}

// Uninstall forgets the providers of a package.
func (r *Registry) Uninstall(packageID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uninstall(packageID)
}

func (r *Registry) uninstall(packageID string) bool {
	providers, ok := r.packages[packageID]
	if !ok {
		return false
	}

	for _, p := range providers {
		delete(r.providers, p.ID())
	}
	delete(r.packages, packageID)
	return true
}

// Providers returns every provider having all capabilities in mask, in Compare order.
func (r *Registry) Providers(mask Capability) []Provider {
	r.mu.RLock()
	providers := lo.Filter(lo.Values(r.providers), func(p Provider, _ int) bool {
		return p.Capabilities().Has(mask)
	})
	r.mu.RUnlock()

	Sort(providers)
	return providers
}

// PackageProviders returns the providers created from one package, in creation order.
func (r *Registry) PackageProviders(packageID string) []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Provider{}, r.packages[packageID]...)
}

// Get returns a provider by id.
func (r *Registry) Get(id string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	return p, ok
}

// Find looks a provider up by id or name, falling back to a fuzzy match on the name.
func (r *Registry) Find(name string) (Provider, bool) {
	if p, ok := r.Get(name); ok {
		return p, true
	}

	providers := r.Providers(CapNone)

	if p, ok := lo.Find(providers, func(p Provider) bool {
		return strings.EqualFold(p.Name(), name)
	}); ok {
		return p, true
	}

	return lo.Find(providers, func(p Provider) bool {
		return fuzzy.MatchNormalizedFold(name, p.Name())
	})
}
