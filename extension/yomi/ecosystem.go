// Package yomi bridges the native Aniyomi and Tachiyomi extension ecosystems.
//
// Both ecosystems ship an entry value that is either a single catalogue source or a factory
// of sources. One generic Manager handles them, parametrized by an Ecosystem that knows the
// manifest markers, how to classify an entry value and how to wrap a source as a provider.
package yomi

import (
	"fmt"

	"github.com/anisan-cli/katalog/extension"
	"github.com/anisan-cli/katalog/log"
	"github.com/sirupsen/logrus"
)

// EntryKind is the shape of an entry value.
type EntryKind int

const (
	Unrecognized EntryKind = iota
	SingleSource
	KindFactory
)

func (k EntryKind) String() string {
	switch k {
	case SingleSource:
		return "single source"
	case KindFactory:
		return "source factory"
	default:
		return "unrecognized"
	}
}

// Entry is the classified form of an entry value.
// Source is set for SingleSource, Sources for KindFactory.
type Entry[S any] struct {
	Kind    EntryKind
	Source  S
	Sources func() []any
}

// Single classifies a value as one catalogue source.
func Single[S any](source S) Entry[S] {
	return Entry[S]{Kind: SingleSource, Source: source}
}

// Factory classifies a value as a factory yielding sources in enumeration order.
func Factory[S any](sources func() []any) Entry[S] {
	return Entry[S]{Kind: KindFactory, Sources: sources}
}

// Unknown classifies a value as neither shape.
func Unknown[S any]() Entry[S] {
	return Entry[S]{Kind: Unrecognized}
}

// Ecosystem describes one native extension family.
type Ecosystem[S any] struct {
	Descriptor extension.Descriptor
	// Classify inspects an entry value. It must not call the value.
	Classify func(entry any) Entry[S]
	// Wrap adapts one catalogue source of the package.
	Wrap func(d extension.Descriptor, pkg *extension.Package, source S) extension.Provider
}

// maxFactoryDepth stops factories that yield themselves.
const maxFactoryDepth = 8

// Manager is the extension.Manager of a native ecosystem.
type Manager[S any] struct {
	ecosystem Ecosystem[S]
	symbols   *Symbols
}

// NewManager creates a manager resolving entry symbols through symbols.
// A nil table means DefaultSymbols.
func NewManager[S any](ecosystem Ecosystem[S], symbols *Symbols) *Manager[S] {
	if symbols == nil {
		symbols = DefaultSymbols
	}
	return &Manager[S]{ecosystem: ecosystem, symbols: symbols}
}

func (m *Manager[S]) Descriptor() extension.Descriptor {
	return m.ecosystem.Descriptor
}

// LoadEntry looks up the symbol named by the package's main class metadata.
func (m *Manager[S]) LoadEntry(pkg *extension.Package) (any, error) {
	d := m.ecosystem.Descriptor

	symbol, ok := pkg.Meta(d.MainClassMeta)
	if !ok || symbol == "" {
		return nil, fmt.Errorf("%s: missing %s metadata", pkg.ID, d.MainClassMeta)
	}

	entry, err := m.symbols.Lookup(symbol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pkg.ID, err)
	}
	return entry, nil
}

// CreateProviders gates the package by feature and version, then wraps every source the
// entry value yields. Mismatches produce an empty list.
func (m *Manager[S]) CreateProviders(pkg *extension.Package, entry any) []extension.Provider {
	d := m.ecosystem.Descriptor
	if !d.Supports(pkg) {
		return nil
	}

	providers := m.collect(pkg, entry, 0)
	if len(providers) == 0 {
		log.WithFields(logrus.Fields{
			"manager": d.ID,
			"package": pkg.ID,
		}).Debugf("entry %T produced no providers", entry)
	}
	return providers
}

func (m *Manager[S]) collect(pkg *extension.Package, entry any, depth int) []extension.Provider {
	classified := m.ecosystem.Classify(entry)

	switch classified.Kind {
	case SingleSource:
		return []extension.Provider{m.ecosystem.Wrap(m.ecosystem.Descriptor, pkg, classified.Source)}
	case KindFactory:
		if depth >= maxFactoryDepth {
			log.Warnf("%s: factory nesting deeper than %d, ignoring", pkg.ID, maxFactoryDepth)
			return nil
		}

		var providers []extension.Provider
		for _, source := range classified.Sources() {
			providers = append(providers, m.collect(pkg, source, depth+1)...)
		}
		return providers
	default:
		return nil
	}
}
