package extension

import (
	"github.com/anisan-cli/katalog/log"
	"github.com/sirupsen/logrus"
)

// Descriptor is the static identity of one extension ecosystem.
type Descriptor struct {
	// ID is the manager id used as the first global id segment.
	ID string
	// Name is a human readable ecosystem name.
	Name string
	// Prefix is prepended to extension display names.
	Prefix string
	// MainClassMeta is the manifest metadata key naming the entry symbol.
	MainClassMeta string
	// NSFWMeta is the manifest metadata key flagging adult content.
	NSFWMeta string
	// RequiredFeature must be declared by a package for the manager to engage.
	RequiredFeature string
	// MinVersion and MaxVersion bound the declared library version, inclusive.
	MinVersion float64
	MaxVersion float64
}

// Accepts reports whether version lies in [MinVersion, MaxVersion].
func (d Descriptor) Accepts(version float64) bool {
	return d.MinVersion <= version && version <= d.MaxVersion
}

// Supports reports whether the package targets this ecosystem with a compatible version.
// A mismatch is a normal outcome when several managers probe the same package, so it is
// only logged.
func (d Descriptor) Supports(pkg *Package) bool {
	fields := logrus.Fields{"manager": d.ID, "package": pkg.ID}

	if !pkg.HasFeature(d.RequiredFeature) {
		log.WithFields(fields).Debugf("package does not declare feature %s", d.RequiredFeature)
		return false
	}

	if version := pkg.LibVersion(); !d.Accepts(version) {
		log.WithFields(fields).Infof(
			"skipping package: version %v outside [%v, %v]",
			version, d.MinVersion, d.MaxVersion,
		)
		return false
	}

	return true
}

// Manager turns packages of one ecosystem into providers.
type Manager interface {
	// Descriptor returns the manager identity. It has no side effects.
	Descriptor() Descriptor

	// CreateProviders converts a loaded entry object into zero or more providers.
	// Feature, version and shape mismatches yield an empty list, never an error.
	CreateProviders(pkg *Package, entry any) []Provider
}

// EntryLoader is implemented by managers that know how to resolve a package's entry object.
type EntryLoader interface {
	LoadEntry(pkg *Package) (any, error)
}
