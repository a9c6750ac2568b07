package script

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/anisan-cli/katalog/extension"
	"github.com/anisan-cli/katalog/filesystem"
	"github.com/anisan-cli/katalog/log"
	"github.com/spf13/afero"
)

// Lua describes the script ecosystem.
var Lua = extension.Descriptor{
	ID:              "LUA_SCRIPT",
	Name:            "Lua",
	Prefix:          "Lua: ",
	MainClassMeta:   "katalog.lua.main",
	NSFWMeta:        "katalog.lua.nsfw",
	RequiredFeature: "katalog.lua.extension",
	MinVersion:      1.0,
	MaxVersion:      1.9,
}

// Manager turns Lua packages into providers backed by an engine.
type Manager struct {
	engine *Engine
	fs     afero.Fs
}

// NewManager creates a manager loading scripts into engine from fs.
// Nil arguments select Default() and the filesystem API.
func NewManager(engine *Engine, fs afero.Fs) *Manager {
	if engine == nil {
		engine = Default()
	}
	if fs == nil {
		fs = filesystem.API()
	}
	return &Manager{engine: engine, fs: fs}
}

func (m *Manager) Descriptor() extension.Descriptor {
	return Lua
}

// LoadEntry compiles the scripts named by the main metadata, relative to the package
// directory. One name yields a *Script, a comma separated list a []*Script.
func (m *Manager) LoadEntry(pkg *extension.Package) (any, error) {
	main, ok := pkg.Meta(Lua.MainClassMeta)
	if !ok || strings.TrimSpace(main) == "" {
		return nil, fmt.Errorf("%s: missing %s metadata", pkg.ID, Lua.MainClassMeta)
	}

	var scripts []*Script
	for _, name := range strings.Split(main, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		script, err := Compile(m.fs, filepath.Join(pkg.Dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pkg.ID, err)
		}
		scripts = append(scripts, script)
	}

	if len(scripts) == 1 {
		return scripts[0], nil
	}
	return scripts, nil
}

// CreateProviders loads the entry scripts on the engine and waits for them.
// It blocks until the worker gets to the load task, so it must not run on the worker.
func (m *Manager) CreateProviders(pkg *extension.Package, entry any) []extension.Provider {
	if !Lua.Supports(pkg) {
		return nil
	}

	var (
		loaded  []*Extension
		factory bool
	)

	switch e := entry.(type) {
	case *Script:
		value, err := m.engine.Do(KindLoadExtension, pkg, e)
		if err != nil {
			log.Warnf("%s: %s", pkg.ID, err)
			return nil
		}
		loaded = []*Extension{value.(*Extension)}
	case []*Script:
		pending := make([]Pending, 0, len(e))
		for _, script := range e {
			pending = append(pending, Pending{Package: pkg, Script: script})
		}

		value, err := m.engine.Do(KindLoadAll, pending)
		if err != nil {
			log.Warnf("%s: %s", pkg.ID, err)
			return nil
		}
		loaded = value.([]*Extension)
		factory = true
	default:
		return nil
	}

	providers := make([]extension.Provider, 0, len(loaded))
	for _, x := range loaded {
		providers = append(providers, newProvider(m.engine, x, factory))
	}
	return providers
}
