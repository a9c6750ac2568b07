package script

import (
	"fmt"
	"testing"

	"github.com/anisan-cli/katalog/extension"
	"github.com/spf13/afero"
	. "github.com/smartystreets/goconvey/convey"
)

const luaManifest = `id = "lua.pack"
name = "Lua Pack"
version = "1.2.0"
lang = "en"
features = ["katalog.lua.extension"]

[metadata]
"katalog.lua.main" = "%s"
`

func writePackage(fs afero.Fs, dir, main string, files map[string]string) {
	So(afero.WriteFile(fs, dir+"/manifest.toml", []byte(fmt.Sprintf(luaManifest, main)), 0o644), ShouldBeNil)
	for name, content := range files {
		So(afero.WriteFile(fs, dir+"/"+name, []byte(content), 0o644), ShouldBeNil)
	}
}

func TestManager(t *testing.T) {
	Convey("Given a Lua manager over an in-memory filesystem", t, func() {
		fs := afero.NewMemMapFs()
		manager := NewManager(NewEngine(Options{}), fs)
		registry := extension.NewRegistry(manager)

		Convey("A package with one script produces one provider", func() {
			writePackage(fs, "/ext/single", "main.lua", map[string]string{"main.lua": searchOnlyScript})

			pkg, err := extension.ReadManifest(fs, "/ext/single")
			So(err, ShouldBeNil)

			entry, err := manager.LoadEntry(pkg)
			So(err, ShouldBeNil)
			So(entry, ShouldHaveSameTypeAs, &Script{})

			providers := registry.Install(pkg)
			So(providers, ShouldHaveLength, 1)
			So(providers[0].ID(), ShouldEqual, "lua.pack")
			So(providers[0].Name(), ShouldEqual, "Lua Pack")
		})

		Convey("A package listing several scripts is a factory", func() {
			writePackage(fs, "/ext/multi", "b.lua, a.lua, broken.lua", map[string]string{
				"a.lua":      searchOnlyScript,
				"b.lua":      searchOnlyScript,
				"broken.lua": `x = 1`,
			})

			providers, err := registry.InstallDir(fs, "/ext")
			So(err, ShouldBeNil)
			So(providers, ShouldHaveLength, 2)
			So(providers[0].ID(), ShouldEqual, "lua.pack/b")
			So(providers[1].ID(), ShouldEqual, "lua.pack/a")
		})

		Convey("A missing script fails to load and produces nothing", func() {
			writePackage(fs, "/ext/missing", "nope.lua", nil)

			pkg, err := extension.ReadManifest(fs, "/ext/missing")
			So(err, ShouldBeNil)

			_, err = manager.LoadEntry(pkg)
			So(err, ShouldNotBeNil)
			So(registry.Install(pkg), ShouldBeEmpty)
		})

		Convey("Unrecognized entries produce nothing", func() {
			pkg := &extension.Package{ID: "x", VersionName: "1.0", Features: []string{Lua.RequiredFeature}}
			So(manager.CreateProviders(pkg, 42), ShouldBeEmpty)
		})

		Convey("Versions outside 1.0..1.9 are skipped", func() {
			script, _ := NewScript("s", searchOnlyScript)
			for version, accepted := range map[string]bool{"0.9": false, "1.0": true, "1.9.3": true, "2.0": false} {
				pkg := &extension.Package{ID: "x", VersionName: version, Features: []string{Lua.RequiredFeature}}
				So(len(manager.CreateProviders(pkg, script)) == 1, ShouldEqual, accepted)
			}
		})
	})
}
