package provider

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/anisan-cli/katalog/config"
	"github.com/anisan-cli/katalog/extension"
	"github.com/anisan-cli/katalog/filesystem"
	"github.com/anisan-cli/katalog/key"
	"github.com/anisan-cli/katalog/where"
	"github.com/spf13/afero"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

const manifest = `id = "%s"
name = "%s"
version = "1.0"
features = ["katalog.lua.extension"]

[metadata]
"katalog.lua.main" = "main.lua"
"katalog.lua.nsfw" = "%s"
`

const source = `
Priority = %d
function SearchMedia(query, page)
	return {}
end
`

func writeExtension(id, name, nsfw string, priority int) {
	dir := filepath.Join(where.Extensions(), id)
	fs := filesystem.API()
	So(fs.MkdirAll(dir, 0o755), ShouldBeNil)
	So(afero.WriteFile(fs, filepath.Join(dir, "manifest.toml"), []byte(fmt.Sprintf(manifest, id, name, nsfw)), 0o644), ShouldBeNil)
	So(afero.WriteFile(fs, filepath.Join(dir, "main.lua"), []byte(fmt.Sprintf(source, priority)), 0o644), ShouldBeNil)
}

func TestRegistry(t *testing.T) {
	Convey("Given installed Lua extensions", t, func() {
		filesystem.SetMemMapFs()
		t.Setenv("KATALOG_CONFIG_PATH", "/config")
		So(config.Setup(), ShouldBeNil)

		writeExtension("low", "Low", "0", 1)
		writeExtension("high", "High", "0", 10)
		writeExtension("adult", "Adult", "1", 5)

		r, err := Registry()
		So(err, ShouldBeNil)
		So(r.Managers(), ShouldHaveLength, 3)

		Convey("Providers are ordered by priority and adult ones are hidden", func() {
			viper.Set(key.ExtensionsShowNSFW, false)
			providers := Providers(extension.CapMediaSearch)
			So(providers, ShouldHaveLength, 2)
			So(providers[0].ID(), ShouldEqual, "high")
			So(providers[1].ID(), ShouldEqual, "low")
		})

		Convey("Adult providers can be shown", func() {
			viper.Set(key.ExtensionsShowNSFW, true)
			defer viper.Set(key.ExtensionsShowNSFW, false)
			So(Providers(extension.CapMediaSearch), ShouldHaveLength, 3)
		})

		Convey("Providers are found by name", func() {
			p, ok := Find("high")
			So(ok, ShouldBeTrue)
			So(DisplayName(p), ShouldEqual, "Lua: High")

			_, ok = Find("nothing like it")
			So(ok, ShouldBeFalse)
		})

		Convey("Defaults resolve configured names", func() {
			viper.Set(key.ExtensionsDefault, []string{"Low", "missing"})
			defer viper.Set(key.ExtensionsDefault, []string{})

			defaults := Defaults()
			So(defaults, ShouldHaveLength, 1)
			So(defaults[0].ID(), ShouldEqual, "low")
		})
	})
}
