package where

import (
	"path/filepath"
	"testing"

	"github.com/anisan-cli/katalog/filesystem"
	"github.com/anisan-cli/katalog/key"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Config() honours "+EnvConfigPath, func() {
			t.Setenv(EnvConfigPath, "/custom/config")
			So(Config(), ShouldEqual, "/custom/config")
			So(Extensions(), ShouldEqual, filepath.Join("/custom/config", "extensions"))
		})

		Convey("Extensions() honours "+key.ExtensionsPath, func() {
			viper.Set(key.ExtensionsPath, "/opt/extensions")
			defer viper.Set(key.ExtensionsPath, "")

			So(Extensions(), ShouldEqual, "/opt/extensions")
			So(lo.Must(filesystem.API().IsDir("/opt/extensions")), ShouldBeTrue)
		})

		Convey("Cache()", func() {
			path := Cache()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			So(filepath.Dir(SearchCache()), ShouldEqual, path)
			So(filepath.Dir(Queries()), ShouldEqual, path)
		})

		Convey("Logs()", func() {
			path := Logs()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})
	})
}
