package icon

import (
	"testing"

	"github.com/anisan-cli/katalog/config"
	"github.com/anisan-cli/katalog/key"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

var all = []Icon{Lua, Native, Success, Fail, Warn, Search}

func TestGet(t *testing.T) {
	Convey("Given the configured default variant", t, func() {
		variant := config.Default[key.IconsVariant].Value.(string)
		viper.Set(key.IconsVariant, variant)

		Convey("It is one of the available variants", func() {
			So(AvailableVariants(), ShouldContain, variant)
		})

		Convey("Ecosystem labels are spelled out", func() {
			So(Get(Lua), ShouldEqual, "Lua")
			So(Get(Native), ShouldEqual, "Native")
		})
	})

	Convey("Every variant renders every icon distinctly", t, func() {
		for _, variant := range AvailableVariants() {
			viper.Set(key.IconsVariant, variant)
			rendered := lo.Map(all, func(i Icon, _ int) string { return Get(i) })

			So(lo.Compact(rendered), ShouldHaveLength, len(all))
			So(lo.Uniq(rendered), ShouldHaveLength, len(all))
		}
	})

	Convey("An unknown variant renders nothing", t, func() {
		viper.Set(key.IconsVariant, "ascii")
		So(Get(Success), ShouldBeEmpty)
	})
}
