package query

import (
	"testing"

	"github.com/anisan-cli/katalog/filesystem"
	"github.com/anisan-cli/katalog/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuery(t *testing.T) {
	Convey("Given query history", t, func() {
		viper.Set(key.SearchRememberQueries, true)

		So(Remember("frieren", 1), ShouldBeNil)
		So(Remember("  BERSERK ", 10), ShouldBeNil)
		So(Remember("berserk of gluttony", 2), ShouldBeNil)

		Convey("Suggestions are ranked", func() {
			s := SuggestMany("bers")
			So(len(s), ShouldBeGreaterThanOrEqualTo, 2)
			So(s[0], ShouldEqual, "berserk")
			So(Suggest("frie").MustGet(), ShouldEqual, "frieren")
		})

		Convey("Blank queries are not remembered", func() {
			So(Remember("   ", 5), ShouldBeNil)
			So(SuggestMany(""), ShouldNotContain, "")
		})

		Convey("Nothing is suggested when disabled", func() {
			viper.Set(key.SearchRememberQueries, false)
			So(SuggestMany("bers"), ShouldBeEmpty)
			So(Suggest("bers").IsAbsent(), ShouldBeTrue)
		})

		Convey("It sanitizes input", func() {
			So(sanitize("  NARUTO  "), ShouldEqual, "naruto")
		})
	})
}
