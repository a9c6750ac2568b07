package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMedia(t *testing.T) {
	Convey("Media", t, func() {
		m := NewMedia(MustGlobalID("TACHIYOMI_KOTLIN", "mangadex/1", "/title/1"))

		Convey("Title - Empty", func() {
			So(m.Title(), ShouldEqual, "")
		})

		Convey("Title - First is canonical", func() {
			m.SetTitles("Berserk", "ベルセルク")
			So(m.Title(), ShouldEqual, "Berserk")
		})

		Convey("BestPoster - Priority", func() {
			So(m.BestPoster(), ShouldEqual, "")

			m.Banner = "banner"
			So(m.BestPoster(), ShouldEqual, "banner")

			m.Poster.Medium = "med"
			So(m.BestPoster(), ShouldEqual, "med")

			m.Poster.Large = "large"
			So(m.BestPoster(), ShouldEqual, "large")

			m.Poster.ExtraLarge = "xl"
			So(m.BestPoster(), ShouldEqual, "xl")
		})

		Convey("BestBanner - Falls back to poster", func() {
			m.SetPoster("poster")
			So(m.BestBanner(), ShouldEqual, "poster")

			m.Banner = "banner"
			So(m.BestBanner(), ShouldEqual, "banner")
		})

		Convey("Segments", func() {
			manager, extension, media, err := m.Segments()
			So(err, ShouldBeNil)
			So(manager, ShouldEqual, "TACHIYOMI_KOTLIN")
			So(extension, ShouldEqual, "mangadex/1")
			So(media, ShouldEqual, "/title/1")
		})

		Convey("JSON keeps the release date as epoch millis", func() {
			released := time.Date(2020, 4, 1, 12, 0, 0, 0, time.UTC)
			m.ReleaseDate = &released
			m.Type = TypeBook
			m.Status = StatusPaused
			m.VisualID = 99
			m.AverageScore = lo.ToPtr(8.5)

			b, err := json.Marshal(m)
			So(err, ShouldBeNil)

			var raw map[string]any
			So(json.Unmarshal(b, &raw), ShouldBeNil)
			So(raw["releaseDate"], ShouldEqual, float64(released.UnixMilli()))
			So(raw["type"], ShouldEqual, "BOOK")
			So(raw["status"], ShouldEqual, "PAUSED")
			So(raw, ShouldNotContainKey, "VisualID")

			var decoded Media
			So(json.Unmarshal(b, &decoded), ShouldBeNil)
			So(decoded.ReleaseDate.Equal(released), ShouldBeTrue)
			So(decoded.Type, ShouldEqual, TypeBook)
			So(decoded.Status, ShouldEqual, StatusPaused)
			So(decoded.VisualID, ShouldEqual, 0)
			So(*decoded.AverageScore, ShouldEqual, 8.5)
		})

		Convey("JSON of a value keeps the release date", func() {
			released := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
			m.ReleaseDate = &released

			b, err := json.Marshal(*m)
			So(err, ShouldBeNil)

			var raw map[string]any
			So(json.Unmarshal(b, &raw), ShouldBeNil)
			So(raw["releaseDate"], ShouldEqual, float64(released.UnixMilli()))
		})

		Convey("Clone shares nothing with the original", func() {
			released := time.Date(2020, 4, 1, 12, 0, 0, 0, time.UTC)
			m.SetTitles("One", "Two")
			m.SetID("site", "1")
			m.SetAuthor("story", "a")
			m.Genres = []string{"Drama"}
			m.Tags = []Tag{{Name: "tag"}}
			m.ReleaseDate = &released
			m.Duration = lo.ToPtr(24)
			m.AverageScore = lo.ToPtr(8.5)

			c := m.Clone()
			So(c, ShouldResemble, m)

			c.Titles[0] = "changed"
			c.SetID("site", "2")
			c.SetAuthor("story", "b")
			c.Genres[0] = "Comedy"
			c.Tags[0].Name = "other"
			*c.ReleaseDate = released.Add(time.Hour)
			*c.Duration = 1
			*c.AverageScore = 1

			So(m.Title(), ShouldEqual, "One")
			So(m.IDs["site"], ShouldEqual, "1")
			So(m.Authors["story"], ShouldEqual, "a")
			So(m.Genres[0], ShouldEqual, "Drama")
			So(m.Tags[0].Name, ShouldEqual, "tag")
			So(m.ReleaseDate.Equal(released), ShouldBeTrue)
			So(*m.Duration, ShouldEqual, 24)
			So(*m.AverageScore, ShouldEqual, 8.5)
		})

		Convey("Unknown status names are rejected", func() {
			var s MediaStatus
			So(s.UnmarshalText([]byte("DROPPED")), ShouldNotBeNil)
			So(s.UnmarshalText([]byte("coming_soon")), ShouldBeNil)
			So(s, ShouldEqual, StatusComingSoon)
		})

		Convey("InvalidMedia", func() {
			invalid := InvalidMedia()
			So(invalid.GlobalID, ShouldEqual, "INTERNAL;;;katalog;;;0")
			So(invalid.Title(), ShouldEqual, "Invalid!")
		})
	})
}
