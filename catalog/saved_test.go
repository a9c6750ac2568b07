package catalog

import (
	"encoding/json"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSavedMediaMerge(t *testing.T) {
	Convey("Given a saved record with progress", t, func() {
		saved := NewSavedMedia(NewMedia("LUA_SCRIPT;;;demo;;;1"))
		saved.LastEpisode = 3
		saved.LastEpisodeProgress = 0.5
		saved.LastSource = lo.ToPtr("demo")
		saved.AddToList("watching")

		Convey("When merging an empty patch", func() {
			saved.Merge(NewSavedMedia(nil))

			Convey("Then nothing changes", func() {
				So(saved.LastEpisode, ShouldEqual, 3)
				So(saved.LastEpisodeProgress, ShouldEqual, 0.5)
				So(*saved.LastSource, ShouldEqual, "demo")
				So(saved.Lists, ShouldResemble, []string{"watching"})
			})
		})

		Convey("When merging a partial patch", func() {
			patch := NewSavedMedia(nil)
			patch.LastEpisode = 4
			patch.Lists = []string{"favourites"}

			saved.Merge(patch)

			Convey("Then only the set fields are overwritten", func() {
				So(saved.LastEpisode, ShouldEqual, 4)
				So(saved.LastEpisodeProgress, ShouldEqual, 0.5)
				So(*saved.LastSource, ShouldEqual, "demo")
				So(saved.Lists, ShouldResemble, []string{"favourites"})
			})

			Convey("And merging it again is idempotent", func() {
				once := *saved
				once.Lists = append([]string{}, saved.Lists...)

				saved.Merge(patch)
				So(saved.LastEpisode, ShouldEqual, once.LastEpisode)
				So(saved.LastEpisodeProgress, ShouldEqual, once.LastEpisodeProgress)
				So(*saved.LastSource, ShouldEqual, *once.LastSource)
				So(saved.Lists, ShouldResemble, once.Lists)
			})

			Convey("And the patch does not alias the record", func() {
				patch.Lists[0] = "mutated"
				So(saved.Lists, ShouldResemble, []string{"favourites"})
			})
		})

		Convey("When a patch clears lists with an empty slice", func() {
			patch := NewSavedMedia(nil)
			patch.Lists = []string{}
			saved.Merge(patch)

			So(saved.Lists, ShouldBeEmpty)
			So(saved.Lists, ShouldNotBeNil)
		})
	})
}

func TestSavedMediaLists(t *testing.T) {
	Convey("List membership", t, func() {
		saved := NewSavedMedia(nil)
		So(saved.InList("a"), ShouldBeFalse)

		saved.AddToList("a")
		saved.AddToList("a")
		So(saved.Lists, ShouldResemble, []string{"a"})
		So(saved.InList("a"), ShouldBeTrue)

		saved.ClearLists()
		So(saved.InList("a"), ShouldBeFalse)
	})
}

func TestSavedMediaJSON(t *testing.T) {
	Convey("SavedMedia JSON carries both media and tracking fields", t, func() {
		saved := NewSavedMedia(NewMedia("A;;;B;;;C"))
		saved.SetTitles("Title")
		saved.LastEpisode = 2

		b, err := json.Marshal(saved)
		So(err, ShouldBeNil)

		var raw map[string]any
		So(json.Unmarshal(b, &raw), ShouldBeNil)
		So(raw["globalId"], ShouldEqual, "A;;;B;;;C")
		So(raw["lastEpisode"], ShouldEqual, 2.0)
		So(raw["lastEpisodeProgress"], ShouldEqual, -1.0)

		var decoded SavedMedia
		So(json.Unmarshal(b, &decoded), ShouldBeNil)
		So(decoded.Title(), ShouldEqual, "Title")
		So(decoded.LastEpisode, ShouldEqual, 2)
		So(decoded.LastEpisodeProgress, ShouldEqual, Unset)
		So(decoded.LastSource, ShouldBeNil)

		Convey("Marshalling a value keeps the tracking fields", func() {
			b, err := json.Marshal(*saved)
			So(err, ShouldBeNil)

			var raw map[string]any
			So(json.Unmarshal(b, &raw), ShouldBeNil)
			So(raw["lastEpisode"], ShouldEqual, 2.0)
			So(raw["globalId"], ShouldEqual, "A;;;B;;;C")
		})
	})
}

func TestSavedMediaClone(t *testing.T) {
	Convey("Given a saved record with tracking state", t, func() {
		saved := NewSavedMedia(NewMedia("A;;;B;;;C"))
		saved.SetTitles("Title")
		saved.LastSource = lo.ToPtr("pkg")
		saved.AddToList("watching")

		c := saved.Clone()
		So(c, ShouldResemble, saved)

		Convey("Changing the copy leaves the original untouched", func() {
			*c.LastSource = "other"
			c.Lists[0] = "dropped"
			c.Titles[0] = "Changed"
			c.SetID("site", "1")

			So(*saved.LastSource, ShouldEqual, "pkg")
			So(saved.Lists, ShouldResemble, []string{"watching"})
			So(saved.Title(), ShouldEqual, "Title")
			So(saved.IDs, ShouldBeEmpty)
		})

		Convey("Cleared lists stay set", func() {
			saved.ClearLists()
			So(saved.Clone().Lists, ShouldNotBeNil)
		})
	})
}
