package library

import (
	"fmt"
	"sync"
	"testing"

	"github.com/anisan-cli/katalog/catalog"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func patch(id string) *catalog.SavedMedia {
	media := catalog.NewMedia(catalog.MustGlobalID("LUA_SCRIPT", "pkg", id))
	media.SetTitles("Title " + id)
	return catalog.NewSavedMedia(media)
}

func TestLibrary(t *testing.T) {
	Convey("Given an empty library", t, func() {
		lib := New()

		Convey("Applying a patch creates the record", func() {
			p := patch("1")
			p.LastEpisode = 3
			saved, err := lib.Apply(p)
			So(err, ShouldBeNil)
			So(saved.LastEpisode, ShouldEqual, 3)
			So(saved.LastEpisodeProgress, ShouldEqual, catalog.Unset)
			So(lib.Len(), ShouldEqual, 1)

			Convey("A later patch overwrites only what it sets", func() {
				p := patch("1")
				p.LastEpisodeProgress = 0.5
				p.LastSource = lo.ToPtr("pkg")
				saved, err := lib.Apply(p)
				So(err, ShouldBeNil)
				So(saved.LastEpisode, ShouldEqual, 3)
				So(saved.LastEpisodeProgress, ShouldEqual, 0.5)
				So(*saved.LastSource, ShouldEqual, "pkg")

				Convey("Applying it again changes nothing", func() {
					again, err := lib.Apply(p)
					So(err, ShouldBeNil)
					So(again, ShouldResemble, saved)
				})
			})

			Convey("Returned records are copies", func() {
				saved.AddToList("favourites")
				stored, ok := lib.Get(saved.GlobalID)
				So(ok, ShouldBeTrue)
				So(stored.Lists, ShouldBeEmpty)
			})

			Convey("Neither the patch nor returned records alias the stored record", func() {
				p.SetID("site", "from-patch")
				saved.SetID("site", "from-copy")
				saved.Titles[0] = "changed"

				stored, ok := lib.Get(saved.GlobalID)
				So(ok, ShouldBeTrue)
				_, ok = stored.ID("site")
				So(ok, ShouldBeFalse)
				So(stored.Title(), ShouldEqual, "Title 1")

				stored.SetAuthor("story", "someone")
				So(lib.All()[0].Authors, ShouldBeEmpty)
			})

			Convey("Refresh swaps catalog fields and keeps progress", func() {
				fresh := catalog.NewMedia(saved.GlobalID)
				fresh.SetTitles("Renamed")
				So(lib.Refresh(fresh), ShouldBeTrue)

				stored, _ := lib.Get(saved.GlobalID)
				So(stored.Title(), ShouldEqual, "Renamed")
				So(stored.LastEpisode, ShouldEqual, 3)
			})

			Convey("Remove forgets it", func() {
				So(lib.Remove(saved.GlobalID), ShouldBeTrue)
				So(lib.Remove(saved.GlobalID), ShouldBeFalse)
				_, ok := lib.Get(saved.GlobalID)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("Records without a valid global id are rejected", func() {
			_, err := lib.Apply(catalog.NewSavedMedia(catalog.NewMedia("")))
			So(err, ShouldEqual, ErrNoGlobalID)

			_, err = lib.Apply(catalog.NewSavedMedia(catalog.NewMedia("no separators")))
			So(err, ShouldNotBeNil)
		})

		Convey("Lists filter and order records", func() {
			for _, id := range []string{"c", "a", "b"} {
				p := patch(id)
				if id != "b" {
					p.Lists = []string{"watching"}
				}
				_, err := lib.Apply(p)
				So(err, ShouldBeNil)
			}

			So(lo.Map(lib.All(), func(s *catalog.SavedMedia, _ int) string { return s.Title() }),
				ShouldResemble, []string{"Title a", "Title b", "Title c"})
			So(lo.Map(lib.InList("watching"), func(s *catalog.SavedMedia, _ int) string { return s.Title() }),
				ShouldResemble, []string{"Title a", "Title c"})
		})

		Convey("Concurrent patches are all applied", func() {
			var wg sync.WaitGroup
			for i := 0; i < 32; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, _ = lib.Apply(patch(fmt.Sprint(i % 8)))
				}(i)
			}
			wg.Wait()
			So(lib.Len(), ShouldEqual, 8)
		})
	})
}
