package yomi

import (
	"errors"
	"fmt"
	"testing"

	"github.com/anisan-cli/katalog/catalog"
	"github.com/anisan-cli/katalog/extension"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeAnime struct {
	id      int64
	name    string
	err     error
	queries []string
}

func (f *fakeAnime) ID() int64    { return f.id }
func (f *fakeAnime) Name() string { return f.name }
func (f *fakeAnime) Lang() string { return "en" }

func (f *fakeAnime) PopularAnime(page int) (*AnimesPage, error) {
	f.queries = append(f.queries, fmt.Sprintf("popular:%d", page))
	if f.err != nil {
		return nil, f.err
	}
	return &AnimesPage{
		Animes:      []*SAnime{{URL: "/a/1", Title: "Popular", Status: StatusOnHiatus, Genre: "Action, Drama,"}},
		HasNextPage: true,
	}, nil
}

func (f *fakeAnime) SearchAnime(page int, query string, _ map[string]string) (*AnimesPage, error) {
	f.queries = append(f.queries, fmt.Sprintf("search:%d:%s", page, query))
	if f.err != nil {
		return nil, f.err
	}
	return &AnimesPage{Animes: []*SAnime{{URL: "/a/2", Title: query, ThumbnailURL: "poster.jpg"}}}, nil
}

func (f *fakeAnime) EpisodeList(anime *SAnime) ([]*SEpisode, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*SEpisode{
		{URL: anime.URL + "/ep/1", Name: "One", EpisodeNumber: 1, DateUpload: 1700000000000},
		{URL: anime.URL + "/ep/2", Name: "Two", EpisodeNumber: 2},
	}, nil
}

func (f *fakeAnime) VideoList(episode *SEpisode) ([]*Video, error) {
	return []*Video{{URL: episode.URL, VideoURL: episode.URL + ".m3u8", Quality: "1080p"}}, nil
}

type animeFactory []AnimeSource

func (f animeFactory) CreateSources() []AnimeSource { return f }

type plainSource struct{}

func (plainSource) ID() int64    { return 99 }
func (plainSource) Name() string { return "plain" }

type fakeManga struct{ id int64 }

func (f *fakeManga) ID() int64    { return f.id }
func (f *fakeManga) Name() string { return fmt.Sprintf("manga-%d", f.id) }
func (f *fakeManga) Lang() string { return "ja" }

func (f *fakeManga) PopularManga(int) (*MangasPage, error) {
	return &MangasPage{Mangas: []*SManga{{URL: "/m/1", Title: "Book", Status: StatusPublishingFinished}}}, nil
}

func (f *fakeManga) SearchManga(int, string, map[string]string) (*MangasPage, error) {
	return &MangasPage{}, nil
}

func (f *fakeManga) ChapterList(manga *SManga) ([]*SChapter, error) {
	return []*SChapter{{URL: manga.URL + "/c/1", Name: "Chapter 1", ChapterNumber: 1}}, nil
}

func (f *fakeManga) PageList(chapter *SChapter) ([]*Page, error) {
	return []*Page{{Index: 0, URL: chapter.URL + "/1"}, {Index: 1, ImageURL: "img2.png"}}, nil
}

type mangaFactory []MangaSource

func (f mangaFactory) CreateSources() []MangaSource { return f }

func aniyomiPackage(version string) *extension.Package {
	return &extension.Package{
		ID:          "ext.anime",
		Name:        "Anime",
		VersionName: version,
		Features:    []string{"tachiyomi.animeextension"},
		Metadata: map[string]string{
			"tachiyomi.animeextension.class": "eu.kanade.anime.Main",
			"tachiyomi.animeextension.nsfw":  "1",
		},
	}
}

func tachiyomiPackage(version string) *extension.Package {
	return &extension.Package{
		ID:          "ext.manga",
		VersionName: version,
		Features:    []string{"tachiyomi.extension"},
		Metadata:    map[string]string{"tachiyomi.extension.class": "eu.kanade.manga.Main"},
	}
}

func await[T any](op func(extension.Callback[T])) (T, error) {
	return extension.Call(op).Await()
}

func TestVersionGate(t *testing.T) {
	Convey("Given the Aniyomi manager", t, func() {
		manager := NewAniyomiManager(NewSymbols())
		source := &fakeAnime{id: 1, name: "one"}

		Convey("Versions on both boundaries are accepted", func() {
			So(manager.CreateProviders(aniyomiPackage("12.0"), source), ShouldHaveLength, 1)
			So(manager.CreateProviders(aniyomiPackage("15"), source), ShouldHaveLength, 1)
			So(manager.CreateProviders(aniyomiPackage("14.3.1"), source), ShouldHaveLength, 1)
		})

		Convey("Versions outside the range are skipped silently", func() {
			So(manager.CreateProviders(aniyomiPackage("11.9"), source), ShouldBeEmpty)
			So(manager.CreateProviders(aniyomiPackage("15.1"), source), ShouldBeEmpty)
			So(manager.CreateProviders(aniyomiPackage("garbage"), source), ShouldBeEmpty)
		})

		Convey("A package without the feature is skipped", func() {
			pkg := aniyomiPackage("13")
			pkg.Features = []string{"tachiyomi.extension"}
			So(manager.CreateProviders(pkg, source), ShouldBeEmpty)
		})
	})

	Convey("Given the Tachiyomi manager", t, func() {
		manager := NewTachiyomiManager(NewSymbols())
		source := &fakeManga{id: 1}

		for _, v := range []float64{1.1, 1.2, 1.35, 1.5, 1.6} {
			accepted := v >= 1.2 && v <= 1.5
			pkg := tachiyomiPackage(fmt.Sprint(v))
			So(len(manager.CreateProviders(pkg, source)) == 1, ShouldEqual, accepted)
			So(Tachiyomi.Descriptor.Accepts(v), ShouldEqual, accepted)
		}
	})
}

func TestClassification(t *testing.T) {
	Convey("Given the Aniyomi manager", t, func() {
		manager := NewAniyomiManager(NewSymbols())
		pkg := aniyomiPackage("14")

		Convey("A single source produces one provider", func() {
			providers := manager.CreateProviders(pkg, &fakeAnime{id: 7, name: "seven"})
			So(providers, ShouldHaveLength, 1)
			So(providers[0].ID(), ShouldEqual, "ext.anime/7")
			So(providers[0].Manager(), ShouldEqual, "ANIYOMI_KOTLIN")
			So(providers[0].NSFW(), ShouldBeTrue)
		})

		Convey("A factory produces one provider per source in enumeration order", func() {
			factory := animeFactory{
				&fakeAnime{id: 3, name: "c"},
				&fakeAnime{id: 1, name: "a"},
				&fakeAnime{id: 2, name: "b"},
			}
			providers := manager.CreateProviders(pkg, factory)
			So(lo.Map(providers, func(p extension.Provider, _ int) string { return p.Name() }),
				ShouldResemble, []string{"c", "a", "b"})
		})

		Convey("Factories of factories are flattened", func() {
			nested := animeFactory{
				&fakeAnime{id: 1, name: "a"},
				nestedFactory{animeFactory{&fakeAnime{id: 2, name: "b"}}},
				plainSource{},
			}
			providers := manager.CreateProviders(pkg, nested)
			So(providers, ShouldHaveLength, 2)
			So(providers[1].Name(), ShouldEqual, "b")
		})

		Convey("An unrecognized entry produces nothing", func() {
			So(manager.CreateProviders(pkg, "not a source"), ShouldBeEmpty)
			So(manager.CreateProviders(pkg, nil), ShouldBeEmpty)
			So(manager.CreateProviders(pkg, &fakeManga{id: 1}), ShouldBeEmpty)
		})
	})

	Convey("Given the Tachiyomi manager", t, func() {
		manager := NewTachiyomiManager(NewSymbols())
		providers := manager.CreateProviders(tachiyomiPackage("1.4"), mangaFactory{&fakeManga{id: 1}, &fakeManga{id: 2}})

		So(providers, ShouldHaveLength, 2)
		So(providers[0].ID(), ShouldEqual, "ext.manga/1")
		So(providers[1].ID(), ShouldEqual, "ext.manga/2")
		So(providers[0].NSFW(), ShouldBeFalse)
	})
}

// nestedFactory is a source factory that is itself listed as a source.
type nestedFactory struct {
	animeFactory
}

func (nestedFactory) ID() int64    { return 0 }
func (nestedFactory) Name() string { return "nested" }

func TestLoadEntry(t *testing.T) {
	Convey("Given a symbol table with one entry", t, func() {
		symbols := NewSymbols()
		source := &fakeAnime{id: 1, name: "one"}
		symbols.Register("eu.kanade.anime.Main", source)
		manager := NewAniyomiManager(symbols)

		Convey("The main class metadata resolves to the entry", func() {
			entry, err := manager.LoadEntry(aniyomiPackage("14"))
			So(err, ShouldBeNil)
			So(entry, ShouldEqual, source)
		})

		Convey("An unknown symbol fails", func() {
			pkg := aniyomiPackage("14")
			pkg.Metadata["tachiyomi.animeextension.class"] = "eu.kanade.anime.Missing"
			_, err := manager.LoadEntry(pkg)
			So(errors.Is(err, ErrSymbolNotFound), ShouldBeTrue)
		})

		Convey("Missing metadata fails", func() {
			pkg := aniyomiPackage("14")
			delete(pkg.Metadata, "tachiyomi.animeextension.class")
			_, err := manager.LoadEntry(pkg)
			So(err, ShouldNotBeNil)
		})

		Convey("The registry installs it", func() {
			registry := extension.NewRegistry(manager)
			So(registry.Install(aniyomiPackage("14")), ShouldHaveLength, 1)
			_, ok := registry.Get("ext.anime/1")
			So(ok, ShouldBeTrue)
		})
	})
}

func TestAnimeProvider(t *testing.T) {
	Convey("Given an Aniyomi provider", t, func() {
		source := &fakeAnime{id: 5, name: "five"}
		provider := NewAniyomiManager(NewSymbols()).CreateProviders(aniyomiPackage("14"), source)[0]

		Convey("An empty query lists popular media", func() {
			page, err := await(func(cb extension.Callback[*extension.MediaPage]) {
				provider.SearchMedia(&extension.SearchRequest{Query: "  ", Page: 0}, cb)
			})
			So(err, ShouldBeNil)
			So(source.queries, ShouldResemble, []string{"popular:1"})
			So(page.HasNext, ShouldBeTrue)
			So(page.Items, ShouldHaveLength, 1)

			media := page.Items[0]
			So(media.GlobalID, ShouldEqual, "ANIYOMI_KOTLIN;;;ext.anime/5;;;/a/1")
			So(media.Status, ShouldEqual, catalog.StatusPaused)
			So(media.Type, ShouldEqual, catalog.TypeTV)
			So(media.Genres, ShouldResemble, []string{"Action", "Drama"})
		})

		Convey("A query searches", func() {
			page, err := await(func(cb extension.Callback[*extension.MediaPage]) {
				provider.SearchMedia(&extension.SearchRequest{Query: "frieren", Page: 2}, cb)
			})
			So(err, ShouldBeNil)
			So(source.queries, ShouldResemble, []string{"search:3:frieren"})
			So(page.Items[0].BestPoster(), ShouldEqual, "poster.jpg")
		})

		Convey("Episodes and videos round trip through catalog records", func() {
			page, _ := await(func(cb extension.Callback[*extension.MediaPage]) {
				provider.SearchMedia(&extension.SearchRequest{}, cb)
			})

			episodes, err := await(func(cb extension.Callback[[]*catalog.Episode]) {
				provider.Episodes(&extension.EpisodesRequest{Media: page.Items[0]}, cb)
			})
			So(err, ShouldBeNil)
			So(episodes, ShouldHaveLength, 2)
			So(episodes[0].ID, ShouldEqual, "/a/1/ep/1")
			So(episodes[0].ReleaseDate, ShouldNotBeNil)
			So(episodes[1].ReleaseDate, ShouldBeNil)
			So(episodes[1].Media, ShouldEqual, page.Items[0])

			videos, err := await(func(cb extension.Callback[[]*catalog.Video]) {
				provider.Videos(&extension.VideosRequest{Episode: episodes[0]}, cb)
			})
			So(err, ShouldBeNil)
			So(videos[0].URL, ShouldEqual, "/a/1/ep/1.m3u8")
			So(videos[0].Quality, ShouldEqual, "1080p")
		})

		Convey("Native failures reach the failure branch wrapped with the provider name", func() {
			boom := errors.New("boom")
			source.err = boom

			_, err := await(func(cb extension.Callback[*extension.MediaPage]) {
				provider.SearchMedia(&extension.SearchRequest{}, cb)
			})
			So(errors.Is(err, boom), ShouldBeTrue)
			So(err.Error(), ShouldStartWith, "five")

			_, err = await(func(cb extension.Callback[[]*catalog.Episode]) {
				provider.Episodes(&extension.EpisodesRequest{Media: catalog.InvalidMedia()}, cb)
			})
			So(errors.Is(err, boom), ShouldBeTrue)
		})

		Convey("Comments are unsupported", func() {
			So(provider.Capabilities().Has(extension.CapCommentsRead), ShouldBeFalse)
			_, err := await(func(cb extension.Callback[*catalog.Comment]) {
				provider.ReadComments(&extension.ReadCommentsRequest{}, cb)
			})
			So(errors.Is(err, extension.ErrUnsupported), ShouldBeTrue)
		})
	})
}

func TestMangaProvider(t *testing.T) {
	Convey("Given a Tachiyomi provider", t, func() {
		provider := NewTachiyomiManager(NewSymbols()).CreateProviders(tachiyomiPackage("1.3"), &fakeManga{id: 4})[0]

		page, err := await(func(cb extension.Callback[*extension.MediaPage]) {
			provider.SearchMedia(&extension.SearchRequest{}, cb)
		})
		So(err, ShouldBeNil)
		So(page.Items[0].Type, ShouldEqual, catalog.TypeBook)
		So(page.Items[0].Status, ShouldEqual, catalog.StatusCompleted)

		Convey("Chapters become episodes and pages become videos", func() {
			chapters, err := await(func(cb extension.Callback[[]*catalog.Episode]) {
				provider.Episodes(&extension.EpisodesRequest{Media: page.Items[0]}, cb)
			})
			So(err, ShouldBeNil)
			So(chapters[0].Title, ShouldEqual, "Chapter 1")

			pages, err := await(func(cb extension.Callback[[]*catalog.Video]) {
				provider.Videos(&extension.VideosRequest{Episode: chapters[0]}, cb)
			})
			So(err, ShouldBeNil)
			So(pages, ShouldHaveLength, 2)
			So(pages[0].URL, ShouldEqual, "/m/1/c/1/1")
			So(pages[1].URL, ShouldEqual, "img2.png")
			So(pages[1].Title, ShouldEqual, "Page 2")
		})

		Convey("A missing episode fails", func() {
			_, err := await(func(cb extension.Callback[[]*catalog.Video]) {
				provider.Videos(&extension.VideosRequest{}, cb)
			})
			So(err, ShouldNotBeNil)
		})
	})
}
