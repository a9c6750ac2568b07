package yomi

import (
	"fmt"

	"github.com/anisan-cli/katalog/catalog"
	"github.com/anisan-cli/katalog/extension"
	"github.com/samber/lo"
)

// Tachiyomi is the book catalogue ecosystem. Chapters surface as episodes and pages as videos.
var Tachiyomi = Ecosystem[CatalogueSource]{
	Descriptor: extension.Descriptor{
		ID:              "TACHIYOMI_KOTLIN",
		Name:            "Tachiyomi",
		Prefix:          "Tachiyomi: ",
		MainClassMeta:   "tachiyomi.extension.class",
		NSFWMeta:        "tachiyomi.extension.nsfw",
		RequiredFeature: "tachiyomi.extension",
		MinVersion:      1.2,
		MaxVersion:      1.5,
	},
	Classify: classifyManga,
	Wrap: func(d extension.Descriptor, pkg *extension.Package, source CatalogueSource) extension.Provider {
		return &mangaProvider{
			base:   newBase(d, pkg, source.ID(), source.Name(), source.Lang()),
			source: source,
		}
	},
}

func classifyManga(entry any) Entry[CatalogueSource] {
	switch e := entry.(type) {
	case CatalogueSource:
		return Single(e)
	case SourceFactory:
		return Factory[CatalogueSource](func() []any {
			return lo.ToAnySlice(e.CreateSources())
		})
	default:
		return Unknown[CatalogueSource]()
	}
}

// NewTachiyomiManager creates the Tachiyomi manager over symbols.
func NewTachiyomiManager(symbols *Symbols) *Manager[CatalogueSource] {
	return NewManager(Tachiyomi, symbols)
}

type mangaProvider struct {
	base
	source CatalogueSource
}

func (p *mangaProvider) SearchMedia(req *extension.SearchRequest, cb extension.Callback[*extension.MediaPage]) {
	var (
		result *MangasPage
		err    error
	)

	if popular(req) {
		result, err = p.source.PopularManga(page(req))
	} else {
		result, err = p.source.SearchManga(page(req), req.Query, req.Filters)
	}
	if err != nil {
		cb.Failure(p.fail("search", err))
		return
	}
	if result == nil {
		cb.Success(&extension.MediaPage{})
		return
	}

	items := make([]*catalog.Media, 0, len(result.Mangas))
	for _, manga := range result.Mangas {
		media, err := toMedia(p.descriptor, p.ID(), catalog.TypeBook, record{
			URL:          manga.URL,
			Title:        manga.Title,
			Artist:       manga.Artist,
			Author:       manga.Author,
			Description:  manga.Description,
			Genre:        manga.Genre,
			Status:       manga.Status,
			ThumbnailURL: manga.ThumbnailURL,
		})
		if err != nil {
			cb.Failure(p.fail("search", err))
			return
		}
		items = append(items, media)
	}

	cb.Success(&extension.MediaPage{Items: items, HasNext: result.HasNextPage})
}

func (p *mangaProvider) Episodes(req *extension.EpisodesRequest, cb extension.Callback[[]*catalog.Episode]) {
	e, err := fromMedia(p.descriptor, req.Media)
	if err != nil {
		cb.Failure(p.fail("chapters", err))
		return
	}

	chapters, err := p.source.ChapterList(&SManga{
		URL:          e.URL,
		Title:        e.Title,
		Description:  e.Description,
		Genre:        e.Genre,
		ThumbnailURL: e.ThumbnailURL,
	})
	if err != nil {
		cb.Failure(p.fail("chapters", err))
		return
	}

	cb.Success(lo.Map(chapters, func(ch *SChapter, _ int) *catalog.Episode {
		return toEpisode(req.Media, episode{
			URL:        ch.URL,
			Name:       ch.Name,
			Scanlator:  ch.Scanlator,
			DateUpload: ch.DateUpload,
			Number:     ch.ChapterNumber,
		})
	}))
}

func (p *mangaProvider) Videos(req *extension.VideosRequest, cb extension.Callback[[]*catalog.Video]) {
	e, err := fromEpisode(req.Episode)
	if err != nil {
		cb.Failure(p.fail("pages", err))
		return
	}

	pages, err := p.source.PageList(&SChapter{
		URL:           e.URL,
		Name:          e.Name,
		Scanlator:     e.Scanlator,
		DateUpload:    e.DateUpload,
		ChapterNumber: e.Number,
	})
	if err != nil {
		cb.Failure(p.fail("pages", err))
		return
	}

	cb.Success(lo.Map(pages, func(pg *Page, _ int) *catalog.Video {
		return &catalog.Video{
			URL:   lo.CoalesceOrEmpty(pg.ImageURL, pg.URL),
			Title: fmt.Sprintf("Page %d", pg.Index+1),
		}
	}))
}
