package yomi

import (
	"github.com/anisan-cli/katalog/catalog"
	"github.com/anisan-cli/katalog/extension"
	"github.com/samber/lo"
)

// Aniyomi is the video catalogue ecosystem.
var Aniyomi = Ecosystem[AnimeCatalogueSource]{
	Descriptor: extension.Descriptor{
		ID:              "ANIYOMI_KOTLIN",
		Name:            "Aniyomi",
		Prefix:          "Aniyomi: ",
		MainClassMeta:   "tachiyomi.animeextension.class",
		NSFWMeta:        "tachiyomi.animeextension.nsfw",
		RequiredFeature: "tachiyomi.animeextension",
		MinVersion:      12,
		MaxVersion:      15,
	},
	Classify: classifyAnime,
	Wrap: func(d extension.Descriptor, pkg *extension.Package, source AnimeCatalogueSource) extension.Provider {
		return &animeProvider{
			base:   newBase(d, pkg, source.ID(), source.Name(), source.Lang()),
			source: source,
		}
	},
}

func classifyAnime(entry any) Entry[AnimeCatalogueSource] {
	switch e := entry.(type) {
	case AnimeCatalogueSource:
		return Single(e)
	case AnimeSourceFactory:
		return Factory[AnimeCatalogueSource](func() []any {
			return lo.ToAnySlice(e.CreateSources())
		})
	default:
		return Unknown[AnimeCatalogueSource]()
	}
}

// NewAniyomiManager creates the Aniyomi manager over symbols.
func NewAniyomiManager(symbols *Symbols) *Manager[AnimeCatalogueSource] {
	return NewManager(Aniyomi, symbols)
}

type animeProvider struct {
	base
	source AnimeCatalogueSource
}

func (p *animeProvider) SearchMedia(req *extension.SearchRequest, cb extension.Callback[*extension.MediaPage]) {
	var (
		result *AnimesPage
		err    error
	)

	if popular(req) {
		result, err = p.source.PopularAnime(page(req))
	} else {
		result, err = p.source.SearchAnime(page(req), req.Query, req.Filters)
	}
	if err != nil {
		cb.Failure(p.fail("search", err))
		return
	}
	if result == nil {
		cb.Success(&extension.MediaPage{})
		return
	}

	items := make([]*catalog.Media, 0, len(result.Animes))
	for _, anime := range result.Animes {
		media, err := toMedia(p.descriptor, p.ID(), catalog.TypeTV, record{
			URL:          anime.URL,
			Title:        anime.Title,
			Artist:       anime.Artist,
			Author:       anime.Author,
			Description:  anime.Description,
			Genre:        anime.Genre,
			Status:       anime.Status,
			ThumbnailURL: anime.ThumbnailURL,
		})
		if err != nil {
			cb.Failure(p.fail("search", err))
			return
		}
		items = append(items, media)
	}

	cb.Success(&extension.MediaPage{Items: items, HasNext: result.HasNextPage})
}

func (p *animeProvider) Episodes(req *extension.EpisodesRequest, cb extension.Callback[[]*catalog.Episode]) {
	e, err := fromMedia(p.descriptor, req.Media)
	if err != nil {
		cb.Failure(p.fail("episodes", err))
		return
	}

	episodes, err := p.source.EpisodeList(&SAnime{
		URL:          e.URL,
		Title:        e.Title,
		Description:  e.Description,
		Genre:        e.Genre,
		ThumbnailURL: e.ThumbnailURL,
	})
	if err != nil {
		cb.Failure(p.fail("episodes", err))
		return
	}

	cb.Success(lo.Map(episodes, func(ep *SEpisode, _ int) *catalog.Episode {
		return toEpisode(req.Media, episode{
			URL:        ep.URL,
			Name:       ep.Name,
			Scanlator:  ep.Scanlator,
			DateUpload: ep.DateUpload,
			Number:     ep.EpisodeNumber,
		})
	}))
}

func (p *animeProvider) Videos(req *extension.VideosRequest, cb extension.Callback[[]*catalog.Video]) {
	e, err := fromEpisode(req.Episode)
	if err != nil {
		cb.Failure(p.fail("videos", err))
		return
	}

	videos, err := p.source.VideoList(&SEpisode{
		URL:           e.URL,
		Name:          e.Name,
		Scanlator:     e.Scanlator,
		DateUpload:    e.DateUpload,
		EpisodeNumber: e.Number,
	})
	if err != nil {
		cb.Failure(p.fail("videos", err))
		return
	}

	cb.Success(lo.Map(videos, func(v *Video, _ int) *catalog.Video {
		return &catalog.Video{
			URL:     lo.CoalesceOrEmpty(v.VideoURL, v.URL),
			Title:   v.Quality,
			Quality: v.Quality,
			Headers: v.Headers,
			Subtitles: lo.Map(v.SubtitleTracks, func(t Track, _ int) catalog.Subtitle {
				return catalog.Subtitle{URL: t.URL, Language: t.Lang}
			}),
		}
	}))
}
