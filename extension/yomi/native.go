package yomi

// Publication status values shared by both native ecosystems.
const (
	StatusUnknown = iota
	StatusOngoing
	StatusCompleted
	StatusLicensed
	StatusPublishingFinished
	StatusCancelled
	StatusOnHiatus
)

// AnimeSource is the minimal Aniyomi source.
type AnimeSource interface {
	ID() int64
	Name() string
}

// AnimeCatalogueSource is an Aniyomi source that can be browsed and searched.
type AnimeCatalogueSource interface {
	AnimeSource
	Lang() string
	PopularAnime(page int) (*AnimesPage, error)
	SearchAnime(page int, query string, filters map[string]string) (*AnimesPage, error)
	EpisodeList(anime *SAnime) ([]*SEpisode, error)
	VideoList(episode *SEpisode) ([]*Video, error)
}

// AnimeSourceFactory yields several Aniyomi sources from one extension.
type AnimeSourceFactory interface {
	CreateSources() []AnimeSource
}

type SAnime struct {
	URL          string
	Title        string
	Artist       string
	Author       string
	Description  string
	Genre        string
	Status       int
	ThumbnailURL string
}

type SEpisode struct {
	URL           string
	Name          string
	DateUpload    int64
	EpisodeNumber float32
	Scanlator     string
}

type Track struct {
	URL  string
	Lang string
}

type Video struct {
	URL            string
	Quality        string
	VideoURL       string
	Headers        map[string]string
	SubtitleTracks []Track
}

type AnimesPage struct {
	Animes      []*SAnime
	HasNextPage bool
}

// MangaSource is the minimal Tachiyomi source.
type MangaSource interface {
	ID() int64
	Name() string
}

// CatalogueSource is a Tachiyomi source that can be browsed and searched.
type CatalogueSource interface {
	MangaSource
	Lang() string
	PopularManga(page int) (*MangasPage, error)
	SearchManga(page int, query string, filters map[string]string) (*MangasPage, error)
	ChapterList(manga *SManga) ([]*SChapter, error)
	PageList(chapter *SChapter) ([]*Page, error)
}

// SourceFactory yields several Tachiyomi sources from one extension.
type SourceFactory interface {
	CreateSources() []MangaSource
}

type SManga struct {
	URL          string
	Title        string
	Artist       string
	Author       string
	Description  string
	Genre        string
	Status       int
	ThumbnailURL string
}

type SChapter struct {
	URL           string
	Name          string
	DateUpload    int64
	ChapterNumber float32
	Scanlator     string
}

type Page struct {
	Index    int
	URL      string
	ImageURL string
}

type MangasPage struct {
	Mangas      []*SManga
	HasNextPage bool
}
