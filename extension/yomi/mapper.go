package yomi

import (
	"fmt"
	"strings"
	"time"

	"github.com/anisan-cli/katalog/catalog"
	"github.com/anisan-cli/katalog/extension"
	"github.com/samber/lo"
)

var statuses = map[int]catalog.MediaStatus{
	StatusOngoing:            catalog.StatusOngoing,
	StatusCompleted:          catalog.StatusCompleted,
	StatusPublishingFinished: catalog.StatusCompleted,
	StatusCancelled:          catalog.StatusCancelled,
	StatusOnHiatus:           catalog.StatusPaused,
}

func mapStatus(status int) catalog.MediaStatus {
	if mapped, ok := statuses[status]; ok {
		return mapped
	}
	return catalog.StatusUnknown
}

// record holds the fields SAnime and SManga have in common.
type record struct {
	URL, Title, Artist, Author, Description, Genre, ThumbnailURL string
	Status                                                       int
}

func toMedia(d extension.Descriptor, providerID string, mediaType catalog.MediaType, e record) (*catalog.Media, error) {
	globalID, err := catalog.NewGlobalID(d.ID, providerID, e.URL)
	if err != nil {
		return nil, err
	}

	media := catalog.NewMedia(globalID)
	media.SetTitles(e.Title)
	media.URL = e.URL
	media.Description = e.Description
	media.Type = mediaType
	media.Status = mapStatus(e.Status)
	media.SetID(d.ID, e.URL)

	if e.ThumbnailURL != "" {
		media.SetPoster(e.ThumbnailURL)
	}
	if e.Author != "" {
		media.SetAuthor("story", e.Author)
	}
	if e.Artist != "" {
		media.SetAuthor("art", e.Artist)
	}

	media.Genres = lo.FilterMap(strings.Split(e.Genre, ","), func(genre string, _ int) (string, bool) {
		genre = strings.TrimSpace(genre)
		return genre, genre != ""
	})

	return media, nil
}

// fromMedia recovers the native entry of a media record created by toMedia.
func fromMedia(d extension.Descriptor, media *catalog.Media) (record, error) {
	if media == nil {
		return record{}, fmt.Errorf("no media given")
	}

	url, ok := media.ID(d.ID)
	if !ok {
		_, _, mediaID, err := media.Segments()
		if err != nil {
			return record{}, err
		}
		url = mediaID
	}

	return record{
		URL:          url,
		Title:        media.Title(),
		Description:  media.Description,
		ThumbnailURL: media.Poster.Best(),
		Genre:        strings.Join(media.Genres, ", "),
	}, nil
}

// episode holds the fields SEpisode and SChapter have in common.
type episode struct {
	URL, Name, Scanlator string
	DateUpload           int64
	Number               float32
}

func toEpisode(media *catalog.Media, e episode) *catalog.Episode {
	ep := &catalog.Episode{
		ID:     e.URL,
		Title:  e.Name,
		URL:    e.URL,
		Number: float64(e.Number),
		Media:  media,
	}

	if e.Scanlator != "" {
		ep.Description = e.Scanlator
	}
	if e.DateUpload > 0 {
		ep.ReleaseDate = lo.ToPtr(time.UnixMilli(e.DateUpload))
	}
	return ep
}

func fromEpisode(ep *catalog.Episode) (episode, error) {
	if ep == nil {
		return episode{}, fmt.Errorf("no episode given")
	}

	e := episode{
		URL:       lo.CoalesceOrEmpty(ep.ID, ep.URL),
		Name:      ep.Title,
		Scanlator: ep.Description,
		Number:    float32(ep.Number),
	}
	if ep.ReleaseDate != nil {
		e.DateUpload = ep.ReleaseDate.UnixMilli()
	}
	return e, nil
}
