package catalog

import (
	"fmt"
	"time"
)

// Episode is one playable or readable unit of a media record (an episode, a chapter).
type Episode struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Banner      string     `json:"banner,omitempty"`
	Description string     `json:"description,omitempty"`
	Number      float64    `json:"number"`
	ReleaseDate *time.Time `json:"releaseDate,omitempty"`

	Media *Media `json:"-"`
}

func (e *Episode) String() string {
	if e.Title != "" {
		return e.Title
	}
	return fmt.Sprintf("Episode %g", e.Number)
}

// Subtitle is an external subtitle track of a video.
type Subtitle struct {
	URL      string `json:"url"`
	Language string `json:"language"`
}

// Video is one stream (or page image, for book ecosystems) of an episode.
type Video struct {
	URL       string            `json:"url"`
	Title     string            `json:"title,omitempty"`
	Quality   string            `json:"quality,omitempty"`
	Extension string            `json:"extension,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	Subtitles []Subtitle        `json:"subtitles,omitempty"`
}

// String returns the quality, then the title, then the URL.
func (v *Video) String() string {
	switch {
	case v.Quality != "":
		return v.Quality
	case v.Title != "":
		return v.Title
	default:
		return v.URL
	}
}
