package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// MediaType classifies the kind of content a media record describes.
type MediaType int

const (
	TypeTV MediaType = iota
	TypeMovie
	TypeBook
	TypePost
)

var mediaTypeNames = map[MediaType]string{
	TypeTV:    "TV",
	TypeMovie: "MOVIE",
	TypeBook:  "BOOK",
	TypePost:  "POST",
}

func (t MediaType) String() string {
	if name, ok := mediaTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MediaType(%d)", int(t))
}

func (t MediaType) MarshalText() ([]byte, error) {
	name, ok := mediaTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("unknown media type %d", int(t))
	}
	return []byte(name), nil
}

func (t *MediaType) UnmarshalText(text []byte) error {
	value, ok := lo.FindKey(mediaTypeNames, strings.ToUpper(string(text)))
	if !ok {
		return fmt.Errorf("unknown media type %q", text)
	}
	*t = value
	return nil
}

// MediaStatus is the publication state of a media record.
type MediaStatus int

const (
	StatusUnknown MediaStatus = iota
	StatusOngoing
	StatusCompleted
	StatusComingSoon
	StatusPaused
	StatusCancelled
)

var mediaStatusNames = map[MediaStatus]string{
	StatusUnknown:    "UNKNOWN",
	StatusOngoing:    "ONGOING",
	StatusCompleted:  "COMPLETED",
	StatusComingSoon: "COMING_SOON",
	StatusPaused:     "PAUSED",
	StatusCancelled:  "CANCELLED",
}

func (s MediaStatus) String() string {
	if name, ok := mediaStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("MediaStatus(%d)", int(s))
}

func (s MediaStatus) MarshalText() ([]byte, error) {
	name, ok := mediaStatusNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown media status %d", int(s))
	}
	return []byte(name), nil
}

func (s *MediaStatus) UnmarshalText(text []byte) error {
	value, ok := lo.FindKey(mediaStatusNames, strings.ToUpper(string(text)))
	if !ok {
		return fmt.Errorf("unknown media status %q", text)
	}
	*s = value
	return nil
}

// ImageVersions holds one image in three resolution tiers.
type ImageVersions struct {
	ExtraLarge string `json:"extraLarge,omitempty"`
	Large      string `json:"large,omitempty"`
	Medium     string `json:"medium,omitempty"`
}

// Best returns the highest resolution tier that is set.
func (i ImageVersions) Best() string {
	return lo.CoalesceOrEmpty(i.ExtraLarge, i.Large, i.Medium)
}

// Media is the canonical record every extension ecosystem populates.
type Media struct {
	GlobalID string `json:"globalId"`

	Titles  []string          `json:"titles"`
	IDs     map[string]string `json:"ids,omitempty"`
	Authors map[string]string `json:"authors,omitempty"`

	Description string `json:"description,omitempty"`
	Banner      string `json:"banner,omitempty"`
	Country     string `json:"country,omitempty"`
	AgeRating   string `json:"ageRating,omitempty"`
	Extra       string `json:"extra,omitempty"`
	URL         string `json:"url,omitempty"`

	Type        MediaType     `json:"type"`
	Status      MediaStatus   `json:"status"`
	Poster      ImageVersions `json:"poster"`
	ReleaseDate *time.Time    `json:"-"`

	Duration      *int     `json:"duration,omitempty"`
	EpisodesCount *int     `json:"episodesCount,omitempty"`
	AverageScore  *float64 `json:"averageScore,omitempty"`

	Tags   []Tag    `json:"tags,omitempty"`
	Genres []string `json:"genres,omitempty"`

	// VisualID only distinguishes list rows in a UI; it is never serialized.
	VisualID int64 `json:"-"`
}

// NewMedia creates an empty record under the given global id.
func NewMedia(globalID string) *Media {
	return &Media{
		GlobalID: globalID,
		IDs:      make(map[string]string),
		Authors:  make(map[string]string),
	}
}

// InvalidMedia returns the placeholder shown when a record cannot be resolved.
func InvalidMedia() *Media {
	m := NewMedia(MustGlobalID("INTERNAL", "katalog", "0"))
	m.SetTitles("Invalid!")
	m.Description = "Invalid media item!"
	return m
}

// Title returns the canonical display title.
func (m *Media) Title() string {
	if len(m.Titles) == 0 {
		return ""
	}
	return m.Titles[0]
}

// SetTitles replaces the title list; the first title becomes canonical.
func (m *Media) SetTitles(titles ...string) {
	m.Titles = append([]string{}, titles...)
}

// SetID records the identifier of this media in another namespace (tracker, site, extension).
func (m *Media) SetID(namespace, id string) {
	if m.IDs == nil {
		m.IDs = make(map[string]string)
	}
	m.IDs[namespace] = id
}

// ID returns the identifier recorded for the namespace.
func (m *Media) ID(namespace string) (string, bool) {
	id, ok := m.IDs[namespace]
	return id, ok
}

// SetAuthor records an author under a role namespace such as "story" or "art".
func (m *Media) SetAuthor(role, name string) {
	if m.Authors == nil {
		m.Authors = make(map[string]string)
	}
	m.Authors[role] = name
}

// SetPoster fills every tier with the same image.
func (m *Media) SetPoster(url string) {
	m.Poster = ImageVersions{ExtraLarge: url, Large: url, Medium: url}
}

// BestPoster returns the best poster tier, falling back to the banner.
func (m *Media) BestPoster() string {
	return lo.CoalesceOrEmpty(m.Poster.Best(), m.Banner)
}

// BestBanner returns the banner, falling back to the best poster.
func (m *Media) BestBanner() string {
	return lo.CoalesceOrEmpty(m.Banner, m.Poster.Best())
}

// Segments splits the global id into its manager, extension and media parts.
func (m *Media) Segments() (managerID, extensionID, mediaID string, err error) {
	return ParseGlobalID(m.GlobalID)
}

func (m *Media) String() string {
	b, err := json.Marshal(m)
	if err != nil {
		return m.GlobalID
	}
	return string(b)
}

type mediaAlias Media

type mediaJSON struct {
	*mediaAlias
	ReleaseDate *int64 `json:"releaseDate,omitempty"`
}

// MarshalJSON encodes the release date as epoch milliseconds.
func (m Media) MarshalJSON() ([]byte, error) {
	out := mediaJSON{mediaAlias: (*mediaAlias)(&m)}
	if m.ReleaseDate != nil {
		out.ReleaseDate = lo.ToPtr(m.ReleaseDate.UnixMilli())
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a release date stored as epoch milliseconds.
func (m *Media) UnmarshalJSON(data []byte) error {
	in := mediaJSON{mediaAlias: (*mediaAlias)(m)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	if in.ReleaseDate != nil {
		m.ReleaseDate = lo.ToPtr(time.UnixMilli(*in.ReleaseDate).UTC())
	}
	return nil
}
