package catalog

import (
	"encoding/json"

	"github.com/samber/lo"
)

// Unset marks a numeric progress field that a patch does not specify.
const Unset = -1

// SavedMedia is the persisted variant of Media that also tracks cross-session state.
type SavedMedia struct {
	Media

	LastSource          *string  `json:"lastSource,omitempty"`
	LastEpisode         float64  `json:"lastEpisode"`
	LastEpisodeProgress float64  `json:"lastEpisodeProgress"`
	Lists               []string `json:"lists,omitempty"`
}

// NewSavedMedia wraps a media record with every tracking field unset.
func NewSavedMedia(media *Media) *SavedMedia {
	saved := &SavedMedia{
		LastEpisode:         Unset,
		LastEpisodeProgress: Unset,
	}
	if media != nil {
		saved.Media = *media
	}
	return saved
}

// Merge applies the fields the patch positively specifies.
// Unset progress values and nil references in the patch leave the receiver untouched,
// so merging the same patch twice yields the same state as merging it once.
func (s *SavedMedia) Merge(patch *SavedMedia) {
	if patch == nil {
		return
	}

	if patch.LastEpisode != Unset {
		s.LastEpisode = patch.LastEpisode
	}
	if patch.LastEpisodeProgress != Unset {
		s.LastEpisodeProgress = patch.LastEpisodeProgress
	}
	if patch.Lists != nil {
		s.Lists = append([]string{}, patch.Lists...)
	}
	if patch.LastSource != nil {
		s.LastSource = lo.ToPtr(*patch.LastSource)
	}
}

// AddToList records membership in a user list. Adding twice is a no-op.
func (s *SavedMedia) AddToList(list string) {
	if lo.Contains(s.Lists, list) {
		return
	}
	s.Lists = append(s.Lists, list)
}

// ClearLists removes every list membership while keeping the field set.
func (s *SavedMedia) ClearLists() {
	if s.Lists == nil {
		return
	}
	s.Lists = s.Lists[:0]
}

// InList reports whether the record belongs to the list.
func (s *SavedMedia) InList(list string) bool {
	return lo.Contains(s.Lists, list)
}

type savedJSON struct {
	LastSource          *string  `json:"lastSource,omitempty"`
	LastEpisode         float64  `json:"lastEpisode"`
	LastEpisodeProgress float64  `json:"lastEpisodeProgress"`
	Lists               []string `json:"lists,omitempty"`
}

// MarshalJSON flattens the media fields and the tracking fields into one object.
// It is needed because the embedded Media's marshaller would otherwise be promoted.
func (s SavedMedia) MarshalJSON() ([]byte, error) {
	media, err := json.Marshal(s.Media)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(media, &fields); err != nil {
		return nil, err
	}

	tracking, err := json.Marshal(savedJSON{
		LastSource:          s.LastSource,
		LastEpisode:         s.LastEpisode,
		LastEpisodeProgress: s.LastEpisodeProgress,
		Lists:               s.Lists,
	})
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tracking, &fields); err != nil {
		return nil, err
	}

	return json.Marshal(fields)
}

func (s *SavedMedia) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &s.Media); err != nil {
		return err
	}

	tracking := savedJSON{LastEpisode: Unset, LastEpisodeProgress: Unset}
	if err := json.Unmarshal(data, &tracking); err != nil {
		return err
	}

	s.LastSource = tracking.LastSource
	s.LastEpisode = tracking.LastEpisode
	s.LastEpisodeProgress = tracking.LastEpisodeProgress
	s.Lists = tracking.Lists
	return nil
}
