package catalog

import "github.com/samber/lo"

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	return lo.ToPtr(*p)
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	return lo.Assign(m)
}

// Clone returns a deep copy sharing no maps, slices or pointers with m.
func (m *Media) Clone() *Media {
	if m == nil {
		return nil
	}

	c := *m
	c.Titles = append([]string(nil), m.Titles...)
	c.Genres = append([]string(nil), m.Genres...)
	c.Tags = append([]Tag(nil), m.Tags...)
	c.IDs = cloneMap(m.IDs)
	c.Authors = cloneMap(m.Authors)
	c.ReleaseDate = clonePtr(m.ReleaseDate)
	c.Duration = clonePtr(m.Duration)
	c.EpisodesCount = clonePtr(m.EpisodesCount)
	c.AverageScore = clonePtr(m.AverageScore)
	return &c
}

// Clone returns a deep copy of the record and its tracking state.
func (s *SavedMedia) Clone() *SavedMedia {
	if s == nil {
		return nil
	}

	c := *s
	c.Media = *s.Media.Clone()
	c.LastSource = clonePtr(s.LastSource)
	if s.Lists != nil {
		c.Lists = append([]string{}, s.Lists...)
	}
	return &c
}
