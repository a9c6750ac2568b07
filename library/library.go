// Package library keeps the saved media records of a session in memory.
// It is the single place where fetched patches are merged into saved state.
package library

import (
	"errors"
	"sort"
	"sync"

	"github.com/anisan-cli/katalog/catalog"
	"github.com/samber/lo"
)

// ErrNoGlobalID is returned for records without a global id.
var ErrNoGlobalID = errors.New("media has no global id")

// Library is a concurrency safe map of global id to saved media.
type Library struct {
	mu    sync.RWMutex
	items map[string]*catalog.SavedMedia
}

func New() *Library {
	return &Library{items: make(map[string]*catalog.SavedMedia)}
}

// Apply merges patch into the record with the same global id, creating it when absent,
// and returns a copy of the result.
func (l *Library) Apply(patch *catalog.SavedMedia) (*catalog.SavedMedia, error) {
	if patch == nil || patch.GlobalID == "" {
		return nil, ErrNoGlobalID
	}
	if _, _, _, err := catalog.ParseGlobalID(patch.GlobalID); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	saved, ok := l.items[patch.GlobalID]
	if !ok {
		saved = catalog.NewSavedMedia(patch.Media.Clone())
		l.items[patch.GlobalID] = saved
	}

	saved.Merge(patch)
	return saved.Clone(), nil
}

// Refresh replaces the catalog fields of a saved record with freshly fetched ones,
// keeping its tracking state. Unknown records are ignored.
func (l *Library) Refresh(media *catalog.Media) bool {
	if media == nil {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	saved, ok := l.items[media.GlobalID]
	if !ok {
		return false
	}

	saved.Media = *media.Clone()
	return true
}

// Get returns a copy of the record.
func (l *Library) Get(globalID string) (*catalog.SavedMedia, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	saved, ok := l.items[globalID]
	if !ok {
		return nil, false
	}
	return saved.Clone(), true
}

// All returns copies of every record ordered by global id.
func (l *Library) All() []*catalog.SavedMedia {
	l.mu.RLock()
	all := lo.MapToSlice(l.items, func(_ string, saved *catalog.SavedMedia) *catalog.SavedMedia {
		return saved.Clone()
	})
	l.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].GlobalID < all[j].GlobalID
	})
	return all
}

// InList returns the records belonging to a user list, ordered by global id.
func (l *Library) InList(list string) []*catalog.SavedMedia {
	return lo.Filter(l.All(), func(saved *catalog.SavedMedia, _ int) bool {
		return saved.InList(list)
	})
}

// Remove forgets a record.
func (l *Library) Remove(globalID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.items[globalID]
	delete(l.items, globalID)
	return ok
}

func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}
