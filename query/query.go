// Package query keeps a ranked history of search queries for completion.
package query

import (
	"strings"
	"sync"

	"github.com/anisan-cli/katalog/filesystem"
	"github.com/anisan-cli/katalog/key"
	"github.com/anisan-cli/katalog/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

var (
	mu     sync.Mutex
	cacher = sync.OnceValue(func() *gache.Cache[map[string]*record] {
		return gache.New[map[string]*record](&gache.Options{
			Path:       where.Queries(),
			FileSystem: &filesystem.GacheFs{},
		})
	})
)

// Remember adds weight to the rank of a query, recording it when new.
// Blank queries and a disabled search.remember_queries are ignored.
func Remember(q string, weight int) error {
	q = sanitize(q)
	if q == "" || !viper.GetBool(key.SearchRememberQueries) {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	cached, expired, err := cacher().Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*record)
	}

	if r, ok := cached[q]; ok {
		r.Rank += weight
	} else {
		cached[q] = &record{Rank: weight, Query: q}
	}

	return cacher().Set(cached)
}

// Suggest returns the best ranked query matching q.
func Suggest(q string) mo.Option[string] {
	suggestions := SuggestMany(q)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns the remembered queries fuzzy matching q, highest rank first.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchRememberQueries) {
		return []string{}
	}

	mu.Lock()
	cached, expired, err := cacher().Get()
	mu.Unlock()
	if err != nil || expired || cached == nil {
		return []string{}
	}

	q = sanitize(q)
	records := lo.Filter(lo.Values(cached), func(r *record, _ int) bool {
		return fuzzy.Match(q, r.Query)
	})

	slices.SortFunc(records, func(a, b *record) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return strings.Compare(a.Query, b.Query)
	})

	return lo.Map(records, func(r *record, _ int) string {
		return r.Query
	})
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
