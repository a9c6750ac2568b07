package script

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/anisan-cli/katalog/catalog"
	"github.com/anisan-cli/katalog/constant"
	"github.com/anisan-cli/katalog/extension"
	"github.com/anisan-cli/katalog/internal/cache"
	"github.com/anisan-cli/katalog/key"
	"github.com/anisan-cli/katalog/log"
	"github.com/spf13/viper"
	lua "github.com/yuin/gopher-lua"
)

// provider forwards every operation to the engine worker.
type provider struct {
	engine *Engine
	ext    *Extension
	id     string
	name   string

	search func() *cache.Cacher[*extension.MediaPage]
}

func newProvider(engine *Engine, x *Extension, factory bool) *provider {
	p := &provider{
		engine: engine,
		ext:    x,
		id:     x.Package.ID,
		name:   x.Package.String(),
	}

	if factory {
		p.id += "/" + x.Script.Name
		p.name = x.Script.Name
	}

	p.search = sync.OnceValue(func() *cache.Cacher[*extension.MediaPage] {
		return cache.New[*extension.MediaPage](p.id, 0)
	})
	return p
}

func (p *provider) ID() string {
	return p.id
}

func (p *provider) Name() string {
	return p.name
}

func (p *provider) Lang() string {
	return p.ext.Package.Lang
}

func (p *provider) Manager() string {
	return Lua.ID
}

func (p *provider) Priority() int {
	return p.ext.Priority()
}

func (p *provider) NSFW() bool {
	return p.ext.Package.IsNSFW(Lua.NSFWMeta)
}

func (p *provider) Capabilities() extension.Capability {
	return p.ext.Capabilities()
}

func (p *provider) fail(op string, err error) error {
	return fmt.Errorf("%s: %s: %w", p.name, op, err)
}

// post runs fn on the worker. If the engine cannot run it, the failure reaches onFailure.
func (p *provider) post(op string, fn Runnable, onFailure func(error)) {
	p.engine.Submit(NewRunnable(fn, func(err error) {
		onFailure(p.fail(op, err))
	}))
}

func (p *provider) SearchMedia(req *extension.SearchRequest, cb extension.Callback[*extension.MediaPage]) {
	cacheKey := cache.Key(req.Query, strconv.Itoa(req.Page))
	useCache := viper.GetBool(key.CacheSearch)

	if useCache {
		if cached, ok := p.search().Get(cacheKey).Get(); ok {
			p.post("search", func(*lua.LState) {
				cb.Success(cached.Clone())
			}, cb.Failure)
			return
		}
	}

	p.post("search", func(L *lua.LState) {
		value, err := p.ext.call(L, constant.SearchMediaFn, lua.LTTable, lua.LString(req.Query), lua.LNumber(req.Page))
		if err != nil {
			cb.Failure(p.fail("search", err))
			return
		}

		items, err := collect(value.(*lua.LTable), func(table *lua.LTable, _ int) (*catalog.Media, error) {
			return mediaFromTable(Lua.ID, p.id, table)
		})
		if err != nil {
			cb.Failure(p.fail("search", err))
			return
		}

		page := &extension.MediaPage{Items: items, HasNext: len(items) > 0}
		if useCache && len(items) > 0 {
			if err := p.search().Set(cacheKey, page.Clone()); err != nil {
				log.Warnf("%s: cache search: %s", p.id, err)
			}
		}

		cb.Success(page)
	}, cb.Failure)
}

func (p *provider) Episodes(req *extension.EpisodesRequest, cb extension.Callback[[]*catalog.Episode]) {
	if !p.Capabilities().Has(extension.CapEpisodes) {
		cb.Failure(extension.ErrUnsupported)
		return
	}
	if req.Media == nil {
		cb.Failure(p.fail("episodes", fmt.Errorf("no media given")))
		return
	}

	p.post("episodes", func(L *lua.LState) {
		value, err := p.ext.call(L, constant.MediaEpisodesFn, lua.LTTable, mediaToTable(L, req.Media))
		if err != nil {
			cb.Failure(p.fail("episodes", err))
			return
		}

		episodes, err := collect(value.(*lua.LTable), func(table *lua.LTable, i int) (*catalog.Episode, error) {
			return episodeFromTable(req.Media, table, i)
		})
		cb.Resolve(episodes, wrapNil(p.fail, "episodes", err))
	}, cb.Failure)
}

func (p *provider) Videos(req *extension.VideosRequest, cb extension.Callback[[]*catalog.Video]) {
	if !p.Capabilities().Has(extension.CapVideos) {
		cb.Failure(extension.ErrUnsupported)
		return
	}
	if req.Episode == nil {
		cb.Failure(p.fail("videos", fmt.Errorf("no episode given")))
		return
	}

	p.post("videos", func(L *lua.LState) {
		value, err := p.ext.call(L, constant.EpisodeVideosFn, lua.LTTable, episodeToTable(L, req.Episode))
		if err != nil {
			cb.Failure(p.fail("videos", err))
			return
		}

		videos, err := collect(value.(*lua.LTable), videoFromTable)
		cb.Resolve(videos, wrapNil(p.fail, "videos", err))
	}, cb.Failure)
}

func (p *provider) ReadComments(req *extension.ReadCommentsRequest, cb extension.Callback[*catalog.Comment]) {
	if !p.Capabilities().Has(extension.CapCommentsRead) {
		cb.Failure(extension.ErrUnsupported)
		return
	}
	if req.Media == nil {
		cb.Failure(p.fail("comments", fmt.Errorf("no media given")))
		return
	}

	p.post("comments", func(L *lua.LState) {
		value, err := p.ext.call(L, constant.MediaCommentsFn, lua.LTTable,
			mediaToTable(L, req.Media), commentToTable(L, req.Parent), lua.LNumber(req.Page))
		if err != nil {
			cb.Failure(p.fail("comments", err))
			return
		}

		cb.Success(commentFromTable(value.(*lua.LTable)))
	}, cb.Failure)
}

func (p *provider) PostComment(req *extension.PostCommentRequest, cb extension.Callback[*catalog.Comment]) {
	if !p.Capabilities().Has(extension.CapCommentsWrite) {
		cb.Failure(extension.ErrUnsupported)
		return
	}
	if req.Media == nil {
		cb.Failure(p.fail("post comment", fmt.Errorf("no media given")))
		return
	}

	p.post("post comment", func(L *lua.LState) {
		value, err := p.ext.call(L, constant.PostCommentFn, lua.LTTable,
			mediaToTable(L, req.Media), commentToTable(L, req.Parent), lua.LString(req.Text))
		if err != nil {
			cb.Failure(p.fail("post comment", err))
			return
		}

		cb.Success(commentFromTable(value.(*lua.LTable)))
	}, cb.Failure)
}

func wrapNil(wrap func(string, error) error, op string, err error) error {
	if err == nil {
		return nil
	}
	return wrap(op, err)
}
