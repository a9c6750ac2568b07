package extension

import (
	"sync"

	"github.com/anisan-cli/katalog/catalog"
	"github.com/samber/mo"
)

// Future is the single-assignment result of one asynchronous provider operation.
//
// It resolves on whichever goroutine runs the callback: the calling goroutine for native
// providers, the script worker for script providers. Await never runs on the worker itself.
type Future[T any] struct {
	once   sync.Once
	done   chan struct{}
	result mo.Result[T]
}

// Call starts op with a callback wired to a new future.
func Call[T any](op func(Callback[T])) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	op(Callback[T]{
		OnSuccess: func(value T) { f.complete(mo.Ok(value)) },
		OnFailure: func(err error) { f.complete(mo.Err[T](err)) },
	})
	return f
}

func (f *Future[T]) complete(result mo.Result[T]) {
	f.once.Do(func() {
		f.result = result
		close(f.done)
	})
}

// Done is closed once the future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the operation resolves.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.result.Get()
}

// Result blocks and returns the outcome as a result value.
func (f *Future[T]) Result() mo.Result[T] {
	<-f.done
	return f.result
}

// Go decorates a provider so that every operation runs on its own goroutine.
// Use it for native providers whose calls block; script providers are already asynchronous.
func Go(p Provider) Provider {
	return &goProvider{Provider: p}
}

type goProvider struct {
	Provider
}

func (g *goProvider) SearchMedia(req *SearchRequest, cb Callback[*MediaPage]) {
	go g.Provider.SearchMedia(req, cb)
}

func (g *goProvider) Episodes(req *EpisodesRequest, cb Callback[[]*catalog.Episode]) {
	go g.Provider.Episodes(req, cb)
}

func (g *goProvider) Videos(req *VideosRequest, cb Callback[[]*catalog.Video]) {
	go g.Provider.Videos(req, cb)
}

func (g *goProvider) ReadComments(req *ReadCommentsRequest, cb Callback[*catalog.Comment]) {
	go g.Provider.ReadComments(req, cb)
}

func (g *goProvider) PostComment(req *PostCommentRequest, cb Callback[*catalog.Comment]) {
	go g.Provider.PostComment(req, cb)
}
