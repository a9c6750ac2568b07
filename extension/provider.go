// Package extension defines the ecosystem-agnostic contracts every extension bridge implements:
// providers, managers, packages and the registry tying them together.
package extension

import (
	"cmp"
	"errors"
	"strings"

	"github.com/anisan-cli/katalog/catalog"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// ErrUnsupported is delivered to the failure branch of an operation outside a provider's capabilities.
var ErrUnsupported = errors.New("operation not supported by provider")

// Capability is a bitmask of the operations a provider implements.
type Capability uint32

const (
	CapMediaSearch Capability = 1 << iota
	CapEpisodes
	CapVideos
	CapCommentsRead
	CapCommentsWrite

	CapNone Capability = 0
	CapAll             = CapMediaSearch | CapEpisodes | CapVideos | CapCommentsRead | CapCommentsWrite
)

var capabilityNames = []lo.Tuple2[Capability, string]{
	{A: CapMediaSearch, B: "search"},
	{A: CapEpisodes, B: "episodes"},
	{A: CapVideos, B: "videos"},
	{A: CapCommentsRead, B: "comments"},
	{A: CapCommentsWrite, B: "post-comment"},
}

// Has reports whether every bit of other is set.
func (c Capability) Has(other Capability) bool {
	return c&other == other
}

func (c Capability) String() string {
	names := lo.FilterMap(capabilityNames, func(t lo.Tuple2[Capability, string], _ int) (string, bool) {
		return t.B, c.Has(t.A)
	})
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// Callback receives the outcome of an asynchronous provider operation.
// Exactly one of the two branches is invoked, once.
type Callback[T any] struct {
	OnSuccess func(T)
	OnFailure func(error)
}

// Success delivers a result. A nil branch is ignored.
func (c Callback[T]) Success(value T) {
	if c.OnSuccess != nil {
		c.OnSuccess(value)
	}
}

// Failure delivers an error. A nil branch is ignored.
func (c Callback[T]) Failure(err error) {
	if c.OnFailure != nil {
		c.OnFailure(err)
	}
}

// Resolve delivers value on a nil error, err otherwise.
func (c Callback[T]) Resolve(value T, err error) {
	if err != nil {
		c.Failure(err)
		return
	}
	c.Success(value)
}

// SearchRequest asks for a page of media. An empty query means the provider's default listing.
type SearchRequest struct {
	Query string
	Page  int
	// Filters are passed to ecosystems that understand them and ignored by the rest.
	Filters map[string]string
}

// MediaPage is one page of search results.
type MediaPage struct {
	Items   []*catalog.Media
	HasNext bool
}

// Clone returns a page whose items are deep copies of p's.
func (p *MediaPage) Clone() *MediaPage {
	return &MediaPage{
		Items: lo.Map(p.Items, func(m *catalog.Media, _ int) *catalog.Media {
			return m.Clone()
		}),
		HasNext: p.HasNext,
	}
}

type EpisodesRequest struct {
	Media *catalog.Media
}

type VideosRequest struct {
	Episode *catalog.Episode
}

type ReadCommentsRequest struct {
	Media *catalog.Media
	// Parent is nil for top-level comments.
	Parent *catalog.Comment
	Page   int
}

type PostCommentRequest struct {
	Media  *catalog.Media
	Parent *catalog.Comment
	Text   string
}

// Provider is the uniform handle through which catalog data is fetched from one loaded source.
//
// Every operation returns immediately or after a synchronous native call, depending on the
// ecosystem, and reports its outcome through the callback. Implementations keep no
// per-request mutable state, so a provider may be used from several goroutines at once.
// There is no built-in timeout: a hung native call blocks its caller, a hung script call
// blocks the script worker.
type Provider interface {
	// ID is unique across all loaded providers and never contains the global id separator.
	ID() string
	Name() string
	Lang() string
	// Manager returns the id of the manager that created the provider.
	Manager() string
	// Priority orders providers; higher comes first.
	Priority() int
	NSFW() bool
	Capabilities() Capability

	SearchMedia(req *SearchRequest, cb Callback[*MediaPage])
	Episodes(req *EpisodesRequest, cb Callback[[]*catalog.Episode])
	Videos(req *VideosRequest, cb Callback[[]*catalog.Video])
	ReadComments(req *ReadCommentsRequest, cb Callback[*catalog.Comment])
	PostComment(req *PostCommentRequest, cb Callback[*catalog.Comment])
}

// Unsupported can be embedded by providers to fail every operation they do not override.
type Unsupported struct{}

func (Unsupported) SearchMedia(_ *SearchRequest, cb Callback[*MediaPage]) {
	cb.Failure(ErrUnsupported)
}

func (Unsupported) Episodes(_ *EpisodesRequest, cb Callback[[]*catalog.Episode]) {
	cb.Failure(ErrUnsupported)
}

func (Unsupported) Videos(_ *VideosRequest, cb Callback[[]*catalog.Video]) {
	cb.Failure(ErrUnsupported)
}

func (Unsupported) ReadComments(_ *ReadCommentsRequest, cb Callback[*catalog.Comment]) {
	cb.Failure(ErrUnsupported)
}

func (Unsupported) PostComment(_ *PostCommentRequest, cb Callback[*catalog.Comment]) {
	cb.Failure(ErrUnsupported)
}

// Compare orders providers by descending priority, then manager id, name and id.
func Compare(a, b Provider) int {
	return cmp.Or(
		cmp.Compare(b.Priority(), a.Priority()),
		cmp.Compare(a.Manager(), b.Manager()),
		cmp.Compare(strings.ToLower(a.Name()), strings.ToLower(b.Name())),
		cmp.Compare(a.ID(), b.ID()),
	)
}

// Sort orders providers in place with Compare.
func Sort(providers []Provider) {
	slices.SortStableFunc(providers, Compare)
}

// DisplayName prefixes the provider name with its ecosystem label.
func DisplayName(d Descriptor, p Provider) string {
	return d.Prefix + p.Name()
}
