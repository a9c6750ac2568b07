package yomi

import (
	"fmt"
	"strings"

	"github.com/anisan-cli/katalog/extension"
)

// base carries the identity every native adapter shares.
type base struct {
	extension.Unsupported

	descriptor extension.Descriptor
	pkg        *extension.Package
	sourceID   int64
	name       string
	lang       string
}

func newBase(d extension.Descriptor, pkg *extension.Package, id int64, name, lang string) base {
	return base{descriptor: d, pkg: pkg, sourceID: id, name: name, lang: lang}
}

func (b *base) ID() string {
	return fmt.Sprintf("%s/%d", b.pkg.ID, b.sourceID)
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Lang() string {
	return b.lang
}

func (b *base) Manager() string {
	return b.descriptor.ID
}

func (b *base) Priority() int {
	return 0
}

func (b *base) NSFW() bool {
	return b.pkg.IsNSFW(b.descriptor.NSFWMeta)
}

func (b *base) Capabilities() extension.Capability {
	return extension.CapMediaSearch | extension.CapEpisodes | extension.CapVideos
}

// fail wraps a native error with the provider name and operation.
func (b *base) fail(op string, err error) error {
	return fmt.Errorf("%s: %s: %w", b.name, op, err)
}

// page converts the zero-based page of a request into the native one-based page.
func page(req *extension.SearchRequest) int {
	return req.Page + 1
}

func popular(req *extension.SearchRequest) bool {
	return strings.TrimSpace(req.Query) == ""
}
