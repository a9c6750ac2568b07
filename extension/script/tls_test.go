package script

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/anisan-cli/katalog/extension"
	"github.com/anisan-cli/katalog/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

const fetchScript = `
local http = require("http_tls")

function SearchMedia(url, page)
	local greeting = http.get(url, { ["X-Name"] = "katalog" })
	local first = http.request({ method = "POST", url = url, body = "ping", cache = true })
	local second = http_tls.request({ method = "POST", url = url, body = "ping", cache = true })
	return {
		{ id = greeting, title = first.body .. " " .. first.status .. " " .. second.body },
	}
end
`

func TestTLSModule(t *testing.T) {
	Convey("Given a script fetching from a plain http server", t, func() {
		viper.Set(key.CacheSearch, false)

		var posts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				posts.Add(1)
				body, _ := io.ReadAll(r.Body)
				_, _ = w.Write([]byte("got " + string(body)))
				return
			}
			_, _ = w.Write([]byte("hello " + r.Header.Get("X-Name")))
		}))
		defer server.Close()

		engine := NewEngine(Options{})
		provider := loadProvider(engine, &extension.Package{ID: "fetch"}, fetchScript)

		page, err := search(provider, server.URL)
		So(err, ShouldBeNil)
		So(page.Items, ShouldHaveLength, 1)

		Convey("get sends the headers and returns the body", func() {
			id, ok := page.Items[0].ID(Lua.ID)
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "hello katalog")
		})

		Convey("request returns the status and caches successful responses", func() {
			So(page.Items[0].Title(), ShouldEqual, "got ping 200 got ping")
			So(posts.Load(), ShouldEqual, 1)
		})
	})

	Convey("Given an unreachable url", t, func() {
		viper.Set(key.CacheSearch, false)

		engine := NewEngine(Options{})
		provider := loadProvider(engine, &extension.Package{ID: "unreachable"}, fetchScript)

		_, err := search(provider, "http://127.0.0.1:1")

		Convey("The request error reaches the failure branch", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "http_tls")
		})
	})
}
