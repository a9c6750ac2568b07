package script

import (
	"context"
	"net/http"
	"sync"

	"github.com/anisan-cli/katalog/internal/cache"
	"github.com/anisan-cli/katalog/log"
	"github.com/anisan-cli/katalog/network"
	lua "github.com/yuin/gopher-lua"
)

// TLSModule is the name of the fingerprinted HTTP module exposed to scripts.
//
//	http_tls.get(url [, headers]) -> body
//	http_tls.request({method, url, headers, body, cache}) -> {status, body}
const TLSModule = "http_tls"

var tlsCache = sync.OnceValue(func() *cache.Cacher[*network.Response] {
	return cache.New[*network.Response](TLSModule, 0)
})

func registerTLSClient(L *lua.LState) {
	loader := func(L *lua.LState) int {
		mod := L.NewTable()
		L.SetField(mod, "get", L.NewFunction(httpTLSGet))
		L.SetField(mod, "request", L.NewFunction(httpTLSRequest))
		L.Push(mod)
		return 1
	}

	L.PreloadModule(TLSModule, loader)

	// also available without require
	L.Push(L.NewFunction(loader))
	L.Call(0, 1)
	L.SetGlobal(TLSModule, L.Get(-1))
	L.Pop(1)
}

func stateContext(L *lua.LState) context.Context {
	if ctx := L.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func httpTLSGet(L *lua.LState) int {
	req := network.Request{
		Method:  http.MethodGet,
		URL:     L.CheckString(1),
		Headers: stringMap(L.OptTable(2, nil)),
	}

	resp, err := network.DoTLS(stateContext(L), req)
	if err != nil {
		L.RaiseError("%s.get failed: %s", TLSModule, err)
		return 0
	}

	L.Push(lua.LString(resp.Body))
	return 1
}

func httpTLSRequest(L *lua.LState) int {
	opts := L.CheckTable(1)

	req := network.Request{
		Method: stringField(opts, "method", http.MethodGet),
		URL:    stringField(opts, "url", ""),
		Body:   stringField(opts, "body", ""),
	}
	if headers, ok := opts.RawGetString("headers").(*lua.LTable); ok {
		req.Headers = stringMap(headers)
	}

	if req.URL == "" {
		L.RaiseError("%s.request: url is required", TLSModule)
		return 0
	}

	cached := lua.LVAsBool(opts.RawGetString("cache"))
	cacheKey := cache.Key(req.Method, req.URL, req.Body)

	if cached {
		if resp, ok := tlsCache().Get(cacheKey).Get(); ok {
			L.Push(responseTable(L, resp))
			return 1
		}
	}

	resp, err := network.DoTLS(stateContext(L), req)
	if err != nil {
		L.RaiseError("%s.request failed: %s", TLSModule, err)
		return 0
	}

	if cached && resp.Status == http.StatusOK {
		if err := tlsCache().Set(cacheKey, resp); err != nil {
			log.Warnf("%s: cache response: %s", TLSModule, err)
		}
	}

	L.Push(responseTable(L, resp))
	return 1
}

func responseTable(L *lua.LState, resp *network.Response) *lua.LTable {
	table := L.NewTable()
	L.SetField(table, "status", lua.LNumber(resp.Status))
	L.SetField(table, "body", lua.LString(resp.Body))
	return table
}
