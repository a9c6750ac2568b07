package script

import (
	"fmt"

	"github.com/anisan-cli/katalog/constant"
	"github.com/anisan-cli/katalog/extension"
	"github.com/anisan-cli/katalog/log"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"
)

// Pending is a script waiting to be loaded as part of a package.
type Pending struct {
	Package *extension.Package
	Script  *Script
}

// Extension is a script loaded into the engine. Its globals live in a private
// environment table whose lookups fall back to the shared globals.
type Extension struct {
	Package *extension.Package
	Script  *Script

	env          *lua.LTable
	capabilities extension.Capability
	priority     int
}

func (x *Extension) Capabilities() extension.Capability {
	return x.capabilities
}

func (x *Extension) Priority() int {
	return x.priority
}

var capabilityFunctions = []lo.Tuple2[string, extension.Capability]{
	{A: constant.SearchMediaFn, B: extension.CapMediaSearch},
	{A: constant.MediaEpisodesFn, B: extension.CapEpisodes},
	{A: constant.EpisodeVideosFn, B: extension.CapVideos},
	{A: constant.MediaCommentsFn, B: extension.CapCommentsRead},
	{A: constant.PostCommentFn, B: extension.CapCommentsWrite},
}

// load runs the script chunk in a fresh environment and inspects what it defined.
func load(L *lua.LState, pkg *extension.Package, script *Script) (*Extension, error) {
	if script == nil || script.proto == nil {
		return nil, ErrNoScript
	}

	env := L.NewTable()
	meta := L.NewTable()
	meta.RawSetString("__index", L.G.Global)
	L.SetMetatable(env, meta)

	fn := L.NewFunctionFromProto(script.proto)
	fn.Env = env

	top := L.GetTop()
	L.Push(fn)
	err := L.PCall(0, lua.MultRet, nil)
	L.SetTop(top)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", script.Name, err)
	}

	x := &Extension{Package: pkg, Script: script, env: env}
	for _, f := range capabilityFunctions {
		if env.RawGetString(f.A).Type() == lua.LTFunction {
			x.capabilities |= f.B
		}
	}

	if !x.capabilities.Has(extension.CapMediaSearch) {
		return nil, fmt.Errorf("%s: %w: %s", script.Name, ErrMissingFunction, constant.SearchMediaFn)
	}

	if priority, ok := env.RawGetString(constant.PriorityVar).(lua.LNumber); ok {
		x.priority = int(priority)
	}

	log.WithFields(logrus.Fields{
		"package":      pkg.ID,
		"script":       script.Name,
		"capabilities": x.capabilities.String(),
	}).Debug("loaded script")

	return x, nil
}

// loadAll loads every pending script, skipping the ones that fail.
func loadAll(L *lua.LState, pending []Pending) []*Extension {
	loaded := make([]*Extension, 0, len(pending))
	for _, p := range pending {
		x, err := load(L, p.Package, p.Script)
		if err != nil {
			log.Warnf("skipping script: %s", err)
			continue
		}
		loaded = append(loaded, x)
	}
	return loaded
}

// call invokes a function of the extension and returns its first result.
// Following Lua convention, a nil first result with a string second result is a failure
// carrying that reason; it is reported as ErrGeneric.
func (x *Extension) call(L *lua.LState, name string, want lua.LValueType, args ...lua.LValue) (lua.LValue, error) {
	fn := x.env.RawGetString(name)
	if fn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("%w: %s", ErrMissingFunction, name)
	}

	top := L.GetTop()
	defer L.SetTop(top)

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 2, Protect: true}, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	ret, reason := L.Get(-2), L.Get(-1)
	if ret == lua.LNil {
		if reason.Type() == lua.LTString {
			return nil, fmt.Errorf("%w: %s: %s", ErrGeneric, name, reason.String())
		}
		if want == lua.LTNil {
			return ret, nil
		}
	}

	if ret.Type() != want {
		return nil, fmt.Errorf("%w: %s returned %s, expected %s", ErrInvalidResult, name, ret.Type(), want)
	}
	return ret, nil
}
