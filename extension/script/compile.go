package script

import (
	"bytes"
	"fmt"
	"strconv"
	"sync"

	"github.com/anisan-cli/katalog/util"
	"github.com/spf13/afero"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// Script is a compiled Lua chunk ready to be loaded by the engine.
type Script struct {
	// Name is the file name without extension.
	Name  string
	Path  string
	proto *lua.FunctionProto
}

func (s *Script) String() string {
	return s.Name
}

// bytecode caches prototypes by path and modification time.
var bytecode sync.Map

// Compile parses and compiles the script at path, reusing a cached prototype when the
// file is unchanged.
func Compile(fs afero.Fs, path string) (*Script, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, err
	}

	cacheKey := path + "@" + strconv.FormatInt(info.ModTime().UnixNano(), 10)
	if proto, ok := bytecode.Load(cacheKey); ok {
		return &Script{Name: util.FileStem(path), Path: path, proto: proto.(*lua.FunctionProto)}, nil
	}

	source, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	proto, err := CompileString(path, source)
	if err != nil {
		return nil, err
	}

	bytecode.Store(cacheKey, proto)
	return &Script{Name: util.FileStem(path), Path: path, proto: proto}, nil
}

// CompileString compiles source under the given chunk name.
func CompileString(name string, source []byte) (*lua.FunctionProto, error) {
	chunk, err := parse.Parse(bytes.NewReader(source), name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return proto, nil
}

// NewScript compiles an in-memory script.
func NewScript(name string, source string) (*Script, error) {
	proto, err := CompileString(name, []byte(source))
	if err != nil {
		return nil, err
	}
	return &Script{Name: name, Path: name, proto: proto}, nil
}
