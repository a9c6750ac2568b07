// Package script hosts Lua extensions on a single engine worker.
//
// Every interaction with the Lua state is a Task. Tasks are queued to one worker goroutine
// which owns the state, runs them strictly in submission order and resolves each with a
// value or an error. Resolution happens on the worker.
package script

import (
	"fmt"

	"github.com/samber/mo"
	lua "github.com/yuin/gopher-lua"
)

// Kind tags the work a task asks the engine to do.
type Kind int

const (
	// KindLoadAll loads a batch of scripts. Args: []Pending.
	KindLoadAll Kind = iota
	// KindLoadExtension loads one script. Args: *extension.Package, *Script.
	KindLoadExtension
	// KindRunCallback hands the engine state to a unit of work. No args.
	KindRunCallback
)

func (k Kind) String() string {
	switch k {
	case KindLoadAll:
		return "load-all"
	case KindLoadExtension:
		return "load-extension"
	case KindRunCallback:
		return "run-callback"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Task is an immutable message for the engine worker.
type Task struct {
	kind    Kind
	args    []any
	resolve func(mo.Result[any])
}

// NewTask builds a task resolved through resolve.
func NewTask(kind Kind, resolve func(mo.Result[any]), args ...any) *Task {
	if resolve == nil {
		resolve = func(mo.Result[any]) {}
	}
	return &Task{kind: kind, args: append([]any{}, args...), resolve: resolve}
}

// Runnable is a unit of work executed on the worker with the engine state.
type Runnable func(L *lua.LState)

// NewRunnable wraps fn in a KindRunCallback task. When the engine resolves the task with
// an error, fn is skipped and the error goes to report. Otherwise fn runs once; a panic
// in fn is reported as well.
func NewRunnable(fn Runnable, report func(error)) *Task {
	if report == nil {
		report = func(error) {}
	}

	return NewTask(KindRunCallback, func(result mo.Result[any]) {
		value, err := result.Get()
		if err != nil {
			report(err)
			return
		}

		L, ok := value.(*lua.LState)
		if !ok {
			report(fmt.Errorf("%w: run-callback resolved with %T", ErrInvalidResult, value))
			return
		}

		defer func() {
			if r := recover(); r != nil {
				report(fmt.Errorf("run-callback panicked: %v", r))
			}
		}()

		fn(L)
	})
}

func (t *Task) Kind() Kind {
	return t.kind
}

// Args returns a copy of the task arguments.
func (t *Task) Args() []any {
	return append([]any{}, t.args...)
}

func (t *Task) String() string {
	return fmt.Sprintf("%s task (%d args)", t.kind, len(t.args))
}
