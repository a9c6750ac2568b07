package script

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/anisan-cli/katalog/extension"
	"github.com/anisan-cli/katalog/key"
	"github.com/anisan-cli/katalog/log"
	libs "github.com/metafates/mangal-lua-libs"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	lua "github.com/yuin/gopher-lua"
)

// DefaultQueueSize is used when Options.QueueSize is not positive.
const DefaultQueueSize = 128

type Options struct {
	// QueueSize bounds the task queue. Submit blocks while the queue is full.
	QueueSize int
	// CallTimeout is the deadline of a single task. Zero means none.
	CallTimeout time.Duration
	// OnError receives errors of runnables posted with Post, after logging.
	OnError func(error)
}

// Engine owns one Lua state and the only goroutine allowed to touch it.
//
// The worker starts with the first submitted task and creates the state before running
// it. There is no shutdown: the engine lives as long as the process. A slow task delays
// every task queued after it.
type Engine struct {
	options Options
	queue   chan *Task
	start   sync.Once

	// owned by the worker
	state   *lua.LState
	initErr error
}

// NewEngine creates an idle engine.
func NewEngine(options Options) *Engine {
	if options.QueueSize <= 0 {
		options.QueueSize = DefaultQueueSize
	}

	return &Engine{
		options: options,
		queue:   make(chan *Task, options.QueueSize),
	}
}

var (
	defaultEngine     *Engine
	defaultEngineOnce sync.Once
)

// Default returns the process-wide engine, configured from script.* settings on first use.
func Default() *Engine {
	defaultEngineOnce.Do(func() {
		timeout, err := time.ParseDuration(viper.GetString(key.ScriptCallTimeout))
		if err != nil {
			log.Warnf("invalid %s: %s", key.ScriptCallTimeout, err)
			timeout = 0
		}

		defaultEngine = NewEngine(Options{
			QueueSize:   viper.GetInt(key.ScriptQueueSize),
			CallTimeout: timeout,
		})
	})
	return defaultEngine
}

// Submit enqueues a task. Tasks run in the order they were submitted, across goroutines.
// Submitting from inside a task with a full queue deadlocks the worker.
func (e *Engine) Submit(task *Task) {
	e.start.Do(func() {
		go e.work()
	})
	e.queue <- task
}

// Post runs fn on the worker. If the engine cannot provide a state, fn is skipped and
// the error is reported.
func (e *Engine) Post(fn Runnable) {
	e.Submit(NewRunnable(fn, e.report))
}

// Do submits a task and waits for its result. It must not be called from the worker.
func (e *Engine) Do(kind Kind, args ...any) (any, error) {
	done := make(chan mo.Result[any], 1)
	e.Submit(NewTask(kind, func(result mo.Result[any]) {
		done <- result
	}, args...))
	return (<-done).Get()
}

func (e *Engine) report(err error) {
	if !errors.Is(err, ErrGeneric) {
		log.Errorf("script task: %s", err)
	}
	if e.options.OnError != nil {
		e.options.OnError(err)
	}
}

func (e *Engine) work() {
	for task := range e.queue {
		e.run(task)
	}
}

func (e *Engine) run(task *Task) {
	resolved := false
	resolve := func(result mo.Result[any]) {
		resolved = true
		task.resolve(result)
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%s panicked: %v", task, r)
			if !resolved {
				resolve(mo.Err[any](err))
				return
			}
			e.report(err)
		}
	}()

	if e.state == nil && e.initErr == nil {
		e.state, e.initErr = newState()
	}
	if e.initErr != nil {
		resolve(mo.Err[any](e.initErr))
		return
	}

	if e.options.CallTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), e.options.CallTimeout)
		e.state.SetContext(ctx)
		defer func() {
			e.state.RemoveContext()
			cancel()
		}()
	}

	resolve(e.execute(task))
}

func (e *Engine) execute(task *Task) mo.Result[any] {
	L := e.state

	switch task.kind {
	case KindRunCallback:
		return mo.Ok[any](L)
	case KindLoadExtension:
		if len(task.args) != 2 {
			return mo.Err[any](fmt.Errorf("%w: %s wants a package and a script", ErrInvalidTask, task))
		}
		pkg, _ := task.args[0].(*extension.Package)
		script, _ := task.args[1].(*Script)
		if pkg == nil {
			return mo.Err[any](fmt.Errorf("%w: %s wants a package", ErrInvalidTask, task))
		}

		x, err := load(L, pkg, script)
		if err != nil {
			return mo.Err[any](err)
		}
		return mo.Ok[any](x)
	case KindLoadAll:
		if len(task.args) != 1 {
			return mo.Err[any](fmt.Errorf("%w: %s wants a list of scripts", ErrInvalidTask, task))
		}
		pending, ok := task.args[0].([]Pending)
		if !ok {
			return mo.Err[any](fmt.Errorf("%w: %s wants []Pending, got %T", ErrInvalidTask, task, task.args[0]))
		}
		return mo.Ok[any](loadAll(L, pending))
	default:
		return mo.Err[any](fmt.Errorf("%w: unknown kind %d", ErrInvalidTask, int(task.kind)))
	}
}

// newState creates the shared state with the preloaded modules.
func newState() (L *lua.LState, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("init lua state: %v", r)
		}
	}()

	L = lua.NewState()
	libs.Preload(L)
	registerTLSClient(L)
	return L, nil
}
