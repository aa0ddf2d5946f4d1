package command

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dshills/elmterm/internal/event"
)

// Sink receives the messages produced by commands. *event.Queue implements
// it.
type Sink interface {
	Post(ctx context.Context, msg event.Msg) bool
}

// PanicHandler is called with the recovered value and stack whenever a
// command body panics, before the fault is posted.
type PanicHandler func(recovered any, stack []byte)

// Executor turns commands into goroutines whose results are posted to a
// Sink. Execute never blocks on command bodies.
type Executor struct {
	sink         Sink
	ctx          context.Context
	panicHandler PanicHandler
	abortOnFault bool
	logger       *zap.Logger

	wg sync.WaitGroup

	// Stats
	dispatched atomic.Uint64
	started    atomic.Uint64
	completed  atomic.Uint64
	faulted    atomic.Uint64
	posted     atomic.Uint64
	dropped    atomic.Uint64
}

// Option configures an Executor.
type Option func(*Executor)

// WithPanicHandler sets a hook invoked for every command panic.
func WithPanicHandler(h PanicHandler) Option {
	return func(e *Executor) {
		e.panicHandler = h
	}
}

// WithAbortOnFault makes a faulting member stop the rest of its sequence.
// By default the sequence continues with the next member.
func WithAbortOnFault() Option {
	return func(e *Executor) {
		e.abortOnFault = true
	}
}

// WithContext sets the context used when posting results. When it ends,
// blocked posts give up and their messages are dropped.
func WithContext(ctx context.Context) Option {
	return func(e *Executor) {
		if ctx != nil {
			e.ctx = ctx
		}
	}
}

// WithLogger sets the logger used to report faults.
func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExecutor creates an executor posting to sink.
func NewExecutor(sink Sink, opts ...Option) *Executor {
	e := &Executor{
		sink:   sink,
		ctx:    context.Background(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute starts cmd and returns immediately.
//
//   - Func: runs on a new goroutine
//   - BatchCmd: every member is executed independently
//   - SequenceCmd: members run in order on one goroutine
//   - nil: no-op
func (e *Executor) Execute(cmd Cmd) {
	e.dispatched.Add(1)
	e.execute(cmd)
}

func (e *Executor) execute(cmd Cmd) {
	if IsNil(cmd) {
		return
	}

	switch c := cmd.(type) {
	case Func:
		e.goRun(func() { e.runFunc(c) })
	case BatchCmd:
		for _, m := range c.Members {
			e.execute(m)
		}
	case SequenceCmd:
		e.goRun(func() { e.runSequence(c.Members) })
	}
}

func (e *Executor) goRun(fn func()) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		fn()
	}()
}

// runInline runs cmd to completion on the calling goroutine and reports
// whether it finished without a fault.
func (e *Executor) runInline(cmd Cmd) bool {
	if IsNil(cmd) {
		return true
	}

	switch c := cmd.(type) {
	case Func:
		return e.runFunc(c)
	case SequenceCmd:
		return e.runSequence(c.Members)
	case BatchCmd:
		var (
			wg     sync.WaitGroup
			faults atomic.Int32
		)
		for _, m := range c.Members {
			wg.Add(1)
			go func(m Cmd) {
				defer wg.Done()
				if !e.runInline(m) {
					faults.Add(1)
				}
			}(m)
		}
		wg.Wait()
		return faults.Load() == 0
	}
	return true
}

func (e *Executor) runSequence(members []Cmd) bool {
	ok := true
	for i, m := range members {
		if e.runInline(m) {
			continue
		}
		ok = false
		if e.abortOnFault {
			e.logger.Debug("sequence aborted",
				zap.Int("member", i),
				zap.Int("skipped", len(members)-i-1))
			return false
		}
	}
	return ok
}

// runFunc calls the body with panic recovery and posts its result.
func (e *Executor) runFunc(f Func) (ok bool) {
	e.started.Add(1)

	msg, fault := e.call(f)
	if fault != nil {
		e.faulted.Add(1)
		e.logger.Warn("command panicked",
			zap.Any("value", fault.Value),
			zap.ByteString("stack", fault.Stack))
		e.post(event.ErrorMsg{Err: fault})
		return false
	}

	e.completed.Add(1)
	if msg != nil {
		e.post(msg)
	}
	return true
}

func (e *Executor) call(f Func) (msg event.Msg, fault *FaultError) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			fault = &FaultError{Value: r, Stack: stack}

			// A panicking handler must not take the process down.
			if e.panicHandler != nil {
				func() {
					defer func() { _ = recover() }()
					e.panicHandler(r, stack)
				}()
			}
		}
	}()

	return f(), nil
}

func (e *Executor) post(msg event.Msg) {
	if e.sink.Post(e.ctx, msg) {
		e.posted.Add(1)
		return
	}
	e.dropped.Add(1)
}

// Wait blocks until every started command has finished or ctx ends.
func (e *Executor) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns executor statistics.
func (e *Executor) Stats() Stats {
	return Stats{
		Dispatched: e.dispatched.Load(),
		Started:    e.started.Load(),
		Completed:  e.completed.Load(),
		Faulted:    e.faulted.Load(),
		Posted:     e.posted.Load(),
		Dropped:    e.dropped.Load(),
	}
}

// Stats contains statistics for an executor.
type Stats struct {
	// Dispatched is the number of Execute calls, including nil commands.
	Dispatched uint64

	// Started is the number of command bodies that began running.
	Started uint64

	// Completed is the number of bodies that returned normally.
	Completed uint64

	// Faulted is the number of bodies that panicked.
	Faulted uint64

	// Posted is the number of messages accepted by the sink.
	Posted uint64

	// Dropped is the number of messages the sink rejected.
	Dropped uint64
}
