package command

import (
	"time"

	"github.com/dshills/elmterm/internal/event"
)

// Cmd is deferred work returned by update. It is one of Func, BatchCmd or
// SequenceCmd; a nil Cmd is a no-op.
type Cmd interface {
	isCmd()
}

// Func is a single command. Its body runs on its own goroutine and may
// block freely. A non-nil result is posted to the program.
type Func func() event.Msg

func (Func) isCmd() {}

// BatchCmd runs its members concurrently with no ordering between them.
type BatchCmd struct {
	Members []Cmd
}

func (BatchCmd) isCmd() {}

// SequenceCmd runs its members one after another on a single goroutine,
// each finishing before the next starts.
type SequenceCmd struct {
	Members []Cmd
}

func (SequenceCmd) isCmd() {}

// Batch combines commands to run concurrently. Nil commands are removed;
// if none remain, Batch returns nil.
func Batch(cmds ...Cmd) Cmd {
	members := compact(cmds)
	if len(members) == 0 {
		return nil
	}
	return BatchCmd{Members: members}
}

// Sequence combines commands to run in order. Nil commands are removed;
// if none remain, Sequence returns nil.
func Sequence(cmds ...Cmd) Cmd {
	members := compact(cmds)
	if len(members) == 0 {
		return nil
	}
	return SequenceCmd{Members: members}
}

// IsNil reports whether cmd does nothing, including a nil Func stored in
// the interface.
func IsNil(cmd Cmd) bool {
	if cmd == nil {
		return true
	}
	f, ok := cmd.(Func)
	return ok && f == nil
}

func compact(cmds []Cmd) []Cmd {
	members := make([]Cmd, 0, len(cmds))
	for _, c := range cmds {
		if !IsNil(c) {
			members = append(members, c)
		}
	}
	return members
}

// Message returns a command that posts msg.
func Message(msg event.Msg) Cmd {
	return Func(func() event.Msg { return msg })
}

// Quit returns a command that stops the program.
func Quit() Cmd {
	return Message(event.QuitMsg{})
}

// Tick returns a command that waits d and posts fn's result for the time
// it fired.
func Tick(d time.Duration, fn func(time.Time) event.Msg) Cmd {
	return Func(func() event.Msg {
		t := time.NewTimer(d)
		defer t.Stop()
		return fn(<-t.C)
	})
}

// Every is like Tick but fires on the next multiple of d on the wall
// clock, so repeated Every commands stay aligned (for example to whole
// seconds).
func Every(d time.Duration, fn func(time.Time) event.Msg) Cmd {
	return Func(func() event.Msg {
		now := time.Now()
		next := now.Truncate(d).Add(d)
		t := time.NewTimer(next.Sub(now))
		defer t.Stop()
		return fn(<-t.C)
	})
}
