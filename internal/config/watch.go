package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 100 * time.Millisecond

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates the file was created or replaced.
	OpCreate

	// OpRemove indicates the file was deleted or renamed away.
	OpRemove
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Change describes a settled change to a watched file.
type Change struct {
	// Path is the absolute path of the file.
	Path string

	// Op is the last operation seen before the change settled.
	Op Operation

	// Time is when the change settled.
	Time time.Time
}

// Watcher reports changes to a single file. The parent directory is
// watched so that editors which save by renaming are seen.
type Watcher struct {
	path     string
	debounce time.Duration
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets how long a file must be quiet before a change is
// reported.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, opts ...WatchOption) (*Watcher, error) {
	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return nil, err
	}
	w := &Watcher{path: abs, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run calls onChange for every settled change until ctx ends. onChange is
// never called concurrently with itself.
func (w *Watcher) Run(ctx context.Context, onChange func(Change)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}

	var (
		mu      sync.Mutex
		timer   *time.Timer
		last    Operation
		stopped bool
		calls   sync.WaitGroup
		serial  sync.Mutex
	)
	defer func() {
		mu.Lock()
		stopped = true
		if timer != nil && timer.Stop() {
			calls.Done()
		}
		mu.Unlock()
		calls.Wait()
	}()

	fire := func() {
		defer calls.Done()
		mu.Lock()
		op := last
		done := stopped
		mu.Unlock()
		if done {
			return
		}
		serial.Lock()
		defer serial.Unlock()
		onChange(Change{Path: w.path, Op: op, Time: time.Now()})
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			op, relevant := operation(ev)
			if !relevant {
				continue
			}

			mu.Lock()
			last = op
			if timer == nil || !timer.Stop() {
				calls.Add(1)
			}
			timer = time.AfterFunc(w.debounce, fire)
			mu.Unlock()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", w.path, err)
		}
	}
}

func operation(ev fsnotify.Event) (Operation, bool) {
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return OpRemove, true
	case ev.Has(fsnotify.Create):
		return OpCreate, true
	case ev.Has(fsnotify.Write):
		return OpWrite, true
	default:
		return 0, false
	}
}

// Watch reloads the settings file at path whenever it changes and passes
// the result to fn, until ctx ends. A removed file is reported as the
// defaults plus environment overrides, matching Load.
func Watch(ctx context.Context, path string, fn func(*File, error)) error {
	w, err := NewWatcher(path)
	if err != nil {
		return err
	}
	return w.Run(ctx, func(c Change) {
		if c.Op == OpRemove {
			if _, err := os.Stat(c.Path); err == nil {
				// Replaced by a rename; the create that follows reloads.
				return
			}
		}
		fn(Load(c.Path))
	})
}
