package keymap

import (
	"sort"

	"github.com/dshills/elmterm/internal/input/key"
)

// Table maps escape sequences to key events. Sequences are stored without
// the leading ESC, so "ESC [ A" is looked up as "[A".
//
// A Table is immutable once built and safe for concurrent use.
type Table struct {
	bindings map[string]key.Event
	prefixes map[string]struct{}
}

// Lookup returns the event bound to seq.
func (t *Table) Lookup(seq string) (key.Event, bool) {
	ev, ok := t.bindings[seq]
	return ev, ok
}

// IsPrefix reports whether some strictly longer binding starts with seq.
func (t *Table) IsPrefix(seq string) bool {
	_, ok := t.prefixes[seq]
	return ok
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	return len(t.bindings)
}

// Sequences returns every bound sequence in sorted order.
func (t *Table) Sequences() []string {
	seqs := make([]string, 0, len(t.bindings))
	for s := range t.bindings {
		seqs = append(seqs, s)
	}
	sort.Strings(seqs)
	return seqs
}

// Builder accumulates bindings. The first binding for a sequence wins; later
// sources never override it.
type Builder struct {
	bindings map[string]key.Event
}

// Add binds seq to ev unless seq is empty or already bound. It reports
// whether the binding was added.
func (b *Builder) Add(seq string, ev key.Event) bool {
	if seq == "" {
		return false
	}
	if _, exists := b.bindings[seq]; exists {
		return false
	}
	b.bindings[seq] = ev
	return true
}

// Each calls fn for every binding so far, in sorted sequence order.
func (b *Builder) Each(fn func(seq string, ev key.Event)) {
	seqs := make([]string, 0, len(b.bindings))
	for s := range b.bindings {
		seqs = append(seqs, s)
	}
	sort.Strings(seqs)
	for _, s := range seqs {
		fn(s, b.bindings[s])
	}
}

// Source contributes bindings to a Builder.
type Source func(b *Builder)

// Build merges sources in order and freezes the result.
func Build(sources ...Source) *Table {
	b := &Builder{bindings: make(map[string]key.Event)}
	for _, src := range sources {
		if src != nil {
			src(b)
		}
	}

	t := &Table{
		bindings: b.bindings,
		prefixes: make(map[string]struct{}),
	}
	for seq := range t.bindings {
		for i := 1; i < len(seq); i++ {
			t.prefixes[seq[:i]] = struct{}{}
		}
	}
	return t
}
