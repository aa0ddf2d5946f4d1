package keymap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xo/terminfo"

	"github.com/dshills/elmterm/internal/input/key"
)

const esc = "\x1b"

// capabilityKeys lists the terminfo string capabilities read for keys.
var capabilityKeys = map[int]key.Event{
	terminfo.KeyUp:    {Key: key.KeyUp},
	terminfo.KeyDown:  {Key: key.KeyDown},
	terminfo.KeyLeft:  {Key: key.KeyLeft},
	terminfo.KeyRight: {Key: key.KeyRight},
	terminfo.KeyHome:  {Key: key.KeyHome},
	terminfo.KeyEnd:   {Key: key.KeyEnd},
	terminfo.KeyPpage: {Key: key.KeyPageUp},
	terminfo.KeyNpage: {Key: key.KeyPageDown},
	terminfo.KeyIc:    {Key: key.KeyInsert},
	terminfo.KeyDc:    {Key: key.KeyDelete},
	terminfo.KeyBtab:  {Key: key.KeyTab, Modifiers: key.ModShift},
	terminfo.KeyF1:    {Key: key.KeyF1},
	terminfo.KeyF2:    {Key: key.KeyF2},
	terminfo.KeyF3:    {Key: key.KeyF3},
	terminfo.KeyF4:    {Key: key.KeyF4},
	terminfo.KeyF5:    {Key: key.KeyF5},
	terminfo.KeyF6:    {Key: key.KeyF6},
	terminfo.KeyF7:    {Key: key.KeyF7},
	terminfo.KeyF8:    {Key: key.KeyF8},
	terminfo.KeyF9:    {Key: key.KeyF9},
	terminfo.KeyF10:   {Key: key.KeyF10},
	terminfo.KeyF11:   {Key: key.KeyF11},
	terminfo.KeyF12:   {Key: key.KeyF12},
}

// extendedKeys maps ncurses extended capability stems (kUP5, kDC3, ...) to
// keys. An unsuffixed stem means Shift; suffixes 3..8 are xterm modifier
// parameters.
var extendedKeys = map[string]key.Key{
	"kUP":  key.KeyUp,
	"kDN":  key.KeyDown,
	"kLFT": key.KeyLeft,
	"kRIT": key.KeyRight,
	"kHOM": key.KeyHome,
	"kEND": key.KeyEnd,
	"kPRV": key.KeyPageUp,
	"kNXT": key.KeyPageDown,
	"kIC":  key.KeyInsert,
	"kDC":  key.KeyDelete,
}

// Terminfo returns the capability-derived bindings of ti. Capabilities that
// do not begin with ESC are ignored.
func Terminfo(ti *terminfo.Terminfo) Source {
	return func(b *Builder) {
		if ti == nil {
			return
		}
		for _, capIdx := range sortedKeys(capabilityKeys) {
			if seq, ok := stripEscape(ti.Strings[capIdx]); ok {
				b.Add(seq, capabilityKeys[capIdx])
			}
		}
		for _, idx := range sortedKeys(ti.ExtStringNames) {
			ev, ok := parseExtendedName(string(ti.ExtStringNames[idx]))
			if !ok {
				continue
			}
			if seq, ok := stripEscape(ti.ExtStrings[idx]); ok {
				b.Add(seq, ev)
			}
		}
	}
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func parseExtendedName(name string) (key.Event, bool) {
	stem := strings.TrimRight(name, "0123456789")
	k, ok := extendedKeys[stem]
	if !ok {
		return key.Event{}, false
	}
	suffix := name[len(stem):]
	if suffix == "" {
		return key.NewSpecialEvent(k, key.ModShift), true
	}
	var code int
	if _, err := fmt.Sscanf(suffix, "%d", &code); err != nil || code < 3 || code > 8 {
		return key.Event{}, false
	}
	return key.NewSpecialEvent(k, key.FromXterm(code)), true
}

func stripEscape(raw []byte) (string, bool) {
	s := string(raw)
	if len(s) < 2 || !strings.HasPrefix(s, esc) {
		return "", false
	}
	return s[1:], true
}

// fallbackBindings covers xterm, vt100/vt220, rxvt and the Linux console.
var fallbackBindings = []struct {
	seq string
	ev  key.Event
}{
	// xterm normal and application cursor modes
	{"[A", key.Event{Key: key.KeyUp}},
	{"[B", key.Event{Key: key.KeyDown}},
	{"[C", key.Event{Key: key.KeyRight}},
	{"[D", key.Event{Key: key.KeyLeft}},
	{"OA", key.Event{Key: key.KeyUp}},
	{"OB", key.Event{Key: key.KeyDown}},
	{"OC", key.Event{Key: key.KeyRight}},
	{"OD", key.Event{Key: key.KeyLeft}},
	{"[H", key.Event{Key: key.KeyHome}},
	{"[F", key.Event{Key: key.KeyEnd}},
	{"OH", key.Event{Key: key.KeyHome}},
	{"OF", key.Event{Key: key.KeyEnd}},
	{"[Z", key.Event{Key: key.KeyTab, Modifiers: key.ModShift}},

	// vt220 editing keypad
	{"[1~", key.Event{Key: key.KeyHome}},
	{"[2~", key.Event{Key: key.KeyInsert}},
	{"[3~", key.Event{Key: key.KeyDelete}},
	{"[4~", key.Event{Key: key.KeyEnd}},
	{"[5~", key.Event{Key: key.KeyPageUp}},
	{"[6~", key.Event{Key: key.KeyPageDown}},
	{"[7~", key.Event{Key: key.KeyHome}},
	{"[8~", key.Event{Key: key.KeyEnd}},

	// function keys
	{"OP", key.Event{Key: key.KeyF1}},
	{"OQ", key.Event{Key: key.KeyF2}},
	{"OR", key.Event{Key: key.KeyF3}},
	{"OS", key.Event{Key: key.KeyF4}},
	{"[11~", key.Event{Key: key.KeyF1}},
	{"[12~", key.Event{Key: key.KeyF2}},
	{"[13~", key.Event{Key: key.KeyF3}},
	{"[14~", key.Event{Key: key.KeyF4}},
	{"[15~", key.Event{Key: key.KeyF5}},
	{"[17~", key.Event{Key: key.KeyF6}},
	{"[18~", key.Event{Key: key.KeyF7}},
	{"[19~", key.Event{Key: key.KeyF8}},
	{"[20~", key.Event{Key: key.KeyF9}},
	{"[21~", key.Event{Key: key.KeyF10}},
	{"[23~", key.Event{Key: key.KeyF11}},
	{"[24~", key.Event{Key: key.KeyF12}},

	// Linux console
	{"[[A", key.Event{Key: key.KeyF1}},
	{"[[B", key.Event{Key: key.KeyF2}},
	{"[[C", key.Event{Key: key.KeyF3}},
	{"[[D", key.Event{Key: key.KeyF4}},
	{"[[E", key.Event{Key: key.KeyF5}},

	// rxvt modified arrows
	{"[a", key.Event{Key: key.KeyUp, Modifiers: key.ModShift}},
	{"[b", key.Event{Key: key.KeyDown, Modifiers: key.ModShift}},
	{"[c", key.Event{Key: key.KeyRight, Modifiers: key.ModShift}},
	{"[d", key.Event{Key: key.KeyLeft, Modifiers: key.ModShift}},
	{"Oa", key.Event{Key: key.KeyUp, Modifiers: key.ModCtrl}},
	{"Ob", key.Event{Key: key.KeyDown, Modifiers: key.ModCtrl}},
	{"Oc", key.Event{Key: key.KeyRight, Modifiers: key.ModCtrl}},
	{"Od", key.Event{Key: key.KeyLeft, Modifiers: key.ModCtrl}},
}

// Fallback returns hardcoded bindings for common terminals.
func Fallback() Source {
	return func(b *Builder) {
		for _, fb := range fallbackBindings {
			b.Add(fb.seq, fb.ev)
		}
	}
}

// ModifierVariants generates xterm modifier forms for every unmodified
// arrow, navigation and function key bound so far, using parameters 2..8:
//
//	[X   becomes  [1;cX
//	OX   becomes  [1;cX
//	[n~  becomes  [n;c~
func ModifierVariants() Source {
	return func(b *Builder) {
		type variant struct {
			seq string
			ev  key.Event
		}
		var generated []variant

		b.Each(func(seq string, ev key.Event) {
			if !ev.Modifiers.IsEmpty() || !variantKey(ev.Key) {
				return
			}
			format, ok := variantFormat(seq)
			if !ok {
				return
			}
			for code := 2; code <= 8; code++ {
				generated = append(generated, variant{
					seq: fmt.Sprintf(format, code),
					ev:  key.NewSpecialEvent(ev.Key, key.FromXterm(code)),
				})
			}
		})

		for _, v := range generated {
			b.Add(v.seq, v.ev)
		}
	}
}

func variantKey(k key.Key) bool {
	return k.IsNavigationKey() || k.IsFunctionKey()
}

// variantFormat returns a Sprintf format taking the modifier parameter.
func variantFormat(seq string) (string, bool) {
	switch {
	case len(seq) == 2 && (seq[0] == '[' || seq[0] == 'O') && isLetter(seq[1]):
		return "[1;%d" + seq[1:], true
	case len(seq) > 2 && seq[0] == '[' && seq[len(seq)-1] == '~' && isDigits(seq[1:len(seq)-1]):
		return seq[:len(seq)-1] + ";%d~", true
	}
	return "", false
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// Load builds the table for the named terminal: terminfo capabilities,
// then fallbacks, then generated modifier variants. An empty name reads
// $TERM. If the terminfo entry cannot be loaded the error is returned
// along with a table built from the remaining sources.
func Load(term string) (*Table, error) {
	var (
		ti  *terminfo.Terminfo
		err error
	)
	if term == "" {
		ti, err = terminfo.LoadFromEnv()
	} else {
		ti, err = terminfo.Load(term)
	}
	if err != nil {
		err = fmt.Errorf("load terminfo %q: %w", term, err)
		ti = nil
	}
	return Build(Terminfo(ti), Fallback(), ModifierVariants()), err
}

// Default builds a table from fallbacks and modifier variants only.
func Default() *Table {
	return Build(Fallback(), ModifierVariants())
}
