package input

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/dshills/elmterm/internal/event"
	"github.com/dshills/elmterm/internal/input/key"
	"github.com/dshills/elmterm/internal/input/keymap"
	"github.com/dshills/elmterm/internal/input/mouse"
)

// DefaultAmbiguityTimeout is how long a lone ESC waits for a continuation.
const DefaultAmbiguityTimeout = 100 * time.Millisecond

// maxSequence bounds a single escape sequence; longer input is reported as
// unknown rather than buffered indefinitely.
const maxSequence = 64

const (
	esc = 0x1b
	del = 0x7f
)

// Assembler decodes one message at a time from a ByteSource. It is not
// safe for concurrent use.
type Assembler struct {
	src       ByteSource
	keys      *keymap.Table
	ambiguity time.Duration
	metrics   *Metrics
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithAmbiguityTimeout sets how long to wait for the byte following ESC
// and for each continuation byte of a sequence.
func WithAmbiguityTimeout(d time.Duration) Option {
	return func(a *Assembler) {
		if d > 0 {
			a.ambiguity = d
		}
	}
}

// WithKeymap sets the escape-sequence table. The default is keymap.Default().
func WithKeymap(t *keymap.Table) Option {
	return func(a *Assembler) {
		if t != nil {
			a.keys = t
		}
	}
}

// WithMetrics records decode counters into m.
func WithMetrics(m *Metrics) Option {
	return func(a *Assembler) {
		a.metrics = m
	}
}

// NewAssembler creates an assembler reading from src.
func NewAssembler(src ByteSource, opts ...Option) *Assembler {
	a := &Assembler{
		src:       src,
		ambiguity: DefaultAmbiguityTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.keys == nil {
		a.keys = keymap.Default()
	}
	if a.metrics == nil {
		a.metrics = NewMetrics()
	}
	return a
}

// ReadEvent decodes the next message, waiting up to timeout for its first
// byte. It returns (nil, nil) when nothing arrived and (nil, io.EOF) once
// input is exhausted.
func (a *Assembler) ReadEvent(timeout time.Duration) (event.Msg, error) {
	b, err := a.src.NextByte(timeout)
	if errors.Is(err, ErrTimeout) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	msg := a.decode(b)
	a.metrics.record(msg)
	return msg, nil
}

func (a *Assembler) decode(b byte) event.Msg {
	switch {
	case b == esc:
		return a.readEscape()
	case b < 0x20 || b == del:
		return keyMsg(controlKey(b))
	case b < utf8.RuneSelf:
		return keyMsg(key.NewRuneEvent(rune(b), key.ModNone))
	default:
		return a.readUTF8(b, key.ModNone)
	}
}

// next reads a continuation byte within the ambiguity timeout.
func (a *Assembler) next() (byte, bool) {
	b, err := a.src.NextByte(a.ambiguity)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			a.metrics.ambiguityTimeouts.Add(1)
		}
		return 0, false
	}
	return b, true
}

func (a *Assembler) readEscape() event.Msg {
	b, ok := a.next()
	if !ok {
		return keyMsg(key.NewSpecialEvent(key.KeyEscape, key.ModNone))
	}

	switch {
	case b == '[':
		return a.readCSI()
	case b == 'O':
		return a.readSS3()
	case b == esc:
		return keyMsg(key.NewSpecialEvent(key.KeyEscape, key.ModAlt))
	case b < 0x20 || b == del:
		return keyMsg(controlKey(b).WithModifier(key.ModAlt))
	case b < utf8.RuneSelf:
		return keyMsg(key.NewRuneEvent(rune(b), key.ModAlt))
	default:
		return a.readUTF8(b, key.ModAlt)
	}
}

func (a *Assembler) readSS3() event.Msg {
	b, ok := a.next()
	if !ok {
		return keyMsg(key.NewRuneEvent('O', key.ModAlt))
	}
	return a.resolve([]byte{'O', b})
}

func (a *Assembler) readCSI() event.Msg {
	seq := []byte{'['}
	for {
		b, ok := a.next()
		if !ok {
			return a.resolvePartial(seq)
		}
		seq = append(seq, b)

		if len(seq) == 2 {
			switch b {
			case 'M':
				return a.readX10()
			case '<':
				return a.readSGR()
			case 'I':
				return event.FocusMsg{}
			case 'O':
				return event.BlurMsg{}
			}
		}

		if isFinal(b) && !a.extends(seq) {
			return a.resolve(seq)
		}
		if len(seq) >= maxSequence {
			return unknown(seq)
		}
	}
}

// readX10 reads the three raw bytes of a legacy mouse report.
func (a *Assembler) readX10() event.Msg {
	var raw [3]byte
	for i := range raw {
		b, ok := a.next()
		if !ok {
			return unknown(append([]byte("[M"), raw[:i]...))
		}
		raw[i] = b
	}

	ev, err := mouse.DecodeX10(raw)
	if err != nil {
		return unknown(append([]byte("[M"), raw[:]...))
	}
	return event.MouseMsg{Event: ev}
}

// readSGR reads "code;col;row" up to the final M or m.
func (a *Assembler) readSGR() event.Msg {
	seq := []byte("[<")
	for len(seq) < maxSequence {
		b, ok := a.next()
		if !ok {
			return unknown(seq)
		}
		seq = append(seq, b)
		if !isFinal(b) {
			continue
		}

		ev, err := mouse.DecodeSGR(string(seq[2:len(seq)-1]), b)
		if err != nil {
			return unknown(seq)
		}
		return event.MouseMsg{Event: ev}
	}
	return unknown(seq)
}

// extends reports whether seq is unbound but a longer binding starts with
// it, as "[[" does for the Linux console keys "[[A".."[[E".
func (a *Assembler) extends(seq []byte) bool {
	s := string(seq)
	if _, ok := a.keys.Lookup(s); ok {
		return false
	}
	return a.keys.IsPrefix(s)
}

func (a *Assembler) resolve(seq []byte) event.Msg {
	if ev, ok := a.keys.Lookup(string(seq)); ok {
		return keyMsg(ev)
	}
	return unknown(seq)
}

// resolvePartial handles a sequence cut short by the timeout: the bytes
// read so far are resolved to the best available match.
func (a *Assembler) resolvePartial(seq []byte) event.Msg {
	if ev, ok := a.keys.Lookup(string(seq)); ok {
		return keyMsg(ev)
	}
	if len(seq) == 1 {
		// ESC [ with nothing after it was Alt+[.
		return keyMsg(key.NewRuneEvent(rune(seq[0]), key.ModAlt))
	}
	return unknown(seq)
}

func (a *Assembler) readUTF8(first byte, mods key.Modifier) event.Msg {
	n := utf8Len(first)
	if n == 0 {
		return event.UnknownMsg{Sequence: string([]byte{first})}
	}

	buf := []byte{first}
	for len(buf) < n {
		b, ok := a.next()
		if !ok {
			break
		}
		buf = append(buf, b)
	}

	r, size := utf8.DecodeRune(buf)
	if (r == utf8.RuneError && size <= 1) || size != len(buf) {
		return event.UnknownMsg{Sequence: string(buf)}
	}
	return keyMsg(key.NewRuneEvent(r, mods))
}

// utf8Len returns the encoded length implied by a lead byte, or 0 for a
// byte that cannot start a sequence.
func utf8Len(b byte) int {
	switch {
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 0
	}
}

// controlKey maps a C0 control byte or DEL to its key.
func controlKey(b byte) key.Event {
	switch b {
	case '\r':
		return key.NewSpecialEvent(key.KeyEnter, key.ModNone)
	case '\t':
		return key.NewSpecialEvent(key.KeyTab, key.ModNone)
	case 0x08, del:
		return key.NewSpecialEvent(key.KeyBackspace, key.ModNone)
	case esc:
		return key.NewSpecialEvent(key.KeyEscape, key.ModNone)
	case 0x00:
		return key.NewRuneEvent(' ', key.ModCtrl)
	case 0x1c, 0x1d, 0x1e, 0x1f:
		return key.NewRuneEvent(rune(b)+'\\'-0x1c, key.ModCtrl)
	default:
		return key.NewRuneEvent(rune(b)+'a'-1, key.ModCtrl)
	}
}

func isFinal(b byte) bool {
	return b >= 0x40 && b <= 0x7e
}

func keyMsg(ev key.Event) event.Msg {
	return event.KeyMsg{Event: ev}
}

func unknown(seq []byte) event.Msg {
	return event.UnknownMsg{Sequence: "\x1b" + string(seq)}
}
