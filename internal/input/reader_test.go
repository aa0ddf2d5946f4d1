package input

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dshills/elmterm/internal/event"
	"github.com/dshills/elmterm/internal/input/key"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func drain(q *event.Queue) []event.Msg {
	var msgs []event.Msg
	for {
		msg, ok := q.TryNext()
		if !ok {
			return msgs
		}
		msgs = append(msgs, msg)
	}
}

func TestReaderPostsUntilEOF(t *testing.T) {
	p := NewPump(strings.NewReader("a\x1b[A\x1b[9q"))
	defer p.Close()

	q := event.NewQueue()
	r := NewReader(NewAssembler(p), WithPollInterval(10*time.Millisecond))

	require.NoError(t, r.Run(context.Background(), q))
	assert.Equal(t, []event.Msg{
		runeOf('a', key.ModNone),
		keyOf(key.KeyUp, key.ModNone),
		event.UnknownMsg{Sequence: "\x1b[9q"},
	}, drain(q))
}

func TestReaderStopsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	p := NewPump(pr)
	defer func() {
		_ = pw.Close()
		p.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	r := NewReader(NewAssembler(p), WithPollInterval(10*time.Millisecond))

	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx, event.NewQueue())
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("reader did not stop after cancel")
	}
}

func TestReaderStopsWhenSinkCloses(t *testing.T) {
	pr, pw := io.Pipe()
	p := NewPump(pr)
	defer func() {
		_ = pw.Close()
		p.Close()
	}()

	q := event.NewQueue()
	q.Close()

	go func() {
		_, _ = pw.Write([]byte("x"))
	}()

	r := NewReader(NewAssembler(p), WithPollInterval(10*time.Millisecond))
	assert.NoError(t, r.Run(context.Background(), q))
	assert.Equal(t, uint64(1), q.Stats().Dropped)
}

func TestReaderReturnsReadErrors(t *testing.T) {
	boom := errors.New("device gone")
	p := NewPump(iotest.ErrReader(boom))
	defer p.Close()

	r := NewReader(NewAssembler(p))
	err := r.Run(context.Background(), event.NewQueue())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "read input")
}
