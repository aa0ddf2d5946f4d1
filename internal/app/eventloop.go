package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/elmterm/internal/command"
	"github.com/dshills/elmterm/internal/event"
)

// eventLoop runs turns until the program stops. *state is updated after
// every message so the latest state survives a panic in update or view.
func (p *Program[S]) eventLoop(ctx context.Context, state *S) error {
	for !p.halt.Load() {
		if ctx.Err() != nil {
			return killed(ctx)
		}

		msg, ok := p.queue.Next(p.opts.pollInterval)
		if !ok {
			continue
		}

		render, stop, err := p.drain(state, msg)
		if stop {
			return err
		}
		if render {
			p.render(*state)
		}
	}

	p.logger.Debug("stop requested")
	return nil
}

// drain handles first and then the messages that were already queued when
// the turn began, so a burst costs one render. It reports whether to render
// and whether the program must stop.
func (p *Program[S]) drain(state *S, first event.Msg) (render, stop bool, err error) {
	pending := p.queue.Len()
	n := 1

	if stop, err = p.step(state, first); stop {
		p.metrics.recordBurst(n)
		return false, true, err
	}

	for ; pending > 0; pending-- {
		msg, ok := p.queue.TryNext()
		if !ok {
			break
		}
		n++
		if stop, err = p.step(state, msg); stop {
			p.metrics.recordBurst(n)
			return false, true, err
		}
	}

	p.metrics.recordBurst(n)
	return true, false, nil
}

// step handles one message. QuitMsg and fatal ErrorMsg values stop the
// program without reaching update.
func (p *Program[S]) step(state *S, msg event.Msg) (stop bool, err error) {
	p.metrics.recordMessage()

	switch m := msg.(type) {
	case event.QuitMsg:
		p.logger.Debug("quit requested")
		return true, nil

	case event.ErrorMsg:
		if !p.opts.recoverableFaults || !command.IsFault(m.Err) {
			if m.Err == nil {
				return true, ErrUnknownFault
			}
			return true, m.Err
		}
		p.logger.Warn("command fault delivered to update", zap.Error(m.Err))

	case event.WindowSizeMsg:
		p.renderer.Resize(m.Width, m.Height)
		p.metrics.recordResize()
	}

	next, cmd := p.model.Update(*state, msg)
	*state = next
	p.metrics.recordUpdate()
	p.exec.Execute(cmd)
	return false, nil
}

func (p *Program[S]) render(state S) {
	timer := StartTimer()
	p.renderer.Render(p.model.View(state))
	p.metrics.recordRender(timer.Elapsed())
}

// killed converts the loop context's cause into the Run error.
func killed(ctx context.Context) error {
	cause := context.Cause(ctx)
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrKilled, cause)
	}
	return cause
}
