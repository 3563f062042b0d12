package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"holo-engine/clock"
	"holo-engine/effects"
)

// Frame is one presented output image.
type Frame struct {
	Index int
	Time  float64
	Image *image.RGBA
}

// Source produces the composited scene for a frame. A nil image with a nil
// error means there is nothing to draw yet and the frame is skipped.
type Source interface {
	Frame(index int, t float64) (image.Image, error)
}

// Sink receives finished frames.
type Sink interface {
	Present(Frame) error
}

// FuncSink adapts a function to Sink.
type FuncSink func(Frame) error

func (f FuncSink) Present(fr Frame) error { return f(fr) }

// Configurable accepts live parameter updates, e.g. an *effects.HoloPass.
type Configurable interface {
	Configure(effects.HoloParams) error
}

// Loop is the host render loop. Per frame it drains pending parameter
// updates, polls the clock once, forwards the time to the chain, pulls the
// scene from Source, applies the chain and hands the result to Sink.
type Loop struct {
	Clock  clock.Clock
	Chain  *effects.Chain
	Source Source
	Sink   Sink

	// Updates, when set, carries parameter sets for Target. Each one is
	// applied at the start of the next frame.
	Updates <-chan effects.HoloParams
	Target  Configurable

	tick      int
	presented int
}

func NewLoop(clk clock.Clock, chain *effects.Chain, src Source, sink Sink) (*Loop, error) {
	switch {
	case clk == nil:
		return nil, errors.New("loop: nil clock")
	case chain == nil:
		return nil, errors.New("loop: nil chain")
	case src == nil:
		return nil, errors.New("loop: nil source")
	case sink == nil:
		return nil, errors.New("loop: nil sink")
	}
	return &Loop{Clock: clk, Chain: chain, Source: src, Sink: sink}, nil
}

// Presented returns the number of frames handed to the sink so far.
func (l *Loop) Presented() int { return l.presented }

// Step runs one frame. It reports whether a frame reached the sink.
func (l *Loop) Step(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.drainUpdates()

	t := l.Clock.Elapsed()
	idx := l.tick
	l.tick++
	l.Chain.SetTime(t)

	scene, err := l.Source.Frame(idx, t)
	if err != nil {
		return false, fmt.Errorf("source frame %d: %w", idx, err)
	}
	if scene == nil {
		slog.Debug("no scene yet, skipping frame", "frame", idx, "time", t)
		return false, nil
	}

	out, err := l.Chain.Apply(scene)
	if err != nil {
		return false, fmt.Errorf("frame %d: %w", idx, err)
	}
	if err := l.Sink.Present(Frame{Index: l.presented, Time: t, Image: out}); err != nil {
		return false, fmt.Errorf("present frame %d: %w", l.presented, err)
	}
	l.presented++
	return true, nil
}

// Run steps until ctx is done or frames frames were presented. frames <= 0
// runs until ctx is done. Cancellation is not an error.
func (l *Loop) Run(ctx context.Context, frames int) error {
	start := l.presented
	for frames <= 0 || l.presented-start < frames {
		if ctx.Err() != nil {
			return nil
		}
		if _, err := l.Step(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
	slog.Info("loop finished", "frames", l.presented-start)
	return nil
}

func (l *Loop) drainUpdates() {
	if l.Updates == nil {
		return
	}
	for {
		select {
		case p, ok := <-l.Updates:
			if !ok {
				l.Updates = nil
				return
			}
			l.apply(p)
		default:
			return
		}
	}
}

func (l *Loop) apply(p effects.HoloParams) {
	if l.Target == nil {
		slog.Warn("parameter update without target dropped")
		return
	}
	if err := l.Target.Configure(p); err != nil {
		slog.Warn("parameter update rejected", "err", err)
		return
	}
	slog.Info("parameters updated")
}
