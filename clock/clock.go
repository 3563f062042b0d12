// Package clock provides the frame clocks that feed elapsed time into
// time-driven passes. A clock is polled once per rendered frame.
package clock

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidRate is returned when a stepped clock is built with a
// non-positive frame rate.
var ErrInvalidRate = errors.New("clock: frame rate must be positive")

// ErrInvalidDuration is returned when a render length is not a positive,
// finite number of seconds.
var ErrInvalidDuration = errors.New("clock: duration must be positive")

// Clock reports seconds elapsed since construction. Successive calls never
// return a smaller value than a previous call.
type Clock interface {
	Elapsed() float64
}

// Wall measures real elapsed time on the monotonic clock.
type Wall struct {
	start time.Time
	now   func() time.Time
	last  float64
}

func NewWall() *Wall {
	w := &Wall{now: time.Now}
	w.start = w.now()
	return w
}

func (w *Wall) Elapsed() float64 {
	e := w.now().Sub(w.start).Seconds()
	if e < w.last {
		e = w.last
	}
	w.last = e
	return e
}

// Restart rebases the clock so the next Elapsed starts from 0 again.
func (w *Wall) Restart() {
	w.start = w.now()
	w.last = 0
}

// Stepped advances by exactly one frame per Elapsed call. Offline renders use
// it so that frame N always sees time N/fps, independent of how long the
// frame took to produce.
type Stepped struct {
	fps   float64
	frame int64
}

func NewStepped(fps float64) (*Stepped, error) {
	if !(fps > 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRate, fps)
	}
	return &Stepped{fps: fps}, nil
}

func (s *Stepped) Elapsed() float64 {
	t := float64(s.frame) / s.fps
	s.frame++
	return t
}

// Frame is the index of the next frame Elapsed will report.
func (s *Stepped) Frame() int64 { return s.frame }

func (s *Stepped) FPS() float64 { return s.fps }

// FramesFor returns how many frames cover duration seconds, at least one.
func (s *Stepped) FramesFor(duration float64) (int, error) {
	if !(duration > 0) || math.IsInf(duration, 1) {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidDuration, duration)
	}
	n := math.Ceil(duration*s.fps - 1e-9)
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %v s at %v fps is too long", ErrInvalidDuration, duration, s.fps)
	}
	return max(int(n), 1), nil
}

// Manual is driven explicitly by its owner.
type Manual struct {
	t float64
}

func NewManual() *Manual { return &Manual{} }

func (m *Manual) Elapsed() float64 { return m.t }

// Set moves the clock to t. Values earlier than the current time are ignored.
func (m *Manual) Set(t float64) {
	if t > m.t {
		m.t = t
	}
}

// Advance moves the clock forward by dt seconds; negative dt is ignored.
func (m *Manual) Advance(dt float64) {
	if dt > 0 {
		m.t += dt
	}
}
