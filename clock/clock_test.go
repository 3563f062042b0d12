package clock

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWallStartsAtZeroAndIsMonotonic(t *testing.T) {
	base := time.Unix(1000, 0)
	now := base
	w := &Wall{now: func() time.Time { return now }}
	w.start = w.now()

	assert.Equal(t, 0.0, w.Elapsed())

	now = base.Add(1500 * time.Millisecond)
	assert.Equal(t, 1.5, w.Elapsed())

	// A clock source that steps backwards must not make Elapsed decrease.
	now = base.Add(time.Second)
	assert.Equal(t, 1.5, w.Elapsed())

	w.Restart()
	assert.Equal(t, 0.0, w.Elapsed())
}

func TestWallRealTime(t *testing.T) {
	w := NewWall()
	a := w.Elapsed()
	b := w.Elapsed()
	assert.GreaterOrEqual(t, a, 0.0)
	assert.GreaterOrEqual(t, b, a)
}

func TestSteppedClock(t *testing.T) {
	s, err := NewStepped(4)
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		assert.Equal(t, float64(i)/4, s.Elapsed())
	}
	assert.Equal(t, int64(8), s.Frame())
	assert.Equal(t, 4.0, s.FPS())
}

func TestSteppedRejectsBadRate(t *testing.T) {
	for _, fps := range []float64{0, -30, math.NaN()} {
		_, err := NewStepped(fps)
		assert.True(t, errors.Is(err, ErrInvalidRate), "fps %v", fps)
	}
}

func TestSteppedFramesFor(t *testing.T) {
	s, err := NewStepped(30)
	require.NoError(t, err)

	tests := []struct {
		name     string
		duration float64
		want     int
	}{
		{"whole seconds", 5, 150},
		{"fraction rounds up", 0.05, 2},
		{"inexact product", 0.1, 3},
		{"shorter than a frame", 1e-12, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.FramesFor(tt.duration)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, d := range []float64{0, -1, math.NaN(), math.Inf(1), 1e12} {
		_, err := s.FramesFor(d)
		assert.ErrorIs(t, err, ErrInvalidDuration, "duration %v", d)
	}
}

func TestManualIgnoresRewind(t *testing.T) {
	m := NewManual()
	assert.Equal(t, 0.0, m.Elapsed())

	m.Set(2)
	m.Set(1)
	assert.Equal(t, 2.0, m.Elapsed())

	m.Advance(0.5)
	m.Advance(-3)
	assert.Equal(t, 2.5, m.Elapsed())
}
