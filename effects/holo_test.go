package effects

import (
	"errors"
	"image"
	"image/color"
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// gradient has structure in both axes so displacement is visible.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x * 255 / (w - 1)),
				G: uint8(y * 255 / (h - 1)),
				B: uint8((x + y) * 127 / (w + h - 2)),
				A: 255,
			})
		}
	}
	return img
}

func newPass(t *testing.T, p HoloParams) *HoloPass {
	t.Helper()
	hp, err := NewHoloPass(p)
	require.NoError(t, err)
	return hp
}

func maxDiff(a, b *image.RGBA) int {
	m := 0
	for i := range a.Pix {
		d := int(a.Pix[i]) - int(b.Pix[i])
		if d < 0 {
			d = -d
		}
		if d > m {
			m = d
		}
	}
	return m
}

func TestApplyIsDeterministic(t *testing.T) {
	hp := newPass(t, DefaultHoloParams())
	src := gradient(32, 24)

	for _, tm := range []float64{0, 0.5, 3.25, 117.9} {
		hp.Reset()
		hp.SetTime(tm)
		a, err := hp.Apply(src)
		require.NoError(t, err)
		b, err := hp.Apply(src)
		require.NoError(t, err)
		assert.Equal(t, a.Pix, b.Pix, "time %v", tm)
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	hp := newPass(t, DefaultHoloParams())
	hp.SetTime(2)
	src := gradient(16, 16)
	before := append([]uint8(nil), src.Pix...)

	_, err := hp.Apply(src)
	require.NoError(t, err)
	assert.Equal(t, before, src.Pix)
}

func TestApplyPreservesDimensions(t *testing.T) {
	hp := newPass(t, DefaultHoloParams())
	hp.SetTime(1.7)
	sizes := []image.Rectangle{
		image.Rect(0, 0, 1, 1),
		image.Rect(0, 0, 7, 3),
		image.Rect(0, 0, 64, 1),
		image.Rect(10, 20, 42, 37), // non-zero origin
	}
	for _, r := range sizes {
		src := image.NewRGBA(r)
		out, err := hp.Apply(src)
		require.NoError(t, err)
		assert.Equal(t, r.Dx(), out.Bounds().Dx())
		assert.Equal(t, r.Dy(), out.Bounds().Dy())
	}
}

func TestApplyAcceptsNonRGBA(t *testing.T) {
	hp := newPass(t, HoloParams{})
	src := image.NewGray(image.Rect(0, 0, 4, 2))
	for i := range src.Pix {
		src.Pix[i] = 90
	}
	out, err := hp.Apply(src)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{90, 90, 90, 255}, out.RGBAAt(3, 1))
}

func TestApplyIsContinuousInTime(t *testing.T) {
	hp := newPass(t, DefaultHoloParams())
	src := gradient(48, 32)

	// Straddle integer-second boundaries, where lattice noise changes cell.
	for _, center := range []float64{0.5, 1, 2, 10} {
		for _, eps := range []float64{1e-3, 1e-4} {
			a := newPass(t, hp.Params())
			a.SetTime(center - eps/2)
			outA, err := a.Apply(src)
			require.NoError(t, err)

			b := newPass(t, hp.Params())
			b.SetTime(center + eps/2)
			outB, err := b.Apply(src)
			require.NoError(t, err)

			// 8-bit quantisation allows a one-level flip; anything larger is a jump.
			assert.LessOrEqual(t, maxDiff(outA, outB), 2, "t=%v eps=%v", center, eps)
		}
	}
}

func TestApplyStaysContinuousAfterLongRuns(t *testing.T) {
	src := gradient(64, 48)
	render := func(at float64) *image.RGBA {
		hp := newPass(t, DefaultHoloParams())
		hp.SetTime(at)
		out, err := hp.Apply(src)
		require.NoError(t, err)
		return out
	}
	// 1e6 s is about 12 days of uptime, 1e7 s about 4 months.
	for _, start := range []float64{1e6, 1e7} {
		base := render(start)
		assert.LessOrEqual(t, maxDiff(base, render(start+1e-3)), 2, "t=%v", start)
		assert.Greater(t, maxDiff(base, render(start+0.05)), 0, "frozen at t=%v", start)
	}
}

func TestTimePhasesKeepPrecision(t *testing.T) {
	p := DefaultHoloParams()
	p.ScanSpeed = -0.6
	// wrapped returns b-a reduced into [-period/2, period/2).
	wrapped := func(a, b float32, period float64) float64 {
		d := float64(b - a)
		return d - period*stdmath.Round(d/period)
	}
	const eps = 0.05
	for _, start := range []float64{0, 1e6, 1e7, 1e9} {
		a, b := timePhases(p, start), timePhases(p, start+eps)
		speed := float64(p.DistortionSpeed)
		assert.InDelta(t, eps*speed, wrapped(a.band, b.band, 2*stdmath.Pi), 1e-3, "band t=%v", start)
		assert.InDelta(t, eps*speed*0.5, wrapped(a.glitch, b.glitch, 1024), 1e-3, "glitch t=%v", start)
		assert.InDelta(t, eps*float64(p.ScanSpeed), wrapped(a.scan, b.scan, 1), 1e-3, "scan t=%v", start)
		assert.InDelta(t, eps*8, wrapped(a.flicker, b.flicker, 1024), 1e-3, "flicker t=%v", start)

		assert.GreaterOrEqual(t, a.scan, float32(-1))
		assert.Less(t, a.flicker, float32(1024))
	}
}

func TestHoloUniformsCarryWrappedPhases(t *testing.T) {
	byName := map[string][]float32{}
	for _, u := range HoloUniforms(DefaultHoloParams(), 1e7, 64, 48) {
		byName[u.Name] = u.Values
	}
	ph := timePhases(DefaultHoloParams(), 1e7)
	assert.Equal(t, []float32{ph.band}, byName["uBandPhase"])
	assert.Equal(t, []float32{ph.flicker}, byName["uFlickerPhase"])
	assert.Less(t, byName["uBandPhase"][0], float32(7))
}

func TestApplyAnimates(t *testing.T) {
	hp := newPass(t, DefaultHoloParams())
	src := gradient(48, 32)

	first, err := hp.Apply(src)
	require.NoError(t, err)
	hp.SetTime(0.75)
	second, err := hp.Apply(src)
	require.NoError(t, err)
	assert.Greater(t, maxDiff(first, second), 2)
}

func TestColdStartIsReproducible(t *testing.T) {
	src := gradient(20, 20)
	render := func() []uint8 {
		hp := newPass(t, DefaultHoloParams())
		hp.SetTime(0)
		out, err := hp.Apply(src)
		require.NoError(t, err)
		return out.Pix
	}
	assert.Equal(t, render(), render())

	// A pass that has run for a while and is reset matches a fresh one.
	hp := newPass(t, DefaultHoloParams())
	hp.SetTime(42)
	hp.Reset()
	out, err := hp.Apply(src)
	require.NoError(t, err)
	assert.Equal(t, render(), out.Pix)
}

func TestConfigureRejectsNonFinite(t *testing.T) {
	tests := []struct {
		name  string
		param string
		value float32
	}{
		{"nan intensity", "intensity", float32(stdmath.NaN())},
		{"inf scan density", "scan_density", float32(stdmath.Inf(1))},
		{"-inf tint", "tint_g", float32(stdmath.Inf(-1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultHoloParams()
			require.NoError(t, p.Set(tt.param, tt.value))

			_, err := NewHoloPass(p)
			assert.True(t, errors.Is(err, ErrInvalidParams))
			assert.Contains(t, err.Error(), tt.param)

			hp := newPass(t, DefaultHoloParams())
			err = hp.Configure(p)
			assert.True(t, errors.Is(err, ErrInvalidParams))
			assert.Equal(t, DefaultHoloParams(), hp.Params(), "previous constants kept")
		})
	}
}

func TestConfigureAcceptsOutOfRange(t *testing.T) {
	p := DefaultHoloParams()
	p.Intensity = 7
	p.ScanSpeed = -400
	hp := newPass(t, p)
	hp.SetTime(3)
	_, err := hp.Apply(gradient(8, 8))
	assert.NoError(t, err)
}

func TestApplyRejectsEmptyImage(t *testing.T) {
	hp := newPass(t, DefaultHoloParams())
	for _, src := range []image.Image{
		nil,
		image.NewRGBA(image.Rect(0, 0, 0, 0)),
		image.NewRGBA(image.Rect(0, 0, 5, 0)),
	} {
		out, err := hp.Apply(src)
		assert.Nil(t, out)
		assert.True(t, errors.Is(err, ErrEmptyImage))
	}
}

func TestDisabledEffectIsIdentity(t *testing.T) {
	gray := color.RGBA{128, 128, 128, 255}

	zeroed := DefaultHoloParams()
	zeroed.Intensity = 0
	zeroed.ScanDensity = 0

	for name, p := range map[string]HoloParams{
		"all zero":              {},
		"intensity+scan zeroed": zeroed,
	} {
		t.Run(name, func(t *testing.T) {
			hp := newPass(t, p)
			for _, tm := range []float64{0, 0.3, 1, 12345.678} {
				hp.SetTime(tm)

				src := solid(4, 4, gray)
				out, err := hp.Apply(src)
				require.NoError(t, err)
				assert.Equal(t, src.Pix, out.Pix, "solid gray at t=%v", tm)

				grad := gradient(9, 5)
				out, err = hp.Apply(grad)
				require.NoError(t, err)
				assert.Equal(t, grad.Pix, out.Pix, "gradient at t=%v", tm)
			}
		})
	}
}

func TestSetTimeNeverRewinds(t *testing.T) {
	hp := newPass(t, DefaultHoloParams())
	hp.SetTime(5)
	hp.SetTime(4)
	assert.Equal(t, 5.0, hp.Time())
	hp.SetTime(5.5)
	assert.Equal(t, 5.5, hp.Time())
}

func TestHoloUniformsCoverShader(t *testing.T) {
	for _, u := range HoloUniforms(DefaultHoloParams(), 1.5, 640, 480) {
		assert.Contains(t, HoloFragmentSource, " "+u.Name+";")
		assert.NotEmpty(t, u.Values)
	}
}

func BenchmarkHoloApply(b *testing.B) {
	hp, _ := NewHoloPass(DefaultHoloParams())
	src := gradient(256, 256)
	for i := 0; i < b.N; i++ {
		hp.SetTime(float64(i) / 60)
		_, _ = hp.Apply(src)
	}
}
