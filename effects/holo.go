package effects

import (
	"fmt"
	"image"
	stdmath "math"

	"github.com/chewxy/math32"

	"holo-engine/core"
	"holo-engine/math"
)

// HoloPass is the holographic distortion pass. Its output is a pure function
// of (input, time, params); it keeps no per-frame history.
//
// Per pixel the input row is sampled at a horizontally displaced position.
// The displacement is a sine band whose phase advances with time, blended
// with smooth value noise. Red and blue are sampled with an extra split.
// Scan lines scroll vertically, a low-frequency noise flicker dims the whole
// frame, and the result is mixed towards a tinted luminance.
type HoloPass struct {
	params HoloParams
	time   float64
}

// NewHoloPass validates params and returns a pass at time 0.
func NewHoloPass(params HoloParams) (*HoloPass, error) {
	hp := &HoloPass{}
	if err := hp.Configure(params); err != nil {
		return nil, err
	}
	return hp, nil
}

func (hp *HoloPass) Name() string { return "holographic" }

// Configure replaces the effect constants. Non-finite values are rejected and
// the previous constants are kept.
func (hp *HoloPass) Configure(params HoloParams) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("holo: %w", err)
	}
	hp.params = params
	return nil
}

func (hp *HoloPass) Params() HoloParams { return hp.params }

// SetTime sets the animation time in seconds. Time only moves forward; an
// earlier value than the current one is ignored.
func (hp *HoloPass) SetTime(t float64) {
	if t > hp.time {
		hp.time = t
	}
}

func (hp *HoloPass) Time() float64 { return hp.time }

// Reset returns the pass to its cold-start phase.
func (hp *HoloPass) Reset() { hp.time = 0 }

// Apply renders the effect over src into a new buffer of the same size.
func (hp *HoloPass) Apply(src image.Image) (*image.RGBA, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	in := asRGBA(src)
	b := in.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	p := hp.params
	ph := timePhases(p, hp.time)
	tint := p.Tint.ToVec4()
	shift := p.Intensity * p.ChromaShift * float32(w)
	flicker := p.Intensity * p.Flicker * math.Noise1(ph.flicker)
	bright := 1 - flicker
	tintMix := p.Intensity * p.TintMix

	for y := 0; y < h; y++ {
		v := (float32(y) + 0.5) / float32(h)
		dx := hp.displacement(v, ph) * float32(w)
		scan := hp.scanline(v, ph)
		row := rowSampler{img: in, y: b.Min.Y + y, minX: b.Min.X, w: w}

		for x := 0; x < w; x++ {
			sx := float32(x) + dx
			c := row.at(sx)
			if shift != 0 {
				c.X = row.at(sx + shift).X
				c.Z = row.at(sx - shift).Z
			}

			k := bright * (1 - scan)
			c.X *= k
			c.Y *= k
			c.Z *= k

			if tintMix != 0 {
				l := c.Luma() / 255
				holo := math.Vec4{X: tint.X * l, Y: tint.Y * l, Z: tint.Z * l, W: c.W}
				c = c.Lerp(holo, tintMix)
			}
			out.SetRGBA(x, y, core.Vec4ToRGBA(c))
		}
	}
	return out, nil
}

// displacement returns the horizontal offset, in UV units, of row v.
func (hp *HoloPass) displacement(v float32, ph holoPhases) float32 {
	p := hp.params
	amp := p.Intensity * p.Distortion
	if amp == 0 {
		return 0
	}
	band := math32.Sin(v*p.DistortionFreq*math.TwoPi + ph.band)
	glitch := 2*math.Noise2(v*p.DistortionFreq*0.5, ph.glitch) - 1
	return amp * (0.6*band + 0.4*glitch)
}

// scanline returns the darkening in [0, ScanStrength] of row v.
func (hp *HoloPass) scanline(v float32, ph holoPhases) float32 {
	p := hp.params
	if p.ScanDensity == 0 || p.ScanStrength == 0 {
		return 0
	}
	phase := v*p.ScanDensity - ph.scan
	return p.ScanStrength * (0.5 - 0.5*math32.Cos(math.TwoPi*phase))
}

// holoPhases are the time-dependent terms of the effect. Each one is reduced
// to its period in float64 before narrowing to float32, so they keep full
// precision however long the clock has been running.
type holoPhases struct {
	band    float32 // sine band phase, radians in [0, 2π)
	glitch  float32 // glitch noise coordinate in [0, NoisePeriod)
	scan    float32 // scan line scroll in cycles, [0, 1)
	flicker float32 // flicker noise coordinate in [0, NoisePeriod)
}

func timePhases(p HoloParams, t float64) holoPhases {
	speed := float64(p.DistortionSpeed)
	return holoPhases{
		band:    float32(stdmath.Mod(t*speed, 2*stdmath.Pi)),
		glitch:  float32(stdmath.Mod(t*speed*0.5, math.NoisePeriod)),
		scan:    float32(stdmath.Mod(t*float64(p.ScanSpeed), 1)),
		flicker: float32(stdmath.Mod(t*8, math.NoisePeriod)),
	}
}

// rowSampler linearly filters one row of an RGBA image with clamp-to-edge
// addressing. Samples are in 0..255 channel units.
type rowSampler struct {
	img  *image.RGBA
	y    int
	minX int
	w    int
}

func (r rowSampler) texel(x int) math.Vec4 {
	if x < 0 {
		x = 0
	} else if x >= r.w {
		x = r.w - 1
	}
	i := r.img.PixOffset(r.minX+x, r.y)
	px := r.img.Pix[i : i+4 : i+4]
	return math.Vec4{X: float32(px[0]), Y: float32(px[1]), Z: float32(px[2]), W: float32(px[3])}
}

func (r rowSampler) at(sx float32) math.Vec4 {
	x0 := math32.Floor(sx)
	f := sx - x0
	i := int(x0)
	c := r.texel(i)
	if f == 0 {
		return c
	}
	return c.Lerp(r.texel(i+1), f)
}
