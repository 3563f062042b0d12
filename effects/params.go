package effects

import (
	"errors"
	"fmt"

	"holo-engine/core"
	"holo-engine/math"
)

var (
	// ErrInvalidParams marks a setup error: a constant that is NaN or ±Inf.
	ErrInvalidParams = errors.New("invalid effect parameters")
	// ErrUnknownParam is returned when a parameter name is not in the table.
	ErrUnknownParam = errors.New("unknown effect parameter")
)

// HoloParams are the fixed constants of the holographic pass. Distances are
// in UV units (fractions of the image width).
type HoloParams struct {
	Intensity       float32 // master strength of displacement, chroma split, flicker and tint
	Distortion      float32 // peak horizontal displacement
	DistortionFreq  float32 // displacement bands per image height
	DistortionSpeed float32 // phase advance of the bands, radians per second
	ScanDensity     float32 // scan lines per image height, 0 disables them
	ScanStrength    float32 // darkening at the centre of a scan line
	ScanSpeed       float32 // scan lines scrolled per second
	Flicker         float32 // depth of the brightness flicker
	ChromaShift     float32 // red/blue split distance
	TintMix         float32 // blend towards the tinted luminance
	Tint            core.Color
}

// ParamSpec documents one entry of the configuration surface.
type ParamSpec struct {
	Name    string
	Min     float32
	Max     float32
	Default float32
	Doc     string

	field func(*HoloParams) *float32
}

// Step is the increment used by the debug panel.
func (s ParamSpec) Step() float32 {
	return (s.Max - s.Min) / 50
}

// Clamp limits v to the documented range.
func (s ParamSpec) Clamp(v float32) float32 {
	return math.Clamp(v, s.Min, s.Max)
}

var paramSpecs = []ParamSpec{
	{"intensity", 0, 1, 0.6, "master effect strength",
		func(p *HoloParams) *float32 { return &p.Intensity }},
	{"distortion", 0, 0.1, 0.012, "peak horizontal displacement (UV)",
		func(p *HoloParams) *float32 { return &p.Distortion }},
	{"distortion_freq", 0, 60, 12, "displacement bands per image height",
		func(p *HoloParams) *float32 { return &p.DistortionFreq }},
	{"distortion_speed", 0, 20, 3, "band phase speed (rad/s)",
		func(p *HoloParams) *float32 { return &p.DistortionSpeed }},
	{"scan_density", 0, 800, 180, "scan lines per image height",
		func(p *HoloParams) *float32 { return &p.ScanDensity }},
	{"scan_strength", 0, 1, 0.25, "scan line darkening",
		func(p *HoloParams) *float32 { return &p.ScanStrength }},
	{"scan_speed", -10, 10, 0.6, "scan lines scrolled per second",
		func(p *HoloParams) *float32 { return &p.ScanSpeed }},
	{"flicker", 0, 1, 0.15, "brightness flicker depth",
		func(p *HoloParams) *float32 { return &p.Flicker }},
	{"chroma_shift", 0, 0.05, 0.004, "red/blue split (UV)",
		func(p *HoloParams) *float32 { return &p.ChromaShift }},
	{"tint_mix", 0, 1, 0.35, "blend towards the tint colour",
		func(p *HoloParams) *float32 { return &p.TintMix }},
	{"tint_r", 0, 1, 0.3, "tint red",
		func(p *HoloParams) *float32 { return &p.Tint.R }},
	{"tint_g", 0, 1, 0.85, "tint green",
		func(p *HoloParams) *float32 { return &p.Tint.G }},
	{"tint_b", 0, 1, 1.0, "tint blue",
		func(p *HoloParams) *float32 { return &p.Tint.B }},
}

// ParamSpecs returns the parameter table in display order.
func ParamSpecs() []ParamSpec {
	out := make([]ParamSpec, len(paramSpecs))
	copy(out, paramSpecs)
	return out
}

// LookupSpec finds a parameter by name.
func LookupSpec(name string) (ParamSpec, bool) {
	for _, s := range paramSpecs {
		if s.Name == name {
			return s, true
		}
	}
	return ParamSpec{}, false
}

// DefaultHoloParams returns every parameter at its documented default.
func DefaultHoloParams() HoloParams {
	p := HoloParams{Tint: core.Color{A: 1}}
	for _, s := range paramSpecs {
		*s.field(&p) = s.Default
	}
	return p
}

// Validate rejects non-finite constants. Finite values outside the
// documented range are accepted as-is.
func (p HoloParams) Validate() error {
	for _, s := range paramSpecs {
		if !math.IsFinite(*s.field(&p)) {
			return fmt.Errorf("%s: %w", s.Name, ErrInvalidParams)
		}
	}
	return nil
}

// Get reads a parameter by name.
func (p HoloParams) Get(name string) (float32, error) {
	s, ok := LookupSpec(name)
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrUnknownParam)
	}
	return *s.field(&p), nil
}

// Set writes a parameter by name. The value is not validated here; callers
// go through Configure or Validate.
func (p *HoloParams) Set(name string, v float32) error {
	s, ok := LookupSpec(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownParam)
	}
	*s.field(p) = v
	return nil
}
