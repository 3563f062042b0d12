package core

import (
	"image/color"

	"holo-engine/math"
)

// Color is a linear RGBA colour with components in [0,1].
type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	// ColorHologram is the default cyan tint of the holographic pass.
	ColorHologram = Color{0.3, 0.85, 1.0, 1}
)

// ToVec4 returns the colour scaled to 8-bit channel units (0..255), the
// working space of the CPU passes.
func (c Color) ToVec4() math.Vec4 {
	return math.Vec4{X: c.R * 255, Y: c.G * 255, Z: c.B * 255, W: c.A * 255}
}

// RGBA converts to an 8-bit colour, clamping out-of-range components.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: toByte(c.R * 255),
		G: toByte(c.G * 255),
		B: toByte(c.B * 255),
		A: toByte(c.A * 255),
	}
}

// ColorFromRGBA converts an 8-bit colour into linear components.
func ColorFromRGBA(c color.RGBA) Color {
	return Color{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}

// Vec4ToRGBA rounds a sample in 0..255 channel units back to bytes.
func Vec4ToRGBA(v math.Vec4) color.RGBA {
	return color.RGBA{R: toByte(v.X), G: toByte(v.Y), B: toByte(v.Z), A: toByte(v.W)}
}

func toByte(v float32) uint8 {
	v = math.Clamp(v, 0, 255)
	return uint8(v + 0.5)
}

// Size is a render target resolution in pixels.
type Size struct {
	Width, Height int
}

func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}
