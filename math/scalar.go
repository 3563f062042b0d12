package math

import "github.com/chewxy/math32"

// Shader-style scalar helpers, named after their GLSL counterparts so the CPU
// pass reads like the fragment program it mirrors.

const TwoPi = 2 * math32.Pi

func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func Saturate(x float32) float32 {
	return Clamp(x, 0, 1)
}

func Fract(x float32) float32 {
	return x - math32.Floor(x)
}

func Mix(a, b, t float32) float32 {
	return a + (b-a)*t
}

// SmoothStep is Hermite interpolation between edge0 and edge1.
func SmoothStep(edge0, edge1, x float32) float32 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := Saturate((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}
