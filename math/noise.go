package math

import "github.com/chewxy/math32"

// hash32 is a lowbias32 integer finaliser. The same constants are used by the
// GLSL version of the holographic pass.
func hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// NoisePeriod is the lattice period of Noise1 and Noise2 along every axis.
// Noise(x) and Noise(x+NoisePeriod) are equal, so a coordinate can be
// reduced modulo NoisePeriod without a visible seam.
const NoisePeriod = 1024

func lattice(n int32) int32 { return n & (NoisePeriod - 1) }

// Hash1 maps a lattice coordinate to [0,1].
func Hash1(n int32) float32 {
	return float32(hash32(uint32(n))) / 4294967295.0
}

// Hash2 maps a 2-D lattice coordinate to [0,1].
func Hash2(x, y int32) float32 {
	return float32(hash32(uint32(x)^hash32(uint32(y)))) / 4294967295.0
}

// Noise1 is smooth value noise: continuous in x with a zero derivative at
// lattice points, so an animated phase never jumps at integer boundaries.
func Noise1(x float32) float32 {
	i := math32.Floor(x)
	f := x - i
	u := f * f * (3 - 2*f)
	n := int32(i)
	return Mix(Hash1(lattice(n)), Hash1(lattice(n+1)), u)
}

// Noise2 is the 2-D counterpart of Noise1, bilinear over smoothed weights.
func Noise2(x, y float32) float32 {
	ix, iy := math32.Floor(x), math32.Floor(y)
	fx, fy := x-ix, y-iy
	ux := fx * fx * (3 - 2*fx)
	uy := fy * fy * (3 - 2*fy)
	x0, x1 := lattice(int32(ix)), lattice(int32(ix)+1)
	y0, y1 := lattice(int32(iy)), lattice(int32(iy)+1)
	a := Mix(Hash2(x0, y0), Hash2(x1, y0), ux)
	b := Mix(Hash2(x0, y1), Hash2(x1, y1), ux)
	return Mix(a, b, uy)
}
