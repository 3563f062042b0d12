package math

import "github.com/chewxy/math32"

// Vec2 is a screen-space coordinate, usually a UV in [0,1]².
type Vec2 struct {
	X, Y float32
}

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

func (v Vec2) Mul(scalar float32) Vec2 {
	return Vec2{X: v.X * scalar, Y: v.Y * scalar}
}

func (v Vec2) Dot(other Vec2) float32 {
	return v.X*other.X + v.Y*other.Y
}

func (v Vec2) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) Lerp(other Vec2, t float32) Vec2 {
	return v.Add(other.Sub(v).Mul(t))
}

// PixelToUV maps the centre of pixel (x, y) in a w×h target to UV space.
func PixelToUV(x, y, w, h int) Vec2 {
	return Vec2{
		X: (float32(x) + 0.5) / float32(w),
		Y: (float32(y) + 0.5) / float32(h),
	}
}
