package math

// Vec4 carries an RGBA sample in floating point while a pass works on it.
type Vec4 struct {
	X, Y, Z, W float32
}

func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

func (v Vec4) Add(other Vec4) Vec4 {
	return Vec4{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z, W: v.W + other.W}
}

func (v Vec4) Sub(other Vec4) Vec4 {
	return Vec4{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z, W: v.W - other.W}
}

func (v Vec4) Mul(scalar float32) Vec4 {
	return Vec4{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar, W: v.W * scalar}
}

// Lerp mixes towards other by t, leaving v untouched when t is exactly 0.
func (v Vec4) Lerp(other Vec4, t float32) Vec4 {
	if t == 0 {
		return v
	}
	return v.Add(other.Sub(v).Mul(t))
}

// Luma returns the Rec. 709 luminance of the XYZ (RGB) components.
func (v Vec4) Luma() float32 {
	return v.X*0.2126 + v.Y*0.7152 + v.Z*0.0722
}
