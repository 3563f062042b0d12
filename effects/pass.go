// Package effects implements full-screen image passes applied to an already
// composited frame, most notably the time-animated holographic pass.
package effects

import (
	"errors"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"
)

// ErrEmptyImage is returned when a pass is handed a zero-sized buffer.
var ErrEmptyImage = errors.New("empty input image")

// Pass is one stage of an ordered chain of image transforms. Apply must not
// modify src and must return a buffer of the same dimensions.
type Pass interface {
	Name() string
	Apply(src image.Image) (*image.RGBA, error)
}

// TimedPass is a Pass animated by the frame clock.
type TimedPass interface {
	Pass
	SetTime(t float64)
}

// Chain applies its passes in order, feeding each pass the previous output.
type Chain struct {
	passes []Pass
}

func NewChain(passes ...Pass) *Chain {
	c := &Chain{}
	for _, p := range passes {
		c.Append(p)
	}
	return c
}

func (c *Chain) Append(p Pass) {
	if p != nil {
		c.passes = append(c.passes, p)
	}
}

func (c *Chain) Len() int { return len(c.passes) }

// Passes returns the passes in application order.
func (c *Chain) Passes() []Pass {
	out := make([]Pass, len(c.passes))
	copy(out, c.passes)
	return out
}

// SetTime forwards t to every time-driven pass.
func (c *Chain) SetTime(t float64) {
	for _, p := range c.passes {
		if tp, ok := p.(TimedPass); ok {
			tp.SetTime(t)
		}
	}
}

// Apply runs the chain. An empty chain returns an RGBA copy of src.
func (c *Chain) Apply(src image.Image) (*image.RGBA, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if len(c.passes) == 0 {
		return toOrigin(clone.AsRGBA(src)), nil
	}
	var cur image.Image = src
	var out *image.RGBA
	for i, p := range c.passes {
		var err error
		out, err = p.Apply(cur)
		if err != nil {
			return nil, fmt.Errorf("pass %d (%s): %w", i, p.Name(), err)
		}
		cur = out
	}
	return out, nil
}

// asRGBA returns src as an *image.RGBA without copying when it already is one.
func asRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	return clone.AsRGBA(src)
}

// toOrigin rebases img so that its bounds start at (0,0).
func toOrigin(img *image.RGBA) *image.RGBA {
	if img.Rect.Min == (image.Point{}) {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		i := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+4*b.Dx()], img.Pix[i:i+4*b.Dx()])
	}
	return out
}
