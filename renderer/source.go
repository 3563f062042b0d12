package renderer

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	"golang.org/x/image/draw"

	"holo-engine/core"
)

// StaticSource serves the same scene every frame.
type StaticSource struct {
	img *image.RGBA
}

// NewStaticSource prepares img for presentation. When size is not empty the
// image is resampled to it once. A nil img yields a source that never has a
// scene.
func NewStaticSource(img image.Image, size core.Size) *StaticSource {
	if img == nil {
		return &StaticSource{}
	}
	b := img.Bounds()
	if size.Empty() || (b.Dx() == size.Width && b.Dy() == size.Height) {
		rgba := clone.AsRGBA(img)
		if rgba.Rect.Min != (image.Point{}) {
			rgba = &image.RGBA{
				Pix:    rgba.Pix,
				Stride: rgba.Stride,
				Rect:   image.Rect(0, 0, b.Dx(), b.Dy()),
			}
		}
		return &StaticSource{img: rgba}
	}
	dst := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return &StaticSource{img: dst}
}

// OpenStaticSource decodes an image file and wraps it in a StaticSource.
func OpenStaticSource(path string, size core.Size) (*StaticSource, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source %s: %w", path, err)
	}
	return NewStaticSource(img, size), nil
}

// Image returns the prepared scene, nil when there is none.
func (s *StaticSource) Image() *image.RGBA { return s.img }

func (s *StaticSource) Frame(int, float64) (image.Image, error) {
	if s.img == nil {
		return nil, nil
	}
	return s.img, nil
}

// ColorBarsSize is the colour-bar resolution used for dimensions the caller
// leaves at zero.
var ColorBarsSize = core.Size{Width: 640, Height: 360}

// ColorBars draws a colour-bar card with a 32 px grid, useful for judging the
// displacement and scan lines when no input image is given. A width or
// height <= 0 falls back to ColorBarsSize for that dimension only.
func ColorBars(size core.Size) *image.RGBA {
	if size.Width <= 0 {
		size.Width = ColorBarsSize.Width
	}
	if size.Height <= 0 {
		size.Height = ColorBarsSize.Height
	}
	bars := []core.Color{
		core.ColorWhite,
		{R: 1, G: 1, B: 0, A: 1},
		{R: 0, G: 1, B: 1, A: 1},
		{R: 0, G: 1, B: 0, A: 1},
		{R: 1, G: 0, B: 1, A: 1},
		{R: 1, G: 0, B: 0, A: 1},
		{R: 0, G: 0, B: 1, A: 1},
	}
	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			c := bars[x*len(bars)/size.Width]
			if x%32 == 0 || y%32 == 0 {
				c = core.ColorBlack
			}
			img.SetRGBA(x, y, c.RGBA())
		}
	}
	return img
}
