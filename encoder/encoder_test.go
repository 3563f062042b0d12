package encoder

import (
	"image"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holo-engine/renderer"
)

func TestArgs(t *testing.T) {
	o := Options{Output: "out.mp4", Width: 320, Height: 180, FPS: 29.97}
	in := InputArgs(o)
	assert.Equal(t, "rawvideo", in["f"])
	assert.Equal(t, "rgba", in["pix_fmt"])
	assert.Equal(t, "320x180", in["s"])
	assert.Equal(t, "29.97", in["r"])

	assert.Equal(t, "libx264", OutputArgs(o)["c:v"])
	o.Codec = "hevc"
	assert.Equal(t, "libx265", OutputArgs(o)["c:v"])
	assert.Equal(t, "yuv420p", OutputArgs(o)["pix_fmt"])
	assert.NotContains(t, OutputArgs(o), "vf")
}

func TestOutputArgsEvenSize(t *testing.T) {
	for _, size := range [][2]int{{321, 180}, {320, 181}, {3, 3}} {
		o := Options{Output: "out.mp4", Width: size[0], Height: size[1], FPS: 30}
		assert.Equal(t, "scale=trunc(iw/2)*2:trunc(ih/2)*2", OutputArgs(o)["vf"], "size %v", size)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		ok   bool
	}{
		{"valid", Options{Output: "a.mp4", Width: 2, Height: 2, FPS: 30}, true},
		{"no output", Options{Width: 2, Height: 2, FPS: 30}, false},
		{"zero width", Options{Output: "a.mp4", Height: 2, FPS: 30}, false},
		{"single pixel row", Options{Output: "a.mp4", Width: 4, Height: 1, FPS: 30}, false},
		{"zero fps", Options{Output: "a.mp4", Width: 2, Height: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestPresentWritesRawFrames(t *testing.T) {
	pr, pw := io.Pipe()
	s := &VideoSink{opts: Options{Width: 2, Height: 2, FPS: 1, Output: "x"}, pw: pw}

	got := make(chan []byte, 1)
	go func() {
		b, _ := io.ReadAll(pr)
		got <- b
	}()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	require.NoError(t, s.Present(renderer.Frame{Image: img}))

	// non-contiguous rows
	sub := image.NewRGBA(image.Rect(0, 0, 4, 2)).SubImage(image.Rect(1, 0, 3, 2)).(*image.RGBA)
	require.NoError(t, s.Present(renderer.Frame{Index: 1, Image: sub}))

	err := s.Present(renderer.Frame{Index: 2, Image: image.NewRGBA(image.Rect(0, 0, 3, 2))})
	assert.ErrorIs(t, err, ErrFrameSize)

	require.NoError(t, s.Close())
	err = s.Present(renderer.Frame{Index: 3, Image: img})
	assert.ErrorIs(t, err, ErrClosed)
	require.NoError(t, s.Close())

	b := <-got
	require.Len(t, b, 32)
	assert.Equal(t, img.Pix, b[:16])
	assert.Equal(t, 2, s.Frames())
}

func TestNewVideoSinkValidates(t *testing.T) {
	_, err := NewVideoSink(Options{})
	assert.Error(t, err)
}
