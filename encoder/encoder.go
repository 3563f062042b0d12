// Package encoder pipes rendered frames into an ffmpeg process as raw RGBA
// video.
package encoder

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"holo-engine/renderer"
)

var (
	ErrFrameSize = errors.New("frame size does not match encoder")
	ErrClosed    = errors.New("encoder closed")
)

// Options describes the output video.
type Options struct {
	Output     string
	Width      int
	Height     int
	FPS        float64
	Codec      string // h264 (default) or hevc
	FFmpegPath string
}

func (o Options) Validate() error {
	switch {
	case o.Output == "":
		return errors.New("encoder: no output file")
	case o.Width < 2 || o.Height < 2:
		return fmt.Errorf("encoder: invalid size %dx%d", o.Width, o.Height)
	case !(o.FPS > 0):
		return fmt.Errorf("encoder: invalid fps %v", o.FPS)
	}
	return nil
}

// InputArgs describes the raw frames written to ffmpeg's stdin.
func InputArgs(o Options) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", o.Width, o.Height),
		"r":       strconv.FormatFloat(o.FPS, 'f', -1, 64),
	}
}

// OutputArgs selects a software encoder for the requested codec. yuv420p
// needs even dimensions, so odd sizes are scaled down to the nearest even
// size.
func OutputArgs(o Options) ffmpeg.KwArgs {
	args := ffmpeg.KwArgs{"pix_fmt": "yuv420p"}
	if o.Width%2 != 0 || o.Height%2 != 0 {
		args["vf"] = "scale=trunc(iw/2)*2:trunc(ih/2)*2"
	}
	switch o.Codec {
	case "hevc", "h265":
		args["c:v"] = "libx265"
	default:
		args["c:v"] = "libx264"
	}
	return args
}

// VideoSink is a renderer.Sink that encodes every presented frame.
type VideoSink struct {
	opts   Options
	pw     *io.PipeWriter
	errc   chan error
	frames int
}

// NewVideoSink starts ffmpeg reading from a pipe.
func NewVideoSink(opts Options) (*VideoSink, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	pr, pw := io.Pipe()
	cmd := ffmpeg.Input("pipe:", InputArgs(opts)).
		Output(opts.Output, OutputArgs(opts)).
		OverWriteOutput().WithInput(pr).ErrorToStdOut()
	if opts.FFmpegPath != "" {
		cmd = cmd.SetFfmpegPath(opts.FFmpegPath)
	}

	s := &VideoSink{opts: opts, pw: pw, errc: make(chan error, 1)}
	go func() {
		err := cmd.Run()
		// unblock Present if ffmpeg died early
		pr.CloseWithError(errors.Join(io.ErrClosedPipe, err))
		s.errc <- err
	}()
	slog.Info("encoder started", "output", opts.Output, "size",
		fmt.Sprintf("%dx%d", opts.Width, opts.Height), "fps", opts.FPS)
	return s, nil
}

func (s *VideoSink) Present(f renderer.Frame) error {
	if s.pw == nil {
		return fmt.Errorf("encoder: frame %d: %w", f.Index, ErrClosed)
	}
	if f.Image == nil {
		return fmt.Errorf("encoder: frame %d: no image", f.Index)
	}
	b := f.Image.Bounds()
	if b.Dx() != s.opts.Width || b.Dy() != s.opts.Height {
		return fmt.Errorf("encoder: frame %d is %dx%d, want %dx%d: %w",
			f.Index, b.Dx(), b.Dy(), s.opts.Width, s.opts.Height, ErrFrameSize)
	}
	rowLen := 4 * b.Dx()
	img := f.Image
	if img.Stride == rowLen {
		off := img.PixOffset(b.Min.X, b.Min.Y)
		if _, err := s.pw.Write(img.Pix[off : off+rowLen*b.Dy()]); err != nil {
			return fmt.Errorf("encoder: write frame %d: %w", f.Index, err)
		}
	} else {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := img.PixOffset(b.Min.X, y)
			if _, err := s.pw.Write(img.Pix[off : off+rowLen]); err != nil {
				return fmt.Errorf("encoder: write frame %d: %w", f.Index, err)
			}
		}
	}
	s.frames++
	return nil
}

// Frames returns the number of frames written.
func (s *VideoSink) Frames() int { return s.frames }

// Close ends the stream and waits for ffmpeg to finish.
func (s *VideoSink) Close() error {
	if s.pw == nil {
		return nil
	}
	s.pw.Close()
	s.pw = nil
	if s.errc == nil {
		return nil
	}
	if err := <-s.errc; err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	slog.Info("encoder finished", "output", s.opts.Output, "frames", s.frames)
	return nil
}
