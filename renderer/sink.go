package renderer

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
)

// PNGSink writes every frame to <Dir>/frame_NNNNN.png.
type PNGSink struct {
	Dir string
}

func NewPNGSink(dir string) (*PNGSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("png sink: %w", err)
	}
	return &PNGSink{Dir: dir}, nil
}

// Path returns the file a frame index is written to.
func (s *PNGSink) Path(index int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("frame_%05d.png", index))
}

func (s *PNGSink) Present(f Frame) error {
	return imgio.Save(s.Path(f.Index), f.Image, imgio.PNGEncoder())
}

// SavePNG writes a single image, used for stills and screenshots.
func SavePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return imgio.Save(path, img, imgio.PNGEncoder())
}
