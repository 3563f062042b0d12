package opengl

import (
	"fmt"
	"image"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// UploadImage uploads an RGBA image as a clamp-to-edge, linearly filtered 2D
// texture and returns its GL name. Rows are flipped so that texture v=1 is
// the top of the image. Call from the goroutine owning the GL context.
func UploadImage(img *image.RGBA) (uint32, error) {
	if img == nil || img.Bounds().Empty() {
		return 0, fmt.Errorf("empty image")
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	pix := flipRows(img)
	b := img.Bounds()
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA8,
		int32(b.Dx()),
		int32(b.Dy()),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(pix),
	)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id, nil
}

// UpdateImage replaces the contents of a texture created by UploadImage with
// an image of the same size.
func UpdateImage(id uint32, img *image.RGBA) {
	b := img.Bounds()
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(b.Dx()), int32(b.Dy()),
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(flipRows(img)))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// DeleteTexture frees a texture created by UploadImage.
func DeleteTexture(id uint32) {
	if id != 0 {
		gl.DeleteTextures(1, &id)
	}
}

// flipRows returns tightly packed pixel rows, bottom row first.
func flipRows(img *image.RGBA) []uint8 {
	b := img.Bounds()
	rowLen := 4 * b.Dx()
	pix := make([]uint8, rowLen*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		src := img.PixOffset(b.Min.X, b.Min.Y+y)
		dst := (b.Dy() - 1 - y) * rowLen
		copy(pix[dst:dst+rowLen], img.Pix[src:src+rowLen])
	}
	return pix
}
