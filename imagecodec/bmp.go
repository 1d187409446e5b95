package imagecodec

// bmp.go wraps golang.org/x/image/bmp, which already carries the teacher
// pack's x/image dependency for the viewer backend; PPM above has no
// suitable ecosystem library and is hand-rolled (see DESIGN.md).

import (
	"bytes"
	"image"
	"image/color"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// DecodeBMP reads a BMP image and returns it as a packed 24-bit RGB raster.
func DecodeBMP(r io.Reader) (*Image, error) {
	img, err := bmp.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "decode bmp")
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r32, g32, b32, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			off := (y*w + x) * 3
			pix[off+0] = byte(r32 >> 8)
			pix[off+1] = byte(g32 >> 8)
			pix[off+2] = byte(b32 >> 8)
		}
	}
	return &Image{W: w, H: h, Pix: pix}, nil
}

// EncodeBMP writes img as a BMP file.
func EncodeBMP(w io.Writer, img *Image) error {
	if len(img.Pix) != img.W*img.H*3 {
		return errors.Errorf("pixel buffer length %d does not match %dx%dx3", len(img.Pix), img.W, img.H)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.W, img.H))
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			off := (y*img.W + x) * 3
			rgba.Set(x, y, color.RGBA{R: img.Pix[off], G: img.Pix[off+1], B: img.Pix[off+2], A: 255})
		}
	}
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, rgba); err != nil {
		return errors.Wrap(err, "encode bmp")
	}
	_, err := w.Write(buf.Bytes())
	return err
}
