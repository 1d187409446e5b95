// Package imagecodec reads and writes the raster formats the crt core
// exchanges pixel buffers in: binary PPM (P6) and Windows BMP.
//
// This package is one of the "external collaborators" the core pipeline
// explicitly treats as interfaces only: it knows nothing about the
// composite-signal model, only about moving packed RGB bytes in and out of
// files.
package imagecodec

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Image is a packed 24-bit RGB raster, row-major, no padding.
type Image struct {
	W, H int
	Pix  []byte // len == W*H*3
}

// DecodePPM reads a binary (P6) PPM image. Comments (#...) are permitted in
// the header, as produced by common PPM writers.
func DecodePPM(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	magic, err := readToken(br)
	if err != nil {
		return nil, errors.Wrap(err, "read ppm magic")
	}
	if magic != "P6" {
		return nil, errors.Errorf("unsupported ppm magic %q, want P6", magic)
	}
	w, err := readIntToken(br)
	if err != nil {
		return nil, errors.Wrap(err, "read ppm width")
	}
	h, err := readIntToken(br)
	if err != nil {
		return nil, errors.Wrap(err, "read ppm height")
	}
	maxVal, err := readIntToken(br)
	if err != nil {
		return nil, errors.Wrap(err, "read ppm maxval")
	}
	if maxVal != 255 {
		return nil, errors.Errorf("unsupported ppm maxval %d, want 255", maxVal)
	}
	if w <= 0 || h <= 0 {
		return nil, errors.Errorf("invalid ppm dimensions %dx%d", w, h)
	}

	pix := make([]byte, w*h*3)
	if _, err := io.ReadFull(br, pix); err != nil {
		return nil, errors.Wrap(err, "read ppm pixel data")
	}
	return &Image{W: w, H: h, Pix: pix}, nil
}

// EncodePPM writes img as a binary (P6) PPM image.
func EncodePPM(w io.Writer, img *Image) error {
	if len(img.Pix) != img.W*img.H*3 {
		return errors.Errorf("pixel buffer length %d does not match %dx%dx3", len(img.Pix), img.W, img.H)
	}
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", img.W, img.H); err != nil {
		return errors.Wrap(err, "write ppm header")
	}
	if _, err := bw.Write(img.Pix); err != nil {
		return errors.Wrap(err, "write ppm pixel data")
	}
	return bw.Flush()
}

func readToken(br *bufio.Reader) (string, error) {
	var tok []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '#' {
			for {
				c, err := br.ReadByte()
				if err != nil {
					return "", err
				}
				if c == '\n' {
					break
				}
			}
			continue
		}
		if isSpace(b) {
			if len(tok) > 0 {
				return string(tok), nil
			}
			continue
		}
		tok = append(tok, b)
	}
}

func readIntToken(br *bufio.Reader) (int, error) {
	tok, err := readToken(br)
	if err != nil {
		return 0, err
	}
	var v int
	for _, c := range []byte(tok) {
		if c < '0' || c > '9' {
			return 0, errors.Errorf("invalid integer token %q", tok)
		}
		v = v*10 + int(c-'0')
	}
	return v, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
