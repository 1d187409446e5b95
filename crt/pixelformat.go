package crt

// pixelformat.go - the six packed RGB byte layouts the core reads from and
// writes to, modeled as a tagged variant with a small table of per-format
// offsets rather than per-pixel branch dispatch, per spec.md §9 ("Dynamic
// pixel-format dispatch").
//
// Grounded on video_interface.go's PixelFormat enum in the teacher repo,
// generalized from its three internal formats to the six byte layouts this
// spec names.

// PixelFormat names one of the six packed RGB byte layouts the core can
// read or write. Alpha, where present, is ignored on read and left
// undefined on write.
type PixelFormat int

const (
	FormatRGB PixelFormat = iota
	FormatBGR
	FormatARGB
	FormatRGBA
	FormatABGR
	FormatBGRA
)

type formatLayout struct {
	rOff, gOff, bOff int
	bpp              int
}

var formatTable = map[PixelFormat]formatLayout{
	FormatRGB:  {0, 1, 2, 3},
	FormatBGR:  {2, 1, 0, 3},
	FormatARGB: {1, 2, 3, 4},
	FormatRGBA: {0, 1, 2, 4},
	FormatABGR: {3, 2, 1, 4},
	FormatBGRA: {2, 1, 0, 4},
}

// Bpp4fmt returns the byte stride for format: 3 for RGB/BGR, 4 for the four
// alpha-carrying layouts, or 0 if format is not one of the six recognized
// layouts.
func Bpp4fmt(format PixelFormat) int {
	l, ok := formatTable[format]
	if !ok {
		return 0
	}
	return l.bpp
}

// unpackPixel reads the R, G, B components of the pixel at byte offset off
// in buf, according to format. The caller guarantees off+bpp <= len(buf).
func unpackPixel(buf []byte, off int, format PixelFormat) (r, g, b int32) {
	l := formatTable[format]
	return int32(buf[off+l.rOff]), int32(buf[off+l.gOff]), int32(buf[off+l.bOff])
}

// packPixel writes r, g, b into buf at byte offset off according to
// format. Any alpha byte in a 4-bpp layout is left untouched.
func packPixel(buf []byte, off int, format PixelFormat, r, g, b int32) {
	l := formatTable[format]
	buf[off+l.rOff] = clampByte(r)
	buf[off+l.gOff] = clampByte(g)
	buf[off+l.bOff] = clampByte(b)
}

func clampByte(v int32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
