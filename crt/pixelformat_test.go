package crt

import "testing"

func TestBpp4fmtKnownFormats(t *testing.T) {
	cases := map[PixelFormat]int{
		FormatRGB:  3,
		FormatBGR:  3,
		FormatARGB: 4,
		FormatRGBA: 4,
		FormatABGR: 4,
		FormatBGRA: 4,
	}
	for f, want := range cases {
		if got := Bpp4fmt(f); got != want {
			t.Errorf("Bpp4fmt(%v) = %d, want %d", f, got, want)
		}
	}
}

func TestBpp4fmtUnknownFormat(t *testing.T) {
	if got := Bpp4fmt(PixelFormat(999)); got != 0 {
		t.Fatalf("Bpp4fmt(unknown) = %d, want 0", got)
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	for format, layout := range formatTable {
		buf := make([]byte, layout.bpp)
		packPixel(buf, 0, format, 10, 20, 30)
		r, g, b := unpackPixel(buf, 0, format)
		if r != 10 || g != 20 || b != 30 {
			t.Errorf("format %v: round trip got (%d,%d,%d), want (10,20,30)", format, r, g, b)
		}
	}
}

func TestClampByte(t *testing.T) {
	if clampByte(-5) != 0 {
		t.Errorf("clampByte(-5) != 0")
	}
	if clampByte(300) != 255 {
		t.Errorf("clampByte(300) != 255")
	}
	if clampByte(128) != 128 {
		t.Errorf("clampByte(128) != 128")
	}
}
