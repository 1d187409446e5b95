package crt

import (
	"testing"

	"pgregory.net/rapid"
)

func TestPosmodAlwaysInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.Int32Range(-1_000_000, 1_000_000).Draw(rt, "v")
		m := rapid.IntRange(1, 10_000).Draw(rt, "m")
		got := posmod(int(v), m)
		if got < 0 || got >= m {
			rt.Fatalf("posmod(%d,%d) = %d, out of [0,%d)", v, m, got, m)
		}
	})
}

func TestClamp32NeverExceedsBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.Int32().Draw(rt, "v")
		lo := rapid.Int32Range(-1000, 0).Draw(rt, "lo")
		hi := rapid.Int32Range(1, 1000).Draw(rt, "hi")
		got := clamp32(v, lo, hi)
		if got < lo || got > hi {
			rt.Fatalf("clamp32(%d,%d,%d) = %d, out of bounds", v, lo, hi, got)
		}
	})
}

func TestSincos14NeverPanics(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		angle := rapid.Int32().Draw(rt, "angle")
		s, c := sincos14(angle)
		if s > sinMax+1 || s < -sinMax-1 || c > sinMax+1 || c < -sinMax-1 {
			rt.Fatalf("sincos14(%d) out of range: (%d,%d)", angle, s, c)
		}
	})
}

func TestTimingSegmentsTileLine(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(rt, "samplesPerPeriod")
		timing := NewTiming(n)
		if timing.FPBeg != 0 || timing.FPEnd != timing.SyncBeg ||
			timing.SyncEnd != timing.BWBeg || timing.BWEnd != timing.CBBeg ||
			timing.CBEnd != timing.BPBeg || timing.BPEnd != timing.AVBeg ||
			timing.AVEnd != timing.HRES {
			rt.Fatalf("timing segments do not tile the line without gap/overlap: %+v", timing)
		}
	})
}

func TestUnpackPackRoundTripProperty(t *testing.T) {
	formats := []PixelFormat{FormatRGB, FormatBGR, FormatARGB, FormatRGBA, FormatABGR, FormatBGRA}
	rapid.Check(t, func(rt *rapid.T) {
		format := formats[rapid.IntRange(0, len(formats)-1).Draw(rt, "format")]
		r := rapid.Int32Range(0, 255).Draw(rt, "r")
		g := rapid.Int32Range(0, 255).Draw(rt, "g")
		b := rapid.Int32Range(0, 255).Draw(rt, "b")
		buf := make([]byte, Bpp4fmt(format))
		packPixel(buf, 0, format, r, g, b)
		gr, gg, gb := unpackPixel(buf, 0, format)
		if gr != r || gg != g || gb != b {
			rt.Fatalf("round trip mismatch for %v: got (%d,%d,%d) want (%d,%d,%d)", format, gr, gg, gb, r, g, b)
		}
	})
}
