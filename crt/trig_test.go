package crt

import "testing"

func TestSincos14Symmetry(t *testing.T) {
	for angle := int32(0); angle < AngleFullTurn; angle += 37 {
		s, c := sincos14(angle)
		sOpp, cOpp := sincos14(angle + AngleFullTurn/2)
		if s != -sOpp || c != -cOpp {
			t.Fatalf("angle %d: sincos14 not antisymmetric across half turn: (%d,%d) vs (%d,%d)",
				angle, s, c, sOpp, cOpp)
		}
	}
}

func TestSincos14Bounds(t *testing.T) {
	for angle := int32(0); angle < AngleFullTurn; angle++ {
		s, c := sincos14(angle)
		if s > sinMax || s < -sinMax || c > sinMax || c < -sinMax {
			t.Fatalf("angle %d: sincos14 out of bounds: sin=%d cos=%d", angle, s, c)
		}
	}
}

func TestSincos14PythagoreanApprox(t *testing.T) {
	// sin^2+cos^2 should land close to sinMax^2 at every quadrant boundary,
	// where the table values are exact rather than interpolated.
	for _, angle := range []int32{0, AngleFullTurn / 4, AngleFullTurn / 2, 3 * AngleFullTurn / 4} {
		s, c := sincos14(angle)
		sum := int64(s)*int64(s) + int64(c)*int64(c)
		want := int64(sinMax) * int64(sinMax)
		diff := sum - want
		if diff < 0 {
			diff = -diff
		}
		if diff > want/50 {
			t.Fatalf("angle %d: sin^2+cos^2=%d too far from %d", angle, sum, want)
		}
	}
}

func TestExpxMonotonic(t *testing.T) {
	prev := expx(-20000)
	for x := int32(-19000); x <= 4000; x += 1000 {
		v := expx(x)
		if v < prev {
			t.Fatalf("expx not monotonic at x=%d: prev=%d got=%d", x, prev, v)
		}
		prev = v
	}
}

func TestExpxZeroIsOne(t *testing.T) {
	if got := expx(0); got != expOne {
		t.Fatalf("expx(0) = %d, want %d", got, expOne)
	}
}
