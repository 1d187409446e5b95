package crt

// trig.go - fixed-point trigonometry used to derive chroma carrier samples
// and filter coefficients. Angles are in a 14-bit period (a full turn is
// AngleFullTurn units); sine/cosine magnitudes are signed 15-bit.
//
// Grounded on audio_lut.go's lookup-table-with-interpolation pattern, but
// the table itself is a fixed literal (not computed from math.Sin at
// runtime) to keep the module genuinely integer-only end to end.

const (
	// AngleFullTurn is the number of angle units in one full revolution.
	AngleFullTurn = 1 << 14
	angleQuadrant = AngleFullTurn / 4 // 4096
	angleMask     = AngleFullTurn - 1

	sinMax = 32767
)

// sigpsin15 holds 17 significant sine samples across a quarter turn
// (indices 0..16, angle 0..angleQuadrant in steps of angleQuadrant/16),
// plus one trailing guard entry duplicating the last sample so that
// interpolation can always read index+1 without a bounds check.
var sigpsin15 = [18]int32{
	0, 3212, 6393, 9512, 12539, 15446, 18204, 20787, 23170,
	25329, 27245, 28898, 30273, 31356, 32137, 32609, 32767,
	32767, // guard duplicate of the last entry
}

// rawQuarterSin interpolates sin(r) for r in [0, angleQuadrant], r measured
// in angle units from the start of the quarter turn. Never indexes beyond
// the 18-entry table for any r in that closed range.
func rawQuarterSin(r int32) int32 {
	if r < 0 {
		r = 0
	}
	if r > angleQuadrant {
		r = angleQuadrant
	}
	idx := r >> 8    // 0..16
	frac := r & 0xFF // 0..255
	lo, hi := sigpsin15[idx], sigpsin15[idx+1]
	return lo + ((hi-lo)*frac)>>8
}

// sincos14 returns (sin, cos) for angle, an angle expressed in the 14-bit
// period (AngleFullTurn units per full turn), as signed 15-bit magnitudes.
// Exact symmetry sincos14(-a).sin == -sincos14(a).sin holds for all angle
// because quadrant reflection is applied uniformly in both directions.
func sincos14(angle int32) (sin int32, cos int32) {
	a := angle & angleMask
	quadrant := (a >> 12) & 3
	r := a & (angleQuadrant - 1) // position within the quadrant, 0..4095

	switch quadrant {
	case 0:
		sin = rawQuarterSin(r)
		cos = rawQuarterSin(angleQuadrant - r)
	case 1:
		sin = rawQuarterSin(angleQuadrant - r)
		cos = -rawQuarterSin(r)
	case 2:
		sin = -rawQuarterSin(r)
		cos = -rawQuarterSin(angleQuadrant - r)
	default: // 3
		sin = -rawQuarterSin(angleQuadrant - r)
		cos = rawQuarterSin(r)
	}
	return sin, cos
}

// Fixed-point exp() conventions: 11-bit fractional, one unit = expOne.
const (
	expFracBits = 11
	expOne      = 1 << expFracBits // 2048

	// e, e^2, e^3, e^4 scaled by expOne, used to resolve the integer part
	// of the exponent before the Taylor series handles the remainder.
	expE1 = 5567
	expE2 = 15133
	expE3 = 41135
	expE4 = 111817

	expMaxTerms = 17
)

var expIntTable = [4]int32{expOne, expE1, expE2, expE3}

// expx computes e^(x/expOne) in expFracBits fixed point. Used only during
// filter-coefficient derivation at initialization, never in the per-sample
// hot path.
func expx(x int32) int32 {
	if x < 0 {
		d := expx(-x)
		if d == 0 {
			return expOne << expFracBits // saturate rather than divide by zero
		}
		return (expOne * expOne) / d
	}

	n := x >> expFracBits
	f := x & (expOne - 1)

	// The integer part is accumulated in 64 bits: e^n * expOne overflows
	// int32 intermediates once n reaches 6.
	base := int64(expOne)
	quads := n / 4
	rem := n % 4
	for i := int32(0); i < quads; i++ {
		base = (base * expE4) >> expFracBits
	}
	if rem > 0 {
		base = (base * int64(expIntTable[rem])) >> expFracBits
	}

	// Taylor series for e^(f/expOne), f in [0, expOne).
	term := int32(expOne)
	sum := int32(expOne)
	for k := int32(1); k <= expMaxTerms; k++ {
		term = (term * f) >> expFracBits
		term /= k
		if term == 0 {
			break
		}
		sum += term
	}

	return int32((base * int64(sum)) >> expFracBits)
}
