package crt

// filter_eq.go - three-band equalizer used during demodulation to recover
// Y, I and Q from the single-wire composite signal. Three independent
// instances (per spec.md §4.2) filter Y, I and Q with per-band gains tuned
// to attenuate whatever each channel should not carry.
//
// Grounded on the cascaded one-pole topology already used by filter_iir.go
// in this package, extended here to a low/mid/high split as described in
// spec.md §4.2: two four-stage low-pass cascades at different cutoffs
// (lf, hf), with the mid band taken as their difference and the high band
// taken as delayed raw input minus the wider cascade.

// eqLow, eqMid and eqHigh index the three per-band gains.
const (
	eqLow = iota
	eqMid
	eqHigh
)

type eqState struct {
	lf, hf int32    // 16-bit fractional band-split coefficients
	gain   [3]int32 // 16-bit fixed per-band gains: low, mid, high

	lowStages  [4]int32
	highStages [4]int32
	hist       [3]int32 // raw-input history, most recent first
}

// sinFrac16 returns 2*sin(pi*freq/rate) as a 16-bit fixed-point fraction,
// derived from the package's fixed-point sincos14 rather than math.Sin.
func sinFrac16(freqHz, rateHz int32) int32 {
	angle := int32((int64(freqHz) * (AngleFullTurn / 2)) / int64(rateHz))
	s, _ := sincos14(angle)
	// s is 15-bit (32768 == 1.0); 2*sin in 16-bit fixed point is 4*s.
	return 4 * s
}

// newEqState builds a three-band equalizer splitting at freqLo/freqHi
// (Hz) against sample rate rateHz, with gains for the low, mid and high
// bands respectively (16-bit fixed, i.e. gain 65536 == unity).
func newEqState(freqLo, freqHi, rateHz int32, gainLow, gainMid, gainHigh int32) eqState {
	return eqState{
		lf:   sinFrac16(freqLo, rateHz),
		hf:   sinFrac16(freqHi, rateHz),
		gain: [3]int32{gainLow, gainMid, gainHigh},
	}
}

// Apply filters one sample through all three bands and returns the
// gain-weighted sum.
func (e *eqState) Apply(x int32) int32 {
	v := x
	for i := range e.lowStages {
		e.lowStages[i] += ((v - e.lowStages[i]) * e.lf) >> 16
		v = e.lowStages[i]
	}
	lp := v

	v = x
	for i := range e.highStages {
		e.highStages[i] += ((v - e.highStages[i]) * e.hf) >> 16
		v = e.highStages[i]
	}
	hp := v

	low := lp
	mid := hp - lp
	high := e.hist[2] - hp

	out := (low*e.gain[eqLow] + mid*e.gain[eqMid] + high*e.gain[eqHigh]) >> 16

	e.hist[2] = e.hist[1]
	e.hist[1] = e.hist[0]
	e.hist[0] = x

	return out
}

// Reset zeroes all stage memory and history, leaving coefficients and
// gains untouched.
func (e *eqState) Reset() {
	e.lowStages = [4]int32{}
	e.highStages = [4]int32{}
	e.hist = [3]int32{}
}
