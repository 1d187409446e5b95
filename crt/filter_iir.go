package crt

// filter_iir.go - single-pole IIR low-pass used during modulation to
// band-limit Y, I and Q before they are laid onto the composite signal.
//
// Grounded on the teacher's filter-state-as-a-value pattern (e.g.
// pokey_engine.go's per-channel envelope state): state lives in a small
// struct with an explicit Reset, never in a package-level global, per the
// REDESIGN FLAG in spec.md §9 ("process-wide filter state").

// iirLowPass is a one-pole low-pass filter: h += (s - h) * c >> expFracBits.
type iirLowPass struct {
	h int32
	c int32
}

// newIIRLowPass derives the fixed-point coefficient for a low-pass with
// cutoff freqHz against the given bandwidth limitHz:
// c = 1 - exp(-pi*freq/limit) in expFracBits fixed point.
func newIIRLowPass(freqHz, limitHz int32) iirLowPass {
	// x = -pi * freq/limit, scaled to expFracBits fixed point.
	const fixedPi = 6434 // pi * expOne, rounded (3.14159265 * 2048)
	x := int32(-(int64(fixedPi) * int64(freqHz)) / int64(limitHz))
	c := expOne - expx(x)
	return iirLowPass{c: c}
}

// Apply filters one sample and returns the new filter state.
func (f *iirLowPass) Apply(s int32) int32 {
	f.h += ((s - f.h) * f.c) >> expFracBits
	return f.h
}

// Reset clears the filter's accumulated state but keeps its coefficient.
func (f *iirLowPass) Reset() {
	f.h = 0
}
