package crt

// constants.go - signal timeline and IRE level constants.
//
// Grounded on video_ted.go / voodoo_constants.go (grouped const blocks with
// one-line comments, hex or decimal chosen by what the value represents).

// Frame geometry (NTSC). VRES is the total scanline count per frame; the
// active picture spans lines [TopActiveLine, BottomActiveLine).
const (
	VRES             = 262
	TopActiveLine    = 21
	BottomActiveLine = 261
)

// LineNs is the nominal duration of one scanline in nanoseconds. The five
// blanking-interval segments below plus the active-video segment sum to
// exactly LineNs so that every sample position derived from them tiles the
// line without a gap or overlap.
const (
	LineNs = 63500

	frontPorchNs = 1500
	syncTipNs    = 4700
	breezewayNs  = 600
	colorBurstNs = 2500
	backPorchNs  = 1600
	activeNs     = 52600
)

// CyclesPerLine is the nominal chroma-subcarrier cycle count used to size
// the sample grid. Real NTSC runs 227.5 cycles/line; that extra half-cycle
// is modeled not by a fractional grid but by inverting the burst phase on
// alternate lines/fields (see invPhase/ph in CRT.Modulate), exactly as spec'd.
const CyclesPerLine = 228

// IRE levels. White is 100 IRE, blank is 0 IRE, sync tip is -40 IRE.
const (
	WhiteLevel = 100
	BurstLevel = 20
	BlackLevel = 7
	BlankLevel = 0
	SyncLevel  = -40
)

// CCVPER is the number of per-row burst-phase buckets the color carrier
// filter keeps independently; each bucket holds SystemConfig.SamplesPerPeriod
// entries (one per phase step of the subcarrier).
const CCVPER = 3

// Timing holds every sample-grid position derived from the ns timeline for
// a given samples-per-chroma-period configuration. Nothing here is
// hard-coded: HRES and every segment boundary are computed from LineNs and
// the configured grid density, per spec.
type Timing struct {
	SamplesPerPeriod int
	HRES             int

	FPBeg, FPEnd     int
	SyncBeg, SyncEnd int
	BWBeg, BWEnd     int
	CBBeg, CBEnd     int
	BPBeg, BPEnd     int
	AVBeg, AVEnd     int
	AVLen            int
}

// NewTiming derives a Timing for samplesPerPeriod samples per chroma cycle
// (4 or 5 are the configurations named in spec; any positive value works).
func NewTiming(samplesPerPeriod int) Timing {
	if samplesPerPeriod <= 0 {
		samplesPerPeriod = 4
	}
	hres := CyclesPerLine * samplesPerPeriod
	pos := func(ns int) int { return ns * hres / LineNs }

	t := Timing{SamplesPerPeriod: samplesPerPeriod, HRES: hres}
	t.FPBeg = 0
	t.FPEnd = pos(frontPorchNs)
	t.SyncBeg = t.FPEnd
	t.SyncEnd = pos(frontPorchNs + syncTipNs)
	t.BWBeg = t.SyncEnd
	t.BWEnd = pos(frontPorchNs + syncTipNs + breezewayNs)
	t.CBBeg = t.BWEnd
	t.CBEnd = pos(frontPorchNs + syncTipNs + breezewayNs + colorBurstNs)
	t.BPBeg = t.CBEnd
	t.BPEnd = pos(frontPorchNs + syncTipNs + breezewayNs + colorBurstNs + backPorchNs)
	t.AVBeg = t.BPEnd
	t.AVEnd = hres
	t.AVLen = t.AVEnd - t.AVBeg
	return t
}

// PctPos returns the sample offset that is pct percent of the way across
// the line, used to lay out equalizing and vertical-sync pulses which are
// specified as percentages of line length rather than ns offsets.
func (t Timing) PctPos(pct int) int {
	return pct * t.HRES / 100
}

// posmod returns a non-negative modulo, used throughout for sync offsets
// that must wrap within [0, m).
func posmod(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
