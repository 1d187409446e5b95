package crt

// state.go - CRT lifecycle: allocation, init/resize/reset, and the
// persistent state that survives across Modulate/Demodulate calls.
//
// Grounded on video_ted.go's pattern of a chip struct owning its own
// frame buffer plus small persistent registers; generalized here to the
// composite pipeline's analog/noisy buffers, sync seeds, and per-instance
// filter state (see filter_eq.go / filter_iir.go doc comments for the
// REDESIGN FLAG this resolves).

// SystemConfig selects the sample-grid density and which optional stages
// are active. It is fixed for the lifetime of a CRT (changing it requires
// constructing a new CRT, since it determines buffer sizes).
type SystemConfig struct {
	// ChromaPattern selects 0 (228 cycles/line, no phase inversion) or 1
	// (227.5 cycles/line, checkered phase inversion).
	ChromaPattern int
	// SamplesPerPeriod is the chroma-clock oversampling factor, 4 or 5.
	SamplesPerPeriod int
	BloomEnabled     bool
	HSyncEnabled     bool
	VSyncEnabled     bool
}

// DefaultSystemConfig returns the NTSC configuration named in spec.md:
// checkered 227.5-cycle chroma pattern, 4 samples per chroma period, all
// optional stages enabled.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		ChromaPattern:    1,
		SamplesPerPeriod: 4,
		BloomEnabled:     true,
		HSyncEnabled:     true,
		VSyncEnabled:     true,
	}
}

// MonitorControls are the user-facing receiver controls; Reset restores
// them to these factory defaults.
type MonitorControls struct {
	Hue        int32 // degrees
	Saturation int32
	Brightness int32
	Contrast   int32
	BlackPoint int32
	WhitePoint int32
	Scanlines  bool
	Blend      bool
}

func defaultMonitorControls() MonitorControls {
	return MonitorControls{
		Hue:        0,
		Saturation: 10,
		Brightness: 0,
		Contrast:   180,
		BlackPoint: 0,
		WhitePoint: 100,
		Scanlines:  false,
		Blend:      false,
	}
}

// CRT is the receiver/encoder's persistent state: the shared analog
// buffer, the noisy-input buffer, sync search seeds, the color-carrier
// filter bank, and the output descriptor. Modulate and Demodulate are not
// reentrant on the same CRT; distinct CRT values are fully independent.
type CRT struct {
	cfg    SystemConfig
	timing Timing

	analog []int8 // HRES*VRES signed IRE samples, written by Modulate
	inp    []int8 // HRES*VRES signal+noise, written by Demodulate

	ccf [CCVPER][]int32 // per-row-bucket color carrier filter state

	hsync, vsync int
	rn           uint32

	Controls MonitorControls

	eqY, eqI, eqQ eqState
	beamEnergy    int32 // filtered beam energy for the bloom model

	outw, outh int
	outFormat  PixelFormat
	out        []byte
}

// NewCRT allocates a CRT sized for cfg. Call Init before the first
// Modulate/Demodulate pair to attach an output buffer.
func NewCRT(cfg SystemConfig) *CRT {
	if cfg.SamplesPerPeriod <= 0 {
		cfg.SamplesPerPeriod = 4
	}
	t := NewTiming(cfg.SamplesPerPeriod)
	c := &CRT{
		cfg:    cfg,
		timing: t,
		analog: make([]int8, t.HRES*VRES),
		inp:    make([]int8, t.HRES*VRES),
	}
	for i := range c.ccf {
		c.ccf[i] = make([]int32, cfg.SamplesPerPeriod)
	}
	return c
}

// Timing returns the sample-grid timing this CRT was constructed with.
func (c *CRT) Timing() Timing { return c.timing }

// Config returns the system configuration this CRT was constructed with.
func (c *CRT) Config() SystemConfig { return c.cfg }

// Init attaches an output descriptor to crt, resets monitor controls and
// sync state, reseeds the noise generator, and (re)initializes the
// demodulation equalizers. out must be at least outw*outh*Bpp4fmt(format)
// bytes.
func (c *CRT) Init(outw, outh int, format PixelFormat, out []byte) {
	c.outw, c.outh, c.outFormat, c.out = outw, outh, format, out
	c.Reset()
	c.rn = 194
	rate := sampleRateHz(c.timing)
	c.eqY = newEqState(yEqLoHz, yEqHiHz, rate, yGainLow, yGainMid, yGainHigh)
	c.eqI = newEqState(iEqLoHz, iEqHiHz, rate, iGainLow, iGainMid, iGainHigh)
	c.eqQ = newEqState(qEqLoHz, qEqHiHz, rate, qGainLow, qGainMid, qGainHigh)
}

// Resize updates only the output descriptor; monitor controls, sync
// history, and filter state are left untouched (spec.md §9: persistent
// state "must be total", no reset on resize).
func (c *CRT) Resize(outw, outh int, format PixelFormat, out []byte) {
	c.outw, c.outh, c.outFormat, c.out = outw, outh, format, out
}

// Reset restores factory monitor-control defaults and zeroes sync
// position history.
func (c *CRT) Reset() {
	c.Controls = defaultMonitorControls()
	c.hsync = 0
	c.vsync = 0
}

// AnalogSnapshot returns a copy of the current analog buffer (HRES*VRES
// signed IRE samples, one byte each), for callers that need to inspect or
// persist the raw signal rather than decode it (e.g. a trace dump).
func (c *CRT) AnalogSnapshot() []byte {
	buf := make([]byte, len(c.analog))
	for i, v := range c.analog {
		buf[i] = byte(v)
	}
	return buf
}

// sampleRateHz returns the analog sample rate implied by t, in Hz.
func sampleRateHz(t Timing) int32 {
	return int32((int64(t.HRES) * 1_000_000_000) / LineNs)
}

// Default demodulation equalizer cutoffs (Hz) and per-band gains (16-bit
// fixed, 65536 == unity). Not specified numerically in spec.md beyond "the
// luma filter's gains attenuate the chroma subcarrier; I/Q gains attenuate
// above their respective bandwidths" -- these values are this
// implementation's resolution of that open tuning question (see
// DESIGN.md).
const (
	yEqLoHz, yEqHiHz                   = 1_000_000, 3_000_000
	yGainLow, yGainMid, yGainHigh int32 = 65536, 20000, 8000

	iEqLoHz, iEqHiHz                   = 80_000, 1_500_000
	iGainLow, iGainMid, iGainHigh int32 = 65536, 65536, 4000

	qEqLoHz, qEqHiHz                   = 80_000, 500_000
	qGainLow, qGainMid, qGainHigh int32 = 65536, 65536, 2000
)
