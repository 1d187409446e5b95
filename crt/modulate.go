package crt

// modulate.go - RGB -> composite signal encoder.
//
// Grounded on video_ted.go's per-scanline rendering loop (StartFrame /
// ProcessScanline) generalized from a character-cell raster to NTSC's
// front-porch/sync/breezeway/burst/back-porch/active-video timeline, and on
// the teacher's RGB-unpack-per-format helpers, now table-driven in
// pixelformat.go.

// ModulateSettings describes one field's worth of source image and how to
// lay it onto the signal. iirsInitialized/iirY/iirI/iirQ are owned by the
// settings value itself (not a package global, per spec.md §9's REDESIGN
// FLAG): the caller must zero-value a fresh Settings before first use, and
// must not share one Settings between concurrently-modulating CRTs.
type ModulateSettings struct {
	Data    []byte
	Format  PixelFormat
	W, H    int
	Raw     bool
	AsColor bool
	Field   int // 0 or 1
	Frame   int // 0 or 1
	Hue     int32
	XOffset int
	YOffset int

	iirsInitialized bool
	iirY, iirI, iirQ iirLowPass
}

const (
	modYCutoffHz  = 420_000
	modICutoffHz  = 150_000
	modQCutoffHz  = 55_000
	modBandwidthHz = 1_431_818
)

func (s *ModulateSettings) ensureIIRs() {
	if s.iirsInitialized {
		return
	}
	s.iirY = newIIRLowPass(modYCutoffHz, modBandwidthHz)
	s.iirI = newIIRLowPass(modICutoffHz, modBandwidthHz)
	s.iirQ = newIIRLowPass(modQCutoffHz, modBandwidthHz)
	s.iirsInitialized = true
}

// Modulate lays one field of s.Data into crt's analog buffer.
func (c *CRT) Modulate(s *ModulateSettings) {
	s.ensureIIRs()
	t := c.timing
	n := c.cfg.SamplesPerPeriod

	destW, destH := c.destRect(s)
	xo := floorDiv(t.AVBeg+s.XOffset, n) * n
	yo := s.YOffset

	ccburst, ccmodI, ccmodQ := c.chromaTables(s, n)
	invPhase := s.Field == s.Frame
	ph := int32(1)
	if invPhase && c.cfg.ChromaPattern == 1 {
		ph = -1
	}
	phShift := 0
	if invPhase {
		phShift = n / 2
	}

	burstSample := func(k int) int32 {
		idx := (k + phShift) % n
		return int32(BlankLevel) + (ccburst[idx]*BurstLevel)>>5
	}

	for line := 0; line < VRES; line++ {
		c.writeLineBlanking(line, s.Field, t, burstSample, n)

		y, ok := activeRowFor(line, s.Field, t)
		if !ok || y >= destH {
			continue
		}
		sy := srcRowFor(y, s.Field, s.H, destH)
		s.iirY.Reset()
		s.iirI.Reset()
		s.iirQ.Reset()
		for x := 0; x < destW; x++ {
			sx := (x * s.W) / destW
			if sx >= s.W {
				sx = s.W - 1
			}
			off := (sy*s.W + sx) * Bpp4fmt(s.Format)
			var r, g, b int32
			if off+Bpp4fmt(s.Format) <= len(s.Data) {
				r, g, b = unpackPixel(s.Data, off, s.Format)
			}
			yv := (19595*r + 38470*g + 7471*b) >> 14
			iv := (39059*r - 18022*g - 21103*b) >> 14
			qv := (13894*r - 34275*g + 20382*b) >> 14

			yf := s.iirY.Apply(yv)
			var iMod, qMod int32
			if s.AsColor {
				iF := s.iirI.Apply(iv)
				qF := s.iirQ.Apply(qv)
				ci := ccmodI[posmod(x+xo, n)]
				cq := ccmodQ[posmod(x+xo, n)]
				iMod = (ph * iF * ci) >> 4
				qMod = (ph * qF * cq) >> 4
			}

			scale := (WhiteLevel * c.Controls.WhitePoint) / 100
			ire := int32(BlackLevel) + c.Controls.BlackPoint + (((yf + iMod + qMod) * scale) >> 10)
			ire = clamp32(ire, 0, 110)

			pos := (x + xo) + (line+yo)*t.HRES
			if pos >= 0 && pos < len(c.analog) {
				c.analog[pos] = int8(ire)
			}
		}
	}

	for bucket := range c.ccf {
		for k := 0; k < n; k++ {
			c.ccf[bucket][k] = burstSample(k) << 7
		}
	}
}

// destRect computes the destination active rectangle for s, per spec.md
// §4.3 step 2: a fixed scale of the active area in non-raw mode, or the
// source dimensions clamped to the active area in raw mode.
func (c *CRT) destRect(s *ModulateSettings) (w, h int) {
	activeLines := BottomActiveLine - TopActiveLine
	if s.Raw {
		w = clampInt(s.W, 0, c.timing.AVLen)
		h = clampInt(s.H, 0, activeLines)
		return
	}
	w = (c.timing.AVLen * 55500) >> 16
	h = (activeLines * 63500) >> 16
	return
}

// chromaTables precomputes the per-sample chroma carrier tables for this
// field: ccburst carries the +33 degree burst reference phase, ccmodI/Q
// carry the in-phase/quadrature remodulation carriers. Entries are the
// 15-bit sincos14 values shifted down to a 5-bit scale (about +/-32), so
// that (ccburst*BurstLevel)>>5 spans +/-BurstLevel.
func (c *CRT) chromaTables(s *ModulateSettings, n int) (ccburst, ccmodI, ccmodQ []int32) {
	ccburst = make([]int32, n)
	ccmodI = make([]int32, n)
	ccmodQ = make([]int32, n)
	if !s.AsColor {
		return
	}
	step := 360 / n
	for k := 0; k < n; k++ {
		ccburst[k], _ = sincos14(degToAngle(s.Hue + int32(k*step) + 33))
		ccmodI[k], _ = sincos14(degToAngle(s.Hue + int32(k*step)))
		ccmodQ[k], _ = sincos14(degToAngle(s.Hue + int32(k*step) - 90))
		ccburst[k] >>= 10
		ccmodI[k] >>= 10
		ccmodQ[k] >>= 10
	}
	return
}

func degToAngle(deg int32) int32 {
	return (deg * AngleFullTurn) / 360
}

// writeLineBlanking writes the horizontal-blanking structure (and, for
// ordinary lines, the color burst) for one scanline. burstSample(k) must
// return the k-th sample of the 10-cycle burst waveform.
func (c *CRT) writeLineBlanking(line, field int, t Timing, burstSample func(int) int32, n int) {
	set := func(from, to int, level int32) {
		if from < 0 {
			from = 0
		}
		if to > t.HRES {
			to = t.HRES
		}
		for i := from; i < to; i++ {
			c.analog[line*t.HRES+i] = int8(level)
		}
	}

	switch {
	case line <= 3 || (line >= 7 && line <= 9):
		// Equalizing pulse: 4% sync, 46% blank, 4% sync, 46% blank.
		set(0, t.PctPos(4), SyncLevel)
		set(t.PctPos(4), t.PctPos(50), BlankLevel)
		set(t.PctPos(50), t.PctPos(54), SyncLevel)
		set(t.PctPos(54), t.HRES, BlankLevel)
	case line >= 4 && line <= 6:
		// Vertical sync (serrated), blip pattern parameterized by field.
		pcts := [4]int{4, 50, 96, 100}
		if field == 0 {
			pcts = [4]int{46, 50, 96, 100}
		}
		set(0, t.PctPos(pcts[0]), SyncLevel)
		set(t.PctPos(pcts[0]), t.PctPos(pcts[1]), BlankLevel)
		set(t.PctPos(pcts[1]), t.PctPos(pcts[2]), SyncLevel)
		set(t.PctPos(pcts[2]), t.PctPos(pcts[3]), BlankLevel)
	default:
		set(t.FPBeg, t.FPEnd, BlankLevel)
		set(t.SyncBeg, t.SyncEnd, SyncLevel)
		set(t.BWBeg, t.BPEnd, BlankLevel)
		for k := 0; k < 10*n; k++ {
			pos := t.CBBeg + k
			if pos >= t.BPEnd || pos >= t.HRES {
				break
			}
			c.analog[line*t.HRES+pos] = int8(burstSample(k % n))
		}
		set(t.AVBeg, t.HRES, BlankLevel)
	}
}

// activeRowFor reports whether scanline line (for this field) carries
// active video, and if so which destination row index it corresponds to.
// Interlace means a field only ever supplies every other active line, so
// field 0 owns the even destination rows and field 1 the odd ones.
func activeRowFor(line, field int, t Timing) (row int, ok bool) {
	if line < TopActiveLine || line >= BottomActiveLine {
		return 0, false
	}
	rel := line - TopActiveLine
	if rel%2 != field%2 {
		return 0, false
	}
	return rel, true
}

// srcRowFor maps a destination row y to a source image row, applying the
// interlace field offset described in spec.md §9 and clamping to the last
// source row rather than reading one row past the end (the open question
// spec.md §9 calls out and resolves in favor of clamping).
func srcRowFor(y, field, srcH, destH int) int {
	if destH <= 0 {
		return 0
	}
	fieldOffset := (field*srcH + destH) / destH / 2
	sy := (y*srcH)/destH + fieldOffset
	if sy >= srcH {
		sy = srcH - 1
	}
	if sy < 0 {
		sy = 0
	}
	return sy
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clamp32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
