package crt

// demodulate.go - composite signal -> RGB decoder.
//
// Grounded on modulate.go's scanline loop structure, generalized from an
// encoder walking a source raster to a receiver walking the analog buffer:
// noise injection, sync search, burst-locked chroma recovery and horizontal
// resampling are all per spec.md §4.4. The bloom energy model and blend/
// scanline-duplication stages are grounded on video_ted.go's notion of a
// persistent per-frame beam state carried across ProcessScanline calls.

// Vertical/horizontal sync search window and threshold constants. Not
// numerically specified beyond "search a small window around the previous
// sync position and accumulate a running sum against a threshold"; this
// implementation's choice of window/threshold is recorded as an open
// question resolution in DESIGN.md.
const (
	vSyncWindow = 12
	vSyncThresh = 16

	hSyncWindow = 8
	hSyncThresh = 8
)

// yiq is one recovered luma/chroma sample, scaled for the resample stage.
type yiq struct {
	y, i, q int32
}

// Demodulate decodes crt's analog buffer (with noise added at level noise)
// into the attached output buffer. noise below zero is treated as zero.
// If no output format was attached via Init/Resize, Demodulate is a no-op.
func (c *CRT) Demodulate(noise int32) {
	if Bpp4fmt(c.outFormat) == 0 || c.out == nil || c.outw <= 0 || c.outh <= 0 {
		return
	}
	if noise < 0 {
		noise = 0
	}
	t := c.timing
	n := c.cfg.SamplesPerPeriod

	c.injectNoise(noise)

	field := c.searchVSync(t)

	activeLines := BottomActiveLine - TopActiveLine
	ratio := (c.outh + activeLines/2) / activeLines
	if ratio < 1 {
		ratio = 1
	}
	fieldOffsetPx := field * (ratio / 2)

	scratch := make([]yiq, t.AVLen)
	wave := [4]int32{}

	for line := TopActiveLine; line < BottomActiveLine; line++ {
		if c.cfg.HSyncEnabled {
			c.searchHSync(line, t)
		}

		xpos := posmod(t.AVBeg+c.hsync-3, t.HRES)
		ypos := posmod(line+c.vsync+3, VRES)
		rowBase := ypos * t.HRES
		bucket := ypos % CCVPER

		c.captureBurst(bucket, rowBase, t, n)

		ccr := c.ccf[bucket]
		align := posmod(c.hsync, n)
		dci := ccr[posmod(align+1, n)] - ccr[posmod(align+3, n)]
		dcq := ccr[posmod(align+2, n)] - ccr[posmod(align, n)]

		hueAngle := degToAngle(posmod32(c.Controls.Hue, 360) + 33)
		huesn, huecs := sincos14(hueAngle)
		huesn >>= 11
		huecs >>= 11

		w0 := (dci*huecs - dcq*huesn) * c.Controls.Saturation
		w1 := (dcq*huecs + dci*huesn) * c.Controls.Saturation
		wave[0], wave[1], wave[2], wave[3] = w0, w1, -w0, -w1

		dx, scanL := c.bloomGeometry(rowBase, xpos, t)

		bright := c.Controls.Brightness - (BlackLevel + c.Controls.BlackPoint)
		c.eqY.Reset()
		c.eqI.Reset()
		c.eqQ.Reset()
		for i := 0; i < t.AVLen; i++ {
			xIdx := posmod(xpos+i, t.HRES)
			raw := int32(c.inp[rowBase+xIdx])
			scratch[i].y = c.eqY.Apply(raw+bright) << 4
			scratch[i].i = c.eqI.Apply((raw*wave[i%4])>>9) >> 3
			scratch[i].q = c.eqQ.Apply((raw*wave[(i+3)%4])>>9) >> 3
		}

		beg := (line-TopActiveLine)*ratio + fieldOffsetPx
		rows := ratio
		if c.Controls.Scanlines && rows > 1 {
			rows--
		}
		c.writeOutputRows(scratch, beg, rows, scanL, dx, t)
	}
}

// injectNoise advances the per-sample LCG and writes the noisy input
// buffer: inp[i] = clamp(analog[i] + (((rn>>16)&0xff - 127) * noise) >> 8).
func (c *CRT) injectNoise(noise int32) {
	rn := c.rn
	for i := range c.analog {
		rn = 214019*rn + 140327895
		nv := int32((rn>>16)&0xff) - 127
		s := int32(c.analog[i]) + ((nv * noise) >> 8)
		c.inp[i] = int8(clamp32(s, -127, 127))
	}
	c.rn = rn
}

// searchVSync looks for the vertical sync pulse within vSyncWindow lines of
// the previous vsync position, updating c.vsync and reporting which field
// the pulse indicates (0 if the pulse falls in the first half of the line,
// 1 otherwise).
func (c *CRT) searchVSync(t Timing) int {
	if !c.cfg.VSyncEnabled {
		return 0
	}
	field := 0
	for i := -vSyncWindow; i < vSyncWindow; i++ {
		line := posmod(c.vsync+i, VRES)
		base := line * t.HRES
		sum := int32(0)
		thresh := int32(vSyncThresh) * SyncLevel
		for j := 0; j < t.HRES; j++ {
			sum += int32(c.inp[base+j])
			if sum < thresh {
				c.vsync = line
				if j > t.HRES/2 {
					field = 1
				}
				return field
			}
		}
	}
	return field
}

// searchHSync looks for the horizontal sync edge on line within
// hSyncWindow samples of the previous hsync position, updating c.hsync.
func (c *CRT) searchHSync(line int, t Timing) {
	base := line * t.HRES
	thresh := int32(hSyncThresh) * SyncLevel
	for o := -hSyncWindow; o < hSyncWindow; o++ {
		cand := posmod(c.hsync+o, t.HRES)
		sum := int32(0)
		for k := 0; k < t.HRES; k++ {
			idx := posmod(cand+k, t.HRES)
			sum += int32(c.inp[base+idx])
			if sum < thresh {
				c.hsync = cand
				return
			}
		}
	}
}

// captureBurst recursively averages the color burst region into the color
// carrier filter bucket for this row: ccf[bucket][k%n] = ccf[bucket][k%n]
// *127/128 + inp[t].
func (c *CRT) captureBurst(bucket, rowBase int, t Timing, n int) {
	burstOffset := t.CBBeg - t.SyncBeg
	burstBase := posmod(c.hsync+burstOffset, t.HRES)
	ccr := c.ccf[bucket]
	for k := 0; k < 10*n; k++ {
		idx := k % n
		sampleIdx := rowBase + posmod(burstBase+k, t.HRES)
		ccr[idx] = (ccr[idx]*127)/128 + int32(c.inp[sampleIdx])
	}
}

// bloomGeometry computes the horizontal resample step dx (12-bit fixed)
// and scan start scanL (12-bit fixed), applying the bloom energy model
// when enabled.
func (c *CRT) bloomGeometry(rowBase, xpos int, t Timing) (dx, scanL int32) {
	avLen := int32(t.AVLen)
	if !c.cfg.BloomEnabled {
		dx = ((avLen - 1) << 12) / int32(c.outw)
		scanL = 0
		return
	}
	sum := int32(0)
	for i := 0; i < t.AVLen; i++ {
		idx := rowBase + posmod(xpos+i, t.HRES)
		sum += int32(c.inp[idx])
	}
	maxE := avLen * WhiteLevel
	c.beamEnergy = c.beamEnergy*123/128 + (((maxE/2 - sum) << 10) / maxE)
	lineW := (avLen * 112 / 128) + (c.beamEnergy >> 9)
	dx = (lineW << 12) / int32(c.outw)
	scanL = ((avLen / 2) - (lineW / 2) + 8) << 12
	return
}

// writeOutputRows resamples scratch across the destination width and
// writes (or blends) the result into rows [beg, beg+rows) of the output
// buffer, duplicating the same resampled row across all of them.
func (c *CRT) writeOutputRows(scratch []yiq, beg, rows int, scanL, dx int32, t Timing) {
	if beg < 0 || beg >= c.outh {
		return
	}
	if beg+rows > c.outh {
		rows = c.outh - beg
	}
	if rows <= 0 {
		return
	}
	bpp := Bpp4fmt(c.outFormat)
	stride := c.outw * bpp
	avLen := len(scratch)

	rowBuf := make([]int32, c.outw*3)
	for k := 0; k < c.outw; k++ {
		posFixed := int64(scanL) + int64(k)*int64(dx)
		idx := int(posFixed >> 12)
		frac := int32(posFixed & 0xfff)
		if idx < 0 {
			idx, frac = 0, 0
		}
		if idx >= avLen-1 {
			idx = avLen - 2
			if idx < 0 {
				idx = 0
			}
			frac = 0
		}
		a, b := scratch[idx], scratch[idx+1]
		yv := a.y + (((b.y - a.y) * frac) >> 12)
		iv := a.i + (((b.i - a.i) * frac) >> 12)
		qv := a.q + (((b.q - a.q) * frac) >> 12)

		contrast := c.Controls.Contrast
		r := (((yv + 3879*iv + 2556*qv) >> 12) * contrast) >> 8
		g := (((yv - 1126*iv - 2605*qv) >> 12) * contrast) >> 8
		bch := (((yv - 4530*iv + 7021*qv) >> 12) * contrast) >> 8

		rowBuf[k*3+0] = clamp32(r, 0, 255)
		rowBuf[k*3+1] = clamp32(g, 0, 255)
		rowBuf[k*3+2] = clamp32(bch, 0, 255)
	}

	for r := 0; r < rows; r++ {
		rowOff := (beg + r) * stride
		if rowOff+stride > len(c.out) {
			break
		}
		for k := 0; k < c.outw; k++ {
			off := rowOff + k*bpp
			nr, ng, nb := rowBuf[k*3+0], rowBuf[k*3+1], rowBuf[k*3+2]
			if c.Controls.Blend {
				or, og, ob := unpackPixel(c.out, off, c.outFormat)
				nr = ((nr & 0xfe) >> 1) + ((or & 0xfe) >> 1)
				ng = ((ng & 0xfe) >> 1) + ((og & 0xfe) >> 1)
				nb = ((nb & 0xff) >> 1) + ((ob & 0xff) >> 1)
			}
			packPixel(c.out, off, c.outFormat, nr, ng, nb)
		}
	}
}

func posmod32(v, m int32) int32 {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}
