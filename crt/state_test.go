package crt

import "testing"

func TestNewCRTAllocatesBuffersForTiming(t *testing.T) {
	c := NewCRT(DefaultSystemConfig())
	want := c.timing.HRES * VRES
	if len(c.analog) != want || len(c.inp) != want {
		t.Fatalf("buffer sizes = %d/%d, want %d", len(c.analog), len(c.inp), want)
	}
	for _, bucket := range c.ccf {
		if len(bucket) != c.cfg.SamplesPerPeriod {
			t.Fatalf("ccf bucket size = %d, want %d", len(bucket), c.cfg.SamplesPerPeriod)
		}
	}
}

func TestResetRestoresFactoryControls(t *testing.T) {
	c := NewCRT(DefaultSystemConfig())
	c.Init(64, 48, FormatRGB, make([]byte, 64*48*3))
	c.Controls.Hue = 42
	c.Controls.Contrast = 999
	c.Reset()
	want := defaultMonitorControls()
	if c.Controls != want {
		t.Fatalf("Reset left controls = %+v, want %+v", c.Controls, want)
	}
}

func TestResizeDoesNotResetControls(t *testing.T) {
	c := NewCRT(DefaultSystemConfig())
	c.Init(64, 48, FormatRGB, make([]byte, 64*48*3))
	c.Controls.Hue = 42
	c.Resize(32, 24, FormatRGB, make([]byte, 32*24*3))
	if c.Controls.Hue != 42 {
		t.Fatalf("Resize must not reset monitor controls, got hue=%d", c.Controls.Hue)
	}
	if c.outw != 32 || c.outh != 24 {
		t.Fatalf("Resize did not update output dimensions: %d x %d", c.outw, c.outh)
	}
}

func TestInitReseedsNoiseGenerator(t *testing.T) {
	c := NewCRT(DefaultSystemConfig())
	c.rn = 999999
	c.Init(16, 16, FormatRGB, make([]byte, 16*16*3))
	if c.rn != 194 {
		t.Fatalf("Init did not reseed rn, got %d", c.rn)
	}
}
