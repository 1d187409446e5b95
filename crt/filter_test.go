package crt

import "testing"

func TestIIRLowPassConvergesToStep(t *testing.T) {
	f := newIIRLowPass(modYCutoffHz, modBandwidthHz)
	var out int32
	for i := 0; i < 5000; i++ {
		out = f.Apply(100)
	}
	if out < 95 || out > 100 {
		t.Fatalf("iirLowPass did not converge to step input: got %d", out)
	}
}

func TestIIRLowPassResetClearsHistory(t *testing.T) {
	f := newIIRLowPass(modYCutoffHz, modBandwidthHz)
	for i := 0; i < 100; i++ {
		f.Apply(100)
	}
	f.Reset()
	if f.h != 0 {
		t.Fatalf("Reset left h=%d, want 0", f.h)
	}
}

func TestEqStateResetClearsStages(t *testing.T) {
	e := newEqState(yEqLoHz, yEqHiHz, 14318180, yGainLow, yGainMid, yGainHigh)
	for i := 0; i < 50; i++ {
		e.Apply(77)
	}
	e.Reset()
	for _, v := range e.lowStages {
		if v != 0 {
			t.Fatalf("Reset left lowStages nonzero: %v", e.lowStages)
		}
	}
	for _, v := range e.highStages {
		if v != 0 {
			t.Fatalf("Reset left highStages nonzero: %v", e.highStages)
		}
	}
	for _, v := range e.hist {
		if v != 0 {
			t.Fatalf("Reset left hist nonzero: %v", e.hist)
		}
	}
}

func TestEqStateDCGain(t *testing.T) {
	e := newEqState(yEqLoHz, yEqHiHz, 14318180, 65536, 0, 0)
	var out int32
	for i := 0; i < 20000; i++ {
		out = e.Apply(50)
	}
	if out < 40 || out > 60 {
		t.Fatalf("eqState low band did not converge near DC input: got %d", out)
	}
}
