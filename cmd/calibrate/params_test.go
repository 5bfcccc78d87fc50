package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/fluidsense/config"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.ExtractFromConfig(config.Default())

	back := pv.Denormalize(pv.Normalize(raw))
	for i, spec := range pv.Specs {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("%s: round trip %v -> %v", spec.Name, raw[i], back[i])
		}
	}
}

func TestDefaultsInsideBounds(t *testing.T) {
	pv := NewParamVector()
	raw := pv.ExtractFromConfig(config.Default())
	for i, spec := range pv.Specs {
		if raw[i] < spec.Min || raw[i] > spec.Max {
			t.Errorf("%s default %v outside [%v, %v]", spec.Name, raw[i], spec.Min, spec.Max)
		}
	}
}

func TestClamp(t *testing.T) {
	pv := NewParamVector()
	low := make([]float64, pv.Dim())
	high := make([]float64, pv.Dim())
	for i := range low {
		low[i] = -1e9
		high[i] = 1e9
	}

	cl, ch := pv.Clamp(low), pv.Clamp(high)
	for i, spec := range pv.Specs {
		if cl[i] != spec.Min || ch[i] != spec.Max {
			t.Errorf("%s: clamp gave %v/%v, want %v/%v", spec.Name, cl[i], ch[i], spec.Min, spec.Max)
		}
	}
}

func TestApplyExtractRoundTrip(t *testing.T) {
	pv := NewParamVector()
	base := config.Default()
	cfg := base.Clone()

	values := pv.Denormalize([]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6})
	pv.ApplyToConfig(cfg, values)
	if err := cfg.Prepare(); err != nil {
		t.Fatalf("applied config invalid: %v", err)
	}

	got := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if math.Abs(got[i]-values[i]) > 1e-12 {
			t.Errorf("%s: extracted %v, applied %v", spec.Name, got[i], values[i])
		}
	}
	for _, a := range cfg.WorldMap.Actuators {
		if a.Temperature != values[5] {
			t.Errorf("actuator %s temperature %v, want %v", a.Zone, a.Temperature, values[5])
		}
	}

	// The base config's actuators are untouched.
	if base.WorldMap.Actuators[0].Temperature == values[5] {
		t.Error("ApplyToConfig mutated the base config's actuators")
	}
}
