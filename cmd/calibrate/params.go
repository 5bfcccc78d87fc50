// Package main provides CMA-ES calibration of the physical constants
// against an experiment readings file.
package main

import (
	"github.com/pthm-cable/fluidsense/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name string  // Human-readable name
	Path string  // Config path for logging
	Min  float64 // Lower bound
	Max  float64 // Upper bound
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Sensor coupling
			{Name: "thermal_conductivity", Path: "simulation.thermal_conductivity", Min: 0.05, Max: 0.95},
			// Flow
			{Name: "viscosity", Path: "simulation.viscosity", Min: 0.005, Max: 0.3},
			{Name: "stiffness", Path: "simulation.stiffness", Min: 5, Max: 120},
			// Heat transport
			{Name: "thermal_diffusivity", Path: "simulation.thermal_diffusivity", Min: 0, Max: 0.01},
			{Name: "buoyancy", Path: "simulation.buoyancy", Min: 0, Max: 0.01},
			// Supply air, applied to every actuator
			{Name: "actuator_temperature", Path: "world_map.actuators[*].temperature", Min: 24, Max: 45},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Names returns the parameter names in order.
func (pv *ParamVector) Names() []string {
	names := make([]string, len(pv.Specs))
	for i, spec := range pv.Specs {
		names[i] = spec.Name
	}
	return names
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = max(spec.Min, min(spec.Max, v[i]))
	}
	return clamped
}

// ApplyToConfig applies clamped parameter values to cfg.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	cfg.Simulation.ThermalConductivity = c[0]
	cfg.Simulation.Viscosity = c[1]
	cfg.Simulation.Stiffness = c[2]
	cfg.Simulation.ThermalDiffusivity = c[3]
	cfg.Simulation.Buoyancy = c[4]

	cfg.WorldMap.Actuators = append([]config.ActuatorConfig(nil), cfg.WorldMap.Actuators...)
	for i := range cfg.WorldMap.Actuators {
		cfg.WorldMap.Actuators[i].Temperature = c[5]
	}
}

// ExtractFromConfig extracts current parameter values from cfg. The
// actuator temperature is taken from the first actuator.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	supply := cfg.Simulation.AmbientTemperature
	if len(cfg.WorldMap.Actuators) > 0 {
		supply = cfg.WorldMap.Actuators[0].Temperature
	}
	return []float64{
		cfg.Simulation.ThermalConductivity,
		cfg.Simulation.Viscosity,
		cfg.Simulation.Stiffness,
		cfg.Simulation.ThermalDiffusivity,
		cfg.Simulation.Buoyancy,
		supply,
	}
}
