// Package main drives a CMA-ES search over a handful of evolutionary
// knobs (mutation and insertion/deletion rates, the responsiveness curve
// k-factor) to find settings that maximize mean end-of-run survival rate.
package main

import "github.com/evocore/biosim/sim"

// ParamSpec defines a single optimizable parameter's search range.
type ParamSpec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable evolutionary
// knobs, tuned within ranges a few times wider than the simulator's
// defaults.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "point_mutation_rate", Min: 0.0001, Max: 0.01, Default: 0.001},
			{Name: "gene_insertion_deletion_rate", Min: 0.00005, Max: 0.005, Default: 0.0005},
			{Name: "deletion_ratio", Min: 0.1, Max: 0.9, Default: 0.5},
			{Name: "responsiveness_curve_k_factor", Min: 0.5, Max: 5.0, Default: 2.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
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
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToParams writes clamped values onto p's evolutionary knobs, in the
// fixed order Specs lists them.
func (pv *ParamVector) ApplyToParams(p *sim.Params, values []float64) {
	clamped := pv.Clamp(values)
	p.PointMutationRate = clamped[0]
	p.GeneInsertionDeletionRate = clamped[1]
	p.DeletionRatio = clamped[2]
	p.ResponsivenessCurveKFactor = clamped[3]
}
