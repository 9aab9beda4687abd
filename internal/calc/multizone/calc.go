// Package multizone sizes outdoor air for multiple-zone VAV systems with the
// ASHRAE 62.1 multiple-spaces procedure and raises VAV minimum damper
// positions where a zone's ventilation efficiency falls below 0.6.
//
// Size is pure: it works on plain numbers and returns what should change.
// Apply reads those numbers from a model air loop, calls Size, and writes
// the new damper positions and system outdoor air flow back.
package multizone

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

const (
	// MinimumZoneVentilationEfficiency is the floor every zone is raised to.
	MinimumZoneVentilationEfficiency = 0.6
	// ZoneAirDistributionEffectiveness is E_z, taken as 1.0 for ceiling supply.
	ZoneAirDistributionEffectiveness = 1.0
	MaximumDamperPosition            = 1.0
)

var ErrDegenerateSizing = errors.New("degenerate ventilation sizing")

type ZoneInput struct {
	Name string `json:"name"`
	// V_bz, m3/s.
	BreathingZoneOA float64 `json:"breathing_zone_oa"`
	// V_pz, m3/s.
	PrimaryAirflow float64 `json:"primary_airflow"`
	// Minimum flow fraction configured on the terminal.
	TerminalFraction float64 `json:"terminal_fraction"`
	// Fixed minimum flow of the terminal, m3/s.
	FixedMinimumFlow float64 `json:"fixed_minimum_flow,omitempty"`
	// HasFixedMinimum is set when the terminal specifies a fixed minimum
	// flow, even a zero one. A positive FixedMinimumFlow implies it.
	HasFixedMinimum bool `json:"has_fixed_minimum,omitempty"`
	// NoTerminal marks a zone without a usable VAV terminal. It is sized as
	// fully open and nothing is written back for it.
	NoTerminal bool `json:"no_terminal,omitempty"`
}

type SystemInput struct {
	Name string `json:"name"`
	// V_ps, m3/s.
	PrimaryAirflow float64     `json:"primary_airflow"`
	Zones          []ZoneInput `json:"zones"`
}

type ZoneResult struct {
	Name  string  `json:"name"`
	Voz   float64 `json:"v_oz"`
	Vpz   float64 `json:"v_pz"`
	Mdp   float64 `json:"mdp"`
	Vdz   float64 `json:"v_dz"`
	Zd    float64 `json:"z_d"`
	Evz   float64 `json:"e_vz"`
	Sized bool    `json:"sized"`
	// NoTerminal zones are sized at a damper position of 1.0.
	NoTerminal bool `json:"no_terminal,omitempty"`
	// Reason is set when the zone could not be sized.
	Reason string `json:"reason,omitempty"`

	Adjusted bool    `json:"adjusted"`
	ZdAdj    float64 `json:"z_d_adj,omitempty"`
	VdzAdj   float64 `json:"v_dz_adj,omitempty"`
	MdpAdj   float64 `json:"mdp_adj,omitempty"`
	EvzAdj   float64 `json:"e_vz_adj"`
}

// Result is the outcome of a sizing pass. Vot is v_ou/e_v before any
// adjustment, zero only when e_v is zero, and negative when a zone starts
// with a negative e_vz; VotAdj is what gets written to the model.
type Result struct {
	System        string       `json:"system"`
	Vou           float64      `json:"v_ou"`
	Vps           float64      `json:"v_ps"`
	Xs            float64      `json:"x_s"`
	Ev            float64      `json:"e_v"`
	EvAdj         float64      `json:"e_v_adj"`
	Vot           float64      `json:"v_ot"`
	VotAdj        float64      `json:"v_ot_adj"`
	ZonesAdjusted int          `json:"zones_adjusted"`
	Zones         []ZoneResult `json:"zones"`
}

// Skipped lists the zones that could not be sized.
func (r Result) Skipped() []ZoneResult {
	var out []ZoneResult
	for _, z := range r.Zones {
		if !z.Sized {
			out = append(out, z)
		}
	}
	return out
}

// Adjustments lists the zones whose damper position was raised. A zone with
// no terminal can be adjusted in the rollup but has no damper to raise.
func (r Result) Adjustments() []ZoneResult {
	var out []ZoneResult
	for _, z := range r.Zones {
		if z.Adjusted && !z.NoTerminal {
			out = append(out, z)
		}
	}
	return out
}

// Size runs the multiple-spaces procedure over the zones in name order.
// Zones with no primary or discharge flow are reported and left out of the
// system efficiency; if no zone is left, or the system has no primary flow,
// the result is returned with ErrDegenerateSizing and must not be applied.
func Size(in SystemInput) (Result, error) {
	res := Result{System: in.Name, Vps: in.PrimaryAirflow}
	zones := append([]ZoneInput(nil), in.Zones...)
	sort.SliceStable(zones, func(i, j int) bool { return zones[i].Name < zones[j].Name })

	for _, z := range zones {
		res.Vou += z.BreathingZoneOA
	}
	if in.PrimaryAirflow <= 0 || math.IsNaN(in.PrimaryAirflow) {
		return res, fmt.Errorf("system %s has no primary design airflow: %w", in.Name, ErrDegenerateSizing)
	}
	res.Xs = res.Vou / in.PrimaryAirflow

	pre := math.Inf(1)
	post := math.Inf(1)
	for _, z := range zones {
		zr := sizeZone(z, res.Xs, in.PrimaryAirflow)
		if zr.Sized {
			pre = math.Min(pre, zr.Evz)
			post = math.Min(post, zr.EvzAdj)
			if zr.Adjusted && !zr.NoTerminal {
				res.ZonesAdjusted++
			}
		}
		res.Zones = append(res.Zones, zr)
	}
	if math.IsInf(post, 1) {
		return res, fmt.Errorf("system %s has no zone that can be sized: %w", in.Name, ErrDegenerateSizing)
	}

	res.Ev = pre
	res.EvAdj = post
	if res.Ev != 0 {
		res.Vot = res.Vou / res.Ev
	}
	res.VotAdj = res.Vou / res.EvAdj
	return res, nil
}

func sizeZone(z ZoneInput, xs, vps float64) ZoneResult {
	zr := ZoneResult{Name: z.Name, Vpz: z.PrimaryAirflow, NoTerminal: z.NoTerminal}
	zr.Voz = z.BreathingZoneOA / ZoneAirDistributionEffectiveness

	if z.PrimaryAirflow <= 0 {
		zr.Reason = "no primary design airflow"
		return zr
	}

	switch {
	case z.NoTerminal:
		zr.Mdp = MaximumDamperPosition
	case z.HasFixedMinimum || z.FixedMinimumFlow > 0:
		mdpOA := z.FixedMinimumFlow / vps
		zr.Mdp = roundTo(math.Max(z.TerminalFraction, mdpOA), 2)
	default:
		zr.Mdp = z.TerminalFraction
	}
	zr.Mdp = math.Min(zr.Mdp, MaximumDamperPosition)
	zr.Vdz = zr.Vpz * zr.Mdp
	if zr.Vdz <= 0 {
		zr.Reason = "zero minimum discharge airflow"
		return zr
	}
	zr.Sized = true
	zr.Zd = zr.Voz / zr.Vdz
	zr.Evz = 1 + xs - zr.Zd

	if zr.Evz >= MinimumZoneVentilationEfficiency {
		zr.EvzAdj = zr.Evz
		return zr
	}
	zr.Adjusted = true
	zr.ZdAdj = 1 + xs - MinimumZoneVentilationEfficiency
	zr.VdzAdj = zr.Voz / zr.ZdAdj
	zr.MdpAdj = math.Min(zr.VdzAdj/zr.Vpz, MaximumDamperPosition)
	zr.EvzAdj = 1 + xs - zr.ZdAdj
	return zr
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
