package oa

import (
	"fmt"
	"math"

	"Airside/internal/model"
)

// Breakdown splits a zone's outdoor air requirement by where it came from,
// m3/s. Sum-method spaces feed the first four totals; Maximum-method spaces
// feed Maximum with the largest of their own components.
type Breakdown struct {
	People   float64 `json:"people"`
	Area     float64 `json:"area"`
	Absolute float64 `json:"absolute"`
	ACH      float64 `json:"ach"`
	Maximum  float64 `json:"maximum"`
}

func (b Breakdown) Total() float64 {
	return b.People + b.Area + b.Absolute + b.ACH + b.Maximum
}

// Add folds one space into the breakdown. Spaces with no outdoor air
// specification add nothing.
func (b *Breakdown) Add(s *model.Space) {
	spec := s.OutdoorAir
	if spec == nil {
		return
	}
	people := spec.FlowPerPerson * s.People
	area := spec.FlowPerArea * s.FloorArea
	absolute := spec.FlowRate
	ach := spec.AirChangesPerHour * s.Volume / 3600.0

	if spec.Method == model.MethodMaximum {
		b.Maximum += math.Max(math.Max(people, area), math.Max(absolute, ach))
		return
	}
	b.People += people
	b.Area += area
	b.Absolute += absolute
	b.ACH += ach
}

func ZoneBreakdown(z *model.ThermalZone) Breakdown {
	var b Breakdown
	for _, s := range z.Spaces() {
		b.Add(s)
	}
	return b
}

// OutdoorAirflowRate is the zone's required outdoor air, m3/s.
func OutdoorAirflowRate(z *model.ThermalZone) float64 {
	return math.Max(0, ZoneBreakdown(z).Total())
}

// OutdoorAirflowRatePerArea is OutdoorAirflowRate over the zone floor area,
// m3/s per m2. Zero for a zone without floor area.
func OutdoorAirflowRatePerArea(z *model.ThermalZone) float64 {
	area := z.FloorArea()
	if area <= 0 {
		return 0
	}
	return OutdoorAirflowRate(z) / area
}

type Input struct {
	Spaces []model.Space `json:"spaces"`
}

type Result struct {
	FlowRateM3S     float64   `json:"flow_rate_m3_s"`
	FlowPerAreaM3S  float64   `json:"flow_per_area_m3_s_m2"`
	FloorAreaM2     float64   `json:"floor_area_m2"`
	Breakdown       Breakdown `json:"breakdown"`
	SpacesWithoutOA []string  `json:"spaces_without_oa,omitempty"`
	Notes           string    `json:"notes"`
}

// Calculate evaluates a free-standing list of spaces as one zone.
func Calculate(in Input) (Result, error) {
	zone := &model.ThermalZone{Name: "request"}
	m := &model.Model{ThermalZones: []*model.ThermalZone{zone}}
	var missing []string
	for i := range in.Spaces {
		s := in.Spaces[i]
		if s.Name == "" {
			s.Name = fmt.Sprintf("space %d", i+1)
		}
		if s.FloorArea < 0 || s.People < 0 || s.Volume < 0 {
			return Result{}, fmt.Errorf("invalid input")
		}
		if oa := s.OutdoorAir; oa != nil {
			if oa.FlowPerPerson < 0 || oa.FlowPerArea < 0 || oa.FlowRate < 0 || oa.AirChangesPerHour < 0 {
				return Result{}, fmt.Errorf("invalid input")
			}
			if oa.Method != "" && oa.Method != model.MethodSum && oa.Method != model.MethodMaximum {
				return Result{}, fmt.Errorf("unknown outdoor air method %q", oa.Method)
			}
		} else {
			missing = append(missing, s.Name)
		}
		m.Spaces = append(m.Spaces, &s)
		zone.SpaceNames = append(zone.SpaceNames, s.Name)
	}
	if err := m.Link(); err != nil {
		return Result{}, err
	}

	b := ZoneBreakdown(zone)
	return Result{
		FlowRateM3S:     OutdoorAirflowRate(zone),
		FlowPerAreaM3S:  OutdoorAirflowRatePerArea(zone),
		FloorAreaM2:     zone.FloorArea(),
		Breakdown:       b,
		SpacesWithoutOA: missing,
		Notes:           "Sum-method spaces add every component; Maximum-method spaces add their largest component.",
	}, nil
}
