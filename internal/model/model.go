// Package model is the building HVAC object model the compliance rules read
// and mutate. A Model is not safe for concurrent use; callers give each
// goroutine its own Model.
package model

import (
	"errors"
	"fmt"
	"sort"
)

// ErrMissingSpecification marks data a rule needs but the model does not
// carry, such as a zone without a VAV terminal.
var ErrMissingSpecification = errors.New("missing specification")

type OutdoorAirMethod string

const (
	MethodSum     OutdoorAirMethod = "Sum"
	MethodMaximum OutdoorAirMethod = "Maximum"
)

// OutdoorAirSpec is a design specification for outdoor air. Rates are SI:
// m3/s per person, m3/s per m2 of floor, m3/s, and air changes per hour.
type OutdoorAirSpec struct {
	Method            OutdoorAirMethod `yaml:"method" json:"method"`
	FlowPerPerson     float64          `yaml:"flow_per_person,omitempty" json:"flow_per_person,omitempty"`
	FlowPerArea       float64          `yaml:"flow_per_area,omitempty" json:"flow_per_area,omitempty"`
	FlowRate          float64          `yaml:"flow_rate,omitempty" json:"flow_rate,omitempty"`
	AirChangesPerHour float64          `yaml:"air_changes_per_hour,omitempty" json:"air_changes_per_hour,omitempty"`
}

type Space struct {
	Name       string          `yaml:"name" json:"name"`
	FloorArea  float64         `yaml:"floor_area" json:"floor_area"`
	People     float64         `yaml:"people,omitempty" json:"people,omitempty"`
	Volume     float64         `yaml:"volume,omitempty" json:"volume,omitempty"`
	OutdoorAir *OutdoorAirSpec `yaml:"outdoor_air,omitempty" json:"outdoor_air,omitempty"`
}

type ThermalZone struct {
	Name       string   `yaml:"name" json:"name"`
	SpaceNames []string `yaml:"spaces" json:"spaces"`

	// Autosized design air flows from the sizing run, m3/s.
	CoolingDesignAirFlowRate *float64 `yaml:"autosized_cooling_design_air_flow_rate,omitempty" json:"autosized_cooling_design_air_flow_rate,omitempty"`
	HeatingDesignAirFlowRate *float64 `yaml:"autosized_heating_design_air_flow_rate,omitempty" json:"autosized_heating_design_air_flow_rate,omitempty"`

	Equipment []*Equipment `yaml:"equipment,omitempty" json:"equipment,omitempty"`

	spaces []*Space
}

func (z *ThermalZone) Spaces() []*Space {
	return z.spaces
}

// FloorArea is the summed floor area of the zone's spaces.
func (z *ThermalZone) FloorArea() float64 {
	total := 0.0
	for _, s := range z.spaces {
		total += s.FloorArea
	}
	return total
}

// VAVTerminal returns the first single-duct VAV terminal serving the zone.
func (z *ThermalZone) VAVTerminal() (VAVTerminal, error) {
	for _, e := range z.Equipment {
		if t, ok := e.VAVTerminal(); ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("zone %s has no VAV terminal: %w", z.Name, ErrMissingSpecification)
}

type SizingSystem struct {
	// Nil means autosize.
	DesignOutdoorAirFlowRate *float64 `yaml:"design_outdoor_air_flow_rate,omitempty" json:"design_outdoor_air_flow_rate,omitempty"`
}

func (s *SizingSystem) SetDesignOutdoorAirFlowRate(v float64) {
	s.DesignOutdoorAirFlowRate = &v
}

func (s *SizingSystem) IsDesignOutdoorAirFlowRateAutosized() bool {
	return s.DesignOutdoorAirFlowRate == nil
}

type AirLoop struct {
	Name      string   `yaml:"name" json:"name"`
	ZoneNames []string `yaml:"zones" json:"zones"`

	DesignSupplyAirFlowRate          *float64 `yaml:"design_supply_air_flow_rate,omitempty" json:"design_supply_air_flow_rate,omitempty"`
	AutosizedDesignSupplyAirFlowRate *float64 `yaml:"autosized_design_supply_air_flow_rate,omitempty" json:"autosized_design_supply_air_flow_rate,omitempty"`

	SupplyFan   *Fan           `yaml:"supply_fan,omitempty" json:"supply_fan,omitempty"`
	CoolingCoil *CoilCoolingDX `yaml:"cooling_coil,omitempty" json:"cooling_coil,omitempty"`
	Sizing      SizingSystem   `yaml:"sizing" json:"sizing"`

	zones []*ThermalZone
}

func (l *AirLoop) ThermalZones() []*ThermalZone {
	return l.zones
}

// SortedZones returns the served zones ordered by name.
func (l *AirLoop) SortedZones() []*ThermalZone {
	out := append([]*ThermalZone(nil), l.zones...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PrimaryDesignAirFlowRate is the hard-sized supply flow when set, otherwise
// the autosized one.
func (l *AirLoop) PrimaryDesignAirFlowRate() (float64, bool) {
	if l.DesignSupplyAirFlowRate != nil {
		return *l.DesignSupplyAirFlowRate, true
	}
	if l.AutosizedDesignSupplyAirFlowRate != nil {
		return *l.AutosizedDesignSupplyAirFlowRate, true
	}
	return 0, false
}

type Model struct {
	Name         string         `yaml:"name" json:"name"`
	Spaces       []*Space       `yaml:"spaces" json:"spaces"`
	ThermalZones []*ThermalZone `yaml:"thermal_zones" json:"thermal_zones"`
	AirLoops     []*AirLoop     `yaml:"air_loops" json:"air_loops"`
	Chillers     []*Chiller     `yaml:"chillers,omitempty" json:"chillers,omitempty"`
	Boilers      []*Boiler      `yaml:"boilers,omitempty" json:"boilers,omitempty"`
	WaterHeaters []*WaterHeater `yaml:"water_heaters,omitempty" json:"water_heaters,omitempty"`
}

// Link resolves the name references between spaces, zones and air loops.
// It must run before the model is used; Decode calls it.
func (m *Model) Link() error {
	spaces := map[string]*Space{}
	for _, s := range m.Spaces {
		if s.Name == "" {
			return fmt.Errorf("space without a name")
		}
		if _, dup := spaces[s.Name]; dup {
			return fmt.Errorf("duplicate space %q", s.Name)
		}
		spaces[s.Name] = s
	}

	zones := map[string]*ThermalZone{}
	for _, z := range m.ThermalZones {
		if z.Name == "" {
			return fmt.Errorf("thermal zone without a name")
		}
		if _, dup := zones[z.Name]; dup {
			return fmt.Errorf("duplicate thermal zone %q", z.Name)
		}
		zones[z.Name] = z
		z.spaces = z.spaces[:0]
		for _, name := range z.SpaceNames {
			s, ok := spaces[name]
			if !ok {
				return fmt.Errorf("thermal zone %q: unknown space %q", z.Name, name)
			}
			z.spaces = append(z.spaces, s)
		}
		for i, e := range z.Equipment {
			if e == nil || e.Type == "" {
				return fmt.Errorf("thermal zone %q: equipment %d has no type", z.Name, i)
			}
		}
	}

	loops := map[string]bool{}
	for _, l := range m.AirLoops {
		if l.Name == "" {
			return fmt.Errorf("air loop without a name")
		}
		if loops[l.Name] {
			return fmt.Errorf("duplicate air loop %q", l.Name)
		}
		loops[l.Name] = true
		l.zones = l.zones[:0]
		for _, name := range l.ZoneNames {
			z, ok := zones[name]
			if !ok {
				return fmt.Errorf("air loop %q: unknown thermal zone %q", l.Name, name)
			}
			l.zones = append(l.zones, z)
		}
	}
	return nil
}

func (m *Model) AirLoop(name string) (*AirLoop, bool) {
	for _, l := range m.AirLoops {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

func (m *Model) ThermalZone(name string) (*ThermalZone, bool) {
	for _, z := range m.ThermalZones {
		if z.Name == name {
			return z, true
		}
	}
	return nil, false
}

// SortedAirLoops returns the air loops ordered by name.
func (m *Model) SortedAirLoops() []*AirLoop {
	out := append([]*AirLoop(nil), m.AirLoops...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Float returns a pointer to v, for optional fields.
func Float(v float64) *float64 {
	return &v
}
