package model

const (
	TypeVAVReheat              = "AirTerminal:SingleDuct:VAV:Reheat"
	TypeVAVNoReheat            = "AirTerminal:SingleDuct:VAV:NoReheat"
	TypeVAVHeatAndCoolReheat   = "AirTerminal:SingleDuct:VAV:HeatAndCool:Reheat"
	TypeVAVHeatAndCoolNoReheat = "AirTerminal:SingleDuct:VAV:HeatAndCool:NoReheat"
)

// Equipment is a piece of zone equipment as stored in the model file. Only
// the fields that apply to its Type are meaningful.
type Equipment struct {
	Type string `yaml:"type" json:"type"`
	Name string `yaml:"name" json:"name"`

	// VAV:Reheat and VAV:NoReheat.
	ConstantMinimumAirFlowFraction *float64 `yaml:"constant_minimum_air_flow_fraction,omitempty" json:"constant_minimum_air_flow_fraction,omitempty"`
	// VAV:Reheat only, m3/s.
	FixedMinimumAirFlowRate *float64 `yaml:"fixed_minimum_air_flow_rate,omitempty" json:"fixed_minimum_air_flow_rate,omitempty"`
	// VAV:HeatAndCool variants.
	ZoneMinimumAirFlowFraction *float64 `yaml:"zone_minimum_air_flow_fraction,omitempty" json:"zone_minimum_air_flow_fraction,omitempty"`
}

// VAVTerminal is what the ventilation rules need from a single-duct VAV
// terminal, whichever variant it is.
type VAVTerminal interface {
	Name() string
	Type() string
	MinimumFlowFraction() (float64, bool)
	SetMinimumFlowFraction(f float64)
	// FixedMinimumFlowRate is set when the terminal's minimum is an
	// absolute flow rather than a fraction.
	FixedMinimumFlowRate() (float64, bool)
}

// VAVTerminal adapts e to the VAVTerminal interface. ok is false for
// equipment that is not a single-duct VAV terminal.
func (e *Equipment) VAVTerminal() (VAVTerminal, bool) {
	switch e.Type {
	case TypeVAVReheat:
		return vavReheat{e}, true
	case TypeVAVNoReheat:
		return vavNoReheat{e}, true
	case TypeVAVHeatAndCoolReheat:
		return vavHeatAndCoolReheat{heatAndCool{e}}, true
	case TypeVAVHeatAndCoolNoReheat:
		return vavHeatAndCoolNoReheat{heatAndCool{e}}, true
	}
	return nil, false
}

func optional(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

type vavReheat struct{ e *Equipment }

func (t vavReheat) Name() string { return t.e.Name }
func (t vavReheat) Type() string { return t.e.Type }
func (t vavReheat) MinimumFlowFraction() (float64, bool) {
	return optional(t.e.ConstantMinimumAirFlowFraction)
}
func (t vavReheat) SetMinimumFlowFraction(f float64) { t.e.ConstantMinimumAirFlowFraction = &f }
func (t vavReheat) FixedMinimumFlowRate() (float64, bool) {
	return optional(t.e.FixedMinimumAirFlowRate)
}

type vavNoReheat struct{ e *Equipment }

func (t vavNoReheat) Name() string { return t.e.Name }
func (t vavNoReheat) Type() string { return t.e.Type }
func (t vavNoReheat) MinimumFlowFraction() (float64, bool) {
	return optional(t.e.ConstantMinimumAirFlowFraction)
}
func (t vavNoReheat) SetMinimumFlowFraction(f float64)      { t.e.ConstantMinimumAirFlowFraction = &f }
func (t vavNoReheat) FixedMinimumFlowRate() (float64, bool) { return 0, false }

type heatAndCool struct{ e *Equipment }

func (t heatAndCool) Name() string { return t.e.Name }
func (t heatAndCool) Type() string { return t.e.Type }
func (t heatAndCool) MinimumFlowFraction() (float64, bool) {
	return optional(t.e.ZoneMinimumAirFlowFraction)
}
func (t heatAndCool) SetMinimumFlowFraction(f float64)      { t.e.ZoneMinimumAirFlowFraction = &f }
func (t heatAndCool) FixedMinimumFlowRate() (float64, bool) { return 0, false }

type vavHeatAndCoolReheat struct{ heatAndCool }

type vavHeatAndCoolNoReheat struct{ heatAndCool }
