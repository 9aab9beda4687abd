package model

type FanType string

const (
	FanConstantVolume FanType = "ConstantVolume"
	FanVariableVolume FanType = "VariableVolume"
	FanOnOff          FanType = "OnOff"
)

const wattsPerHorsepower = 745.7

type Fan struct {
	Name         string  `yaml:"name" json:"name"`
	Type         FanType `yaml:"type" json:"type"`
	PressureRise float64 `yaml:"pressure_rise" json:"pressure_rise"` // Pa

	MaximumFlowRate          *float64 `yaml:"maximum_flow_rate,omitempty" json:"maximum_flow_rate,omitempty"`
	AutosizedMaximumFlowRate *float64 `yaml:"autosized_maximum_flow_rate,omitempty" json:"autosized_maximum_flow_rate,omitempty"`

	MotorEfficiency float64 `yaml:"motor_efficiency" json:"motor_efficiency"`
	// Total efficiency: impeller times motor.
	FanEfficiency float64 `yaml:"fan_efficiency" json:"fan_efficiency"`
}

func (f *Fan) FlowRate() (float64, bool) {
	if f.MaximumFlowRate != nil {
		return *f.MaximumFlowRate, true
	}
	return optional(f.AutosizedMaximumFlowRate)
}

// BrakeHorsepower is the shaft power the motor delivers at design flow.
func (f *Fan) BrakeHorsepower() (float64, bool) {
	flow, ok := f.FlowRate()
	if !ok || f.FanEfficiency <= 0 {
		return 0, false
	}
	impeller := f.FanEfficiency
	if f.MotorEfficiency > 0 {
		impeller = f.FanEfficiency / f.MotorEfficiency
	}
	return f.PressureRise * flow / impeller / wattsPerHorsepower, true
}

type CoilCoolingDX struct {
	Name string `yaml:"name" json:"name"`

	RatedTotalCoolingCapacity          *float64 `yaml:"rated_total_cooling_capacity,omitempty" json:"rated_total_cooling_capacity,omitempty"` // W
	AutosizedRatedTotalCoolingCapacity *float64 `yaml:"autosized_rated_total_cooling_capacity,omitempty" json:"autosized_rated_total_cooling_capacity,omitempty"`

	Subcategory string `yaml:"subcategory,omitempty" json:"subcategory,omitempty"`
	HeatingType string `yaml:"heating_type,omitempty" json:"heating_type,omitempty"`

	RatedCOP *float64 `yaml:"rated_cop,omitempty" json:"rated_cop,omitempty"`
}

func (c *CoilCoolingDX) Capacity() (float64, bool) {
	if c.RatedTotalCoolingCapacity != nil {
		return *c.RatedTotalCoolingCapacity, true
	}
	return optional(c.AutosizedRatedTotalCoolingCapacity)
}

type Chiller struct {
	Name              string  `yaml:"name" json:"name"`
	ReferenceCapacity float64 `yaml:"reference_capacity" json:"reference_capacity"` // W
	CoolingType       string  `yaml:"cooling_type" json:"cooling_type"`
	CondenserType     string  `yaml:"condenser_type,omitempty" json:"condenser_type,omitempty"`
	CompressorType    string  `yaml:"compressor_type,omitempty" json:"compressor_type,omitempty"`

	ReferenceCOP *float64 `yaml:"reference_cop,omitempty" json:"reference_cop,omitempty"`
}

type Boiler struct {
	Name            string  `yaml:"name" json:"name"`
	NominalCapacity float64 `yaml:"nominal_capacity" json:"nominal_capacity"` // W
	FuelType        string  `yaml:"fuel_type" json:"fuel_type"`

	NominalThermalEfficiency *float64 `yaml:"nominal_thermal_efficiency,omitempty" json:"nominal_thermal_efficiency,omitempty"`
}

type WaterHeater struct {
	Name                  string  `yaml:"name" json:"name"`
	HeaterMaximumCapacity float64 `yaml:"heater_maximum_capacity" json:"heater_maximum_capacity"` // W
	TankVolume            float64 `yaml:"tank_volume" json:"tank_volume"`                         // m3
	FuelType              string  `yaml:"fuel_type" json:"fuel_type"`

	HeaterThermalEfficiency *float64 `yaml:"heater_thermal_efficiency,omitempty" json:"heater_thermal_efficiency,omitempty"`
	// W/K, applied to both on- and off-cycle losses.
	LossCoefficientToAmbient *float64 `yaml:"loss_coefficient_to_ambient,omitempty" json:"loss_coefficient_to_ambient,omitempty"`
}
