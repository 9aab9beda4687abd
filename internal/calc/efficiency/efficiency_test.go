package efficiency

import (
	"errors"
	"testing"

	"Airside/internal/findings"
	"Airside/internal/logging"
	"Airside/internal/model"
	"Airside/internal/standards"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setter(t *testing.T, template string) (*Setter, *findings.Collector) {
	t.Helper()
	store, err := standards.Load("../../../data/standards")
	require.NoError(t, err)
	log := logging.Discard()
	c := findings.Attach(log)
	return New(template, standards.NewResolver(store, log), log), c
}

func TestFanMotor(t *testing.T) {
	s, c := setter(t, "90.1-2010")
	f := &model.Fan{Name: "F", PressureRise: 1000, AutosizedMaximumFlowRate: model.Float(1.07), MotorEfficiency: 0.9, FanEfficiency: 0.6}
	require.NoError(t, s.Fan(f))

	// 2.15 bhp sits in the 2-3 hp band, so the motor is a nominal 3 hp.
	assert.Equal(t, 0.895, f.MotorEfficiency)
	assert.InDelta(t, 0.65*0.895, f.FanEfficiency, 1e-12)
	assert.Empty(t, c.Report().Warnings)
	require.Len(t, c.Report().Info, 1)
	assert.Equal(t, 3.0, c.Report().Info[0].Fields["nominal_hp"])
}

func TestFanMotorReferenceImpeller(t *testing.T) {
	s, _ := setter(t, "DOE Ref Pre-1980")
	f := &model.Fan{Name: "F", PressureRise: 1000, AutosizedMaximumFlowRate: model.Float(1.07), MotorEfficiency: 0.9, FanEfficiency: 0.6}
	require.NoError(t, s.Fan(f))
	assert.Equal(t, 0.855, f.MotorEfficiency)
	assert.InDelta(t, 0.55*0.855, f.FanEfficiency, 1e-12)
}

func TestFanWithoutFlow(t *testing.T) {
	s, _ := setter(t, "90.1-2010")
	err := s.Fan(&model.Fan{Name: "F", FanEfficiency: 0.6})
	assert.True(t, errors.Is(err, model.ErrMissingSpecification))
}

func TestCoolingCoil(t *testing.T) {
	s, _ := setter(t, "90.1-2010")

	big := &model.CoilCoolingDX{Name: "big", AutosizedRatedTotalCoolingCapacity: model.Float(35000)}
	require.NoError(t, s.CoolingCoil(big))
	require.NotNil(t, big.RatedCOP)
	// EER 11.0 for All Other, Single Package, 65-135 kBtu/h
	assert.InDelta(t, 3.7988, *big.RatedCOP, 1e-4)

	small := &model.CoilCoolingDX{Name: "small", RatedTotalCoolingCapacity: model.Float(10000), Subcategory: "Split System"}
	require.NoError(t, s.CoolingCoil(small))
	assert.InDelta(t, SEERToCOP(13), *small.RatedCOP, 1e-12)
}

func TestConversions(t *testing.T) {
	assert.InDelta(t, 3.6498, SEERToCOP(13), 1e-4)
	assert.InDelta(t, (10.0/3.413+0.12)/0.88, EERToCOP(10), 1e-12)
	assert.InDelta(t, 6.1059, KWPerTonToCOP(0.576), 1e-4)
}

func TestChiller(t *testing.T) {
	s, _ := setter(t, "90.1-2010")
	ch := &model.Chiller{Name: "CH", ReferenceCapacity: 700000, CoolingType: "WaterCooled", CompressorType: "Centrifugal"}
	require.NoError(t, s.Chiller(ch))
	require.NotNil(t, ch.ReferenceCOP)
	assert.InDelta(t, 3.517/0.576, *ch.ReferenceCOP, 1e-12)

	air := &model.Chiller{Name: "AC", ReferenceCapacity: 300000, CoolingType: "AirCooled", CondenserType: "WithCondenser"}
	require.NoError(t, s.Chiller(air))
	assert.InDelta(t, 3.517/1.255, *air.ReferenceCOP, 1e-12)
}

func TestChillerMissIsReported(t *testing.T) {
	// The chiller table has no DOE reference records.
	s, c := setter(t, "DOE Ref Pre-1980")
	ch := &model.Chiller{Name: "CH", ReferenceCapacity: 700000, CoolingType: "WaterCooled", CompressorType: "Centrifugal"}
	err := s.Chiller(ch)
	require.ErrorIs(t, err, standards.ErrLookupMiss)
	assert.Nil(t, ch.ReferenceCOP)

	r := c.Report()
	require.Equal(t, 1, r.Count(findings.KindLookupMiss))
	assert.Equal(t, "CH", r.Warnings[0].Object)
	assert.Equal(t, TableChillers, r.Warnings[0].Fields["table"])
}

func TestBoiler(t *testing.T) {
	s, _ := setter(t, "90.1-2010")
	b := &model.Boiler{Name: "B", NominalCapacity: 500000, FuelType: "NaturalGas"}
	require.NoError(t, s.Boiler(b))
	require.NotNil(t, b.NominalThermalEfficiency)
	assert.Equal(t, 0.8, *b.NominalThermalEfficiency)
}

func TestBoilerCombustionEfficiency(t *testing.T) {
	store, err := standards.NewStore(map[string][]standards.Record{
		TableBoilers: {
			{"template": "T", "fuel_type": "NaturalGas", "fluid_type": "Hot Water", "minimum_capacity": 0.0, "maximum_capacity": 1e9, "minimum_combustion_efficiency": 0.82},
		},
	})
	require.NoError(t, err)
	log := logging.Discard()
	s := New("T", standards.NewResolver(store, log), log)

	b := &model.Boiler{Name: "B", NominalCapacity: 1e6, FuelType: "NaturalGas"}
	require.NoError(t, s.Boiler(b))
	assert.InDelta(t, 0.813, *b.NominalThermalEfficiency, 1e-12)
}

func TestWaterHeaterEnergyFactor(t *testing.T) {
	s, _ := setter(t, "90.1-2010")
	wh := &model.WaterHeater{Name: "SWH", HeaterMaximumCapacity: 12000, TankVolume: 0.19, FuelType: "NaturalGas"}
	require.NoError(t, s.WaterHeater(wh))

	assert.Equal(t, 0.82, *wh.HeaterThermalEfficiency)
	// EF = 0.67 - 0.0019 * 50.19 gal, UA = 10.83 Btu/h-F
	assert.InDelta(t, 5.7139, *wh.LossCoefficientToAmbient, 1e-4)
}

func TestWaterHeaterStandbyLoss(t *testing.T) {
	s, _ := setter(t, "90.1-2010")

	elec := &model.WaterHeater{Name: "E", HeaterMaximumCapacity: 50000, TankVolume: 0.3, FuelType: "Electricity"}
	require.NoError(t, s.WaterHeater(elec))
	assert.Equal(t, 1.0, *elec.HeaterThermalEfficiency)
	assert.InDelta(t, 1.3418, *elec.LossCoefficientToAmbient, 1e-4)

	gas := &model.WaterHeater{Name: "G", HeaterMaximumCapacity: 100000, TankVolume: 0.3, FuelType: "NaturalGas"}
	require.NoError(t, s.WaterHeater(gas))
	assert.Equal(t, 0.8, *gas.HeaterThermalEfficiency)
	btuh := 100000 * btuhPerWatt
	sl := btuh/800 + 110*8.9023
	assert.InDelta(t, sl*0.8/70*wPerKPerBtuhPerF, *gas.LossCoefficientToAmbient, 1e-2)
}

func TestWaterHeaterWithoutVolume(t *testing.T) {
	s, _ := setter(t, "90.1-2010")
	err := s.WaterHeater(&model.WaterHeater{Name: "W", HeaterMaximumCapacity: 12000, FuelType: "NaturalGas"})
	assert.True(t, errors.Is(err, model.ErrMissingSpecification))
}
