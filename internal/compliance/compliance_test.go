package compliance

import (
	"context"
	"strings"
	"sync"
	"testing"

	"Airside/internal/findings"
	"Airside/internal/logging"
	"Airside/internal/model"
	"Airside/internal/standards"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	store, err := standards.Load("../../data/standards")
	require.NoError(t, err)
	return NewEngine(store, logging.Discard())
}

func office(t *testing.T) *model.Model {
	t.Helper()
	m, err := model.Load("../../examples/office.yaml")
	require.NoError(t, err)
	return m
}

func TestRunOffice(t *testing.T) {
	m := office(t)
	rep, err := newEngine(t).Run(context.Background(), m, "90.1-2010")
	require.NoError(t, err)

	assert.Equal(t, "Small Office", rep.Model)
	assert.NotEmpty(t, rep.ID.String())
	assert.Equal(t, 1, rep.ZonesAdjusted)
	require.Len(t, rep.AirLoops, 1)
	lr := rep.AirLoops[0]
	assert.True(t, lr.Multizone)
	require.NotNil(t, lr.Sizing)
	assert.InDelta(t, 0.1595/0.6, lr.Sizing.VotAdj, 1e-9)

	loop, _ := m.AirLoop("VAV_1")
	assert.Equal(t, 0.895, loop.SupplyFan.MotorEfficiency)
	require.NotNil(t, loop.CoolingCoil.RatedCOP)
	require.NotNil(t, loop.Sizing.DesignOutdoorAirFlowRate)
	require.NotNil(t, m.Chillers[0].ReferenceCOP)
	require.NotNil(t, m.Boilers[0].NominalThermalEfficiency)
	require.NotNil(t, m.WaterHeaters[0].LossCoefficientToAmbient)

	f := rep.Findings
	assert.Zero(t, f.Count(findings.KindLookupMiss))
	// The conference zone drives the unadjusted e_v below zero.
	assert.Equal(t, 1, f.Count(findings.KindDegenerateSizing))
	assert.Len(t, f.Info, 7)
	for _, w := range f.Warnings {
		assert.NotContains(t, w.Fields, findings.FieldRun)
	}
}

func TestRunReferenceTemplateSkipsControls(t *testing.T) {
	m := office(t)
	rep, err := newEngine(t).Run(context.Background(), m, "DOE Ref Pre-1980")
	require.NoError(t, err)

	assert.Zero(t, rep.ZonesAdjusted)
	assert.Nil(t, rep.AirLoops[0].Sizing)
	loop, _ := m.AirLoop("VAV_1")
	assert.True(t, loop.Sizing.IsDesignOutdoorAirFlowRateAutosized())

	// No chiller records exist for the reference templates.
	assert.Equal(t, 1, rep.Findings.Count(findings.KindLookupMiss))
	assert.Nil(t, m.Chillers[0].ReferenceCOP)
	require.NotNil(t, m.Boilers[0].NominalThermalEfficiency)
}

func TestRunIsolatesFailures(t *testing.T) {
	m := office(t)
	m.WaterHeaters[0].TankVolume = 0
	m.AirLoops[0].CoolingCoil.AutosizedRatedTotalCoolingCapacity = nil

	rep, err := newEngine(t).Run(context.Background(), m, "90.1-2013")
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Findings.Count(findings.KindMissingSpecification))
	assert.Nil(t, m.WaterHeaters[0].HeaterThermalEfficiency)
	require.NotNil(t, m.Boilers[0].NominalThermalEfficiency)
	assert.Equal(t, 1, rep.ZonesAdjusted)
}

func TestRunUnknownTemplate(t *testing.T) {
	_, err := newEngine(t).Run(context.Background(), office(t), "90.1-1999")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newEngine(t).Run(ctx, office(t), "90.1-2010")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentRunsKeepTheirOwnFindings(t *testing.T) {
	e := newEngine(t)
	templates := []string{"90.1-2010", "DOE Ref Pre-1980", "90.1-2013", "DOE Ref 1980-2004"}
	reports := make([]*Report, len(templates))

	var wg sync.WaitGroup
	for i, tmpl := range templates {
		i, tmpl := i, tmpl
		m := office(t)
		wg.Add(1)
		go func() {
			defer wg.Done()
			rep, err := e.Run(context.Background(), m, tmpl)
			if err == nil {
				reports[i] = rep
			}
		}()
	}
	wg.Wait()

	for i, rep := range reports {
		require.NotNil(t, rep, templates[i])
		misses := 0
		if templates[i] == "DOE Ref Pre-1980" || templates[i] == "DOE Ref 1980-2004" {
			misses = 1
		}
		assert.Equal(t, misses, rep.Findings.Count(findings.KindLookupMiss), templates[i])
	}
	assert.NotEqual(t, reports[0].ID, reports[1].ID)
}

func TestApplyStandardControlsSingleZone(t *testing.T) {
	m, err := model.Decode(strings.NewReader(`
name: single
spaces: [{name: S, floor_area: 10}]
thermal_zones: [{name: Z, spaces: [S]}]
air_loops:
  - name: PSZ
    zones: [Z]
    supply_fan: {name: F, type: VariableVolume, pressure_rise: 500, motor_efficiency: 0.9, fan_efficiency: 0.6}
`))
	require.NoError(t, err)
	loop, _ := m.AirLoop("PSZ")
	res, err := ApplyStandardControls(loop, "90.1-2010", logging.Discard())
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.True(t, loop.Sizing.IsDesignOutdoorAirFlowRateAutosized())
}
