package efficiency

import (
	"fmt"
	"math"

	"Airside/internal/model"

	"github.com/sirupsen/logrus"
)

// KWPerTonToCOP converts a chiller full-load rating in kW/ton to COP.
func KWPerTonToCOP(kwPerTon float64) float64 {
	return 3.517 / kwPerTon
}

// Chiller sets the reference COP of ch.
func (s *Setter) Chiller(ch *model.Chiller) error {
	if ch.ReferenceCapacity <= 0 {
		return fmt.Errorf("chiller %s has no reference capacity: %w", ch.Name, model.ErrMissingSpecification)
	}
	tons := ch.ReferenceCapacity / wattsPerTon
	crit := s.criteria(
		"cooling_type", ch.CoolingType,
		"condenser_type", ch.CondenserType,
		"compressor_type", ch.CompressorType,
	)
	rec, err := s.find(ch.Name, TableChillers, crit, tons)
	if err != nil {
		return err
	}
	kw, ok := rec.Float("minimum_full_load_efficiency")
	if !ok || kw <= 0 {
		return fmt.Errorf("chiller record for %s has no full load efficiency: %w", ch.Name, model.ErrMissingSpecification)
	}
	cop := KWPerTonToCOP(kw)
	ch.ReferenceCOP = &cop
	s.report(ch.Name, logrus.Fields{
		"capacity_tons": tons,
		"kw_per_ton":    kw,
		"cop":           cop,
	}, fmt.Sprintf("chiller COP set to %.2f", cop))
	return nil
}

// Boiler sets the nominal thermal efficiency of b. Small boilers are rated
// by AFUE, which is used as is; combustion efficiency is converted to
// thermal efficiency by subtracting 0.7%.
func (s *Setter) Boiler(b *model.Boiler) error {
	if b.NominalCapacity <= 0 {
		return fmt.Errorf("boiler %s has no nominal capacity: %w", b.Name, model.ErrMissingSpecification)
	}
	btuh := b.NominalCapacity * btuhPerWatt
	crit := s.criteria("fuel_type", b.FuelType, "fluid_type", "Hot Water")
	rec, err := s.find(b.Name, TableBoilers, crit, btuh)
	if err != nil {
		return err
	}

	var eff float64
	var basis string
	if v, ok := rec.Float("minimum_annual_fuel_utilization_efficiency"); ok {
		eff, basis = v, "afue"
	} else if v, ok := rec.Float("minimum_thermal_efficiency"); ok {
		eff, basis = v, "thermal"
	} else if v, ok := rec.Float("minimum_combustion_efficiency"); ok {
		eff, basis = v-0.007, "combustion"
	} else {
		return fmt.Errorf("boiler record for %s has no efficiency: %w", b.Name, model.ErrMissingSpecification)
	}
	b.NominalThermalEfficiency = &eff
	s.report(b.Name, logrus.Fields{
		"capacity_btuh": btuh,
		"basis":         basis,
		"efficiency":    eff,
	}, fmt.Sprintf("boiler thermal efficiency set to %.3f", eff))
	return nil
}

// Water heater test conditions.
const (
	electricThermalEfficiency = 1.0
	fuelThermalEfficiency     = 0.82
	// Daily draw energy of the energy factor test, Btu.
	efTestDrawBtu = 41094.0
	efTestDeltaF  = 67.5
	standbyDeltaF = 70.0
)

// WaterHeater sets the heater thermal efficiency and the skin loss
// coefficient of wh. Small heaters are rated by energy factor, which is
// split into a thermal efficiency and a UA; large ones by thermal
// efficiency and a standby loss allowance.
func (s *Setter) WaterHeater(wh *model.WaterHeater) error {
	if wh.HeaterMaximumCapacity <= 0 || wh.TankVolume <= 0 {
		return fmt.Errorf("water heater %s has no capacity or volume: %w", wh.Name, model.ErrMissingSpecification)
	}
	btuh := wh.HeaterMaximumCapacity * btuhPerWatt
	gal := wh.TankVolume * gallonsPerM3

	rec, err := s.find(wh.Name, TableWaterHeaters, s.criteria("fuel_type", wh.FuelType), btuh)
	if err != nil {
		return err
	}

	fields := logrus.Fields{"capacity_btuh": btuh, "volume_gal": gal}
	var te, ua float64
	base, hasBase := rec.Float("energy_factor_base")
	derate, hasDerate := rec.Float("energy_factor_volume_derate")
	if hasBase && hasDerate {
		ef := base - derate*gal
		if ef <= 0 {
			return fmt.Errorf("water heater %s: energy factor %.3f is not positive: %w", wh.Name, ef, model.ErrMissingSpecification)
		}
		te = fuelThermalEfficiency
		if wh.FuelType == "Electricity" {
			te = electricThermalEfficiency
		}
		ua = efTestDrawBtu * (te/ef - 1) / (24 * efTestDeltaF)
		fields["energy_factor"] = ef
	} else {
		v, ok := rec.Float("minimum_thermal_efficiency")
		if !ok {
			return fmt.Errorf("water heater record for %s has no efficiency: %w", wh.Name, model.ErrMissingSpecification)
		}
		te = v
		sl := 0.0
		if allowance, ok := rec.Float("standby_loss_capacity_allowance"); ok && allowance > 0 {
			sl += btuh / allowance
		}
		if allowance, ok := rec.Float("standby_loss_volume_allowance"); ok {
			sl += allowance * math.Sqrt(gal)
		}
		ua = sl * te / standbyDeltaF
		fields["standby_loss_btuh"] = sl
	}

	uaW := ua * wPerKPerBtuhPerF
	wh.HeaterThermalEfficiency = &te
	wh.LossCoefficientToAmbient = &uaW
	fields["thermal_efficiency"] = te
	fields["ua_w_per_k"] = uaW
	s.report(wh.Name, fields, fmt.Sprintf("water heater thermal efficiency set to %.2f, UA %.3f W/K", te, uaW))
	return nil
}
