package efficiency

import (
	"fmt"

	"Airside/internal/model"

	"github.com/sirupsen/logrus"
)

// Unitary equipment below this size is rated by SEER, at or above it by EER.
const seerLimitBtuh = 65000.0

const (
	defaultSubcategory = "Single Package"
	defaultHeatingType = "All Other"
)

// SEERToCOP converts a seasonal energy efficiency ratio to a COP without
// fan power.
func SEERToCOP(seer float64) float64 {
	return -0.0076*seer*seer + 0.3796*seer
}

// EERToCOP converts an energy efficiency ratio to a COP without fan power,
// taking fan power as 12% of input.
func EERToCOP(eer float64) float64 {
	const fanPowerFraction = 0.12
	return (eer/3.413 + fanPowerFraction) / (1 - fanPowerFraction)
}

// CoolingCoil sets the rated COP of a single-speed DX coil.
func (s *Setter) CoolingCoil(c *model.CoilCoolingDX) error {
	watts, ok := c.Capacity()
	if !ok {
		return fmt.Errorf("coil %s has no rated capacity: %w", c.Name, model.ErrMissingSpecification)
	}
	btuh := watts * btuhPerWatt

	sub := c.Subcategory
	if sub == "" {
		sub = defaultSubcategory
	}
	heating := c.HeatingType
	if heating == "" {
		heating = defaultHeatingType
	}
	crit := s.criteria("cooling_type", "AirCooled", "heating_type", heating, "subcategory", sub)

	rec, err := s.find(c.Name, TableUnitaryACs, crit, btuh)
	if err != nil {
		return err
	}

	var cop float64
	fields := logrus.Fields{"capacity_btuh": btuh}
	if btuh < seerLimitBtuh {
		seer, ok := rec.Float("minimum_seasonal_energy_efficiency_ratio")
		if !ok {
			return fmt.Errorf("unitary record for %s has no SEER: %w", c.Name, model.ErrMissingSpecification)
		}
		cop = SEERToCOP(seer)
		fields["seer"] = seer
	} else {
		eer, ok := rec.Float("minimum_energy_efficiency_ratio")
		if !ok {
			return fmt.Errorf("unitary record for %s has no EER: %w", c.Name, model.ErrMissingSpecification)
		}
		cop = EERToCOP(eer)
		fields["eer"] = eer
	}
	c.RatedCOP = &cop
	fields["cop"] = cop
	s.report(c.Name, fields, fmt.Sprintf("DX coil COP set to %.2f", cop))
	return nil
}
