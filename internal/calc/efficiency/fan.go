package efficiency

import (
	"fmt"

	"Airside/internal/model"

	"github.com/sirupsen/logrus"
)

const (
	impellerEfficiency          = 0.65
	referenceImpellerEfficiency = 0.55
	// Upper band edge of the motor tables, used for "and larger".
	openEndedMotorHP = 9999.0
)

// Fan sets the motor efficiency and total efficiency of f for the motor size
// its brake horsepower calls for.
func (s *Setter) Fan(f *model.Fan) error {
	bhp, ok := f.BrakeHorsepower()
	if !ok {
		return fmt.Errorf("fan %s has no flow rate or efficiency: %w", f.Name, model.ErrMissingSpecification)
	}
	c := s.criteria("type", "Enclosed")
	c["number_of_poles"] = 4.0

	rec, err := s.find(f.Name, TableMotors, c, bhp)
	if err != nil {
		return err
	}
	nominal := bhp
	if hi, ok := rec.Float("maximum_capacity"); ok && hi != openEndedMotorHP {
		nominal = round(hi, 1)
	}
	if nominal >= 2 {
		nominal = round(nominal, 0)
	}

	// Look again at the nominal size so a motor on a band edge gets the
	// efficiency of the motor actually installed.
	rec, err = s.find(f.Name, TableMotors, c, nominal)
	if err != nil {
		return err
	}
	motor, ok := rec.Float("nominal_full_load_efficiency")
	if !ok {
		return fmt.Errorf("motor record for %s has no nominal_full_load_efficiency: %w", f.Name, model.ErrMissingSpecification)
	}

	impeller := impellerEfficiency
	if s.isReference() {
		impeller = referenceImpellerEfficiency
	}
	f.MotorEfficiency = motor
	f.FanEfficiency = impeller * motor
	s.report(f.Name, logrus.Fields{
		"brake_horsepower": bhp,
		"nominal_hp":       nominal,
		"motor_efficiency": motor,
		"fan_efficiency":   f.FanEfficiency,
	}, fmt.Sprintf("fan motor efficiency set to %.3f for a %g hp motor", motor, nominal))
	return nil
}
