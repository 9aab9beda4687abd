package multizone

import (
	"errors"
	"fmt"

	"Airside/internal/calc/oa"
	"Airside/internal/findings"
	"Airside/internal/metrics"
	"Airside/internal/model"

	"github.com/sirupsen/logrus"
)

// Templates for which the damper adjustment is not applied.
var exemptTemplates = map[string]bool{
	"DOE Ref Pre-1980":  true,
	"DOE Ref 1980-2004": true,
}

// Exempt reports whether the template skips multizone VAV ventilation sizing.
func Exempt(template string) bool {
	return exemptTemplates[template]
}

// IsMultizoneVAV reports whether loop serves two or more zones from a
// variable-volume supply fan.
func IsMultizoneVAV(loop *model.AirLoop) bool {
	if loop == nil || len(loop.ThermalZones()) < 2 || loop.SupplyFan == nil {
		return false
	}
	return loop.SupplyFan.Type == model.FanVariableVolume
}

// Gather reads the sizing inputs for loop from the model. A zone without a
// usable terminal is logged and marked so Size treats it as fully open.
func Gather(loop *model.AirLoop, log logrus.FieldLogger) (SystemInput, map[string]model.VAVTerminal) {
	in := SystemInput{Name: loop.Name}
	if vps, ok := loop.PrimaryDesignAirFlowRate(); ok {
		in.PrimaryAirflow = vps
	}
	terminals := map[string]model.VAVTerminal{}

	for _, z := range loop.SortedZones() {
		zl := log.WithField(findings.FieldObject, z.Name)
		zi := ZoneInput{Name: z.Name, BreathingZoneOA: oa.OutdoorAirflowRate(z)}

		cooling, heating := 0.0, 0.0
		if z.CoolingDesignAirFlowRate != nil {
			cooling = *z.CoolingDesignAirFlowRate
		} else {
			zl.WithField(findings.FieldKind, findings.KindMissingSpecification).
				Warn("autosized cooling design air flow rate is not available, using 0")
		}
		if z.HeatingDesignAirFlowRate != nil {
			heating = *z.HeatingDesignAirFlowRate
		} else {
			zl.WithField(findings.FieldKind, findings.KindMissingSpecification).
				Warn("autosized heating design air flow rate is not available, using 0")
		}
		zi.PrimaryAirflow = max(cooling, heating)

		term, err := z.VAVTerminal()
		if err != nil {
			zl.WithField(findings.FieldKind, findings.KindMissingSpecification).Warn(err.Error())
			zi.NoTerminal = true
			in.Zones = append(in.Zones, zi)
			continue
		}
		frac, hasFrac := term.MinimumFlowFraction()
		fixed, hasFixed := term.FixedMinimumFlowRate()
		if !hasFrac && !hasFixed {
			zl.WithFields(logrus.Fields{
				findings.FieldKind: findings.KindMissingSpecification,
				"terminal":         term.Name(),
			}).Warn("terminal has no minimum air flow setting")
			zi.NoTerminal = true
			in.Zones = append(in.Zones, zi)
			continue
		}
		zi.TerminalFraction = frac
		zi.FixedMinimumFlow = fixed
		zi.HasFixedMinimum = hasFixed
		terminals[z.Name] = term
		in.Zones = append(in.Zones, zi)
	}
	return in, terminals
}

// Apply sizes loop and writes the results back: raised minimum damper
// positions on the zone terminals and the adjusted system outdoor air flow
// on the loop's sizing object. On ErrDegenerateSizing the model is left
// untouched.
func Apply(loop *model.AirLoop, log logrus.FieldLogger) (Result, error) {
	ll := log.WithField(findings.FieldObject, loop.Name)
	in, terminals := Gather(loop, log)

	res, err := Size(in)
	for _, z := range res.Skipped() {
		log.WithFields(logrus.Fields{
			findings.FieldKind:   findings.KindDegenerateSizing,
			findings.FieldObject: z.Name,
			"air_loop":           loop.Name,
		}).Warn(fmt.Sprintf("zone skipped in ventilation sizing: %s", z.Reason))
	}
	if err != nil {
		if errors.Is(err, ErrDegenerateSizing) {
			metrics.DegenerateSystems.Inc()
			ll.WithField(findings.FieldKind, findings.KindDegenerateSizing).Warn(err.Error())
		}
		return res, err
	}

	for _, z := range res.Adjustments() {
		term, ok := terminals[z.Name]
		if !ok {
			continue
		}
		term.SetMinimumFlowFraction(z.MdpAdj)
		metrics.ZonesAdjusted.Inc()
		log.WithFields(logrus.Fields{
			findings.FieldKind:   findings.KindAdjustment,
			findings.FieldObject: z.Name,
			"terminal":           term.Name(),
			"mdp":                z.Mdp,
			"mdp_adj":            z.MdpAdj,
			"e_vz":               z.Evz,
			"e_vz_adj":           z.EvzAdj,
		}).Info(fmt.Sprintf("minimum damper position raised from %.2f to %.2f", z.Mdp, z.MdpAdj))
	}

	if res.Ev <= 0 {
		ll.WithFields(logrus.Fields{
			findings.FieldKind: findings.KindDegenerateSizing,
			"e_v":              res.Ev,
		}).Warn("unadjusted system ventilation efficiency is not positive")
	}
	loop.Sizing.SetDesignOutdoorAirFlowRate(res.VotAdj)
	ll.WithFields(logrus.Fields{
		findings.FieldKind: findings.KindAdjustment,
		"v_ou":             res.Vou,
		"v_ps":             res.Vps,
		"x_s":              res.Xs,
		"e_v":              res.Ev,
		"e_v_adj":          res.EvAdj,
		"v_ot":             res.Vot,
		"v_ot_adj":         res.VotAdj,
		"zones_adjusted":   res.ZonesAdjusted,
	}).Info(fmt.Sprintf("design outdoor air flow set to %.4f m3/s", res.VotAdj))
	return res, nil
}
