// Package compliance runs the standards rules over a whole model: equipment
// efficiencies and the air-loop ventilation controls. One Run is one pass
// over one model with one template, and produces a Report.
package compliance

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"Airside/internal/calc/efficiency"
	"Airside/internal/calc/multizone"
	"Airside/internal/findings"
	"Airside/internal/logging"
	"Airside/internal/metrics"
	"Airside/internal/model"
	"Airside/internal/standards"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrUnknownTemplate = errors.New("unknown template")

// Templates lists the code vintages the standards tables are keyed on.
var Templates = []string{
	"DOE Ref Pre-1980",
	"DOE Ref 1980-2004",
	"90.1-2004",
	"90.1-2007",
	"90.1-2010",
	"90.1-2013",
}

func KnownTemplate(template string) bool {
	return slices.Contains(Templates, template)
}

// ApplyStandardControls applies the air-loop controls the template requires.
// Today that is multizone VAV ventilation sizing, which the DOE reference
// templates do not get. The result is nil when nothing applied.
func ApplyStandardControls(loop *model.AirLoop, template string, log logrus.FieldLogger) (*multizone.Result, error) {
	if multizone.Exempt(template) || !multizone.IsMultizoneVAV(loop) {
		return nil, nil
	}
	res, err := multizone.Apply(loop, log)
	return &res, err
}

type LoopResult struct {
	AirLoop   string            `json:"air_loop"`
	Multizone bool              `json:"multizone"`
	Sizing    *multizone.Result `json:"sizing,omitempty"`
	Error     string            `json:"error,omitempty"`
}

type Report struct {
	ID              uuid.UUID        `json:"id"`
	Template        string           `json:"template"`
	Model           string           `json:"model"`
	StartedAt       time.Time        `json:"started_at"`
	DurationSeconds float64          `json:"duration_seconds"`
	ZonesAdjusted   int              `json:"zones_adjusted"`
	AirLoops        []LoopResult     `json:"air_loops"`
	Findings        *findings.Report `json:"findings"`
}

// Engine holds what runs share: the standards data and the base logger.
// It is safe for concurrent use; each Run gets its own logger and collector.
type Engine struct {
	store *standards.Store
	log   *logrus.Logger
}

func NewEngine(store *standards.Store, log *logrus.Logger) *Engine {
	return &Engine{store: store, log: log}
}

func (e *Engine) Store() *standards.Store {
	return e.store
}

type run struct {
	log    logrus.FieldLogger
	setter *efficiency.Setter
	report *Report
}

// Run applies every rule to m, mutating it in place. Failures on single
// objects are recorded in the report and the run moves on; Run itself only
// fails for an unknown template or a cancelled context.
func (e *Engine) Run(ctx context.Context, m *model.Model, template string) (*Report, error) {
	if !KnownTemplate(template) {
		return nil, fmt.Errorf("%q: %w", template, ErrUnknownTemplate)
	}
	started := time.Now()
	defer metrics.ObserveRun(template, started)

	logger := logging.Fork(e.log)
	collector := findings.Attach(logger)
	id := uuid.New()
	log := logger.WithFields(logrus.Fields{
		findings.FieldRun: id.String(),
		"template":        template,
	})
	log.WithField("model", m.Name).Debug("compliance run started")

	r := &run{
		log:    log,
		setter: efficiency.New(template, standards.NewResolver(e.store, log), log),
		report: &Report{ID: id, Template: template, Model: m.Name, StartedAt: started.UTC()},
	}

	for _, loop := range m.SortedAirLoops() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.airLoop(loop, template)
	}
	for _, ch := range m.Chillers {
		r.isolate(ch.Name, func() error { return r.setter.Chiller(ch) })
	}
	for _, b := range m.Boilers {
		r.isolate(b.Name, func() error { return r.setter.Boiler(b) })
	}
	for _, wh := range m.WaterHeaters {
		r.isolate(wh.Name, func() error { return r.setter.WaterHeater(wh) })
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.report.Findings = collector.Report()
	r.report.DurationSeconds = time.Since(started).Seconds()
	log.WithFields(logrus.Fields{
		"zones_adjusted": r.report.ZonesAdjusted,
		"warnings":       len(r.report.Findings.Warnings),
	}).Info("compliance run finished")
	return r.report, nil
}

func (r *run) airLoop(loop *model.AirLoop, template string) {
	lr := LoopResult{AirLoop: loop.Name, Multizone: multizone.IsMultizoneVAV(loop)}
	if f := loop.SupplyFan; f != nil {
		r.isolate(f.Name, func() error { return r.setter.Fan(f) })
	}
	if c := loop.CoolingCoil; c != nil {
		r.isolate(c.Name, func() error { return r.setter.CoolingCoil(c) })
	}
	r.isolate(loop.Name, func() error {
		res, err := ApplyStandardControls(loop, template, r.log)
		lr.Sizing = res
		if err != nil {
			lr.Error = err.Error()
		} else if res != nil {
			r.report.ZonesAdjusted += res.ZonesAdjusted
		}
		return err
	})
	r.report.AirLoops = append(r.report.AirLoops, lr)
}

// isolate runs fn for one object and records what went wrong, if anything.
// Lookup misses and degenerate sizing were already logged where they
// happened.
func (r *run) isolate(object string, fn func() error) {
	log := r.log.WithField(findings.FieldObject, object)
	defer func() {
		if p := recover(); p != nil {
			log.WithField(findings.FieldKind, findings.KindFailure).Errorf("rule panicked: %v", p)
		}
	}()

	err := fn()
	switch {
	case err == nil:
	case errors.Is(err, standards.ErrLookupMiss), errors.Is(err, multizone.ErrDegenerateSizing):
	case errors.Is(err, model.ErrMissingSpecification):
		log.WithField(findings.FieldKind, findings.KindMissingSpecification).Warn(err.Error())
	default:
		log.WithField(findings.FieldKind, findings.KindFailure).Error(err.Error())
	}
}
