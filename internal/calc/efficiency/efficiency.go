// Package efficiency sets minimum equipment efficiencies from the standards
// tables: fan motors, DX cooling coils, chillers, boilers and water heaters.
//
// Every setter follows the same shape. It builds criteria from the template
// and the equipment's attributes, looks up a record by capacity in the
// table's own units and writes the derived value onto the model object. A
// lookup miss is logged by the resolver and returned wrapped in
// standards.ErrLookupMiss; the object is left as it was.
package efficiency

import (
	"fmt"
	"math"
	"strings"

	"Airside/internal/findings"
	"Airside/internal/standards"

	"github.com/sirupsen/logrus"
)

const (
	btuhPerWatt      = 3.412141633
	wattsPerTon      = 3516.852842
	gallonsPerM3     = 264.172052
	wPerKPerBtuhPerF = 0.52752792631
)

// Table names in the standards store.
const (
	TableMotors       = "motors"
	TableUnitaryACs   = "unitary_acs"
	TableChillers     = "chillers"
	TableBoilers      = "boilers"
	TableWaterHeaters = "water_heaters"
)

type Setter struct {
	template string
	resolver *standards.Resolver
	log      logrus.FieldLogger
}

func New(template string, resolver *standards.Resolver, log logrus.FieldLogger) *Setter {
	return &Setter{template: template, resolver: resolver, log: log}
}

func (s *Setter) Template() string {
	return s.template
}

// isReference reports whether the template is one of the DOE reference
// building vintages rather than a 90.1 edition.
func (s *Setter) isReference() bool {
	return strings.HasPrefix(s.template, "DOE Ref")
}

func (s *Setter) criteria(kv ...string) standards.Criteria {
	c := standards.Criteria{"template": s.template}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			c[kv[i]] = kv[i+1]
		}
	}
	return c
}

// find looks up one record, logging through a logger tagged with object.
func (s *Setter) find(object, table string, c standards.Criteria, capacity float64) (standards.Record, error) {
	r := s.resolver.WithLogger(s.log.WithField(findings.FieldObject, object))
	rec, ok := r.FindObject(table, c, standards.Capacity(capacity))
	if !ok {
		return nil, fmt.Errorf("%s: %s %s at capacity %g: %w", object, table, c, capacity, standards.ErrLookupMiss)
	}
	return rec, nil
}

func (s *Setter) report(object string, fields logrus.Fields, msg string) {
	s.log.WithFields(fields).
		WithField(findings.FieldKind, findings.KindEfficiency).
		WithField(findings.FieldObject, object).
		Info(msg)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
