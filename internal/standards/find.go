package standards

import (
	"errors"

	"Airside/internal/findings"
	"Airside/internal/metrics"

	"github.com/sirupsen/logrus"
)

// ErrLookupMiss is returned by callers that need an error when a lookup
// found nothing usable.
var ErrLookupMiss = errors.New("no standards record matches")

// FindObjects returns every record of table that matches criteria, in table
// order. When capacity is non-nil only records with both capacity bounds
// and min < c <= max are kept. A capacity that is a whole number is raised
// by 1% first so a value sitting on a band boundary lands in the band above.
func FindObjects(table []Record, criteria Criteria, capacity *float64) []Record {
	var candidates []Record
	for _, rec := range table {
		if rec.Matches(criteria) {
			candidates = append(candidates, rec)
		}
	}
	if capacity == nil {
		return candidates
	}

	c := adjustCapacity(*capacity)
	var out []Record
	for _, rec := range candidates {
		lo, hi, ok := rec.Band()
		if !ok {
			continue
		}
		if c > lo && c <= hi {
			out = append(out, rec)
		}
	}
	return out
}

// FindObject returns the first match and the total number of matches.
// The record is nil when nothing matched.
func FindObject(table []Record, criteria Criteria, capacity *float64) (Record, int) {
	matches := FindObjects(table, criteria, capacity)
	if len(matches) == 0 {
		return nil, 0
	}
	return matches[0], len(matches)
}

func adjustCapacity(c float64) float64 {
	if isIntegral(c) {
		return c * 1.01
	}
	return c
}

// Capacity is a convenience for passing a literal capacity.
func Capacity(v float64) *float64 {
	return &v
}

// Resolver answers lookups against a Store and reports misses and
// ambiguous matches as warnings. It never fails a lookup.
type Resolver struct {
	store *Store
	log   logrus.FieldLogger
}

func NewResolver(store *Store, log logrus.FieldLogger) *Resolver {
	return &Resolver{store: store, log: log}
}

// WithLogger returns a resolver over the same store logging to log.
func (r *Resolver) WithLogger(log logrus.FieldLogger) *Resolver {
	return &Resolver{store: r.store, log: log}
}

func (r *Resolver) Store() *Store {
	return r.store
}

func (r *Resolver) FindObjects(table string, criteria Criteria, capacity *float64) []Record {
	matches := FindObjects(r.store.Table(table), criteria, capacity)
	metrics.RecordLookup(table, min(len(matches), 1))
	if len(matches) == 0 {
		r.warnMiss(table, criteria, capacity)
	}
	return matches
}

func (r *Resolver) FindObject(table string, criteria Criteria, capacity *float64) (Record, bool) {
	rec, n := FindObject(r.store.Table(table), criteria, capacity)
	metrics.RecordLookup(table, n)
	switch {
	case n == 0:
		r.warnMiss(table, criteria, capacity)
		return nil, false
	case n > 1:
		r.fields(table, criteria, capacity).
			WithField(findings.FieldKind, findings.KindAmbiguousLookup).
			WithField("matches", n).
			Warnf("search returned %d results, using the first", n)
	}
	return rec, true
}

func (r *Resolver) warnMiss(table string, criteria Criteria, capacity *float64) {
	msg := "search returned no results"
	if !r.store.Has(table) {
		msg = "no such standards table"
	}
	r.fields(table, criteria, capacity).
		WithField(findings.FieldKind, findings.KindLookupMiss).
		Warn(msg)
}

func (r *Resolver) fields(table string, criteria Criteria, capacity *float64) logrus.FieldLogger {
	f := logrus.Fields{
		"table":    table,
		"criteria": criteria.String(),
	}
	if capacity != nil {
		f["capacity"] = *capacity
	}
	return r.log.WithFields(f)
}
