// Package lookup answers ad hoc queries against the standards tables.
package lookup

import (
	"fmt"

	"Airside/internal/findings"
	"Airside/internal/logging"
	"Airside/internal/standards"

	"github.com/sirupsen/logrus"
)

type Input struct {
	Table    string             `json:"table"`
	Criteria standards.Criteria `json:"criteria"`
	Capacity *float64           `json:"capacity,omitempty"`
	// First returns only the first match, as the equipment rules do.
	First bool `json:"first,omitempty"`
}

type Result struct {
	Table    string             `json:"table"`
	Matches  []standards.Record `json:"matches"`
	Warnings []findings.Finding `json:"warnings"`
}

// Lookup runs one query. Misses and ambiguous first-match queries come back
// as warnings, not errors.
func Lookup(store *standards.Store, base *logrus.Logger, in Input) (Result, error) {
	if in.Table == "" {
		return Result{}, fmt.Errorf("table required")
	}
	if in.Capacity != nil && *in.Capacity < 0 {
		return Result{}, fmt.Errorf("capacity must not be negative")
	}
	log := logging.Fork(base)
	collector := findings.Attach(log)
	r := standards.NewResolver(store, log)

	res := Result{Table: in.Table, Matches: []standards.Record{}}
	if in.First {
		if rec, ok := r.FindObject(in.Table, in.Criteria, in.Capacity); ok {
			res.Matches = append(res.Matches, rec)
		}
	} else {
		res.Matches = append(res.Matches, r.FindObjects(in.Table, in.Criteria, in.Capacity)...)
	}
	res.Warnings = collector.Report().Warnings
	return res, nil
}
