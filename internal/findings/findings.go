// Package findings collects the warnings and notes produced during a
// compliance run. Components log through logrus with a "kind" field and a
// Collector hook attached to the run's logger turns those entries into a
// Report.
package findings

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Kind classifies a finding.
type Kind string

const (
	KindLookupMiss           Kind = "lookup_miss"
	KindAmbiguousLookup      Kind = "ambiguous_lookup"
	KindDegenerateSizing     Kind = "degenerate_sizing"
	KindMissingSpecification Kind = "missing_specification"
	KindAdjustment           Kind = "adjustment"
	KindEfficiency           Kind = "efficiency"
	KindFailure              Kind = "failure"
)

const (
	FieldKind   = "kind"
	FieldObject = "object"
	// FieldRun tags log lines with the run id; it is not copied into findings.
	FieldRun = "run_id"
)

// Finding is a single logged observation.
type Finding struct {
	Kind    Kind           `json:"kind"`
	Object  string         `json:"object,omitempty"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// Report is the complete output of one run.
type Report struct {
	Warnings []Finding `json:"warnings"`
	Info     []Finding `json:"info"`
	Summary  string    `json:"summary"`
}

func NewReport() *Report {
	return &Report{
		Warnings: []Finding{},
		Info:     []Finding{},
	}
}

func (r *Report) AddWarning(f Finding) {
	r.Warnings = append(r.Warnings, f)
	r.updateSummary()
}

func (r *Report) AddInfo(f Finding) {
	r.Info = append(r.Info, f)
	r.updateSummary()
}

// Count returns how many warnings of the given kind were recorded.
func (r *Report) Count(kind Kind) int {
	n := 0
	for _, f := range r.Warnings {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

// Merge combines another report into this one.
func (r *Report) Merge(other *Report) {
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Info = append(r.Info, other.Info...)
	r.updateSummary()
}

func (r *Report) updateSummary() {
	r.Summary = fmt.Sprintf("%d warnings, %d info", len(r.Warnings), len(r.Info))
}

// Collector is a logrus hook that records every entry carrying a kind field.
type Collector struct {
	mu     sync.Mutex
	report *Report
}

func NewCollector() *Collector {
	return &Collector{report: NewReport()}
}

func (c *Collector) Levels() []logrus.Level {
	return []logrus.Level{logrus.ErrorLevel, logrus.WarnLevel, logrus.InfoLevel}
}

func (c *Collector) Fire(entry *logrus.Entry) error {
	raw, ok := entry.Data[FieldKind]
	if !ok {
		return nil
	}
	f := Finding{Kind: Kind(fmt.Sprint(raw)), Message: entry.Message}
	for k, v := range entry.Data {
		switch k {
		case FieldKind, FieldRun:
		case FieldObject:
			f.Object = fmt.Sprint(v)
		default:
			if f.Fields == nil {
				f.Fields = map[string]any{}
			}
			f.Fields[k] = fieldValue(v)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if entry.Level <= logrus.WarnLevel {
		c.report.AddWarning(f)
	} else {
		c.report.AddInfo(f)
	}
	return nil
}

// Report returns a snapshot of what has been collected so far.
func (c *Collector) Report() *Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := NewReport()
	out.Merge(c.report)
	return out
}

// Attach wires a fresh collector into logger and returns it.
func Attach(logger *logrus.Logger) *Collector {
	c := NewCollector()
	logger.AddHook(c)
	return c
}

func fieldValue(v any) any {
	switch t := v.(type) {
	case error:
		return t.Error()
	case fmt.Stringer:
		return t.String()
	}
	return v
}

// Kinds lists the distinct warning kinds in the report, sorted.
func (r *Report) Kinds() []Kind {
	seen := map[Kind]bool{}
	for _, f := range r.Warnings {
		seen[f.Kind] = true
	}
	out := make([]Kind, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
