// Package importer previews and stores standards tables uploaded as
// workbooks, one sheet per table.
package importer

import (
	"io"
	"sort"

	"Airside/internal/standards"
)

type TableSummary struct {
	Name    string   `json:"name"`
	Records int      `json:"records"`
	Fields  []string `json:"fields"`
}

type Result struct {
	Tables    []TableSummary `json:"tables"`
	Committed bool           `json:"committed"`
}

// Parse decodes a workbook and checks it loads as a store.
func Parse(r io.Reader) (map[string][]standards.Record, error) {
	tables, err := standards.DecodeWorkbook(r)
	if err != nil {
		return nil, err
	}
	if _, err := standards.NewStore(tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// Summarize lists the tables by name with their record count and the union
// of their field names.
func Summarize(tables map[string][]standards.Record) []TableSummary {
	out := make([]TableSummary, 0, len(tables))
	for name, recs := range tables {
		seen := map[string]bool{}
		for _, rec := range recs {
			for k := range rec {
				seen[k] = true
			}
		}
		fields := make([]string, 0, len(seen))
		for k := range seen {
			fields = append(fields, k)
		}
		sort.Strings(fields)
		out = append(out, TableSummary{Name: name, Records: len(recs), Fields: fields})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
