package standards

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DecodeWorkbook reads one table per sheet. The first row of a sheet holds
// the field names; blank cells are left out of the record and cells that
// parse as numbers are stored as float64.
func DecodeWorkbook(r io.Reader) (map[string][]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	tables := map[string][]Record{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		header := rows[0]
		recs := make([]Record, 0, len(rows)-1)
		for _, row := range rows[1:] {
			rec := parseRow(header, row)
			if len(rec) == 0 {
				continue
			}
			recs = append(recs, rec)
		}
		tables[strings.TrimSpace(sheet)] = recs
	}
	return tables, nil
}

func parseRow(header, row []string) Record {
	rec := Record{}
	for i, cell := range row {
		if i >= len(header) {
			break
		}
		key := strings.TrimSpace(header[i])
		cell = strings.TrimSpace(cell)
		if key == "" || cell == "" {
			continue
		}
		rec[key] = cellValue(cell)
	}
	return rec
}

func cellValue(s string) any {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
