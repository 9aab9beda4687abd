package standards

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store is the loaded standards dataset: a set of named tables. It is
// built once and never modified, so it can be shared freely.
type Store struct {
	tables map[string][]Record
}

// NewStore validates tables and wraps them. A record whose minimum
// capacity exceeds its maximum capacity is rejected.
func NewStore(tables map[string][]Record) (*Store, error) {
	out := make(map[string][]Record, len(tables))
	for name, recs := range tables {
		for i, rec := range recs {
			lo, hi, ok := rec.Band()
			if ok && lo > hi {
				return nil, fmt.Errorf("table %s record %d: minimum_capacity %v exceeds maximum_capacity %v", name, i, lo, hi)
			}
		}
		out[name] = append([]Record(nil), recs...)
	}
	return &Store{tables: out}, nil
}

func (s *Store) Table(name string) []Record {
	if s == nil {
		return nil
	}
	return s.tables[name]
}

func (s *Store) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.tables[name]
	return ok
}

func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.tables))
	for n := range s.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DecodeJSON reads a document of the form {"table": [{...}, ...], ...}.
func DecodeJSON(r io.Reader) (map[string][]Record, error) {
	var doc map[string][]Record
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding standards json: %w", err)
	}
	return doc, nil
}

// Load reads a JSON file, an .xlsx workbook, or a directory of either.
// Tables that appear in several files are concatenated in file name order.
func Load(path string) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading standards: %w", err)
	}
	files := []string{path}
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading standards dir: %w", err)
		}
		files = files[:0]
		for _, e := range entries {
			if e.IsDir() || !isDatasetFile(e.Name()) {
				continue
			}
			files = append(files, filepath.Join(path, e.Name()))
		}
		sort.Strings(files)
	}

	tables := map[string][]Record{}
	for _, f := range files {
		doc, err := loadFile(f)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(doc))
		for n := range doc {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			tables[n] = append(tables[n], doc[n]...)
		}
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("no standards tables found in %s", path)
	}
	return NewStore(tables)
}

func loadFile(path string) (map[string][]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		doc, err := DecodeWorkbook(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return doc, nil
	}
	doc, err := DecodeJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func isDatasetFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".json" || ext == ".xlsx"
}
