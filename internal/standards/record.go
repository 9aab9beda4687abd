package standards

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
)

const (
	KeyMinimumCapacity = "minimum_capacity"
	KeyMaximumCapacity = "maximum_capacity"
)

// Record is one row of a standards table. Records are shared between
// callers once loaded and must be treated as read-only.
type Record map[string]any

// Criteria maps a field name to the value a record must carry in that field.
type Criteria map[string]any

func (r Record) Float(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	return toFloat(v)
}

func (r Record) Text(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Band returns the capacity band of the record. ok is false unless both
// bounds are present and numeric.
func (r Record) Band() (lo, hi float64, ok bool) {
	lo, okLo := r.Float(KeyMinimumCapacity)
	hi, okHi := r.Float(KeyMaximumCapacity)
	return lo, hi, okLo && okHi
}

// Matches reports whether r agrees with c on every key both of them carry.
func (r Record) Matches(c Criteria) bool {
	for k, want := range c {
		got, ok := r[k]
		if !ok {
			continue
		}
		if !sameValue(got, want) {
			return false
		}
	}
	return true
}

// String renders criteria with sorted keys so log lines are stable.
func (c Criteria) String() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, c[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func sameValue(a, b any) bool {
	fa, okA := toFloat(a)
	fb, okB := toFloat(b)
	if okA && okB {
		return fa == fb
	}
	if okA != okB {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta != nil && !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func isIntegral(v float64) bool {
	return !math.IsInf(v, 0) && math.Trunc(v) == v
}
