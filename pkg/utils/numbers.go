package utils

import (
	"encoding/json"
)

// NormalizeNumbers replaces json.Number values in m, as produced by a
// decoder with UseNumber, with int64 when the number is integral and float64
// otherwise. Nested values are left alone.
func NormalizeNumbers(m map[string]interface{}) {
	for key, value := range m {
		n, ok := value.(json.Number)
		if !ok {
			continue
		}
		if i, err := n.Int64(); err == nil {
			m[key] = i
			continue
		}
		if f, err := n.Float64(); err == nil {
			m[key] = f
		}
	}
}
