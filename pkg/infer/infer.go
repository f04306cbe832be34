// Package infer converts raw scalar values into typed values.
//
// Ingested data carries no schema, so every attribute arrives as text (tables)
// or as a loosely typed JSON/YAML scalar. [Infer] tries, in strict order, a
// base-10 integer, a floating point number and an ISO-8601 calendar date,
// falling back to the original text. Each attempt must consume the whole
// input: "42abc" stays text.
//
// Booleans are rendered as "True"/"False" so they are never silently
// conflated with the integers 1 and 0 further down the pipeline.
//
//	infer.Infer("42")         // int64(42)
//	infer.Infer("3.14")       // float64(3.14)
//	infer.Infer("2024-01-15") // infer.Date{2024, 1, 15}
//	infer.Infer(true)         // "True"
package infer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Infer returns the typed form of v. It never fails: a value that cannot be
// parsed as a number or date is returned as text.
func Infer(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return fromText(x)
	case json.Number:
		return fromText(string(x))
	case bool:
		if x {
			return "True"
		}
		return "False"
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return uintValue(uint64(x))
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return uintValue(x)
	case float32:
		return floatValue(float64(x))
	case float64:
		return floatValue(x)
	case Date:
		return x
	case time.Time:
		return DateOf(x)
	default:
		return fmt.Sprint(v)
	}
}

// InferMap applies [Infer] to every value of m. The input map is not modified;
// a new map with the same keys is returned. A nil input yields an empty map.
func InferMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Infer(v)
	}
	return out
}

// Float coerces v into a float64 through [Infer]. Only values that infer to an
// integer or a finite float are accepted.
func Float(v any) (float64, bool) {
	switch x := Infer(v).(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

func fromText(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, ok := parseFloat(s); ok {
		return f
	}
	if d, err := ParseDate(s); err == nil {
		return d
	}
	return s
}

// parseFloat accepts decimal and exponent notation but rejects the special
// spellings strconv would otherwise take ("NaN", "Inf", hex floats,
// underscores), so words like "infinity" stay text.
func parseFloat(s string) (float64, bool) {
	if s == "" || !isDecimal(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !isRangeErr(err) {
		return 0, false
	}
	if math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isDecimal(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
		case c == '.', c == '+', c == '-', c == 'e', c == 'E':
		default:
			return false
		}
	}
	return true
}

func isRangeErr(err error) bool {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err == strconv.ErrRange
	}
	return false
}

// floatValue keeps finite floats and turns NaN and the infinities into text,
// since they have no plain JSON form.
func floatValue(f float64) any {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return f
}

func uintValue(u uint64) any {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}
