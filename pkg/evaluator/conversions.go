// conversions.go - converting between Go values and formula values
//
// Contexts arrive as plain Go data (maps, slices, numbers) and results
// leave the same way, so hosts never touch the Object model directly.

package evaluator

import (
	"fmt"
	"sort"
	"time"
)

// FromNative converts a Go value into a formula value. Maps become
// dictionaries with sorted keys (Go map order is random; formula
// values must be deterministic), slices become arrays, numeric types
// widen to float64, and time.Time becomes a datetime. Anything
// unrecognized is rendered as text rather than rejected.
func FromNative(value any) Object {
	switch v := value.(type) {
	case nil:
		return NULL
	case bool:
		return nativeBoolToBoolean(v)
	case string:
		return &String{Value: v}
	case float64:
		return &Number{Value: v}
	case float32:
		return &Number{Value: float64(v)}
	case int:
		return &Number{Value: float64(v)}
	case int8:
		return &Number{Value: float64(v)}
	case int16:
		return &Number{Value: float64(v)}
	case int32:
		return &Number{Value: float64(v)}
	case int64:
		return &Number{Value: float64(v)}
	case uint:
		return &Number{Value: float64(v)}
	case uint8:
		return &Number{Value: float64(v)}
	case uint16:
		return &Number{Value: float64(v)}
	case uint32:
		return &Number{Value: float64(v)}
	case uint64:
		return &Number{Value: float64(v)}
	case time.Time:
		return &Datetime{Value: v}
	case []any:
		elements := make([]Object, len(v))
		for i, el := range v {
			elements[i] = FromNative(el)
		}
		return &Array{Elements: elements}
	case []map[string]any:
		elements := make([]Object, len(v))
		for i, el := range v {
			elements[i] = FromNative(el)
		}
		return &Array{Elements: elements}
	case []string:
		elements := make([]Object, len(v))
		for i, el := range v {
			elements[i] = &String{Value: el}
		}
		return &Array{Elements: elements}
	case []float64:
		elements := make([]Object, len(v))
		for i, el := range v {
			elements[i] = &Number{Value: el}
		}
		return &Array{Elements: elements}
	case []int:
		elements := make([]Object, len(v))
		for i, el := range v {
			elements[i] = &Number{Value: float64(el)}
		}
		return &Array{Elements: elements}
	case map[string]any:
		dict := NewDictionary()
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			dict.Set(key, FromNative(v[key]))
		}
		return dict
	default:
		return &String{Value: fmt.Sprintf("%v", v)}
	}
}

// ToNative converts a formula value back into plain Go data: float64,
// string, bool, nil, []any, map[string]any, or time.Time.
func ToNative(obj Object) any {
	switch obj := obj.(type) {
	case *Number:
		return obj.Value
	case *String:
		return obj.Value
	case *Boolean:
		return obj.Value
	case *Null:
		return nil
	case *Datetime:
		return obj.Value
	case *Array:
		result := make([]any, len(obj.Elements))
		for i, el := range obj.Elements {
			result[i] = ToNative(el)
		}
		return result
	case *Dictionary:
		result := make(map[string]any, len(obj.Pairs))
		for key, value := range obj.Pairs {
			result[key] = ToNative(value)
		}
		return result
	default:
		return obj.Inspect()
	}
}
