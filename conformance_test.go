package sage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

// conformanceCase is one entry in testdata/formulas.yaml. Exactly one
// of Result or Error is meaningful; HasError distinguishes "expect
// null" from "expect an error".
type conformanceCase struct {
	Name     string                      `yaml:"name"`
	Formula  string                      `yaml:"formula"`
	Fields   map[string]any              `yaml:"fields"`
	Datasets map[string][]map[string]any `yaml:"datasets"`
	Result   any                         `yaml:"result"`
	Error    string                      `yaml:"error"`
}

func TestConformance(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "formulas.yaml"))
	if err != nil {
		t.Fatalf("reading conformance cases: %v", err)
	}

	var cases []conformanceCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		t.Fatalf("decoding conformance cases: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("no conformance cases found")
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := &Context{Fields: tc.Fields, Datasets: tc.Datasets}
			result := Evaluate(tc.Formula, ctx)

			if tc.Error != "" {
				if result.Success {
					t.Fatalf("expected error %s, got value %v", tc.Error, result.Value)
				}
				if result.Error.Code != tc.Error {
					t.Fatalf("expected %s, got %s (%s)", tc.Error, result.Error.Code, result.Error.Message)
				}
				return
			}

			if !result.Success {
				t.Fatalf("unexpected error: %s", result.Error.Message)
			}
			expected := normalizeYAML(tc.Result)
			got := result.Value
			if !reflect.DeepEqual(got, expected) {
				t.Fatalf("expected %#v, got %#v", expected, got)
			}
		})
	}
}

// normalizeYAML converts YAML-decoded values to the engine's native
// shapes: all numbers become float64, nested maps and slices recurse.
func normalizeYAML(v any) any {
	switch v := v.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case []any:
		out := make([]any, len(v))
		for i, el := range v {
			out[i] = normalizeYAML(el)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, el := range v {
			out[k] = normalizeYAML(el)
		}
		return out
	default:
		return v
	}
}
