// context.go - the caller-supplied evaluation context

package evaluator

import "sort"

// Context is the bag of named fields and named datasets a formula
// evaluates against. It is built fresh by the caller for each
// evaluation and never mutated by the engine.
//
// Fields hold the current record's values and may nest
// (map[string]any inside map[string]any) for dot-path access like
// order.total. Datasets hold named tables of records and are only
// reachable through the LOOKUP function; plain identifiers never
// resolve against a dataset.
type Context struct {
	Fields   map[string]any
	Datasets map[string][]map[string]any
}

// ResolveField looks a name up in Fields and converts it to a formula
// value. Unknown names resolve to null: evaluation is deliberately
// permissive about missing data, validation is the strict path.
func (c *Context) ResolveField(name string) Object {
	if c == nil || c.Fields == nil {
		return NULL
	}
	value, ok := c.Fields[name]
	if !ok {
		return NULL
	}
	return FromNative(value)
}

// Dataset returns the named dataset's records, or nil if absent.
func (c *Context) Dataset(name string) ([]map[string]any, bool) {
	if c == nil || c.Datasets == nil {
		return nil, false
	}
	rows, ok := c.Datasets[name]
	return rows, ok
}

// DatasetNames returns the names of all configured datasets, sorted.
func (c *Context) DatasetNames() []string {
	if c == nil || c.Datasets == nil {
		return nil
	}
	names := make([]string, 0, len(c.Datasets))
	for name := range c.Datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
