package ir

import "slices"

// Row is one table row as a flat field-name → value mapping.
// A missing key and an explicit Null read the same through Get.
type Row map[string]Value

// Get returns the value for a field, or Null when the field is absent.
func (r Row) Get(field string) Value {
	if r == nil {
		return Null{}
	}
	if v, found := r[field]; found && v != nil {
		return v
	}
	return Null{}
}

// SortedKeys returns the row's field names in lexicographic order for
// deterministic iteration.
func (r Row) SortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Clone returns a shallow copy of the row (values are immutable scalars).
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
