package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one declarative query case: a dataset, a query over it, and
// a name identifying the golden file holding the expected result.
type Scenario struct {
	// Name uniquely identifies this scenario and its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario demonstrates.
	Description string `yaml:"description"`

	// Dataset is the inline data the query runs against.
	Dataset DatasetSpec `yaml:"dataset"`

	// Query describes the query to evaluate. The root source is always
	// the member table under alias "m"; a join adds the team table under
	// alias "t".
	Query QuerySpec `yaml:"query"`
}

// DatasetSpec mirrors the CLI dataset shape, inlined in the scenario file.
type DatasetSpec struct {
	Teams   []TeamSpec   `yaml:"teams"`
	Members []MemberSpec `yaml:"members"`
}

// TeamSpec describes one team entry.
type TeamSpec struct {
	Name string `yaml:"name"`
}

// MemberSpec describes one member entry. Name and Team are optional.
type MemberSpec struct {
	Name *string `yaml:"name,omitempty"`
	Age  *int64  `yaml:"age,omitempty"`
	Team *string `yaml:"team,omitempty"`
}

// QuerySpec is the declarative mirror of a query: filters, an optional
// join, projections, grouping, ordering, and paging.
type QuerySpec struct {
	Join    *JoinSpec    `yaml:"join,omitempty"`
	Where   []WhereSpec  `yaml:"where,omitempty"`
	Select  []SelectSpec `yaml:"select,omitempty"`
	GroupBy []string     `yaml:"group_by,omitempty"`
	OrderBy []OrderSpec  `yaml:"order_by,omitempty"`
	Offset  int64        `yaml:"offset,omitempty"`
	Limit   *int64       `yaml:"limit,omitempty"`
}

// JoinSpec joins the team table to the member root.
type JoinSpec struct {
	// Kind is "inner" or "left".
	Kind string `yaml:"kind"`

	// On holds the alias-qualified fields equated by the join condition.
	On OnSpec `yaml:"on"`

	// Extra filters applied inside the join condition rather than the
	// WHERE clause. Meaningful for left joins.
	Where []WhereSpec `yaml:"where,omitempty"`
}

// OnSpec equates two alias-qualified fields.
type OnSpec struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

// WhereSpec is one filter condition on an alias-qualified field.
type WhereSpec struct {
	// Field is alias-qualified, e.g. "m.age".
	Field string `yaml:"field"`

	// Op is one of: eq, ne, lt, loe, gt, goe, contains, prefix, suffix,
	// is_null, not_null, in, between.
	Op string `yaml:"op"`

	// Value carries the comparison operand (scalar), the set for "in"
	// (list), or the bounds for "between" (two-element list).
	Value any `yaml:"value,omitempty"`
}

// SelectSpec is one projection: a field, optionally wrapped in an
// aggregate, under a label.
type SelectSpec struct {
	Label string `yaml:"label"`

	// Field is alias-qualified; empty only for agg: count.
	Field string `yaml:"field,omitempty"`

	// Agg is one of: count, sum, avg, max, min. Empty for a plain field.
	Agg string `yaml:"agg,omitempty"`
}

// OrderSpec is one ordering key.
type OrderSpec struct {
	Field string `yaml:"field"`
	Desc  bool   `yaml:"desc,omitempty"`

	// Nulls overrides null placement: "first" or "last".
	Nulls string `yaml:"nulls,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly instead of silently weakening a scenario.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Query.Join != nil {
		switch s.Query.Join.Kind {
		case "inner", "left":
		default:
			return fmt.Errorf("join.kind must be inner or left, got %q", s.Query.Join.Kind)
		}
		if s.Query.Join.On.Left == "" || s.Query.Join.On.Right == "" {
			return fmt.Errorf("join.on requires both left and right fields")
		}
	}
	for i, w := range s.Query.Where {
		if w.Field == "" {
			return fmt.Errorf("where[%d]: field is required", i)
		}
		if w.Op == "" {
			return fmt.Errorf("where[%d]: op is required", i)
		}
	}
	for i, sel := range s.Query.Select {
		if sel.Label == "" {
			return fmt.Errorf("select[%d]: label is required", i)
		}
		if sel.Field == "" && sel.Agg != "count" {
			return fmt.Errorf("select[%d]: field is required unless agg is count", i)
		}
	}
	for i, o := range s.Query.OrderBy {
		if o.Field == "" {
			return fmt.Errorf("order_by[%d]: field is required", i)
		}
		switch o.Nulls {
		case "", "first", "last":
		default:
			return fmt.Errorf("order_by[%d]: nulls must be first or last, got %q", i, o.Nulls)
		}
	}
	return nil
}
