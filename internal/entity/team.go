// Package entity defines the Member and Team records and the single mutator
// that keeps their bidirectional association consistent.
//
// Member holds the owning reference (Member → Team); Team's member list is a
// maintained reverse index, updated only through ChangeTeam. Direct dual
// assignment is not expressible: both sides' collections are unexported.
package entity

import (
	"slices"

	"github.com/tobin-dev/relq/internal/ir"
	"github.com/tobin-dev/relq/internal/query"
)

// Team is a named group of members. Team does not own its members'
// lifecycle: removing or dropping a team leaves the members in place.
type Team struct {
	id      int64
	name    string
	members []*Member
}

// NewTeam creates a detached team (no id until inserted into a table).
func NewTeam(name string) *Team {
	return &Team{name: name}
}

// ID returns the assigned identity, or 0 before insertion.
func (t *Team) ID() int64 { return t.id }

// AssignID sets the identity on insertion.
func (t *Team) AssignID(id int64) { t.id = id }

// Name returns the team name.
func (t *Team) Name() string { return t.name }

// Members returns the ordered back-references in join order.
// The returned slice is a copy; membership changes only through ChangeTeam.
func (t *Team) Members() []*Member {
	return slices.Clone(t.members)
}

// Fields returns the team's flat field view for the query engine.
func (t *Team) Fields() ir.Row {
	return ir.Row{
		"id":   ir.NewInt(t.id),
		"name": ir.NewString(t.name),
	}
}

// remove drops one occurrence of m from the reverse index.
func (t *Team) remove(m *Member) {
	for i, existing := range t.members {
		if existing == m {
			t.members = slices.Delete(t.members, i, i+1)
			return
		}
	}
}

// TeamSchema describes the teams table to the query layer.
func TeamSchema() query.Schema {
	return query.Schema{
		"id":   ir.KindInt,
		"name": ir.KindString,
	}
}

// ReviveTeam rebuilds a team from snapshot fields (identity reassigned by
// the restoring table).
func ReviveTeam(fields ir.Row) (*Team, error) {
	name := ""
	if v, isStr := fields.Get("name").(ir.String); isStr {
		name = string(v)
	}
	return NewTeam(name), nil
}
