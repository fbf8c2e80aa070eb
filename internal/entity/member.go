package entity

import (
	"github.com/tobin-dev/relq/internal/ir"
	"github.com/tobin-dev/relq/internal/query"
)

// ErrNilTeam is returned by constructors and ChangeTeam when a team
// assignment is demanded but the team reference is nil. It is an
// invalid-operation error and also matches with errors.Is.
var ErrNilTeam error = query.NewInvalidOperationError("member requires a non-nil team")

// Member is a person with an optional name, an age, and at most one team.
type Member struct {
	id       int64
	userName string
	named    bool
	age      int64
	team     TeamRef
}

// NewMember creates a detached member with age 0 and no team.
func NewMember(name string) *Member {
	return &Member{userName: name, named: true}
}

// NewMemberWithAge creates a detached member with no team.
func NewMemberWithAge(name string, age int64) *Member {
	return &Member{userName: name, named: true, age: age}
}

// NewUnnamedMember creates a detached member whose name is null.
func NewUnnamedMember(age int64) *Member {
	return &Member{age: age}
}

// NewMemberInTeam creates a detached member and assigns it to a team.
// This variant demands a team: a nil team fails with ErrNilTeam.
func NewMemberInTeam(name string, age int64, team *Team) (*Member, error) {
	m := NewMemberWithAge(name, age)
	if err := m.ChangeTeam(team); err != nil {
		return nil, err
	}
	return m, nil
}

// ID returns the assigned identity, or 0 before insertion.
func (m *Member) ID() int64 { return m.id }

// AssignID sets the identity on insertion.
func (m *Member) AssignID(id int64) { m.id = id }

// UserName returns the member's name; ok is false for a null name.
func (m *Member) UserName() (string, bool) {
	return m.userName, m.named
}

// SetUserName updates the member's name.
func (m *Member) SetUserName(name string) {
	m.userName = name
	m.named = true
}

// Age returns the member's age.
func (m *Member) Age() int64 { return m.age }

// SetAge updates the member's age.
func (m *Member) SetAge(age int64) { m.age = age }

// Team returns the member's team reference (possibly none or unloaded).
func (m *Member) Team() TeamRef { return m.team }

// ChangeTeam reassigns the member to a team, maintaining both sides:
// the member is removed from any previous team's member list, the owning
// reference is set, and the member is appended to the new team's list.
// This is the only mutator of the association, so a member appears in its
// team's list exactly once.
func (m *Member) ChangeTeam(team *Team) error {
	if team == nil {
		return ErrNilTeam
	}
	if prev := m.team.Entity(); prev != nil {
		prev.remove(m)
	}
	m.team = LoadedTeam(team)
	team.members = append(team.members, m)
	return nil
}

// Fields returns the member's flat field view for the query engine.
// An unnamed member reads a null user_name; a teamless member reads a null
// team_id.
func (m *Member) Fields() ir.Row {
	row := ir.Row{
		"id":  ir.NewInt(m.id),
		"age": ir.NewInt(m.age),
	}
	if m.named {
		row["user_name"] = ir.NewString(m.userName)
	} else {
		row["user_name"] = ir.Null{}
	}
	if m.team.Present() {
		row["team_id"] = ir.NewInt(m.team.TeamID())
	} else {
		row["team_id"] = ir.Null{}
	}
	return row
}

// MemberSchema describes the members table to the query layer.
func MemberSchema() query.Schema {
	return query.Schema{
		"id":        ir.KindInt,
		"user_name": ir.KindString,
		"age":       ir.KindInt,
		"team_id":   ir.KindInt,
	}
}

// ReviveMember rebuilds a member from snapshot fields. A recorded team_id
// comes back as an unloaded reference; resolution is the session's job.
func ReviveMember(fields ir.Row) (*Member, error) {
	var m *Member
	if name, isStr := fields.Get("user_name").(ir.String); isStr {
		m = NewMember(string(name))
	} else {
		m = NewUnnamedMember(0)
	}
	if age, isInt := fields.Get("age").(ir.Int); isInt {
		m.age = int64(age)
	}
	if teamID, isInt := fields.Get("team_id").(ir.Int); isInt {
		m.team = UnloadedTeam(int64(teamID))
	}
	return m, nil
}
