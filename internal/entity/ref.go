package entity

// refState distinguishes "no team" from "team known by id only" from "team
// in hand".
type refState int

const (
	refNone refState = iota
	refUnloaded
	refLoaded
)

// TeamRef is an explicit two-state reference to a team: Unloaded(id) or
// Loaded(entity). The zero value is "no team". Materialization is an
// inspectable state transition performed by the session layer, never a
// hidden proxy.
type TeamRef struct {
	state refState
	id    int64
	team  *Team
}

// UnloadedTeam references a team by id without materializing it.
func UnloadedTeam(id int64) TeamRef {
	return TeamRef{state: refUnloaded, id: id}
}

// LoadedTeam references a materialized team.
func LoadedTeam(t *Team) TeamRef {
	if t == nil {
		return TeamRef{}
	}
	return TeamRef{state: refLoaded, id: t.ID(), team: t}
}

// Present reports whether the member has a team at all.
func (r TeamRef) Present() bool {
	return r.state != refNone
}

// Loaded reports whether the referenced team has been materialized.
// False both for unloaded references and for "no team".
func (r TeamRef) Loaded() bool {
	return r.state == refLoaded
}

// TeamID returns the referenced team's id, or 0 when no team is present.
// For a loaded reference the id tracks the entity (which may have been
// assigned its id after the reference was taken).
func (r TeamRef) TeamID() int64 {
	if r.state == refLoaded {
		return r.team.ID()
	}
	return r.id
}

// Entity returns the materialized team, or nil when not loaded.
func (r TeamRef) Entity() *Team {
	if r.state == refLoaded {
		return r.team
	}
	return nil
}
