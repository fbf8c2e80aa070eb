// Package session implements the unit of work tying entities, stores, and
// the query engine together: staged inserts with immediate identity
// assignment, read-your-writes visibility, an identity map, and explicit
// lazy/eager team materialization.
package session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tobin-dev/relq/internal/engine"
	"github.com/tobin-dev/relq/internal/entity"
	"github.com/tobin-dev/relq/internal/query"
	"github.com/tobin-dev/relq/internal/store"
)

// Session is one logical unit of work over the member and team tables.
// All operations are synchronous; a row persisted earlier in the session is
// visible to every later query, before any flush boundary.
//
// Sessions are not safe for concurrent use.
type Session struct {
	token   string
	members *store.Table[*entity.Member]
	teams   *store.Table[*entity.Team]
	engine  *engine.Engine

	// First-level cache: entities the session has handed out, by id.
	// Cleared by Clear, after which fetches materialize fresh copies.
	memberCache map[int64]*entity.Member
	teamCache   map[int64]*entity.Team

	flushes int64
}

// MembersTable and TeamsTable are the source names sessions register.
const (
	MembersTable = "members"
	TeamsTable   = "teams"
)

// New creates an empty session with its own tables and engine.
func New() *Session {
	s := &Session{
		token:       uuid.Must(uuid.NewV7()).String(),
		members:     store.NewTable[*entity.Member](MembersTable, entity.MemberSchema()),
		teams:       store.NewTable[*entity.Team](TeamsTable, entity.TeamSchema()),
		engine:      engine.New(),
		memberCache: make(map[int64]*entity.Member),
		teamCache:   make(map[int64]*entity.Team),
	}
	s.engine.Register(s.members)
	s.engine.Register(s.teams)
	return s
}

// Token identifies this unit of work.
func (s *Session) Token() string { return s.token }

// Engine exposes the session's query engine for tuple-level queries.
func (s *Session) Engine() *engine.Engine { return s.engine }

// Members exposes the member table (scan, find, snapshot).
func (s *Session) Members() *store.Table[*entity.Member] { return s.members }

// Teams exposes the team table.
func (s *Session) Teams() *store.Table[*entity.Team] { return s.teams }

// Persist stages an entity: identity is assigned synchronously, so the
// entity is immediately usable and visible within this unit of work.
//
// A member whose team has not itself been persisted is rejected: the
// association would record an id the team does not yet have.
func (s *Session) Persist(e any) error {
	switch ent := e.(type) {
	case *entity.Team:
		id, err := s.teams.Insert(ent)
		if err != nil {
			return err
		}
		s.teamCache[id] = ent
		return nil

	case *entity.Member:
		if ref := ent.Team(); ref.Present() && ref.TeamID() == 0 {
			return query.NewInvalidOperationError("persist the member's team before the member")
		}
		id, err := s.members.Insert(ent)
		if err != nil {
			return err
		}
		s.memberCache[id] = ent
		return nil

	default:
		return query.NewInvalidOperationError(fmt.Sprintf("cannot persist %T", e))
	}
}

// Flush marks a visibility boundary. The in-memory store is immediate, so
// flushing changes nothing observable except the boundary count.
func (s *Session) Flush() { s.flushes++ }

// Flushes returns the number of flush boundaries marked so far.
func (s *Session) Flushes() int64 { return s.flushes }

// Clear detaches every entity the session has handed out. Subsequent
// fetches materialize fresh copies; their team references start unloaded
// unless the query carries a fetch join.
func (s *Session) Clear() {
	s.memberCache = make(map[int64]*entity.Member)
	s.teamCache = make(map[int64]*entity.Team)
}

// IsLoaded reports whether a team reference has been materialized.
// Used to verify fetch-join behavior.
func (s *Session) IsLoaded(ref entity.TeamRef) bool {
	return ref.Loaded()
}

// LoadTeam materializes a member's team reference, resolving Unloaded(id)
// to Loaded(entity) through the team table. The transition is explicit and
// inspectable; there is no hidden proxy.
func (s *Session) LoadTeam(m *entity.Member) (*entity.Team, error) {
	ref := m.Team()
	if !ref.Present() {
		return nil, nil
	}
	if ref.Loaded() {
		return ref.Entity(), nil
	}
	team, err := s.materializeTeam(ref.TeamID())
	if err != nil {
		return nil, err
	}
	if err := m.ChangeTeam(team); err != nil {
		return nil, err
	}
	return team, nil
}
