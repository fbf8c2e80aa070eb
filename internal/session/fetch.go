package session

import (
	"github.com/tobin-dev/relq/internal/engine"
	"github.com/tobin-dev/relq/internal/entity"
	"github.com/tobin-dev/relq/internal/query"
)

// FetchMembers runs a row query rooted at the member table and materializes
// each hit as an entity. Entities already known to the session come back as
// the same instance; everything else is a fresh detached copy whose team
// reference starts unloaded, unless the query carries a fetch join.
func (s *Session) FetchMembers(spec *query.Spec) ([]*entity.Member, error) {
	rows, err := s.engine.FetchRows(spec)
	if err != nil {
		return nil, err
	}
	eager := spec.Join != nil && spec.Join.Fetch
	out := make([]*entity.Member, 0, len(rows))
	for _, r := range rows {
		id, ok := r.ID(spec.From.Alias)
		if !ok {
			return nil, query.NewInvalidOperationError("member row has no id")
		}
		m, err := s.materializeMember(id, eager)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// FetchMemberOne expects zero or one hit. Zero hits reports found=false;
// more than one returns a non-unique result error.
func (s *Session) FetchMemberOne(spec *query.Spec) (*entity.Member, bool, error) {
	row, found, err := s.engine.FetchOneRow(spec)
	if err != nil || !found {
		return nil, false, err
	}
	return s.materializeFromRow(row, spec)
}

// FetchMemberFirst returns the first hit in result order, if any.
func (s *Session) FetchMemberFirst(spec *query.Spec) (*entity.Member, bool, error) {
	row, found, err := s.engine.FetchFirstRow(spec)
	if err != nil || !found {
		return nil, false, err
	}
	return s.materializeFromRow(row, spec)
}

// FetchMemberPage returns one page of members plus the total hit count
// before paging was applied.
func (s *Session) FetchMemberPage(spec *query.Spec) ([]*entity.Member, int64, error) {
	total, err := s.engine.Count(spec)
	if err != nil {
		return nil, 0, err
	}
	members, err := s.FetchMembers(spec)
	if err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

// FetchTuples runs a projected query and returns raw tuples.
func (s *Session) FetchTuples(spec *query.Spec) ([]engine.Tuple, error) {
	return s.engine.Fetch(spec)
}

// Count returns the number of rows the query retains, ignoring paging.
func (s *Session) Count(spec *query.Spec) (int64, error) {
	return s.engine.Count(spec)
}

func (s *Session) materializeFromRow(row engine.ResultRow, spec *query.Spec) (*entity.Member, bool, error) {
	id, ok := row.ID(spec.From.Alias)
	if !ok {
		return nil, false, query.NewInvalidOperationError("member row has no id")
	}
	eager := spec.Join != nil && spec.Join.Fetch
	m, err := s.materializeMember(id, eager)
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

func (s *Session) materializeMember(id int64, eager bool) (*entity.Member, error) {
	if m, hit := s.memberCache[id]; hit {
		if eager {
			if _, err := s.LoadTeam(m); err != nil {
				return nil, err
			}
		}
		return m, nil
	}
	stored, ok := s.members.FindByID(id)
	if !ok {
		return nil, engine.NewNotFoundError(MembersTable, id)
	}
	m, err := entity.ReviveMember(stored.Fields())
	if err != nil {
		return nil, err
	}
	m.AssignID(id)
	s.memberCache[id] = m
	if eager {
		if _, err := s.LoadTeam(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (s *Session) materializeTeam(id int64) (*entity.Team, error) {
	if t, hit := s.teamCache[id]; hit {
		return t, nil
	}
	stored, ok := s.teams.FindByID(id)
	if !ok {
		return nil, engine.NewNotFoundError(TeamsTable, id)
	}
	t := entity.NewTeam(stored.Name())
	t.AssignID(id)
	s.teamCache[id] = t
	return t, nil
}
