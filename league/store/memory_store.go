// league/store/memory_store.go
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
)

// MemoryStore keeps teams, matches and snapshots in process memory. It backs
// STORE_DRIVER=memory and the tests.
type MemoryStore struct {
	mu          sync.RWMutex
	teams       map[int64]models.Team
	matches     map[int64]models.Match
	snapshots   []models.StandingsSnapshot
	nextMatchID int64
}

var (
	_ TeamStore     = (*MemoryStore)(nil)
	_ MatchStore    = (*MemoryStore)(nil)
	_ SnapshotStore = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		teams:       make(map[int64]models.Team),
		matches:     make(map[int64]models.Match),
		nextMatchID: 1,
	}
}

func (s *MemoryStore) ListTeams(_ context.Context) ([]models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	teams := make([]models.Team, 0, len(s.teams))
	for _, t := range s.teams {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

func (s *MemoryStore) GetTeam(_ context.Context, id int64) (*models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (s *MemoryStore) SetOwner(_ context.Context, id int64, owner string) (*models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.teams[id]
	if !ok {
		return nil, ErrNotFound
	}
	t.Owner = owner
	s.teams[id] = t
	return &t, nil
}

func (s *MemoryStore) EnsureTeams(_ context.Context, teams []models.Team) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, t := range teams {
		if _, ok := s.teams[t.ID]; ok {
			continue
		}
		s.teams[t.ID] = t
		added++
	}
	return added, nil
}

func (s *MemoryStore) ListMatches(_ context.Context, status models.MatchStatus) ([]models.Match, error) {
	return s.selectMatches(func(m models.Match) bool {
		return status == "" || m.Status == status
	}), nil
}

func (s *MemoryStore) TeamMatches(_ context.Context, teamID int64, status models.MatchStatus) ([]models.Match, error) {
	return s.selectMatches(func(m models.Match) bool {
		return m.Involves(teamID) && (status == "" || m.Status == status)
	}), nil
}

func (s *MemoryStore) selectMatches(keep func(models.Match) bool) []models.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Match, 0, len(s.matches))
	for _, m := range s.matches {
		if keep(m) {
			out = append(out, m)
		}
	}
	SortMatches(out)
	return out
}

func (s *MemoryStore) GetMatch(_ context.Context, id int64) (*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.matches[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (s *MemoryStore) CreateMatch(_ context.Context, m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.nextMatchID
	s.nextMatchID++
	s.matches[m.ID] = *m
	return nil
}

func (s *MemoryStore) UpdateResult(_ context.Context, id int64, homeGoals, awayGoals int, status models.MatchStatus) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.matches[id]
	if !ok {
		return nil, ErrNotFound
	}
	m.HomeGoals, m.AwayGoals, m.Status = homeGoals, awayGoals, status
	s.matches[id] = m
	return &m, nil
}

func (s *MemoryStore) OpenFixtureBetween(_ context.Context, homeTeamID, awayTeamID int64) (*models.Match, error) {
	return firstOpenBetween(s.selectMatches(func(m models.Match) bool {
		return m.HomeTeamID == homeTeamID && m.AwayTeamID == awayTeamID
	}), homeTeamID, awayTeamID)
}

func (s *MemoryStore) EnsureMatches(_ context.Context, matches []models.Match) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, m := range matches {
		if _, ok := s.matches[m.ID]; ok {
			continue
		}
		s.matches[m.ID] = m
		if m.ID >= s.nextMatchID {
			s.nextMatchID = m.ID + 1
		}
		added++
	}
	return added, nil
}

func (s *MemoryStore) SaveSnapshot(_ context.Context, snap *models.StandingsSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *snap
	stored.Rows = append([]models.StandingsRow(nil), snap.Rows...)
	s.snapshots = append(s.snapshots, stored)
	return nil
}

func (s *MemoryStore) LatestSnapshot(_ context.Context) (*models.StandingsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.snapshots) == 0 {
		return nil, ErrNotFound
	}
	latest := s.snapshots[0]
	for _, snap := range s.snapshots[1:] {
		if !snap.TakenAt.Before(latest.TakenAt) {
			latest = snap
		}
	}
	return &latest, nil
}
