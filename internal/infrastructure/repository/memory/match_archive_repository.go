package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/skanelive/matchcenter/internal/domain/match"
)

// MatchArchiveRepository keeps archived matches in process memory. It backs
// deployments that run without a database; archived entries are lost on
// restart, which only costs a refetch from the upstreams.
type MatchArchiveRepository struct {
	mu    sync.RWMutex
	items map[string]match.UnifiedMatch
}

func NewMatchArchiveRepository() *MatchArchiveRepository {
	return &MatchArchiveRepository{items: make(map[string]match.UnifiedMatch)}
}

func (r *MatchArchiveRepository) Upsert(_ context.Context, m match.UnifiedMatch) error {
	if strings.TrimSpace(m.LeagueID) == "" || strings.TrimSpace(m.ExternalMatchID) == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[archiveKey(m.LeagueID, m.ExternalMatchID)] = cloneMatch(m)
	return nil
}

func (r *MatchArchiveRepository) GetByKey(_ context.Context, leagueID, matchID string) (match.UnifiedMatch, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[archiveKey(leagueID, matchID)]
	if !ok {
		return match.UnifiedMatch{}, false, nil
	}

	return cloneMatch(item), true, nil
}

func archiveKey(leagueID, matchID string) string {
	return strings.TrimSpace(leagueID) + "::" + strings.TrimSpace(matchID)
}

func cloneMatch(m match.UnifiedMatch) match.UnifiedMatch {
	copied := m
	copied.Referees = append([]string(nil), m.Referees...)
	if m.HomeScore != nil {
		v := *m.HomeScore
		copied.HomeScore = &v
	}
	if m.AwayScore != nil {
		v := *m.AwayScore
		copied.AwayScore = &v
	}
	if m.Overrides.SoldTickets != nil {
		v := *m.Overrides.SoldTickets
		copied.Overrides.SoldTickets = &v
	}
	return copied
}
