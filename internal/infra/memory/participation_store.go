package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-api-service/internal/domain"
)

// ParticipationStore is an in-memory implementation of app.ParticipationRepository.
type ParticipationStore struct {
	mu     sync.RWMutex
	nextID int64
	items  []domain.Participation
}

func NewParticipationStore() *ParticipationStore {
	return &ParticipationStore{}
}

func (s *ParticipationStore) Add(_ context.Context, p *domain.Participation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p.ID = s.nextID
	s.items = append(s.items, *p)
	return nil
}

func (s *ParticipationStore) Top(_ context.Context, limit int) ([]domain.Participation, error) {
	s.mu.RLock()
	out := make([]domain.Participation, len(s.items))
	copy(out, s.items)
	s.mu.RUnlock()

	SortLeaderboard(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *ParticipationStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return nil
}

// SortLeaderboard orders participations by score desc, then most recent first.
func SortLeaderboard(items []domain.Participation) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
}
