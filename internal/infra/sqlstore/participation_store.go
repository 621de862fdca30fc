package sqlstore

import (
	"context"

	"github.com/uptrace/bun"

	"quiz-api-service/internal/domain"
)

// ParticipationStore is the bun-backed leaderboard store.
type ParticipationStore struct {
	db *bun.DB
}

func NewParticipationStore(db *bun.DB) *ParticipationStore {
	return &ParticipationStore{db: db}
}

func (s *ParticipationStore) Add(ctx context.Context, p *domain.Participation) error {
	row := &participationRow{
		PlayerName: p.PlayerName,
		Score:      p.Score,
		CreatedAt:  p.CreatedAt.UTC(),
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return err
	}
	p.ID = row.ID
	return nil
}

func (s *ParticipationStore) Top(ctx context.Context, limit int) ([]domain.Participation, error) {
	var rows []participationRow
	q := s.db.NewSelect().
		Model(&rows).
		Order("p.score DESC", "p.created_at DESC", "p.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]domain.Participation, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Participation{
			ID:         r.ID,
			PlayerName: r.PlayerName,
			Score:      r.Score,
			CreatedAt:  r.CreatedAt,
		})
	}
	return out, nil
}

func (s *ParticipationStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.NewDelete().Model((*participationRow)(nil)).Where("1 = 1").Exec(ctx)
	return err
}
