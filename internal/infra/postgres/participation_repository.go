package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-api-service/internal/domain"
)

// ParticipationRepository reads and appends leaderboard rows through a pgx
// pool, outside the ledger's transactions.
type ParticipationRepository struct {
	pool *pgxpool.Pool
}

func NewParticipationRepository(pool *pgxpool.Pool) *ParticipationRepository {
	return &ParticipationRepository{pool: pool}
}

func (r *ParticipationRepository) Add(ctx context.Context, p *domain.Participation) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO participations (player_name, score, created_at) VALUES ($1, $2, $3) RETURNING id`,
		p.PlayerName, p.Score, p.CreatedAt.UTC(),
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert participation: %w", err)
	}
	return nil
}

func (r *ParticipationRepository) Top(ctx context.Context, limit int) ([]domain.Participation, error) {
	query := `SELECT id, player_name, score, created_at FROM participations
		ORDER BY score DESC, created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query participations: %w", err)
	}
	defer rows.Close()

	var out []domain.Participation
	for rows.Next() {
		var p domain.Participation
		if err := rows.Scan(&p.ID, &p.PlayerName, &p.Score, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan participation: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ParticipationRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM participations`); err != nil {
		return fmt.Errorf("delete participations: %w", err)
	}
	return nil
}
