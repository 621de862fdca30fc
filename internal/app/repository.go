package app

import (
	"context"

	"quiz-api-service/internal/domain"
)

// QuestionReader is the read side of question persistence.
// Missing rows are reported as domain.ErrQuestionNotFound.
type QuestionReader interface {
	ListOrderedByPosition(ctx context.Context) ([]domain.Question, error)
	GetByID(ctx context.Context, id int64) (domain.Question, error)
	GetByPosition(ctx context.Context, position int) (domain.Question, error)
	Count(ctx context.Context) (int, error)
	MaxPosition(ctx context.Context) (int, error)
}

// QuestionTx is the set of operations available inside a store transaction.
// UpdatePosition must accept ParkedPosition, which lies outside the live range.
type QuestionTx interface {
	QuestionReader
	Insert(ctx context.Context, q *domain.Question) error
	UpdateFields(ctx context.Context, id int64, fields domain.QuestionFields) error
	ReplaceAnswers(ctx context.Context, id int64, answers []domain.Answer) error
	UpdatePosition(ctx context.Context, id int64, position int) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}

// QuestionStore persists questions and their answers. WithinTx commits when fn
// returns nil and rolls back everything fn did otherwise.
type QuestionStore interface {
	QuestionReader
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx QuestionTx) error) error
}

// ParticipationRepository stores the append-only leaderboard.
// Top returns entries by score desc, then most recent first.
type ParticipationRepository interface {
	Add(ctx context.Context, p *domain.Participation) error
	Top(ctx context.Context, limit int) ([]domain.Participation, error)
	DeleteAll(ctx context.Context) error
}

// ImageValidator checks an optional base64 image payload.
type ImageValidator interface {
	Validate(payload string) error
}
