package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"quiz-api-service/internal/app"
	"quiz-api-service/internal/domain"
)

// ledgerLockKey identifies the Postgres advisory lock serializing ledger
// transactions across service replicas.
const ledgerLockKey int64 = 0x7175697a

// QuestionStore persists questions and answers through bun. The questions
// table carries UNIQUE(position), so renumbering must never collide.
type QuestionStore struct {
	queries
	db *bun.DB
}

func NewQuestionStore(db *bun.DB) *QuestionStore {
	return &QuestionStore{queries: queries{db: db, clock: time.Now}, db: db}
}

func (s *QuestionStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx app.QuestionTx) error) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if isPostgres(tx) {
			if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(?)", ledgerLockKey); err != nil {
				return err
			}
		}
		return fn(ctx, queries{db: tx, clock: s.clock})
	})
}

// queries runs against either the pool or a transaction.
type queries struct {
	db    bun.IDB
	clock func() time.Time
}

func orderedAnswers(sq *bun.SelectQuery) *bun.SelectQuery {
	return sq.Order("sort_order ASC", "id ASC")
}

func (q queries) ListOrderedByPosition(ctx context.Context) ([]domain.Question, error) {
	var rows []*questionRow
	if err := q.db.NewSelect().
		Model(&rows).
		Relation("Answers", orderedAnswers).
		Order("q.position ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]domain.Question, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (q queries) GetByID(ctx context.Context, id int64) (domain.Question, error) {
	return q.getOne(ctx, "q.id = ?", id)
}

func (q queries) GetByPosition(ctx context.Context, position int) (domain.Question, error) {
	return q.getOne(ctx, "q.position = ?", position)
}

func (q queries) getOne(ctx context.Context, where string, arg any) (domain.Question, error) {
	row := new(questionRow)
	err := q.db.NewSelect().
		Model(row).
		Relation("Answers", orderedAnswers).
		Where(where, arg).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, err
	}
	return row.toDomain(), nil
}

func (q queries) Count(ctx context.Context) (int, error) {
	return q.db.NewSelect().Model((*questionRow)(nil)).Count(ctx)
}

func (q queries) MaxPosition(ctx context.Context) (int, error) {
	var highest int
	err := q.db.NewSelect().
		Model((*questionRow)(nil)).
		ColumnExpr("COALESCE(MAX(q.position), 0)").
		Scan(ctx, &highest)
	return highest, err
}

func (q queries) Insert(ctx context.Context, question *domain.Question) error {
	now := q.clock().UTC()
	row := &questionRow{
		Position:  question.Position,
		Title:     question.Title,
		Text:      question.Text,
		Image:     question.Image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := q.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return err
	}
	answers, err := q.insertAnswers(ctx, row.ID, question.Answers)
	if err != nil {
		return err
	}
	question.ID = row.ID
	question.CreatedAt = now
	question.UpdatedAt = now
	question.Answers = answers
	return nil
}

func (q queries) UpdateFields(ctx context.Context, id int64, fields domain.QuestionFields) error {
	image := sql.NullString{String: fields.Image, Valid: fields.Image != ""}
	res, err := q.db.NewUpdate().
		Model((*questionRow)(nil)).
		Set("title = ?", fields.Title).
		Set("text = ?", fields.Text).
		Set("image = ?", image).
		Set("updated_at = ?", q.clock().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	return affectedOne(res, err)
}

func (q queries) ReplaceAnswers(ctx context.Context, id int64, answers []domain.Answer) error {
	if _, err := q.GetByID(ctx, id); err != nil {
		return err
	}
	if _, err := q.db.NewDelete().
		Model((*answerRow)(nil)).
		Where("question_id = ?", id).
		Exec(ctx); err != nil {
		return err
	}
	_, err := q.insertAnswers(ctx, id, answers)
	return err
}

func (q queries) UpdatePosition(ctx context.Context, id int64, position int) error {
	res, err := q.db.NewUpdate().
		Model((*questionRow)(nil)).
		Set("position = ?", position).
		Set("updated_at = ?", q.clock().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	return affectedOne(res, err)
}

func (q queries) Delete(ctx context.Context, id int64) error {
	if _, err := q.db.NewDelete().
		Model((*answerRow)(nil)).
		Where("question_id = ?", id).
		Exec(ctx); err != nil {
		return err
	}
	res, err := q.db.NewDelete().
		Model((*questionRow)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return affectedOne(res, err)
}

func (q queries) DeleteAll(ctx context.Context) error {
	if _, err := q.db.NewDelete().Model((*answerRow)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return err
	}
	_, err := q.db.NewDelete().Model((*questionRow)(nil)).Where("1 = 1").Exec(ctx)
	return err
}

func (q queries) insertAnswers(ctx context.Context, questionID int64, answers []domain.Answer) ([]domain.Answer, error) {
	if len(answers) == 0 {
		return nil, nil
	}
	rows := answerRows(questionID, answers)
	if _, err := q.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return nil, err
	}
	out := make([]domain.Answer, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Answer{
			ID:         r.ID,
			QuestionID: r.QuestionID,
			Text:       r.Text,
			IsCorrect:  r.IsCorrect,
			Order:      r.SortOrder,
		})
	}
	return out, nil
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}
