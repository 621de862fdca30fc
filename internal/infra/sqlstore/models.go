package sqlstore

import (
	"time"

	"github.com/uptrace/bun"

	"quiz-api-service/internal/domain"
)

type questionRow struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID        int64        `bun:"id,pk,autoincrement"`
	Position  int          `bun:"position,notnull"`
	Title     string       `bun:"title,notnull"`
	Text      string       `bun:"text,notnull"`
	Image     string       `bun:"image,nullzero"`
	CreatedAt time.Time    `bun:"created_at,notnull"`
	UpdatedAt time.Time    `bun:"updated_at,notnull"`
	Answers   []*answerRow `bun:"rel:has-many,join:id=question_id"`
}

type answerRow struct {
	bun.BaseModel `bun:"table:answers,alias:a"`

	ID         int64  `bun:"id,pk,autoincrement"`
	QuestionID int64  `bun:"question_id,notnull"`
	Text       string `bun:"text,notnull"`
	IsCorrect  bool   `bun:"is_correct,notnull"`
	SortOrder  int    `bun:"sort_order,notnull"`
}

type participationRow struct {
	bun.BaseModel `bun:"table:participations,alias:p"`

	ID         int64     `bun:"id,pk,autoincrement"`
	PlayerName string    `bun:"player_name,notnull"`
	Score      int       `bun:"score,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
}

func (r *questionRow) toDomain() domain.Question {
	q := domain.Question{
		ID:        r.ID,
		Position:  r.Position,
		Title:     r.Title,
		Text:      r.Text,
		Image:     r.Image,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Answers:   make([]domain.Answer, 0, len(r.Answers)),
	}
	for _, a := range r.Answers {
		q.Answers = append(q.Answers, domain.Answer{
			ID:         a.ID,
			QuestionID: a.QuestionID,
			Text:       a.Text,
			IsCorrect:  a.IsCorrect,
			Order:      a.SortOrder,
		})
	}
	return q
}

func answerRows(questionID int64, answers []domain.Answer) []*answerRow {
	rows := make([]*answerRow, 0, len(answers))
	for _, a := range answers {
		rows = append(rows, &answerRow{
			QuestionID: questionID,
			Text:       a.Text,
			IsCorrect:  a.IsCorrect,
			SortOrder:  a.Order,
		})
	}
	return rows
}
