package migrations

import (
	"time"

	"github.com/uptrace/bun"
)

// Table snapshots as of the migration that creates them. Later schema changes
// get their own migration instead of editing these.

type question struct {
	bun.BaseModel `bun:"table:questions"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Position  int       `bun:"position,notnull,unique"`
	Title     string    `bun:"title,notnull"`
	Text      string    `bun:"text,notnull"`
	Image     string    `bun:"image,type:text,nullzero"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

type answer struct {
	bun.BaseModel `bun:"table:answers"`

	ID         int64  `bun:"id,pk,autoincrement"`
	QuestionID int64  `bun:"question_id,notnull"`
	Text       string `bun:"text,notnull"`
	IsCorrect  bool   `bun:"is_correct,notnull"`
	SortOrder  int    `bun:"sort_order,notnull"`
}

type participation struct {
	bun.BaseModel `bun:"table:participations"`

	ID         int64     `bun:"id,pk,autoincrement"`
	PlayerName string    `bun:"player_name,notnull"`
	Score      int       `bun:"score,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
}
