package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
				if _, err := tx.NewCreateTable().
					Model((*question)(nil)).
					IfNotExists().
					Exec(ctx); err != nil {
					return err
				}
				if _, err := tx.NewCreateTable().
					Model((*answer)(nil)).
					IfNotExists().
					ForeignKey(`("question_id") REFERENCES "questions" ("id") ON DELETE CASCADE`).
					Exec(ctx); err != nil {
					return err
				}
				_, err := tx.NewCreateIndex().
					Model((*answer)(nil)).
					Index("answers_question_id_idx").
					IfNotExists().
					Column("question_id", "sort_order").
					Exec(ctx)
				return err
			})
		},
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.NewDropTable().Model((*answer)(nil)).IfExists().Exec(ctx); err != nil {
				return err
			}
			_, err := db.NewDropTable().Model((*question)(nil)).IfExists().Exec(ctx)
			return err
		},
	)
}
