package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.NewCreateTable().
				Model((*participation)(nil)).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
			_, err := db.NewCreateIndex().
				Model((*participation)(nil)).
				Index("participations_rank_idx").
				IfNotExists().
				ColumnExpr("score DESC, created_at DESC").
				Exec(ctx)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.NewDropTable().Model((*participation)(nil)).IfExists().Exec(ctx)
			return err
		},
	)
}
