package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateLessonsTable, downCreateLessonsTable)
}

func upCreateLessonsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE lessons (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tutor_id TEXT NOT NULL,
			student_id TEXT NOT NULL,
			tutor_name TEXT NOT NULL DEFAULT '',
			student_name TEXT NOT NULL DEFAULT '',
			subject TEXT NOT NULL,
			lesson_date TEXT NOT NULL,
			lesson_time TEXT NOT NULL,
			duration TEXT NOT NULL DEFAULT '1 hour',
			status TEXT NOT NULL DEFAULT 'Upcoming',
			location TEXT NOT NULL DEFAULT 'Online',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);

		CREATE INDEX idx_lessons_slot ON lessons (tutor_id, lesson_date, lesson_time);
	`

	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}

	return nil
}

func downCreateLessonsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS lessons;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}

	return nil
}
