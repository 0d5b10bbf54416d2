package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateNotificationPreferencesTable, downCreateNotificationPreferencesTable)
}

func upCreateNotificationPreferencesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE notification_preferences (
			user_id TEXT PRIMARY KEY,
			week_before BOOLEAN NOT NULL DEFAULT true,
			day_before BOOLEAN NOT NULL DEFAULT true,
			hour_before BOOLEAN NOT NULL DEFAULT true
		);
	`

	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}

	return nil
}

func downCreateNotificationPreferencesTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS notification_preferences;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}

	return nil
}
