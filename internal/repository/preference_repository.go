package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"lesson-service/internal/model"
)

type PreferenceRepository interface {
	// Preferences returns the stored flags, or the defaults when the user
	// has never saved any.
	Preferences(ctx context.Context, userID string) (model.NotificationPreferences, error)
	Upsert(ctx context.Context, prefs model.NotificationPreferences) error
}

type postgresPreferenceRepository struct {
	db *sqlx.DB
}

func NewPostgresPreferenceRepository(db *sqlx.DB) PreferenceRepository {
	return &postgresPreferenceRepository{db: db}
}

func (r *postgresPreferenceRepository) Preferences(ctx context.Context, userID string) (model.NotificationPreferences, error) {
	var prefs model.NotificationPreferences
	query := `SELECT user_id, week_before, day_before, hour_before FROM notification_preferences WHERE user_id = $1`
	err := r.db.GetContext(ctx, &prefs, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.DefaultPreferences(userID), nil
		}
		return model.NotificationPreferences{}, err
	}

	return prefs, nil
}

func (r *postgresPreferenceRepository) Upsert(ctx context.Context, prefs model.NotificationPreferences) error {
	query := `
		INSERT INTO notification_preferences (user_id, week_before, day_before, hour_before)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET week_before = EXCLUDED.week_before,
		    day_before = EXCLUDED.day_before,
		    hour_before = EXCLUDED.hour_before
	`
	_, err := r.db.ExecContext(ctx, query, prefs.UserID, prefs.WeekBefore, prefs.DayBefore, prefs.HourBefore)
	return err
}
