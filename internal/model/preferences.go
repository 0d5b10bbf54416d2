package model

// NotificationPreferences selects which reminder offsets produce a trigger
// for a user's upcoming lessons. The one-hour reminder is always sent; the
// flag is stored so clients can display it, but the scheduler does not gate
// on it.
type NotificationPreferences struct {
	UserID     string `db:"user_id" json:"user_id"`
	WeekBefore bool   `db:"week_before" json:"week_before"`
	DayBefore  bool   `db:"day_before" json:"day_before"`
	HourBefore bool   `db:"hour_before" json:"hour_before"`
}

func DefaultPreferences(userID string) NotificationPreferences {
	return NotificationPreferences{
		UserID:     userID,
		WeekBefore: true,
		DayBefore:  true,
		HourBefore: true,
	}
}
