package reminder

import (
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"lesson-service/internal/identity"
	"lesson-service/internal/model"
)

var triggersScheduled = promauto.NewCounter(prometheus.CounterOpts{
	Name: "lesson_reminder_triggers_scheduled_total",
	Help: "Reminder triggers submitted to the trigger sink",
})

// TriggerSink is the exact-alarm facility. Scheduling at an id that already
// has a pending trigger replaces it, which is what makes blind recomputation
// on every snapshot safe.
type TriggerSink interface {
	ScheduleTrigger(id int, fireAt time.Time, payload Payload) error
}

// Scheduler keeps exactly the right reminder triggers pending for one user's
// future, non-cancelled lessons. The whole set is re-derived from scratch on
// every snapshot, preference change or identity change; deterministic trigger
// ids make that idempotent. Triggers whose lesson was cancelled or whose
// offset was switched off are abandoned rather than actively removed, and
// fire as harmless stale reminders.
type Scheduler struct {
	sink TriggerSink
	ids  identity.Source
	now  func() time.Time

	mu      sync.Mutex
	prefs   model.NotificationPreferences
	lessons []model.Lesson
}

func NewScheduler(sink TriggerSink, ids identity.Source, prefs model.NotificationPreferences) *Scheduler {
	s := &Scheduler{
		sink:  sink,
		ids:   ids,
		now:   time.Now,
		prefs: prefs,
	}
	ids.OnChange(func(string) { s.Recompute() })
	return s
}

// Apply is wired as the cache's synchronous apply hook.
func (s *Scheduler) Apply(lessons []model.Lesson) {
	s.mu.Lock()
	s.lessons = lessons
	s.mu.Unlock()
	s.Recompute()
}

func (s *Scheduler) SetPreferences(prefs model.NotificationPreferences) {
	s.mu.Lock()
	s.prefs = prefs
	s.mu.Unlock()
	s.Recompute()
}

// Recompute re-derives and schedules the full trigger set from the last
// snapshot. Running it twice in a row schedules the same ids with the same
// fire times.
func (s *Scheduler) Recompute() {
	s.mu.Lock()
	lessons := s.lessons
	prefs := s.prefs
	s.mu.Unlock()

	userID := s.ids.Current()
	if userID == "" {
		return
	}
	now := s.now()
	offsets := enabledOffsets(prefs)

	for _, l := range lessons {
		if !l.Involves(userID) || !l.OccupiesSlot() {
			continue
		}
		start, err := l.StartAt()
		if err != nil {
			// Malformed records stay visible elsewhere; they just get no reminders.
			slog.Warn("Skipping reminder for lesson with unparseable start",
				"lesson_id", l.ID, "date", l.Date, "time", l.Time, "error", err)
			continue
		}
		if !start.After(now) {
			continue
		}

		for _, off := range offsets {
			fireAt := start.Add(-off.Lead)
			if fireAt.Before(now) {
				// The window already passed; no catch-up firing.
				continue
			}
			id := TriggerID(l.ID, off.Tag)
			if err := s.sink.ScheduleTrigger(id, fireAt, payloadFor(l, userID, off)); err != nil {
				slog.Warn("Failed to schedule reminder trigger",
					"lesson_id", l.ID, "offset", off.Tag, "error", err)
				continue
			}
			triggersScheduled.Inc()
		}
	}
}

// enabledOffsets applies the preference gates. The one-hour reminder is
// always on; only the longer offsets are optional.
func enabledOffsets(p model.NotificationPreferences) []Offset {
	offsets := make([]Offset, 0, 3)
	if p.WeekBefore {
		offsets = append(offsets, OffsetWeek)
	}
	if p.DayBefore {
		offsets = append(offsets, OffsetDay)
	}
	offsets = append(offsets, OffsetHour)
	return offsets
}
