package reminder

import (
	"context"
	"log/slog"
	"sync"

	"lesson-service/internal/identity"
	"lesson-service/internal/model"
)

// PreferenceLoader resolves a user's notification preferences.
type PreferenceLoader interface {
	Preferences(ctx context.Context, userID string) (model.NotificationPreferences, error)
}

// SinkFactory builds the trigger sink for one user's scheduler. Trigger ids
// are only unique per (lesson, offset), the way a per-device alarm facility
// keys them, so every user needs their own sink namespace.
type SinkFactory func(userID string) TriggerSink

// Fleet runs one Scheduler per user appearing in the lesson snapshots. A
// single Scheduler serves one identity; server-side the worker needs
// reminders for everybody, so it fans the snapshot out to a scheduler per
// party. Schedulers are created lazily and kept for the process lifetime.
type Fleet struct {
	newSink SinkFactory
	prefs   PreferenceLoader

	mu         sync.Mutex
	schedulers map[string]*Scheduler
}

func NewFleet(newSink SinkFactory, prefs PreferenceLoader) *Fleet {
	return &Fleet{
		newSink:    newSink,
		prefs:      prefs,
		schedulers: make(map[string]*Scheduler),
	}
}

// Apply fans a snapshot out to the scheduler of every user who is a party to
// any lesson in it.
func (f *Fleet) Apply(ctx context.Context, lessons []model.Lesson) {
	users := make(map[string]struct{})
	for _, l := range lessons {
		if l.TutorID != "" {
			users[l.TutorID] = struct{}{}
		}
		if l.StudentID != "" {
			users[l.StudentID] = struct{}{}
		}
	}

	for userID := range users {
		f.schedulerFor(ctx, userID).Apply(lessons)
	}
}

// ReloadPreferences refetches a user's preferences and re-derives their
// triggers. Called when the store publishes a preference change. Users
// without a scheduler yet are skipped; their first snapshot will pick the
// new preferences up anyway.
func (f *Fleet) ReloadPreferences(ctx context.Context, userID string) {
	f.mu.Lock()
	s, ok := f.schedulers[userID]
	f.mu.Unlock()
	if !ok {
		return
	}

	prefs, err := f.prefs.Preferences(ctx, userID)
	if err != nil {
		slog.Error("Failed to reload notification preferences", "user_id", userID, "error", err)
		return
	}
	s.SetPreferences(prefs)
}

func (f *Fleet) schedulerFor(ctx context.Context, userID string) *Scheduler {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.schedulers[userID]; ok {
		return s
	}

	prefs, err := f.prefs.Preferences(ctx, userID)
	if err != nil {
		slog.Warn("Falling back to default notification preferences", "user_id", userID, "error", err)
		prefs = model.DefaultPreferences(userID)
	}
	s := NewScheduler(f.newSink(userID), identity.Static(userID), prefs)
	f.schedulers[userID] = s
	return s
}
