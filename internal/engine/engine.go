package engine

import (
	"context"

	"lesson-service/internal/booking"
	"lesson-service/internal/cache"
	"lesson-service/internal/identity"
	"lesson-service/internal/model"
	"lesson-service/internal/reminder"
	"lesson-service/internal/store"
	"lesson-service/internal/view"
)

// Engine wires the lesson cache, the per-user view, the booking coordinator
// and the reminder scheduler around one record source and one identity
// source. It is the composition a client process runs: start it after login,
// stop it on logout or shutdown.
type Engine struct {
	cache     *cache.Cache
	view      *view.UserLessonView
	booking   *booking.Coordinator
	reminders *reminder.Scheduler
}

func New(source store.RecordSource, sink reminder.TriggerSink, ids identity.Source, prefs model.NotificationPreferences) *Engine {
	c := cache.New(source)
	sched := reminder.NewScheduler(sink, ids, prefs)
	c.SetApplyHook(sched.Apply)

	return &Engine{
		cache:     c,
		view:      view.New(c, ids),
		booking:   booking.NewCoordinator(c, source),
		reminders: sched,
	}
}

func (e *Engine) Start(ctx context.Context) error {
	return e.cache.Start(ctx)
}

func (e *Engine) Stop() {
	e.cache.Stop()
}

// Restart forces a fresh subscription, used for manual refresh.
func (e *Engine) Restart(ctx context.Context) error {
	return e.cache.Restart(ctx)
}

func (e *Engine) Cache() *cache.Cache {
	return e.cache
}

// View is the active user's lessons, kept current reactively.
func (e *Engine) View() *view.UserLessonView {
	return e.view
}

func (e *Engine) Book(ctx context.Context, req booking.Request) (*model.Lesson, error) {
	return e.booking.Book(ctx, req)
}

func (e *Engine) Cancel(ctx context.Context, lessonID string) error {
	return e.booking.Cancel(ctx, lessonID)
}

// UpdatePreferences re-derives the reminder triggers under the new flags.
// Persisting the preferences is the caller's concern.
func (e *Engine) UpdatePreferences(prefs model.NotificationPreferences) {
	e.reminders.SetPreferences(prefs)
}
