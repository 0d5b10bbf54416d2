package cache

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"lesson-service/internal/model"
	"lesson-service/internal/store"
)

var snapshotsApplied = promauto.NewCounter(prometheus.CounterOpts{
	Name: "lesson_cache_snapshots_applied_total",
	Help: "Number of lesson snapshots applied to the cache",
})

// Cache holds the authoritative in-process copy of all lesson records,
// kept current by a single record-store subscription. The subscription
// callback is the only writer; everything else reads.
type Cache struct {
	source store.RecordSource

	mu        sync.RWMutex
	lessons   []model.Lesson
	sub       store.Subscription
	applyHook func([]model.Lesson)
	listeners []func([]model.Lesson)
}

func New(source store.RecordSource) *Cache {
	return &Cache{source: source}
}

// SetApplyHook registers a function run synchronously on every applied
// snapshot, before change listeners are notified. The reminder scheduler
// hangs off this hook. Must be called before Start.
func (c *Cache) SetApplyHook(fn func([]model.Lesson)) {
	c.mu.Lock()
	c.applyHook = fn
	c.mu.Unlock()
}

// OnChange registers a listener notified after each applied snapshot.
// Listeners cannot be removed; they live as long as the cache.
func (c *Cache) OnChange(fn func([]model.Lesson)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Start opens the record-store subscription. Calling Start on a cache that
// is already running is a no-op; there is never more than one subscription.
func (c *Cache) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sub != nil {
		return nil
	}

	sub, err := c.source.Subscribe(ctx, c.apply)
	if err != nil {
		return err
	}
	c.sub = sub
	return nil
}

// Stop cancels the subscription. Safe to call multiple times.
func (c *Cache) Stop() {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()

	if sub == nil {
		return
	}
	if err := sub.Unsubscribe(); err != nil {
		slog.Warn("Failed to unsubscribe lesson cache", "error", err)
	}
}

// Restart tears down the current subscription and opens a fresh one,
// used for manual refresh.
func (c *Cache) Restart(ctx context.Context) error {
	c.Stop()
	return c.Start(ctx)
}

// Lessons returns a copy of the current record set.
func (c *Cache) Lessons() []model.Lesson {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Lesson, len(c.lessons))
	copy(out, c.lessons)
	return out
}

func (c *Cache) apply(lessons []model.Lesson, err error) {
	if err != nil {
		// Stale-but-available: keep whatever we had.
		slog.Error("Lesson snapshot failed, keeping previous cache contents", "error", err)
		return
	}

	c.mu.Lock()
	c.lessons = lessons
	hook := c.applyHook
	listeners := make([]func([]model.Lesson), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	snapshotsApplied.Inc()

	if hook != nil {
		hook(lessons)
	}
	for _, fn := range listeners {
		fn(lessons)
	}
}
