package reminder

import (
	"log/slog"
	"sync"
	"time"
)

// Notifier turns a fired trigger payload into a user-visible notification.
type Notifier interface {
	Notify(payload Payload)
}

// LogNotifier just logs fired reminders. Used when no push transport is
// configured.
type LogNotifier struct{}

func (LogNotifier) Notify(p Payload) {
	slog.Info("Reminder fired", "user_id", p.UserID, "title", p.Title, "message", p.Message)
}

// TimerSink is an in-process TriggerSink backed by exact timers. Scheduling
// at an id that already has a pending timer stops the old one first, so the
// sink never holds two triggers with the same id.
type TimerSink struct {
	notifier Notifier

	mu     sync.Mutex
	timers map[int]*time.Timer
}

func NewTimerSink(n Notifier) *TimerSink {
	return &TimerSink{
		notifier: n,
		timers:   make(map[int]*time.Timer),
	}
}

func (s *TimerSink) ScheduleTrigger(id int, fireAt time.Time, payload Payload) error {
	delay := time.Until(fireAt)
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
	}
	s.timers[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
		s.notifier.Notify(payload)
	})
	return nil
}

// Pending returns the number of triggers waiting to fire.
func (s *TimerSink) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels all pending triggers, for process shutdown.
func (s *TimerSink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
