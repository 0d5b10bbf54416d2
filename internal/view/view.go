package view

import (
	"sync"

	"lesson-service/internal/cache"
	"lesson-service/internal/identity"
	"lesson-service/internal/model"
)

// UserLessonView is a reactive projection of the lesson cache onto a single
// identity: every lesson where that user is the tutor or the student.
// It recomputes whenever either input changes, so it populates correctly
// even when identity becomes known only after the cache has filled, and
// drops the previous user's lessons on an account switch.
type UserLessonView struct {
	mu        sync.RWMutex
	userID    string
	all       []model.Lesson
	mine      []model.Lesson
	listeners []func([]model.Lesson)
}

func New(c *cache.Cache, ids identity.Source) *UserLessonView {
	v := &UserLessonView{}

	v.mu.Lock()
	v.userID = ids.Current()
	v.all = c.Lessons()
	v.recomputeLocked()
	v.mu.Unlock()

	c.OnChange(v.setAll)
	ids.OnChange(v.setIdentity)
	return v
}

// Lessons returns the current projection. Empty when nobody is signed in.
func (v *UserLessonView) Lessons() []model.Lesson {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]model.Lesson, len(v.mine))
	copy(out, v.mine)
	return out
}

func (v *UserLessonView) OnChange(fn func([]model.Lesson)) {
	v.mu.Lock()
	v.listeners = append(v.listeners, fn)
	v.mu.Unlock()
}

func (v *UserLessonView) setAll(lessons []model.Lesson) {
	v.mu.Lock()
	v.all = lessons
	v.recomputeLocked()
	v.notifyLocked()
}

func (v *UserLessonView) setIdentity(userID string) {
	v.mu.Lock()
	v.userID = userID
	v.recomputeLocked()
	v.notifyLocked()
}

func (v *UserLessonView) recomputeLocked() {
	if v.userID == "" {
		v.mine = nil
		return
	}
	mine := make([]model.Lesson, 0, len(v.all))
	for _, l := range v.all {
		if l.Involves(v.userID) {
			mine = append(mine, l)
		}
	}
	v.mine = mine
}

// notifyLocked snapshots state under the lock, releases it, then notifies.
func (v *UserLessonView) notifyLocked() {
	mine := make([]model.Lesson, len(v.mine))
	copy(mine, v.mine)
	listeners := make([]func([]model.Lesson), len(v.listeners))
	copy(listeners, v.listeners)
	v.mu.Unlock()

	for _, fn := range listeners {
		fn(mine)
	}
}
