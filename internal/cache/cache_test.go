package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"lesson-service/internal/cache"
	"lesson-service/internal/model"
	"lesson-service/internal/store"
)

type fakeSource struct {
	mu           sync.Mutex
	fn           store.SnapshotFunc
	subscribes   int
	unsubscribes int
}

func (f *fakeSource) Subscribe(ctx context.Context, fn store.SnapshotFunc) (store.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fn = fn
	f.subscribes++
	return &fakeSub{source: f}, nil
}

func (f *fakeSource) QueryByTutor(ctx context.Context, tutorID string) ([]model.Lesson, error) {
	return nil, nil
}

func (f *fakeSource) Create(ctx context.Context, lesson *model.Lesson) (*model.Lesson, error) {
	return lesson, nil
}

func (f *fakeSource) UpdateStatus(ctx context.Context, lessonID string, status model.LessonStatus) error {
	return nil
}

func (f *fakeSource) push(lessons []model.Lesson, err error) {
	f.mu.Lock()
	fn := f.fn
	f.mu.Unlock()
	fn(lessons, err)
}

type fakeSub struct {
	source *fakeSource
}

func (s *fakeSub) Unsubscribe() error {
	s.source.mu.Lock()
	defer s.source.mu.Unlock()
	s.source.unsubscribes++
	return nil
}

func TestCache_AppliesSnapshots(t *testing.T) {
	source := &fakeSource{}
	c := cache.New(source)
	require.NoError(t, c.Start(context.Background()))

	require.Empty(t, c.Lessons())

	source.push([]model.Lesson{{ID: "l1", TutorID: "tutor1", StudentID: "u1"}}, nil)
	require.Len(t, c.Lessons(), 1)

	// full-replace, not a merge
	source.push([]model.Lesson{{ID: "l2", TutorID: "tutor2", StudentID: "u2"}}, nil)
	lessons := c.Lessons()
	require.Len(t, lessons, 1)
	require.Equal(t, "l2", lessons[0].ID)
}

func TestCache_KeepsStaleDataOnTransportError(t *testing.T) {
	source := &fakeSource{}
	c := cache.New(source)
	require.NoError(t, c.Start(context.Background()))

	source.push([]model.Lesson{{ID: "l1"}}, nil)
	source.push(nil, errors.New("connection reset"))

	lessons := c.Lessons()
	require.Len(t, lessons, 1)
	require.Equal(t, "l1", lessons[0].ID)
}

func TestCache_StartIsSingleSubscription(t *testing.T) {
	source := &fakeSource{}
	c := cache.New(source)

	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Start(context.Background()))
	require.Equal(t, 1, source.subscribes)
}

func TestCache_StopIsIdempotent(t *testing.T) {
	source := &fakeSource{}
	c := cache.New(source)
	require.NoError(t, c.Start(context.Background()))

	c.Stop()
	c.Stop()
	require.Equal(t, 1, source.unsubscribes)
}

func TestCache_RestartReplacesSubscription(t *testing.T) {
	source := &fakeSource{}
	c := cache.New(source)
	require.NoError(t, c.Start(context.Background()))

	require.NoError(t, c.Restart(context.Background()))
	require.Equal(t, 2, source.subscribes)
	require.Equal(t, 1, source.unsubscribes)

	source.push([]model.Lesson{{ID: "l1"}}, nil)
	require.Len(t, c.Lessons(), 1)
}

func TestCache_ApplyHookRunsBeforeListeners(t *testing.T) {
	source := &fakeSource{}
	c := cache.New(source)

	var order []string
	c.SetApplyHook(func([]model.Lesson) { order = append(order, "hook") })
	c.OnChange(func([]model.Lesson) { order = append(order, "listener") })

	require.NoError(t, c.Start(context.Background()))
	source.push([]model.Lesson{{ID: "l1"}}, nil)

	require.Equal(t, []string{"hook", "listener"}, order)
}

func TestCache_LessonsReturnsCopy(t *testing.T) {
	source := &fakeSource{}
	c := cache.New(source)
	require.NoError(t, c.Start(context.Background()))

	source.push([]model.Lesson{{ID: "l1", Status: model.StatusConfirmed}}, nil)

	lessons := c.Lessons()
	lessons[0].Status = model.StatusCancelled
	require.Equal(t, model.StatusConfirmed, c.Lessons()[0].Status)
}
