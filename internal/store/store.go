package store

import (
	"context"

	"lesson-service/internal/model"
)

// SnapshotFunc receives the full current lesson set on every push from the
// record store. A non-nil err means the push could not be decoded or the
// transport failed; the previous snapshot remains the freshest known state.
type SnapshotFunc func(lessons []model.Lesson, err error)

type Subscription interface {
	Unsubscribe() error
}

// RecordSource is the contract of the remote record store. Subscribe streams
// full-replace snapshots of the lesson collection; QueryByTutor is a direct
// point lookup used for the booking re-check; Create and UpdateStatus are the
// only write operations, and both echo back through the subscription.
type RecordSource interface {
	Subscribe(ctx context.Context, fn SnapshotFunc) (Subscription, error)
	QueryByTutor(ctx context.Context, tutorID string) ([]model.Lesson, error)
	Create(ctx context.Context, lesson *model.Lesson) (*model.Lesson, error)
	UpdateStatus(ctx context.Context, lessonID string, status model.LessonStatus) error
}
