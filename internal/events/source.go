package events

import (
	"context"

	"lesson-service/internal/model"
	"lesson-service/internal/repository"
	"lesson-service/internal/store"
)

// ServerSource implements store.RecordSource for the process that owns the
// database: queries and writes hit Postgres directly, with a fresh snapshot
// published after each write. Subscribe still goes through NATS, so the
// in-process cache is updated by the same loop-back path remote engines see.
type ServerSource struct {
	lessons repository.LessonRepository
	server  *StoreServer
	sub     *store.NatsSource
}

func NewServerSource(lessons repository.LessonRepository, server *StoreServer, sub *store.NatsSource) *ServerSource {
	return &ServerSource{
		lessons: lessons,
		server:  server,
		sub:     sub,
	}
}

func (s *ServerSource) Subscribe(ctx context.Context, fn store.SnapshotFunc) (store.Subscription, error) {
	return s.sub.Subscribe(ctx, fn)
}

func (s *ServerSource) QueryByTutor(ctx context.Context, tutorID string) ([]model.Lesson, error) {
	return s.lessons.ListByTutor(ctx, tutorID)
}

func (s *ServerSource) Create(ctx context.Context, lesson *model.Lesson) (*model.Lesson, error) {
	created, err := s.lessons.Create(ctx, lesson)
	if err != nil {
		return nil, err
	}
	s.server.PublishSnapshot(ctx)
	return created, nil
}

func (s *ServerSource) UpdateStatus(ctx context.Context, lessonID string, status model.LessonStatus) error {
	if err := s.lessons.UpdateStatus(ctx, lessonID, status); err != nil {
		return err
	}
	s.server.PublishSnapshot(ctx)
	return nil
}
