package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"lesson-service/internal/repository"
	"lesson-service/internal/store"
)

// StoreServer is the record store's push side: it answers the query, create
// and status request subjects against Postgres, and republishes the full
// lesson set after every mutation so all caches converge on the same state.
type StoreServer struct {
	conn    *nats.Conn
	lessons repository.LessonRepository
	pub     *SnapshotPublisher
}

func NewStoreServer(nc *nats.Conn, lessons repository.LessonRepository) *StoreServer {
	return &StoreServer{
		conn:    nc,
		lessons: lessons,
		pub:     NewSnapshotPublisher(nc),
	}
}

func (s *StoreServer) Publisher() *SnapshotPublisher {
	return s.pub
}

// Start subscribes the request handlers and pushes an initial snapshot so
// late-starting subscribers are not left empty until the first write.
func (s *StoreServer) Start(ctx context.Context) error {
	if _, err := s.conn.Subscribe(store.SubjectQuery, s.handleQuery); err != nil {
		return err
	}
	if _, err := s.conn.Subscribe(store.SubjectCreate, s.handleCreate); err != nil {
		return err
	}
	if _, err := s.conn.Subscribe(store.SubjectStatus, s.handleStatus); err != nil {
		return err
	}

	return s.PublishSnapshot(ctx)
}

// PublishSnapshot loads the full lesson set and pushes it out.
func (s *StoreServer) PublishSnapshot(ctx context.Context) error {
	lessons, err := s.lessons.ListAll(ctx)
	if err != nil {
		slog.Error("Failed to load lessons for snapshot", "error", err)
		return err
	}
	return s.pub.PublishSnapshot(lessons)
}

func (s *StoreServer) handleQuery(msg *nats.Msg) {
	ctx := context.Background()

	var req store.QueryRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.respond(msg, store.QueryReply{Error: "malformed query request"})
		return
	}

	lessons, err := s.lessons.ListByTutor(ctx, req.TutorID)
	if err != nil {
		slog.Error("Lesson query failed", "tutor_id", req.TutorID, "error", err)
		s.respond(msg, store.QueryReply{Error: err.Error()})
		return
	}
	s.respond(msg, store.QueryReply{Lessons: lessons})
}

func (s *StoreServer) handleCreate(msg *nats.Msg) {
	ctx := context.Background()

	var req store.CreateRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.respond(msg, store.CreateReply{Error: "malformed create request"})
		return
	}

	created, err := s.lessons.Create(ctx, &req.Lesson)
	if err != nil {
		slog.Error("Lesson create failed", "tutor_id", req.Lesson.TutorID, "error", err)
		s.respond(msg, store.CreateReply{Error: err.Error()})
		return
	}

	s.respond(msg, store.CreateReply{Lesson: *created})
	s.PublishSnapshot(ctx)
}

func (s *StoreServer) handleStatus(msg *nats.Msg) {
	ctx := context.Background()

	var req store.StatusRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.respond(msg, store.StatusReply{Error: "malformed status request"})
		return
	}

	if err := s.lessons.UpdateStatus(ctx, req.LessonID, req.Status); err != nil {
		slog.Error("Lesson status update failed", "lesson_id", req.LessonID, "error", err)
		s.respond(msg, store.StatusReply{Error: err.Error()})
		return
	}

	s.respond(msg, store.StatusReply{})
	s.PublishSnapshot(ctx)
}

func (s *StoreServer) respond(msg *nats.Msg, reply any) {
	data, err := json.Marshal(reply)
	if err != nil {
		slog.Error("Failed to marshal store reply", "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		slog.Error("Failed to respond to store request", "subject", msg.Subject, "error", err)
	}
}
