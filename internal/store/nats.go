package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"lesson-service/internal/model"
)

const requestTimeout = 5 * time.Second

// NatsSource implements RecordSource over NATS: snapshots arrive as
// published events, queries and writes go through request/reply.
type NatsSource struct {
	conn *nats.Conn
}

func NewNatsSource(natsURL string) (*NatsSource, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}
	return &NatsSource{conn: nc}, nil
}

// NewNatsSourceConn wraps an already established connection, for processes
// that share one connection across components.
func NewNatsSourceConn(nc *nats.Conn) *NatsSource {
	return &NatsSource{conn: nc}
}

func (s *NatsSource) Subscribe(ctx context.Context, fn SnapshotFunc) (Subscription, error) {
	sub, err := s.conn.Subscribe(SubjectSnapshot, func(msg *nats.Msg) {
		var event SnapshotEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			fn(nil, fmt.Errorf("decoding lesson snapshot: %w", err))
			return
		}
		fn(event.Lessons, nil)
	})
	if err != nil {
		return nil, err
	}

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			sub.Unsubscribe()
		}()
	}

	return natsSubscription{sub: sub}, nil
}

// SubscribePreferences delivers the user id of every preference change
// published by the store.
func (s *NatsSource) SubscribePreferences(fn func(userID string)) (Subscription, error) {
	sub, err := s.conn.Subscribe(SubjectPreferencesUpdated, func(msg *nats.Msg) {
		var event PreferencesUpdatedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			return
		}
		fn(event.UserID)
	})
	if err != nil {
		return nil, err
	}
	return natsSubscription{sub: sub}, nil
}

func (s *NatsSource) QueryByTutor(ctx context.Context, tutorID string) ([]model.Lesson, error) {
	data, err := json.Marshal(QueryRequest{TutorID: tutorID})
	if err != nil {
		return nil, err
	}

	msg, err := s.request(ctx, SubjectQuery, data)
	if err != nil {
		return nil, fmt.Errorf("querying lessons for tutor %s: %w", tutorID, err)
	}

	var reply QueryReply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return nil, err
	}
	if reply.Error != "" {
		return nil, errors.New(reply.Error)
	}
	return reply.Lessons, nil
}

func (s *NatsSource) Create(ctx context.Context, lesson *model.Lesson) (*model.Lesson, error) {
	data, err := json.Marshal(CreateRequest{Lesson: *lesson})
	if err != nil {
		return nil, err
	}

	msg, err := s.request(ctx, SubjectCreate, data)
	if err != nil {
		return nil, fmt.Errorf("creating lesson: %w", err)
	}

	var reply CreateReply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return nil, err
	}
	if reply.Error != "" {
		return nil, errors.New(reply.Error)
	}
	created := reply.Lesson
	return &created, nil
}

func (s *NatsSource) UpdateStatus(ctx context.Context, lessonID string, status model.LessonStatus) error {
	data, err := json.Marshal(StatusRequest{LessonID: lessonID, Status: status})
	if err != nil {
		return err
	}

	msg, err := s.request(ctx, SubjectStatus, data)
	if err != nil {
		return fmt.Errorf("updating status of lesson %s: %w", lessonID, err)
	}

	var reply StatusReply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return err
	}
	if reply.Error != "" {
		return errors.New(reply.Error)
	}
	return nil
}

func (s *NatsSource) request(ctx context.Context, subject string, data []byte) (*nats.Msg, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, requestTimeout)
		defer cancel()
	}
	return s.conn.RequestWithContext(ctx, subject, data)
}

func (s *NatsSource) Close() {
	s.conn.Close()
}

type natsSubscription struct {
	sub *nats.Subscription
}

func (s natsSubscription) Unsubscribe() error {
	return s.sub.Unsubscribe()
}
