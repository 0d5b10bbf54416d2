package events

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"lesson-service/internal/model"
	"lesson-service/internal/store"
)

// SnapshotPublisher pushes the full lesson set and preference-change events
// onto NATS for every subscribed engine and worker.
type SnapshotPublisher struct {
	conn *nats.Conn
}

func NewSnapshotPublisher(nc *nats.Conn) *SnapshotPublisher {
	return &SnapshotPublisher{conn: nc}
}

func (p *SnapshotPublisher) PublishSnapshot(lessons []model.Lesson) error {
	event := store.SnapshotEvent{
		EventType: store.SubjectSnapshot,
		Lessons:   lessons,
	}

	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal lesson snapshot", "error", err)
		return err
	}

	if err := p.conn.Publish(store.SubjectSnapshot, data); err != nil {
		slog.Error("Failed to publish lesson snapshot", "error", err)
		return err
	}
	return nil
}

func (p *SnapshotPublisher) PublishPreferencesUpdated(userID string) error {
	event := store.PreferencesUpdatedEvent{
		EventType: store.SubjectPreferencesUpdated,
		UserID:    userID,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(store.SubjectPreferencesUpdated, data); err != nil {
		slog.Error("Failed to publish preference change", "user_id", userID, "error", err)
		return err
	}
	return nil
}
