package store

import "lesson-service/internal/model"

// NATS subjects making up the record-store transport.
const (
	SubjectSnapshot           = "lessons.snapshot"
	SubjectQuery              = "lessons.query"
	SubjectCreate             = "lessons.create"
	SubjectStatus             = "lessons.status"
	SubjectPreferencesUpdated = "preferences.updated"
)

// SnapshotEvent carries the full lesson set. Every mutation on the store side
// republishes the whole collection rather than a patch, so subscribers can
// replace their state wholesale.
type SnapshotEvent struct {
	EventType string         `json:"event_type"`
	Lessons   []model.Lesson `json:"lessons"`
}

type PreferencesUpdatedEvent struct {
	EventType string `json:"event_type"`
	UserID    string `json:"user_id"`
}

type QueryRequest struct {
	TutorID string `json:"tutor_id"`
}

type QueryReply struct {
	Lessons []model.Lesson `json:"lessons"`
	Error   string         `json:"error,omitempty"`
}

type CreateRequest struct {
	Lesson model.Lesson `json:"lesson"`
}

type CreateReply struct {
	Lesson model.Lesson `json:"lesson"`
	Error  string       `json:"error,omitempty"`
}

type StatusRequest struct {
	LessonID string             `json:"lesson_id"`
	Status   model.LessonStatus `json:"status"`
}

type StatusReply struct {
	Error string `json:"error,omitempty"`
}
