package store_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"lesson-service/internal/model"
	"lesson-service/internal/store"
)

func TestSnapshotEvent_Marshal(t *testing.T) {
	ev := store.SnapshotEvent{
		EventType: store.SubjectSnapshot,
		Lessons: []model.Lesson{
			{ID: "l1", TutorID: "tutor1", StudentID: "u1", Subject: "Math", Date: "Jan 10, 2026", Time: "3:00 PM", Status: model.StatusConfirmed},
		},
	}

	b, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, "lessons.snapshot", decoded["event_type"])

	lessons, ok := decoded["lessons"].([]interface{})
	require.True(t, ok)
	require.Len(t, lessons, 1)
}

func TestQueryRequestReply_RoundTrip(t *testing.T) {
	b, err := json.Marshal(store.QueryRequest{TutorID: "tutor1"})
	require.NoError(t, err)
	require.JSONEq(t, `{"tutor_id":"tutor1"}`, string(b))

	var reply store.QueryReply
	require.NoError(t, json.Unmarshal([]byte(`{"error":"boom"}`), &reply))
	require.Equal(t, "boom", reply.Error)
	require.Empty(t, reply.Lessons)
}

func TestPreferencesUpdatedEvent_Marshal(t *testing.T) {
	ev := store.PreferencesUpdatedEvent{
		EventType: store.SubjectPreferencesUpdated,
		UserID:    "u1",
	}

	b, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, "preferences.updated", decoded["event_type"])
	require.Equal(t, "u1", decoded["user_id"])
}
