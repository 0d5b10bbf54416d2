package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lesson-service/internal/model"
)

func TestLesson_StartAt(t *testing.T) {
	l := model.Lesson{Date: "Jan 10, 2026", Time: "3:00 PM"}

	start, err := l.StartAt()
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, time.January, 10, 15, 0, 0, 0, time.Local), start)
}

func TestLesson_StartAt_Malformed(t *testing.T) {
	l := model.Lesson{Date: "2026-01-10", Time: "15:00"}

	_, err := l.StartAt()
	require.Error(t, err)
}

func TestLesson_OccupiesSlot(t *testing.T) {
	for _, status := range []model.LessonStatus{
		model.StatusUpcoming, model.StatusConfirmed, model.StatusPending, model.StatusCompleted,
	} {
		require.True(t, model.Lesson{Status: status}.OccupiesSlot(), string(status))
	}
	require.False(t, model.Lesson{Status: model.StatusCancelled}.OccupiesSlot())
}

func TestLesson_Involves(t *testing.T) {
	l := model.Lesson{TutorID: "tutor1", StudentID: "u1"}

	require.True(t, l.Involves("tutor1"))
	require.True(t, l.Involves("u1"))
	require.False(t, l.Involves("u2"))
	require.False(t, l.Involves(""))
}
