package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"lesson-service/internal/cache"
	"lesson-service/internal/model"
	"lesson-service/internal/store"
)

var (
	// ErrSlotTaken is the common cause of both conflict errors; callers that
	// do not care where the conflict was detected match on it with errors.Is.
	ErrSlotTaken = errors.New("slot is already booked")

	// ErrSlotTakenCache means the conflict was visible in the local cache.
	ErrSlotTakenCache = fmt.Errorf("%w: found in local cache", ErrSlotTaken)

	// ErrSlotTakenStore means the conflict surfaced only on the store
	// re-check, i.e. a competing booking had not yet propagated through the
	// subscription.
	ErrSlotTakenStore = fmt.Errorf("%w: found on the record store", ErrSlotTaken)
)

var bookingConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "lesson_booking_conflicts_total",
	Help: "Booking attempts rejected because the slot was taken",
}, []string{"detected_by"})

type Request struct {
	TutorID     string
	StudentID   string
	TutorName   string
	StudentName string
	Subject     string
	Date        string
	Time        string
}

// Coordinator books lessons without double-filling a slot: a cheap local
// pre-check against the cache, then a direct store query to close the window
// where a competing booking has not yet arrived through the subscription.
// A third write landing between the re-check and our write can still slip
// through; the store offers no compare-and-swap, so that race is accepted.
type Coordinator struct {
	cache  *cache.Cache
	source store.RecordSource
}

func NewCoordinator(c *cache.Cache, source store.RecordSource) *Coordinator {
	return &Coordinator{cache: c, source: source}
}

// Book validates the slot and writes a Confirmed lesson. The new record is
// not inserted into the cache here; it arrives through the subscription like
// every other mutation, keeping the cache single-writer.
func (c *Coordinator) Book(ctx context.Context, req Request) (*model.Lesson, error) {
	if slotTaken(c.cache.Lessons(), req.TutorID, req.Date, req.Time) {
		bookingConflicts.WithLabelValues("cache").Inc()
		return nil, ErrSlotTakenCache
	}

	current, err := c.source.QueryByTutor(ctx, req.TutorID)
	if err != nil {
		return nil, fmt.Errorf("booking re-check: %w", err)
	}
	if slotTaken(current, req.TutorID, req.Date, req.Time) {
		bookingConflicts.WithLabelValues("store").Inc()
		return nil, ErrSlotTakenStore
	}

	lesson := &model.Lesson{
		TutorID:     req.TutorID,
		StudentID:   req.StudentID,
		TutorName:   req.TutorName,
		StudentName: req.StudentName,
		Subject:     req.Subject,
		Date:        req.Date,
		Time:        req.Time,
		Duration:    model.DefaultDuration,
		Status:      model.StatusConfirmed,
		Location:    model.DefaultLocation,
	}

	created, err := c.source.Create(ctx, lesson)
	if err != nil {
		return nil, fmt.Errorf("booking write: %w", err)
	}
	return created, nil
}

// Cancel flips the lesson's status to Cancelled. The record is never
// deleted, and nothing is mutated locally; the change shows up once the
// subscription echoes it back.
func (c *Coordinator) Cancel(ctx context.Context, lessonID string) error {
	if err := c.source.UpdateStatus(ctx, lessonID, model.StatusCancelled); err != nil {
		return fmt.Errorf("cancelling lesson %s: %w", lessonID, err)
	}
	return nil
}

func slotTaken(lessons []model.Lesson, tutorID, date, timeOfDay string) bool {
	for _, l := range lessons {
		if l.TutorID == tutorID && l.Date == date && l.Time == timeOfDay && l.OccupiesSlot() {
			return true
		}
	}
	return false
}
