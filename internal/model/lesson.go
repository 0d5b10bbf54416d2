package model

import "time"

type LessonStatus string

const (
	StatusUpcoming  LessonStatus = "Upcoming"
	StatusConfirmed LessonStatus = "Confirmed"
	StatusPending   LessonStatus = "Pending"
	StatusCompleted LessonStatus = "Completed"
	StatusCancelled LessonStatus = "Cancelled"
)

// StartLayout is the combined layout of Lesson.Date and Lesson.Time,
// e.g. "Jan 10, 2026" + "3:00 PM".
const StartLayout = "Jan 2, 2006 3:04 PM"

const (
	DefaultDuration = "1 hour"
	DefaultLocation = "Online"
)

type Lesson struct {
	ID          string       `db:"id" json:"id"`
	TutorID     string       `db:"tutor_id" json:"tutor_id"`
	StudentID   string       `db:"student_id" json:"student_id"`
	TutorName   string       `db:"tutor_name" json:"tutor_name"`
	StudentName string       `db:"student_name" json:"student_name"`
	Subject     string       `db:"subject" json:"subject"`
	Date        string       `db:"lesson_date" json:"date"`
	Time        string       `db:"lesson_time" json:"time"`
	Duration    string       `db:"duration" json:"duration"`
	Status      LessonStatus `db:"status" json:"status"`
	Location    string       `db:"location" json:"location"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
}

// StartAt parses the lesson's date and time strings into an absolute instant.
func (l Lesson) StartAt() (time.Time, error) {
	return time.ParseInLocation(StartLayout, l.Date+" "+l.Time, time.Local)
}

// OccupiesSlot reports whether the lesson blocks its (tutor, date, time)
// slot. Cancelled lessons are kept for history but free the slot.
func (l Lesson) OccupiesSlot() bool {
	return l.Status != StatusCancelled
}

// Involves reports whether the given user is a party to the lesson, either
// as the tutor or as the student.
func (l Lesson) Involves(userID string) bool {
	return userID != "" && (l.TutorID == userID || l.StudentID == userID)
}
