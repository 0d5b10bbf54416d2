package reminder

import (
	"fmt"
	"hash/fnv"
	"time"

	"lesson-service/internal/model"
)

// Offset is how far before a lesson's start a reminder fires.
type Offset struct {
	Tag  string
	Lead time.Duration
}

var (
	OffsetWeek = Offset{Tag: "week", Lead: 7 * 24 * time.Hour}
	OffsetDay  = Offset{Tag: "day", Lead: 24 * time.Hour}
	OffsetHour = Offset{Tag: "hour", Lead: time.Hour}
)

// TriggerID derives the trigger identifier for a (lesson, offset) pair:
// FNV-1a over "lessonID|tag" with the sign bit cleared. The same pair always
// maps to the same non-negative id, so rescheduling overwrites the pending
// trigger instead of stacking a duplicate next to it.
func TriggerID(lessonID, tag string) int {
	h := fnv.New32a()
	h.Write([]byte(lessonID))
	h.Write([]byte{'|'})
	h.Write([]byte(tag))
	return int(h.Sum32() & 0x7fffffff)
}

// Payload is what a fired trigger turns into: a notification for one user.
type Payload struct {
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func payloadFor(l model.Lesson, userID string, off Offset) Payload {
	other := l.TutorName
	if l.TutorID == userID {
		other = l.StudentName
	}
	return Payload{
		UserID:  userID,
		Title:   "Upcoming lesson",
		Message: fmt.Sprintf("%s with %s %s, on %s at %s", l.Subject, other, leadPhrase(off), l.Date, l.Time),
	}
}

func leadPhrase(off Offset) string {
	switch off.Tag {
	case OffsetWeek.Tag:
		return "in one week"
	case OffsetDay.Tag:
		return "in one day"
	default:
		return "in one hour"
	}
}
