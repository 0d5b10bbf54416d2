package reminder_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lesson-service/internal/reminder"
)

type recordingNotifier struct {
	mu       sync.Mutex
	payloads []reminder.Payload
}

func (n *recordingNotifier) Notify(p reminder.Payload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payloads = append(n.payloads, p)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.payloads)
}

func TestTimerSink_OverwritesSameID(t *testing.T) {
	notifier := &recordingNotifier{}
	sink := reminder.NewTimerSink(notifier)
	defer sink.Stop()

	far := time.Now().Add(time.Hour)
	require.NoError(t, sink.ScheduleTrigger(42, far, reminder.Payload{UserID: "u1"}))
	require.NoError(t, sink.ScheduleTrigger(42, far.Add(time.Minute), reminder.Payload{UserID: "u1"}))

	require.Equal(t, 1, sink.Pending())
}

func TestTimerSink_FiresAndNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	sink := reminder.NewTimerSink(notifier)
	defer sink.Stop()

	payload := reminder.Payload{UserID: "u1", Title: "Upcoming lesson", Message: "Math in one hour"}
	require.NoError(t, sink.ScheduleTrigger(7, time.Now().Add(10*time.Millisecond), payload))

	require.Eventually(t, func() bool { return notifier.count() == 1 }, time.Second, 5*time.Millisecond)
	require.Equal(t, payload, notifier.payloads[0])
	require.Zero(t, sink.Pending())
}

func TestTimerSink_StopCancelsPending(t *testing.T) {
	notifier := &recordingNotifier{}
	sink := reminder.NewTimerSink(notifier)

	require.NoError(t, sink.ScheduleTrigger(1, time.Now().Add(time.Hour), reminder.Payload{}))
	require.NoError(t, sink.ScheduleTrigger(2, time.Now().Add(time.Hour), reminder.Payload{}))
	require.Equal(t, 2, sink.Pending())

	sink.Stop()
	require.Zero(t, sink.Pending())
}
