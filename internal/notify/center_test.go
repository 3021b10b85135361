package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenter_DrainReturnsToastsInOrderOnce(t *testing.T) {
	center := NewCenter(time.Minute)

	center.Publish("session-a", Error("first"))
	center.Publish("session-a", Success("second"))

	assert.Equal(t, 2, center.Pending("session-a"))

	toasts := center.Drain("session-a")
	require.Len(t, toasts, 2)
	assert.Equal(t, "first", toasts[0].Message)
	assert.Equal(t, LevelError, toasts[0].Level)
	assert.Equal(t, "second", toasts[1].Message)
	assert.Equal(t, LevelSuccess, toasts[1].Level)

	assert.Empty(t, center.Drain("session-a"))
	assert.Equal(t, 0, center.Pending("session-a"))
}

func TestCenter_SessionsAreIsolated(t *testing.T) {
	center := NewCenter(time.Minute)

	center.For("session-a").Publish(Success("for a"))

	assert.Empty(t, center.Drain("session-b"))

	toasts := center.Drain("session-a")
	require.Len(t, toasts, 1)
	assert.Equal(t, "for a", toasts[0].Message)
}

func TestCenter_ExpiresUndeliveredToasts(t *testing.T) {
	center := NewCenter(20 * time.Millisecond)

	center.Publish("session-a", Success("stale"))
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, center.Drain("session-a"))
}

func TestToast_DisplayDurations(t *testing.T) {
	assert.Equal(t, int64(2000), Success("ok").DurationMS)
	assert.Equal(t, int64(4000), Error("bad").DurationMS)
	assert.NotEqual(t, Success("a").ID, Success("a").ID)
}

func TestRecorder_CopiesToasts(t *testing.T) {
	rec := &Recorder{}
	rec.Publish(Success("one"))

	got := rec.Toasts()
	got[0].Message = "mutated"

	assert.Equal(t, "one", rec.Toasts()[0].Message)
}
