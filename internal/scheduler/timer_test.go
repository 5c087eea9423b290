package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fireRecorder struct {
	mu    sync.Mutex
	fired []uuid.UUID
	err   error
	ch    chan uuid.UUID
}

func newFireRecorder() *fireRecorder {
	return &fireRecorder{ch: make(chan uuid.UUID, 16)}
}

func (r *fireRecorder) fire(ctx context.Context, postID uuid.UUID) error {
	r.mu.Lock()
	r.fired = append(r.fired, postID)
	err := r.err
	r.mu.Unlock()

	r.ch <- postID
	return err
}

func (r *fireRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fired)
}

func startedScheduler(t *testing.T, rec *fireRecorder) *TimerScheduler {
	t.Helper()

	s := NewTimerScheduler(time.Second)
	require.NoError(t, s.Start(rec.fire))
	t.Cleanup(s.Shutdown)
	return s
}

func TestTimerScheduler_ScheduleBeforeStart(t *testing.T) {
	s := NewTimerScheduler(0)
	defer s.Shutdown()

	err := s.Schedule(context.Background(), uuid.New(), time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrSchedulerNotStarted)
}

func TestTimerScheduler_FiresAtDeadline(t *testing.T) {
	rec := newFireRecorder()
	s := startedScheduler(t, rec)

	postID := uuid.New()
	fireAt := time.Now().Add(50 * time.Millisecond)
	require.NoError(t, s.Schedule(context.Background(), postID, fireAt))
	assert.True(t, s.Pending(postID))

	select {
	case got := <-rec.ch:
		assert.Equal(t, postID, got)
		assert.False(t, time.Now().Before(fireAt))
	case <-time.After(2 * time.Second):
		t.Fatal("deadline did not fire")
	}

	assert.Eventually(t, func() bool { return !s.Pending(postID) }, time.Second, 10*time.Millisecond)
}

func TestTimerScheduler_PastDeadlineFiresImmediately(t *testing.T) {
	rec := newFireRecorder()
	s := startedScheduler(t, rec)

	postID := uuid.New()
	require.NoError(t, s.Schedule(context.Background(), postID, time.Now().Add(-time.Hour)))

	select {
	case got := <-rec.ch:
		assert.Equal(t, postID, got)
	case <-time.After(time.Second):
		t.Fatal("past deadline did not fire")
	}
}

func TestTimerScheduler_RescheduleReplaces(t *testing.T) {
	rec := newFireRecorder()
	s := startedScheduler(t, rec)

	postID := uuid.New()
	require.NoError(t, s.Schedule(context.Background(), postID, time.Now().Add(30*time.Millisecond)))
	require.NoError(t, s.Schedule(context.Background(), postID, time.Now().Add(150*time.Millisecond)))
	assert.Equal(t, 1, s.Len())

	select {
	case <-rec.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("replacement deadline did not fire")
	}

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestTimerScheduler_Cancel(t *testing.T) {
	rec := newFireRecorder()
	s := startedScheduler(t, rec)

	postID := uuid.New()
	require.NoError(t, s.Schedule(context.Background(), postID, time.Now().Add(50*time.Millisecond)))
	require.NoError(t, s.Cancel(context.Background(), postID))
	assert.False(t, s.Pending(postID))

	// Cancelling an unknown post is a no-op.
	require.NoError(t, s.Cancel(context.Background(), uuid.New()))

	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, rec.count())
}

func TestTimerScheduler_FailureCountsAsMissed(t *testing.T) {
	rec := newFireRecorder()
	rec.err = errors.New("database is down")
	s := startedScheduler(t, rec)

	postID := uuid.New()
	require.NoError(t, s.Schedule(context.Background(), postID, time.Now()))

	<-rec.ch
	assert.Eventually(t, func() bool { return s.Missed() == 1 }, time.Second, 10*time.Millisecond)

	// No retry.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestTimerScheduler_Shutdown(t *testing.T) {
	rec := newFireRecorder()
	s := NewTimerScheduler(time.Second)
	require.NoError(t, s.Start(rec.fire))

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Schedule(context.Background(), uuid.New(), time.Now().Add(100*time.Millisecond)))
	}
	assert.Equal(t, 5, s.Len())

	s.Shutdown()
	assert.Zero(t, s.Len())

	err := s.Schedule(context.Background(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, ErrSchedulerClosed)

	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, rec.count())
}
