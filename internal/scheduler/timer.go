package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const DefaultFireTimeout = 30 * time.Second

type job struct {
	timer  *time.Timer
	fireAt time.Time
}

// TimerScheduler keeps one time.Timer per post in process memory.
// Pending deadlines do not survive a restart; callers re-register open posts on startup.
type TimerScheduler struct {
	mu          sync.Mutex
	jobs        map[uuid.UUID]*job
	fire        FireFunc
	closed      bool
	fireTimeout time.Duration
	inflight    sync.WaitGroup
	missed      atomic.Int64
}

var _ Scheduler = (*TimerScheduler)(nil)

func NewTimerScheduler(fireTimeout time.Duration) *TimerScheduler {
	if fireTimeout <= 0 {
		fireTimeout = DefaultFireTimeout
	}

	return &TimerScheduler{
		jobs:        make(map[uuid.UUID]*job),
		fireTimeout: fireTimeout,
	}
}

func (s *TimerScheduler) Start(fire FireFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSchedulerClosed
	}
	s.fire = fire
	return nil
}

func (s *TimerScheduler) Schedule(ctx context.Context, postID uuid.UUID, fireAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSchedulerClosed
	}
	if s.fire == nil {
		return ErrSchedulerNotStarted
	}

	if prev, ok := s.jobs[postID]; ok {
		prev.timer.Stop()
		delete(s.jobs, postID)
	}

	delay := time.Until(fireAt)
	if delay < 0 {
		delay = 0
	}

	j := &job{fireAt: fireAt}
	s.jobs[postID] = j
	j.timer = time.AfterFunc(delay, func() {
		s.run(postID, j)
	})

	log.Info().
		Str("post_id", postID.String()).
		Time("fire_at", fireAt).
		Str("fires", humanize.Time(fireAt)).
		Msg("post close scheduled")

	return nil
}

func (s *TimerScheduler) Cancel(ctx context.Context, postID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if j, ok := s.jobs[postID]; ok {
		j.timer.Stop()
		delete(s.jobs, postID)
		log.Info().Str("post_id", postID.String()).Msg("post close cancelled")
	}
	return nil
}

// Shutdown stops every pending timer and waits for callbacks that already started.
func (s *TimerScheduler) Shutdown() {
	s.mu.Lock()
	s.closed = true
	for postID, j := range s.jobs {
		j.timer.Stop()
		delete(s.jobs, postID)
	}
	s.mu.Unlock()

	s.inflight.Wait()
}

// Pending reports whether postID has an armed deadline.
func (s *TimerScheduler) Pending(postID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.jobs[postID]
	return ok
}

// Len returns the number of armed deadlines.
func (s *TimerScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.jobs)
}

// Missed returns how many fired deadlines ended with an error.
func (s *TimerScheduler) Missed() int64 {
	return s.missed.Load()
}

func (s *TimerScheduler) run(postID uuid.UUID, j *job) {
	s.mu.Lock()
	// The entry was replaced, cancelled or abandoned after the timer had already expired.
	if s.closed || s.jobs[postID] != j {
		s.mu.Unlock()
		return
	}
	delete(s.jobs, postID)
	fire := s.fire
	s.inflight.Add(1)
	s.mu.Unlock()

	defer s.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.fireTimeout)
	defer cancel()

	if err := fire(ctx, postID); err != nil {
		s.missed.Add(1)
		log.Error().
			Err(err).
			Str("post_id", postID.String()).
			Time("fire_at", j.fireAt).
			Str("alert", "post_close_missed").
			Msg("post close failed, deadline missed")
		return
	}

	log.Info().
		Str("post_id", postID.String()).
		Time("fire_at", j.fireAt).
		Msg("post close fired")
}
