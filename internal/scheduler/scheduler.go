// Package scheduler fires the close transition of a post at its announced deadline.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSchedulerClosed     = errors.New("scheduler is shut down")
	ErrSchedulerNotStarted = errors.New("scheduler is not started")
)

// FireFunc is invoked once per scheduled post when its deadline is reached.
// A returned error marks the deadline as missed; it is reported, never retried.
type FireFunc func(ctx context.Context, postID uuid.UUID) error

// Scheduler keeps at most one pending deadline per post.
type Scheduler interface {
	// Start registers the fire handler. It must be called before Schedule.
	Start(fire FireFunc) error
	// Schedule arms the deadline of postID, replacing any pending one.
	// A deadline in the past fires immediately.
	Schedule(ctx context.Context, postID uuid.UUID, fireAt time.Time) error
	// Cancel drops the pending deadline of postID, if any.
	Cancel(ctx context.Context, postID uuid.UUID) error
	// Shutdown abandons every pending deadline.
	Shutdown()
}
