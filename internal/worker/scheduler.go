package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/katatrina/postboard/internal/scheduler"
	"github.com/rs/zerolog/log"
)

// TaskScheduler is the Redis backed scheduler.Scheduler. Deadlines are asynq tasks
// with a per-post task ID, so they survive restarts of the server process.
type TaskScheduler struct {
	distributor TaskDistributor
	inspector   TaskInspector
	processor   *RedisTaskProcessor
}

var _ scheduler.Scheduler = (*TaskScheduler)(nil)

func NewTaskScheduler(redisOpt asynq.RedisClientOpt) *TaskScheduler {
	return &TaskScheduler{
		distributor: NewTaskDistributor(redisOpt),
		inspector:   NewTaskInspector(redisOpt),
		processor:   NewRedisTaskProcessor(redisOpt),
	}
}

func (s *TaskScheduler) Start(fire scheduler.FireFunc) error {
	return s.processor.Start(fire)
}

func (s *TaskScheduler) Schedule(ctx context.Context, postID uuid.UUID, fireAt time.Time) error {
	payload := &PayloadClosePost{
		PostID: postID,
		FireAt: fireAt,
	}
	opts := []asynq.Option{
		asynq.MaxRetry(0),
		asynq.Queue(QueueCritical),
		asynq.ProcessAt(fireAt),
	}

	err := s.distributor.DistributeTaskClosePost(ctx, payload, opts...)
	if err == nil {
		return nil
	}
	if !errors.Is(err, asynq.ErrTaskIDConflict) {
		return err
	}

	// A task for this post already exists: replace it, unless it is already running.
	replaced, err := s.remove(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to replace pending close task: %w", err)
	}
	if !replaced {
		return nil
	}
	return s.distributor.DistributeTaskClosePost(ctx, payload, opts...)
}

func (s *TaskScheduler) Cancel(ctx context.Context, postID uuid.UUID) error {
	_, err := s.remove(ctx, postID)
	return err
}

// remove deletes the pending close task of a post. An active task cannot be deleted,
// it is already firing and removed reports false.
func (s *TaskScheduler) remove(ctx context.Context, postID uuid.UUID) (bool, error) {
	taskID := closePostTaskID(postID)

	info, err := s.inspector.GetTaskInfo(ctx, QueueCritical, taskID)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("failed to get task %s: %w", taskID, err)
	}
	if info.State == asynq.TaskStateActive {
		log.Info().Str("task_id", taskID).Str("post_id", postID.String()).Msg("post close task already firing")
		return false, nil
	}

	err = s.inspector.DeleteTask(ctx, QueueCritical, taskID)
	if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) {
		return false, fmt.Errorf("failed to delete task %s: %w", taskID, err)
	}

	log.Info().Str("task_id", taskID).Str("post_id", postID.String()).Msg("post close task cancelled")
	return true, nil
}

func (s *TaskScheduler) Shutdown() {
	s.processor.Shutdown()

	if err := s.distributor.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close task distributor")
	}
	if err := s.inspector.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close task inspector")
	}
}
