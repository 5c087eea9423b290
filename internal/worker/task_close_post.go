package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

type PayloadClosePost struct {
	PostID uuid.UUID `json:"post_id"`
	FireAt time.Time `json:"fire_at"`
}

func closePostTaskID(postID uuid.UUID) string {
	return fmt.Sprintf("post:close:%s", postID.String())
}

// DistributeTaskClosePost lên lịch task đóng bài đăng tại thời điểm hết hạn
func (distributor *RedisTaskDistributor) DistributeTaskClosePost(
	ctx context.Context,
	payload *PayloadClosePost,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	taskID := closePostTaskID(payload.PostID)
	task := asynq.NewTask(TaskClosePost, jsonPayload, append(opts, asynq.TaskID(taskID))...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Info().
		Str("type", task.Type()).
		Str("task_id", taskID).
		Str("post_id", payload.PostID.String()).
		Str("queue", info.Queue).
		Int("max_retry", info.MaxRetry).
		Time("process_at", info.NextProcessAt).
		Msg("post close task scheduled")

	return nil
}

// ProcessTaskClosePost xử lý task đóng bài đăng. Không retry: một lần thất bại được xem là bỏ lỡ hạn chót.
func (processor *RedisTaskProcessor) ProcessTaskClosePost(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload PayloadClosePost
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	log.Info().
		Str("post_id", payload.PostID.String()).
		Time("fire_at", payload.FireAt).
		Msg("processing post close task")

	if err := processor.fire(ctx, payload.PostID); err != nil {
		return fmt.Errorf("failed to close post %s: %v: %w", payload.PostID, err, asynq.SkipRetry)
	}

	return nil
}
