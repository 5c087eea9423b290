package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessTaskClosePost(t *testing.T) {
	postID := uuid.New()
	payload, err := json.Marshal(PayloadClosePost{PostID: postID, FireAt: time.Now()})
	require.NoError(t, err)

	t.Run("fires the handler with the post ID", func(t *testing.T) {
		var got uuid.UUID
		processor := &RedisTaskProcessor{
			fire: func(ctx context.Context, id uuid.UUID) error {
				got = id
				return nil
			},
		}

		err := processor.ProcessTaskClosePost(context.Background(), asynq.NewTask(TaskClosePost, payload))
		require.NoError(t, err)
		assert.Equal(t, postID, got)
	})

	t.Run("handler failure is not retried", func(t *testing.T) {
		processor := &RedisTaskProcessor{
			fire: func(ctx context.Context, id uuid.UUID) error {
				return errors.New("boom")
			},
		}

		err := processor.ProcessTaskClosePost(context.Background(), asynq.NewTask(TaskClosePost, payload))
		require.Error(t, err)
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("malformed payload", func(t *testing.T) {
		called := false
		processor := &RedisTaskProcessor{
			fire: func(ctx context.Context, id uuid.UUID) error {
				called = true
				return nil
			},
		}

		err := processor.ProcessTaskClosePost(context.Background(), asynq.NewTask(TaskClosePost, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
		assert.False(t, called)
	})
}

func TestClosePostTaskID(t *testing.T) {
	postID := uuid.MustParse("0190c2d4-8a6e-7c3b-9f00-3d1f2a4b5c6d")
	assert.Equal(t, "post:close:0190c2d4-8a6e-7c3b-9f00-3d1f2a4b5c6d", closePostTaskID(postID))
}
