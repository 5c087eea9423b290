package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDistributor struct {
	tasks    map[string]*PayloadClosePost
	enqueued int
}

func (d *fakeDistributor) DistributeTaskClosePost(ctx context.Context, payload *PayloadClosePost, opts ...asynq.Option) error {
	taskID := closePostTaskID(payload.PostID)
	if _, ok := d.tasks[taskID]; ok {
		return fmt.Errorf("failed to enqueue task: %w", asynq.ErrTaskIDConflict)
	}
	d.tasks[taskID] = payload
	d.enqueued++
	return nil
}

func (d *fakeDistributor) Close() error { return nil }

type fakeInspector struct {
	distributor *fakeDistributor
	active      map[string]bool
}

func (i *fakeInspector) DeleteTask(ctx context.Context, queue, taskID string) error {
	if i.active[taskID] {
		return fmt.Errorf("asynq: cannot delete task in active state")
	}
	if _, ok := i.distributor.tasks[taskID]; !ok {
		return fmt.Errorf("asynq: %w", asynq.ErrTaskNotFound)
	}
	delete(i.distributor.tasks, taskID)
	return nil
}

func (i *fakeInspector) GetTaskInfo(ctx context.Context, queue, taskID string) (*asynq.TaskInfo, error) {
	if _, ok := i.distributor.tasks[taskID]; !ok {
		return nil, fmt.Errorf("asynq: %w", asynq.ErrTaskNotFound)
	}
	state := asynq.TaskStateScheduled
	if i.active[taskID] {
		state = asynq.TaskStateActive
	}
	return &asynq.TaskInfo{ID: taskID, Queue: queue, State: state}, nil
}

func (i *fakeInspector) Close() error { return nil }

func newFakeTaskScheduler() (*TaskScheduler, *fakeDistributor, *fakeInspector) {
	distributor := &fakeDistributor{tasks: make(map[string]*PayloadClosePost)}
	inspector := &fakeInspector{distributor: distributor, active: make(map[string]bool)}
	return &TaskScheduler{distributor: distributor, inspector: inspector}, distributor, inspector
}

func TestTaskScheduler_Schedule(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces a pending task", func(t *testing.T) {
		s, distributor, _ := newFakeTaskScheduler()
		postID := uuid.New()
		first := time.Now().Add(time.Hour)
		second := first.Add(time.Hour)

		require.NoError(t, s.Schedule(ctx, postID, first))
		require.NoError(t, s.Schedule(ctx, postID, second))

		task := distributor.tasks[closePostTaskID(postID)]
		require.NotNil(t, task)
		assert.True(t, second.Equal(task.FireAt))
		assert.Equal(t, 2, distributor.enqueued)
	})

	t.Run("leaves an active task alone", func(t *testing.T) {
		s, distributor, inspector := newFakeTaskScheduler()
		postID := uuid.New()
		first := time.Now().Add(time.Minute)

		require.NoError(t, s.Schedule(ctx, postID, first))
		inspector.active[closePostTaskID(postID)] = true

		require.NoError(t, s.Schedule(ctx, postID, first.Add(time.Hour)))

		task := distributor.tasks[closePostTaskID(postID)]
		require.NotNil(t, task)
		assert.True(t, first.Equal(task.FireAt))
		assert.Equal(t, 1, distributor.enqueued)
	})
}

func TestTaskScheduler_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes a pending task", func(t *testing.T) {
		s, distributor, _ := newFakeTaskScheduler()
		postID := uuid.New()

		require.NoError(t, s.Schedule(ctx, postID, time.Now().Add(time.Hour)))
		require.NoError(t, s.Cancel(ctx, postID))
		assert.Empty(t, distributor.tasks)
	})

	t.Run("unknown task is not an error", func(t *testing.T) {
		s, _, _ := newFakeTaskScheduler()
		require.NoError(t, s.Cancel(ctx, uuid.New()))
	})

	t.Run("active task is not an error", func(t *testing.T) {
		s, distributor, inspector := newFakeTaskScheduler()
		postID := uuid.New()

		require.NoError(t, s.Schedule(ctx, postID, time.Now().Add(time.Minute)))
		inspector.active[closePostTaskID(postID)] = true

		require.NoError(t, s.Cancel(ctx, postID))
		assert.Len(t, distributor.tasks, 1)
	})
}
