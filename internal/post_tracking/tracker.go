package posttracking

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	db "github.com/katatrina/postboard/internal/db/sqlc"
	"github.com/rs/zerolog/log"
)

const checkTimeout = 30 * time.Second

// PostTracker định kỳ tìm các bài đăng đã quá hạn mà vẫn còn mở.
// It only reports them; closing stays with the scheduler.
type PostTracker struct {
	store       db.Querier
	scheduler   gocron.Scheduler
	interval    time.Duration
	gracePeriod time.Duration
	now         func() time.Time
}

func NewPostTracker(store db.Querier, interval, gracePeriod time.Duration) (*PostTracker, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &PostTracker{
		store:       store,
		scheduler:   scheduler,
		interval:    interval,
		gracePeriod: gracePeriod,
		now:         time.Now,
	}, nil
}

// Start bắt đầu chạy cronjob kiểm tra bài đăng quá hạn.
func (t *PostTracker) Start() error {
	_, err := t.scheduler.NewJob(
		gocron.DurationJob(t.interval),
		gocron.NewTask(
			func() {
				ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
				defer cancel()

				t.checkOverduePosts(ctx)
			},
		),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	t.scheduler.Start()
	log.Info().Dur("interval", t.interval).Dur("grace_period", t.gracePeriod).Msg("post tracker started ✅")
	return nil
}

// Stop dừng cronjob
func (t *PostTracker) Stop() error {
	return t.scheduler.Shutdown()
}

// checkOverduePosts returns the posts that should have been closed by now.
func (t *PostTracker) checkOverduePosts(ctx context.Context) []db.Post {
	cutoff := t.now().Add(-t.gracePeriod)

	posts, err := t.store.ListOverduePosts(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("failed to list overdue posts")
		return nil
	}

	for _, post := range posts {
		log.Error().
			Str("post_id", post.ID.String()).
			Str("author_id", post.UserID).
			Time("announcement_date", post.AnnouncementDate).
			Dur("overdue_by", t.now().Sub(post.AnnouncementDate)).
			Str("alert", "post_close_missed").
			Msg("post is still open past its deadline")
	}

	return posts
}
