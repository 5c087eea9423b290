// Package lifecycle drives a post from open to closed: it schedules the deadline,
// accepts bids while the post is open and fans out notifications when it closes.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	db "github.com/katatrina/postboard/internal/db/sqlc"
	"github.com/katatrina/postboard/internal/event"
	"github.com/katatrina/postboard/internal/notification"
	"github.com/katatrina/postboard/internal/scheduler"
	"github.com/katatrina/postboard/internal/validator"
	"github.com/rs/zerolog/log"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrPostClosed   = errors.New("post is closed")
	ErrInvalidPost  = errors.New("invalid post")
)

const MaxPostTextLength = 2000

type Service struct {
	store         db.Store
	notifications notification.Store
	publisher     event.Publisher
	scheduler     scheduler.Scheduler
}

func NewService(
	store db.Store,
	notifications notification.Store,
	publisher event.Publisher,
	sched scheduler.Scheduler,
) *Service {
	return &Service{
		store:         store,
		notifications: notifications,
		publisher:     publisher,
		scheduler:     sched,
	}
}

// Start hands ClosePost to the scheduler and re-arms the deadline of every open post.
// Deadlines that passed while the process was down fire right away.
func (s *Service) Start(ctx context.Context) error {
	if err := s.scheduler.Start(s.ClosePost); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	posts, err := s.store.ListActivePosts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active posts: %w", err)
	}

	for _, post := range posts {
		if err = s.scheduler.Schedule(ctx, post.ID, post.AnnouncementDate); err != nil {
			log.Error().Err(err).
				Str("post_id", post.ID.String()).
				Time("announcement_date", post.AnnouncementDate).
				Msg("failed to reschedule post close")
		}
	}

	log.Info().Int("active_posts", len(posts)).Msg("post deadlines rescheduled ✅")
	return nil
}

func (s *Service) Shutdown() {
	s.scheduler.Shutdown()
}

type CreatePostParams struct {
	AuthorID         string
	Text             string
	AnnouncementDate time.Time
}

func (arg CreatePostParams) validate() error {
	if err := validator.ValidateUserID(arg.AuthorID); err != nil {
		return fmt.Errorf("%w: author %v", ErrInvalidPost, err)
	}
	if err := validator.ValidateString(arg.Text, 1, MaxPostTextLength); err != nil {
		return fmt.Errorf("%w: text %v", ErrInvalidPost, err)
	}
	if arg.AnnouncementDate.IsZero() {
		return fmt.Errorf("%w: announcement date is required", ErrInvalidPost)
	}
	return nil
}

// CreatePost persists an open post and arms its deadline.
func (s *Service) CreatePost(ctx context.Context, arg CreatePostParams) (db.Post, error) {
	if err := arg.validate(); err != nil {
		return db.Post{}, err
	}

	postID, err := uuid.NewV7()
	if err != nil {
		return db.Post{}, fmt.Errorf("failed to generate post id: %w", err)
	}

	post, err := s.store.CreatePost(ctx, db.CreatePostParams{
		ID:               postID,
		UserID:           arg.AuthorID,
		Text:             strings.TrimSpace(arg.Text),
		AnnouncementDate: arg.AnnouncementDate.UTC(),
	})
	if err != nil {
		return db.Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	// The post exists either way; the overdue tracker reports it if it is never closed.
	if err = s.scheduler.Schedule(ctx, post.ID, post.AnnouncementDate); err != nil {
		log.Error().Err(err).
			Str("post_id", post.ID.String()).
			Str("alert", "post_close_unscheduled").
			Msg("failed to schedule post close")
	}

	log.Info().
		Str("post_id", post.ID.String()).
		Str("author_id", post.UserID).
		Time("announcement_date", post.AnnouncementDate).
		Msg("post created")

	return post, nil
}

// PlaceBid records a bid on an open post, notifies the author and publishes
// the notification to the post room before returning.
func (s *Service) PlaceBid(ctx context.Context, bidderID string, postID uuid.UUID) (db.Bid, error) {
	result, err := s.store.PlaceBidTx(ctx, db.PlaceBidTxParams{
		BidderID: bidderID,
		PostID:   postID,
	})
	if err != nil {
		switch {
		case errors.Is(err, db.ErrRecordNotFound):
			return db.Bid{}, fmt.Errorf("%w: %s", ErrPostNotFound, postID)
		case errors.Is(err, db.ErrPostClosed):
			return db.Bid{}, fmt.Errorf("%w: %s", ErrPostClosed, postID)
		default:
			return db.Bid{}, fmt.Errorf("failed to place bid: %w", err)
		}
	}

	log.Info().
		Str("post_id", postID.String()).
		Str("bidder_id", bidderID).
		Str("bid_id", result.Bid.ID.String()).
		Msg("bid placed")

	msg := event.BidMade{
		Notification: result.Notification,
		BidID:        result.Bid.ID,
	}
	s.publish(ctx, event.PostRoom(postID), msg)

	return result.Bid, nil
}

// ClosePost is the fire handler of the scheduler. Closing an already closed post is a no-op.
// Only the state change itself must succeed; per-bidder notifications and the
// live event are best effort.
func (s *Service) ClosePost(ctx context.Context, postID uuid.UUID) error {
	result, err := s.store.ClosePostTx(ctx, postID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrPostNotFound, postID)
		}
		return fmt.Errorf("failed to close post %s: %w", postID, err)
	}

	if result.AlreadyClosed {
		log.Info().Str("post_id", postID.String()).Msg("post already closed, skipping")
		return nil
	}

	post := result.Post
	var failed int
	for _, bidderID := range result.BidderIDs {
		_, err = s.notifications.SendNotification(ctx, &notification.Notification{
			RecipientID:     bidderID,
			Subject:         post.ID,
			Action:          db.NotificationActionPOSTHASFINISHED,
			SubjectAuthorID: post.UserID,
		})
		if err != nil {
			failed++
			log.Warn().Err(err).
				Str("post_id", post.ID.String()).
				Str("recipient_id", bidderID).
				Msg("failed to notify bidder of post close")
		}
	}

	s.publish(ctx, event.PostRoom(post.ID), event.PostClosed{
		Post:         post,
		TotalBidders: len(result.BidderIDs),
		ClosedAt:     post.UpdatedAt,
	})

	log.Info().
		Str("post_id", post.ID.String()).
		Str("author_id", post.UserID).
		Int("bidders", len(result.BidderIDs)).
		Int("failed_notifications", failed).
		Msg("post closed")

	return nil
}

func (s *Service) publish(ctx context.Context, room string, msg event.Message) {
	if err := s.publisher.Publish(ctx, room, msg); err != nil {
		log.Warn().Err(err).
			Str("room", room).
			Str("event", string(msg.Kind())).
			Msg("failed to publish event")
	}
}
