package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	db "github.com/katatrina/postboard/internal/db/sqlc"
)

// PlaceBidTx mirrors db.SQLStore.PlaceBidTx. The store mutex plays the role of the post row lock.
func (s *Store) PlaceBidTx(ctx context.Context, arg db.PlaceBidTxParams) (db.PlaceBidTxResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result db.PlaceBidTxResult

	post, err := s.getPost(arg.PostID)
	if err != nil {
		return result, err
	}
	result.Post = post

	if !post.Active {
		return result, db.ErrPostClosed
	}

	bidID, err := uuid.NewV7()
	if err != nil {
		return result, fmt.Errorf("failed to generate bid ID: %w", err)
	}
	bid, err := s.createBid(db.CreateBidParams{
		ID:     bidID,
		UserID: arg.BidderID,
		PostID: post.ID,
	})
	if err != nil {
		return result, fmt.Errorf("failed to create bid: %w", err)
	}
	result.Bid = bid

	notificationID, err := uuid.NewV7()
	if err != nil {
		return result, fmt.Errorf("failed to generate notification ID: %w", err)
	}
	result.Notification = s.createNotification(db.CreateNotificationParams{
		ID:              notificationID,
		UserID:          post.UserID,
		Subject:         post.ID,
		Action:          db.NotificationActionBIDMADE,
		SubjectAuthorID: arg.BidderID,
	})

	return result, nil
}

// ClosePostTx mirrors db.SQLStore.ClosePostTx.
func (s *Store) ClosePostTx(ctx context.Context, postID uuid.UUID) (db.ClosePostTxResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result db.ClosePostTxResult

	post, err := s.getPost(postID)
	if err != nil {
		return result, err
	}

	if !post.Active {
		result.Post = post
		result.AlreadyClosed = true
		return result, nil
	}

	closedPost, err := s.closePost(postID)
	if err != nil {
		return result, fmt.Errorf("failed to close post: %w", err)
	}
	result.Post = closedPost
	result.BidderIDs = s.distinctBidders(postID)

	return result, nil
}
