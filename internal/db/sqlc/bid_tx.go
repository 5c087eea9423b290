package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type PlaceBidTxParams struct {
	BidderID string
	PostID   uuid.UUID
}

type PlaceBidTxResult struct {
	Bid          Bid          `json:"bid"`
	Post         Post         `json:"post"`
	Notification Notification `json:"notification"`
}

// PlaceBidTx persists a bid and the BID_MADE notification for the post author.
// The post row is locked for the whole transaction, so a concurrent ClosePostTx
// either sees this bid or makes the bid fail with ErrPostClosed.
func (store *SQLStore) PlaceBidTx(ctx context.Context, arg PlaceBidTxParams) (PlaceBidTxResult, error) {
	var result PlaceBidTxResult

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		post, err := qTx.GetPostByIDForUpdate(ctx, arg.PostID)
		if err != nil {
			return err
		}
		result.Post = post

		if !post.Active {
			return ErrPostClosed
		}

		bidID, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate bid ID: %w", err)
		}

		bid, err := qTx.CreateBid(ctx, CreateBidParams{
			ID:     bidID,
			UserID: arg.BidderID,
			PostID: post.ID,
		})
		if err != nil {
			return bidError(err)
		}
		result.Bid = bid

		notificationID, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate notification ID: %w", err)
		}

		notification, err := qTx.CreateNotification(ctx, CreateNotificationParams{
			ID:              notificationID,
			UserID:          post.UserID,
			Subject:         post.ID,
			Action:          NotificationActionBIDMADE,
			SubjectAuthorID: arg.BidderID,
		})
		if err != nil {
			return fmt.Errorf("failed to create bid notification: %w", err)
		}
		result.Notification = notification

		return nil
	})

	return result, err
}
