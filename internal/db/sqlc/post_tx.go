package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type ClosePostTxResult struct {
	Post Post `json:"post"`
	// AlreadyClosed reports that the post was closed before this call and nothing was changed.
	AlreadyClosed bool     `json:"already_closed"`
	BidderIDs     []string `json:"bidder_ids"`
}

// ClosePostTx flips the post to inactive and reads its distinct bidders while holding
// the post row lock. Bidders are read after the lock is taken, never from an earlier snapshot.
func (store *SQLStore) ClosePostTx(ctx context.Context, postID uuid.UUID) (ClosePostTxResult, error) {
	var result ClosePostTxResult

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		post, err := qTx.GetPostByIDForUpdate(ctx, postID)
		if err != nil {
			return err
		}

		if !post.Active {
			result.Post = post
			result.AlreadyClosed = true
			return nil
		}

		closedPost, err := qTx.ClosePost(ctx, postID)
		if err != nil {
			return fmt.Errorf("failed to close post: %w", err)
		}
		result.Post = closedPost

		bidderIDs, err := qTx.ListDistinctBidderIDsByPostID(ctx, postID)
		if err != nil {
			return fmt.Errorf("failed to list bidders: %w", err)
		}
		result.BidderIDs = bidderIDs

		return nil
	})

	return result, err
}
