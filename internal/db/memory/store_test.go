package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	db "github.com/katatrina/postboard/internal/db/sqlc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPost(t *testing.T, store *Store, authorID string, deadline time.Time) db.Post {
	t.Helper()

	post, err := store.CreatePost(context.Background(), db.CreatePostParams{
		ID:               uuid.New(),
		UserID:           authorID,
		Text:             "camera",
		AnnouncementDate: deadline,
	})
	require.NoError(t, err)
	return post
}

func TestStore_PostQueries(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Now()

	later := createTestPost(t, store, "alice", now.Add(2*time.Hour))
	sooner := createTestPost(t, store, "bob", now.Add(time.Hour))
	overdue := createTestPost(t, store, "bob", now.Add(-time.Hour))
	assert.True(t, later.Active)

	_, err := store.GetPostByID(ctx, uuid.New())
	assert.ErrorIs(t, err, db.ErrRecordNotFound)

	posts, err := store.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.ElementsMatch(t, []uuid.UUID{overdue.ID, sooner.ID, later.ID}, []uuid.UUID{posts[0].ID, posts[1].ID, posts[2].ID})

	closed, err := store.ClosePost(ctx, sooner.ID)
	require.NoError(t, err)
	assert.False(t, closed.Active)

	active, err := store.ListActivePosts(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	overduePosts, err := store.ListOverduePosts(ctx, now)
	require.NoError(t, err)
	require.Len(t, overduePosts, 1)
	assert.Equal(t, overdue.ID, overduePosts[0].ID)
}

func TestStore_PlaceBidTx(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	post := createTestPost(t, store, "alice", time.Now().Add(time.Hour))

	result, err := store.PlaceBidTx(ctx, db.PlaceBidTxParams{BidderID: "bob", PostID: post.ID})
	require.NoError(t, err)
	assert.Equal(t, "bob", result.Bid.UserID)
	assert.Equal(t, "alice", result.Notification.UserID)
	assert.Equal(t, db.NotificationActionBIDMADE, result.Notification.Action)
	assert.Equal(t, post.ID, result.Notification.Subject)

	_, err = store.PlaceBidTx(ctx, db.PlaceBidTxParams{BidderID: "bob", PostID: uuid.New()})
	assert.ErrorIs(t, err, db.ErrRecordNotFound)

	_, err = store.ClosePost(ctx, post.ID)
	require.NoError(t, err)

	_, err = store.PlaceBidTx(ctx, db.PlaceBidTxParams{BidderID: "carol", PostID: post.ID})
	assert.ErrorIs(t, err, db.ErrPostClosed)

	bids, err := store.ListBidsByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, bids, 1)
}

func TestStore_ClosePostTx(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	post := createTestPost(t, store, "alice", time.Now())

	for _, bidder := range []string{"dave", "bob", "dave"} {
		_, err := store.PlaceBidTx(ctx, db.PlaceBidTxParams{BidderID: bidder, PostID: post.ID})
		require.NoError(t, err)
	}

	result, err := store.ClosePostTx(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, result.AlreadyClosed)
	assert.False(t, result.Post.Active)
	assert.Equal(t, []string{"bob", "dave"}, result.BidderIDs)

	again, err := store.ClosePostTx(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, again.AlreadyClosed)
	assert.Empty(t, again.BidderIDs)

	_, err = store.ClosePostTx(ctx, uuid.New())
	assert.ErrorIs(t, err, db.ErrRecordNotFound)
}

func TestStore_ListPostIDsByParticipant(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	authored := createTestPost(t, store, "carol", time.Now().Add(time.Hour))
	bidOn := createTestPost(t, store, "alice", time.Now().Add(time.Hour))
	createTestPost(t, store, "alice", time.Now().Add(time.Hour))

	for i := 0; i < 2; i++ {
		_, err := store.PlaceBidTx(ctx, db.PlaceBidTxParams{BidderID: "carol", PostID: bidOn.ID})
		require.NoError(t, err)
	}
	_, err := store.PlaceBidTx(ctx, db.PlaceBidTxParams{BidderID: "carol", PostID: authored.ID})
	require.NoError(t, err)

	ids, err := store.ListPostIDsByParticipant(ctx, "carol")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{authored.ID, bidOn.ID}, ids)
}
