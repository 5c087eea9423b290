package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	db "github.com/katatrina/postboard/internal/db/sqlc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, sub *Subscriber) Envelope {
	t.Helper()

	select {
	case envelope, ok := <-sub.Events():
		require.True(t, ok, "subscriber channel closed")
		return envelope
	case <-time.After(time.Second):
		t.Fatal("no envelope received")
	}
	return Envelope{}
}

func assertNothing(t *testing.T, sub *Subscriber) {
	t.Helper()

	select {
	case envelope := <-sub.Events():
		t.Fatalf("unexpected envelope %+v", envelope)
	default:
	}
}

func TestHub_PublishToRoomOnly(t *testing.T) {
	hub := NewHub(0)
	postID := uuid.New()
	room := PostRoom(postID)

	member := hub.NewSubscriber()
	other := hub.NewSubscriber()
	require.NoError(t, hub.Join(member, room))
	require.NoError(t, hub.Join(other, PostRoom(uuid.New())))

	msg := BidMade{
		Notification: db.Notification{
			ID:              uuid.New(),
			UserID:          "author",
			Subject:         postID,
			Action:          db.NotificationActionBIDMADE,
			SubjectAuthorID: "bidder",
		},
		BidID: uuid.New(),
	}
	require.NoError(t, hub.Publish(context.Background(), room, msg))

	envelope := receive(t, member)
	assert.Equal(t, room, envelope.Room)
	assert.Equal(t, KindBidMade, envelope.Event)

	decoded, err := envelope.Decode()
	require.NoError(t, err)
	assert.Equal(t, msg.BidID, decoded.(BidMade).BidID)
	assert.Equal(t, "bidder", decoded.(BidMade).SubjectAuthorID)

	assertNothing(t, other)
}

func TestHub_SubscriberInManyRooms(t *testing.T) {
	hub := NewHub(4)
	sub := hub.NewSubscriber()
	roomA, roomB := PostRoom(uuid.New()), PostRoom(uuid.New())

	require.NoError(t, hub.Join(sub, roomA))
	require.NoError(t, hub.Join(sub, roomB))
	// Joining twice keeps a single membership.
	require.NoError(t, hub.Join(sub, roomA))
	assert.Equal(t, 1, hub.RoomSize(roomA))

	require.NoError(t, hub.Publish(context.Background(), roomA, PostClosed{}))
	require.NoError(t, hub.Publish(context.Background(), roomB, PostClosed{}))

	assert.Equal(t, roomA, receive(t, sub).Room)
	assert.Equal(t, roomB, receive(t, sub).Room)
}

func TestHub_LeaveAndRemove(t *testing.T) {
	hub := NewHub(4)
	sub := hub.NewSubscriber()
	room := PostRoom(uuid.New())

	require.NoError(t, hub.Join(sub, room))
	assert.Equal(t, 1, hub.RoomCount())

	hub.Leave(sub, room)
	assert.Zero(t, hub.RoomCount())

	require.NoError(t, hub.Publish(context.Background(), room, PostClosed{}))
	assertNothing(t, sub)

	require.NoError(t, hub.Join(sub, room))
	hub.Remove(sub)
	assert.Zero(t, hub.RoomSize(room))

	_, ok := <-sub.Events()
	assert.False(t, ok)

	// Remove is idempotent and a removed subscriber cannot rejoin.
	hub.Remove(sub)
	assert.ErrorIs(t, hub.Join(sub, room), ErrSubscriberClosed)
}

func TestHub_FullBufferDoesNotBlock(t *testing.T) {
	hub := NewHub(1)
	room := PostRoom(uuid.New())

	slow := hub.NewSubscriber()
	require.NoError(t, hub.Join(slow, room))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 3; i++ {
			_ = hub.Publish(context.Background(), room, PostClosed{TotalBidders: i})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}

	// Only what fit in the buffer is kept.
	msg, err := receive(t, slow).Decode()
	require.NoError(t, err)
	assert.Equal(t, 0, msg.(PostClosed).TotalBidders)
	assertNothing(t, slow)
}
