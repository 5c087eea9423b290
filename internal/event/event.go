package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	db "github.com/katatrina/postboard/internal/db/sqlc"
)

// Kind is the wire name of a bus message.
type Kind string

const (
	KindBidMade    Kind = "bid_made"    // Someone placed a bid on the post
	KindPostClosed Kind = "post_closed" // The post reached its deadline and was closed
)

// Message is the closed set of payloads carried by the bus: BidMade and PostClosed.
type Message interface {
	Kind() Kind
	isMessage()
}

// BidMade carries the BID_MADE notification persisted for the post author.
type BidMade struct {
	db.Notification
	BidID uuid.UUID `json:"bid_id"`
}

func (BidMade) Kind() Kind { return KindBidMade }
func (BidMade) isMessage() {}

// PostClosed carries the post as it was persisted by the close transition.
type PostClosed struct {
	db.Post
	TotalBidders int       `json:"total_bidders"`
	ClosedAt     time.Time `json:"closed_at"`
}

func (PostClosed) Kind() Kind { return KindPostClosed }
func (PostClosed) isMessage() {}

// Envelope is what subscribers receive and what relays put on the wire.
// Origin is only set on the wire and names the relay that published it.
type Envelope struct {
	Room   string          `json:"room"`
	Event  Kind            `json:"event"`
	Data   json.RawMessage `json:"data"`
	Origin string          `json:"origin,omitempty"`
}

// NewEnvelope serializes msg for room.
func NewEnvelope(room string, msg Message) (Envelope, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal %s message: %w", msg.Kind(), err)
	}

	return Envelope{
		Room:  room,
		Event: msg.Kind(),
		Data:  data,
	}, nil
}

// Decode returns the typed message held by the envelope.
func (e Envelope) Decode() (Message, error) {
	switch e.Event {
	case KindBidMade:
		var msg BidMade
		if err := json.Unmarshal(e.Data, &msg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s message: %w", e.Event, err)
		}
		return msg, nil
	case KindPostClosed:
		var msg PostClosed
		if err := json.Unmarshal(e.Data, &msg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s message: %w", e.Event, err)
		}
		return msg, nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", e.Event)
	}
}

// Publisher delivers a message to every live subscriber of a room.
type Publisher interface {
	Publish(ctx context.Context, room string, msg Message) error
}

// PostRoom returns the room keyed by a post ID.
func PostRoom(postID uuid.UUID) string {
	return fmt.Sprintf("post:%s", postID.String())
}
