// Package event implements the room based publish/subscribe fabric used for live updates.
package event

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const DefaultSubscriberBuffer = 64

var ErrSubscriberClosed = errors.New("subscriber is closed")

// Subscriber is one live connection. It may be joined to many rooms at once.
type Subscriber struct {
	ID     string
	events chan Envelope
	rooms  map[string]struct{}
	closed bool
}

// Events returns the channel of envelopes for this subscriber. It is closed by Hub.Remove.
func (s *Subscriber) Events() <-chan Envelope {
	return s.events
}

// Hub keeps room membership for the connections of this process.
// Missed messages are never replayed.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]map[*Subscriber]struct{}
	bufferSize int
}

var _ Publisher = (*Hub)(nil)

func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultSubscriberBuffer
	}

	return &Hub{
		rooms:      make(map[string]map[*Subscriber]struct{}),
		bufferSize: bufferSize,
	}
}

// NewSubscriber creates a subscriber that is not joined to any room yet.
func (h *Hub) NewSubscriber() *Subscriber {
	return &Subscriber{
		ID:     uuid.NewString(),
		events: make(chan Envelope, h.bufferSize),
		rooms:  make(map[string]struct{}),
	}
}

// Join adds sub to room.
func (h *Hub) Join(sub *Subscriber, room string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub.closed {
		return ErrSubscriberClosed
	}

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Subscriber]struct{})
	}
	h.rooms[room][sub] = struct{}{}
	sub.rooms[room] = struct{}{}

	log.Debug().
		Str("room", room).
		Str("subscriber_id", sub.ID).
		Int("room_size", len(h.rooms[room])).
		Msg("subscriber joined room")

	return nil
}

// Leave removes sub from room and drops the room once it is empty.
func (h *Hub) Leave(sub *Subscriber, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leave(sub, room)
}

// Remove detaches sub from every room and closes its channel.
// Call it when the underlying connection terminates.
func (h *Hub) Remove(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub.closed {
		return
	}

	for room := range sub.rooms {
		h.leave(sub, room)
	}
	sub.closed = true
	close(sub.events)

	log.Debug().Str("subscriber_id", sub.ID).Msg("subscriber removed")
}

// Publish delivers msg to every subscriber currently in room.
// A subscriber whose buffer is full misses the message; the others are not held back.
func (h *Hub) Publish(ctx context.Context, room string, msg Message) error {
	envelope, err := NewEnvelope(room, msg)
	if err != nil {
		return err
	}

	h.Deliver(envelope)
	return nil
}

// Deliver fans an already serialized envelope out to the local room.
func (h *Hub) Deliver(envelope Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.rooms[envelope.Room] {
		select {
		case sub.events <- envelope:
		default:
			log.Warn().
				Str("room", envelope.Room).
				Str("subscriber_id", sub.ID).
				Str("event", string(envelope.Event)).
				Msg("subscriber buffer full, dropping event")
		}
	}
}

// RoomSize returns the number of subscribers in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[room])
}

// RoomCount returns the number of rooms with at least one subscriber.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms)
}

func (h *Hub) leave(sub *Subscriber, room string) {
	delete(sub.rooms, room)

	subs, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.rooms, room)
	}
}
