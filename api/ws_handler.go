package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	db "github.com/katatrina/postboard/internal/db/sqlc"
	"github.com/katatrina/postboard/internal/event"
	"github.com/rs/zerolog/log"
)

const (
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

// Client message types.
const (
	wsJoinPost  = "join_post"
	wsLeavePost = "leave_post"
	wsJoinRoom  = "join_room"
	wsPlaceBid  = "place_bid"
)

// Reply types. Bus events are sent as event.Envelope and carry no type field.
const (
	wsAck   = "ack"
	wsError = "error"
)

type wsClientMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	PostID    string `json:"post_id,omitempty"`
}

type wsReply struct {
	Type      string   `json:"type"`
	Action    string   `json:"action,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
	Rooms     []string `json:"rooms,omitempty"`
	Bid       *db.Bid  `json:"bid,omitempty"`
	Error     string   `json:"error,omitempty"`
}

type wsClient struct {
	server *Server
	conn   *websocket.Conn
	sub    *event.Subscriber
	userID string
	mu     sync.Mutex
}

//	@Summary		Open a WebSocket for live post events
//	@Description	Client messages: join_post, leave_post, join_room, place_bid. Bus events are sent as {room, event, data}.
//	@Tags			posts
//	@Security		accessToken
//	@Router			/ws [get]
func (server *Server) serveWebSocket(c *gin.Context) {
	userID := authenticatedUserID(c)

	conn, err := server.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("websocket upgrade failed")
		return
	}

	client := &wsClient{
		server: server,
		conn:   conn,
		sub:    server.hub.NewSubscriber(),
		userID: userID,
	}
	client.run(c.Request.Context())
}

func (client *wsClient) run(ctx context.Context) {
	defer client.conn.Close()
	defer client.server.hub.Remove(client.sub)

	log.Debug().Str("user_id", client.userID).Str("subscriber_id", client.sub.ID).Msg("websocket connected")

	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)

	go client.writeLoop(ctx, done)

	// Read loop
	for {
		_, message, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("user_id", client.userID).Msg("websocket closed unexpectedly")
			}
			return
		}

		var msg wsClientMessage
		if err = json.Unmarshal(message, &msg); err != nil {
			client.writeJSON(wsReply{Type: wsError, Error: "malformed message"})
			continue
		}

		client.writeJSON(client.handle(ctx, msg))
	}
}

// writeLoop forwards bus envelopes and keeps the connection alive until the read loop ends.
func (client *wsClient) writeLoop(ctx context.Context, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case envelope, ok := <-client.sub.Events():
			if !ok {
				return
			}
			client.writeJSON(envelope)
		case <-ticker.C:
			client.mu.Lock()
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := client.conn.WriteMessage(websocket.PingMessage, nil)
			client.mu.Unlock()
			if err != nil {
				return
			}
		case <-ctx.Done():
			// Unblocks the read loop.
			_ = client.conn.Close()
			return
		case <-done:
			return
		}
	}
}

func (client *wsClient) handle(ctx context.Context, msg wsClientMessage) wsReply {
	reply := wsReply{Type: wsAck, Action: msg.Type, RequestID: msg.RequestID}

	fail := func(err error) wsReply {
		reply.Type = wsError
		reply.Error = err.Error()
		return reply
	}

	switch msg.Type {
	case wsJoinPost:
		postID, err := client.existingPostID(ctx, msg.PostID)
		if err != nil {
			return fail(err)
		}
		room := event.PostRoom(postID)
		if err = client.server.hub.Join(client.sub, room); err != nil {
			return fail(err)
		}
		reply.Rooms = []string{room}

	case wsLeavePost:
		postID, err := uuid.Parse(msg.PostID)
		if err != nil {
			return fail(ErrInvalidPostID)
		}
		room := event.PostRoom(postID)
		client.server.hub.Leave(client.sub, room)
		reply.Rooms = []string{room}

	case wsJoinRoom:
		postIDs, err := client.server.dbStore.ListPostIDsByParticipant(ctx, client.userID)
		if err != nil {
			return fail(err)
		}
		reply.Rooms = []string{}
		for _, postID := range postIDs {
			room := event.PostRoom(postID)
			if err = client.server.hub.Join(client.sub, room); err != nil {
				return fail(err)
			}
			reply.Rooms = append(reply.Rooms, room)
		}

	case wsPlaceBid:
		postID, err := uuid.Parse(msg.PostID)
		if err != nil {
			return fail(ErrInvalidPostID)
		}
		bid, err := client.server.lifecycle.PlaceBid(ctx, client.userID, postID)
		if err != nil {
			return fail(err)
		}
		reply.Bid = &bid

	default:
		return fail(fmt.Errorf("unknown message type %q", msg.Type))
	}

	return reply
}

func (client *wsClient) existingPostID(ctx context.Context, raw string) (uuid.UUID, error) {
	postID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidPostID
	}

	if _, err = client.server.dbStore.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return uuid.Nil, fmt.Errorf("post ID %s not found", postID)
		}
		return uuid.Nil, err
	}
	return postID, nil
}

func (client *wsClient) writeJSON(v interface{}) {
	client.mu.Lock()
	defer client.mu.Unlock()

	_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := client.conn.WriteJSON(v); err != nil {
		log.Debug().Err(err).Str("subscriber_id", client.sub.ID).Msg("websocket write failed")
	}
}
