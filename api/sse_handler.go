package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	db "github.com/katatrina/postboard/internal/db/sqlc"
	"github.com/katatrina/postboard/internal/event"
	"github.com/rs/zerolog/log"
)

const sseKeepAliveInterval = 30 * time.Second

//	@Summary		Stream post events via Server-Sent Events
//	@Description	Establishes an SSE connection to receive bid_made and post_closed events of a post
//	@Tags			posts
//	@Produce		text/event-stream
//	@Param			postID	path		string	true	"Post ID"
//	@Success		200		{string}	string	"Event stream. Data will be sent as SSE events with format: 'event: {eventType}\ndata: {jsonData}'"
//	@Failure		400		{object}	object	"Invalid post ID format"
//	@Router			/v1/posts/{postID}/stream [get]
func (server *Server) streamPostEvents(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("postID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(ErrInvalidPostID))
		return
	}

	if _, err = server.dbStore.GetPostByID(c, postID); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(fmt.Errorf("post ID %s not found", postID)))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	room := event.PostRoom(postID)
	sub := server.hub.NewSubscriber()
	defer server.hub.Remove(sub)

	if err = server.hub.Join(sub, room); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	// Thiết lập header SSE
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	log.Debug().Str("room", room).Str("subscriber_id", sub.ID).Msg("sse stream opened")

	keepAlive := time.NewTicker(sseKeepAliveInterval)
	defer keepAlive.Stop()

	// Gửi sự kiện tới client
	for {
		select {
		case envelope, ok := <-sub.Events():
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", envelope.Event, envelope.Data)
			c.Writer.Flush()
		case <-keepAlive.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
