package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//	@Summary		Place a bid on a post
//	@Description	Bid on an open post. The author is notified and the post room receives a bid_made event.
//	@Tags			posts
//	@Produce		json
//	@Param			postID	path		string	true	"Post ID"
//	@Success		201		{object}	db.Bid
//	@Failure		404		"Post not found"
//	@Failure		422		"Post is closed"
//	@Security		accessToken
//	@Router			/posts/{postID}/bids [post]
func (server *Server) placeBid(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("postID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(ErrInvalidPostID))
		return
	}

	bid, err := server.lifecycle.PlaceBid(c, authenticatedUserID(c), postID)
	if err != nil {
		c.JSON(lifecycleErrorStatus(err), errorResponse(err))
		return
	}

	c.JSON(http.StatusCreated, bid)
}
