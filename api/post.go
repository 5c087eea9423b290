package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	db "github.com/katatrina/postboard/internal/db/sqlc"
	"github.com/katatrina/postboard/internal/lifecycle"
)

type createPostRequest struct {
	Text             string    `json:"text" binding:"required"`
	AnnouncementDate time.Time `json:"announcement_date" binding:"required"`
}

// postResponse is a post together with every bid placed on it.
type postResponse struct {
	db.Post
	Bids []db.Bid `json:"bids"`
}

//	@Summary		Create a post
//	@Description	Create a post open for bidding until its announcement date.
//	@Tags			posts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		createPostRequest	true	"Post"
//	@Success		201		{object}	db.Post
//	@Security		accessToken
//	@Router			/posts [post]
func (server *Server) createPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	post, err := server.lifecycle.CreatePost(c, lifecycle.CreatePostParams{
		AuthorID:         authenticatedUserID(c),
		Text:             req.Text,
		AnnouncementDate: req.AnnouncementDate,
	})
	if err != nil {
		c.JSON(lifecycleErrorStatus(err), errorResponse(err))
		return
	}

	c.JSON(http.StatusCreated, post)
}

//	@Summary		List posts
//	@Description	List every post with its bids, newest first.
//	@Tags			posts
//	@Produce		json
//	@Success		200	{array}	postResponse
//	@Security		accessToken
//	@Router			/posts [get]
func (server *Server) listPosts(c *gin.Context) {
	posts, err := server.dbStore.ListPosts(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	resp := make([]postResponse, 0, len(posts))
	for _, post := range posts {
		bids, err := server.dbStore.ListBidsByPostID(c, post.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse(err))
			return
		}
		resp = append(resp, postResponse{Post: post, Bids: bids})
	}

	c.JSON(http.StatusOK, resp)
}

//	@Summary		Get a post
//	@Tags			posts
//	@Produce		json
//	@Param			postID	path		string	true	"Post ID"
//	@Success		200		{object}	postResponse
//	@Security		accessToken
//	@Router			/posts/{postID} [get]
func (server *Server) getPost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("postID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(ErrInvalidPostID))
		return
	}

	post, err := server.dbStore.GetPostByID(c, postID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			err = fmt.Errorf("post ID %s not found", postID)
			c.JSON(http.StatusNotFound, errorResponse(err))
			return
		}

		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	bids, err := server.dbStore.ListBidsByPostID(c, post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, postResponse{Post: post, Bids: bids})
}
