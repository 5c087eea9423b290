package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type verifyAccessTokenRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

type whoamiResponse struct {
	UserID string `json:"user_id"`
}

func (server *Server) verifyAccessToken(c *gin.Context) {
	req := new(verifyAccessTokenRequest)

	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	claims, err := server.tokenMaker.VerifyToken(req.AccessToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, whoamiResponse{UserID: claims.UserID()})
}

//	@Summary		Get the authenticated user
//	@Tags			users
//	@Produce		json
//	@Success		200	{object}	whoamiResponse
//	@Security		accessToken
//	@Router			/whoami [get]
func (server *Server) whoami(c *gin.Context) {
	c.JSON(http.StatusOK, whoamiResponse{UserID: authenticatedUserID(c)})
}
