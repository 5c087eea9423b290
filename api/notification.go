package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

//	@Summary		List notifications of the authenticated user
//	@Tags			users
//	@Produce		json
//	@Success		200	{array}	db.Notification
//	@Security		accessToken
//	@Router			/users/me/notifications [get]
func (server *Server) listUserNotifications(c *gin.Context) {
	notifications, err := server.notifications.ListNotifications(c, authenticatedUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, notifications)
}
