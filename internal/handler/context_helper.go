package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/seatplan-api/internal/middleware"
)

// actorID returns the authenticated user ID or an empty string.
func actorID(c *gin.Context) string {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return ""
	}
	return claims.UserID
}
