package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/middleware"
	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/models"
)

// claimsFromContext reads the JWT claims the auth middleware stored on
// the request. Nil means the route ran without authentication.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}
