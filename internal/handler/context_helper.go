package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jrvillar/campus-console-api/internal/middleware"
	"github.com/jrvillar/campus-console-api/internal/models"
)

// claimsFromContext returns the authenticated user's claims, or nil when the
// route ran without the JWT middleware.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}
