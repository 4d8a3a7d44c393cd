package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jrvillar/campus-console-api/pkg/response"
)

// WithResponseMeta seeds each request with a meta store. Services annotate it
// through response.SetMeta and the response helpers fold the contents, plus
// processing time, into the envelope.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(response.WithMetaCarrier(c.Request.Context()))
		c.Next()
	}
}
