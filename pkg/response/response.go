package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jrvillar/campus-console-api/internal/models"
	appErrors "github.com/jrvillar/campus-console-api/pkg/errors"
)

// Envelope is the response contract shared by every endpoint. Exactly one of
// Data or Error is set; Pagination and Meta ride alongside when relevant.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

func writeHeaders(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

// JSON sends a success envelope with optional pagination and meta. Meta
// collected on the request context is folded in; explicit meta wins on key
// collisions.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination, meta ...map[string]interface{}) {
	writeHeaders(c)
	envelope := Envelope{Data: data, Pagination: pagination, Meta: contextMeta(c.Request.Context())}
	if len(meta) > 0 && meta[0] != nil {
		if envelope.Meta == nil {
			envelope.Meta = make(map[string]interface{}, len(meta[0]))
		}
		for k, v := range meta[0] {
			envelope.Meta[k] = v
		}
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Error sends an error envelope, mapping err to the typed error structure.
func Error(c *gin.Context, err error) {
	ErrorWithMeta(c, err, nil)
}

// ErrorWithMeta sends an error envelope carrying extra context, such as the
// colliding slots of a schedule conflict, in the meta block.
func ErrorWithMeta(c *gin.Context, err error, meta map[string]interface{}) {
	appErr := appErrors.FromError(err)
	writeHeaders(c)
	envelope := Envelope{Error: appErr, Meta: contextMeta(c.Request.Context())}
	if meta != nil {
		if envelope.Meta == nil {
			envelope.Meta = make(map[string]interface{}, len(meta))
		}
		for k, v := range meta {
			envelope.Meta[k] = v
		}
	}
	c.JSON(appErr.Status, envelope)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
