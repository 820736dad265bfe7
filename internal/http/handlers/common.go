package handlers

import (
	"net/http"
	"strconv"

	"ticketbooking/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RespondError sends standard error payload with request_id included.
// Always provides "message" for the browser client.
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"message":    message,
		"request_id": reqID,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondError(c, http.StatusBadRequest, "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}

// pathID parses the :id path parameter and answers 400 when it is not a
// positive integer.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return id, true
}
