package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hopperkey/phatdev/internal/shared/constants"
	"github.com/hopperkey/phatdev/internal/shared/errors"
)

// Payload holds the extra top-level fields of an envelope.
type Payload map[string]any

// Envelope builds {success, message?, ...payload}. Payload keys named
// "success" or "message" are ignored.
func Envelope(success bool, message string, payload Payload) gin.H {
	body := gin.H{"success": success}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		if k == "success" || k == "message" {
			continue
		}
		body[k] = v
	}
	return body
}

// SuccessResponse writes a successful envelope. Action results always use
// status 200.
func SuccessResponse(c *gin.Context, message string, payload Payload) {
	c.JSON(http.StatusOK, Envelope(true, message, payload))
}

// ErrorResponse writes {success:false, message} with status 200.
func ErrorResponse(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope(false, message, nil))
}

// AbortWithError is ErrorResponse for middleware that must stop the chain.
func AbortWithError(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusOK, Envelope(false, message, nil))
}

// ErrorResponseWithError maps err onto a failure envelope. Internal errors
// never leak their cause to the client.
func ErrorResponseWithError(c *gin.Context, err error) {
	ErrorResponse(c, ErrorMessage(err))
}

// ErrorMessage is the client-facing text for err.
func ErrorMessage(err error) string {
	appErr := errors.GetAppError(err)
	if appErr == nil || appErr.Type == errors.ErrorTypeInternal {
		return constants.ErrMsgInternalServerError
	}
	return appErr.Message
}
