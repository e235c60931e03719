package errors

import (
	"github.com/gin-gonic/gin"
)

// ErrorHandler turns StandardErrors into HTTP responses.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// ErrorResponse is the body written for failed inbound requests. Detail
// mirrors the message so clients written against the old API keep working.
type ErrorResponse struct {
	Detail  string    `json:"detail"`
	Code    ErrorCode `json:"code"`
	Details string    `json:"details,omitempty"`
}

// HandleHTTPError writes err as JSON and aborts the gin chain.
func (h *ErrorHandler) HandleHTTPError(c *gin.Context, err error) {
	stdErr := AsStandardError(err)
	status := HTTPStatus(stdErr.Code)

	h.logError(c, stdErr, status)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Detail:  stdErr.Message,
		Code:    stdErr.Code,
		Details: stdErr.Details,
	})
}

func (h *ErrorHandler) logError(c *gin.Context, stdErr *StandardError, status int) {
	if h.logger == nil {
		return
	}
	fields := map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"category":  GetErrorCategory(stdErr.Code),
		"details":   stdErr.Details,
		"status":    status,
		"path":      c.Request.URL.Path,
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}
	if status >= 500 {
		h.logger.Error(stdErr.Message, fields)
		return
	}
	h.logger.Warn(stdErr.Message, fields)
}
