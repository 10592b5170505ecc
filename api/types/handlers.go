package types

import (
	"github.com/gin-gonic/gin"
	apperrors "github.com/killallgit/blog-discovery-api/pkg/errors"
)

// NewErrorResponse renders err as an ErrorResponse. Only the code and the
// message of an AppError reach the client; causes stay in the logs.
func NewErrorResponse(err error) ErrorResponse {
	resp := ErrorResponse{
		Status:  StatusError,
		Message: "internal error",
		Error:   string(apperrors.GetCode(err)),
	}
	if appErr, ok := apperrors.As(err); ok {
		resp.Message = appErr.Message
	}
	return resp
}

// SendError writes err with its mapped HTTP status and aborts the chain
func SendError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(apperrors.GetHTTPCode(err), NewErrorResponse(err))
}
