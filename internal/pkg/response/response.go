package response

import (
	"net/http"

	"studiobook/internal/pkg/apperr"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Abort writes an error envelope and stops the handler chain.
func Abort(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
	c.Abort()
}

// FromError renders err according to its apperr kind. Anything that is not a
// typed domain error is recorded on the context for the request logger and
// reported to the client as a generic internal failure.
func FromError(c *gin.Context, err error) {
	e, ok := apperr.As(err)
	if !ok || e.Kind == apperr.KindInternal {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	if e.Kind == apperr.KindUnavailable {
		_ = c.Error(err)
	}
	Error(c, StatusFor(e.Kind), e.Code, e.Message)
}

func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindDomainState:
		return http.StatusUnprocessableEntity
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
