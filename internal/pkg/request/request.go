// Package request holds small helpers shared by gin handlers.
package request

import (
	"net/http"
	"strconv"
	"time"

	"studiobook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// ParamID parses a positive int64 path parameter. On failure it writes a
// 400 envelope and returns false.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

// BindJSON decodes the body into v and writes a 400 envelope on failure.
func BindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return false
	}
	return true
}

// BindQuery decodes query parameters into v and writes a 400 envelope on failure.
func BindQuery(c *gin.Context, v any) bool {
	if err := c.ShouldBindQuery(v); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", err.Error())
		return false
	}
	return true
}

// OptionalTime parses an RFC 3339 query value; empty yields nil.
func OptionalTime(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", name+" must be an RFC 3339 timestamp")
		return nil, false
	}
	return &t, true
}
