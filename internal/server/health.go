package server

import (
	"net/http"
	"time"

	"studiobook/internal/database"
	"studiobook/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db          *gorm.DB
	version     string
	environment string
	started     time.Time
}

func NewHealthHandler(db *gorm.DB, version, environment string) *HealthHandler {
	return &HealthHandler{db: db, version: version, environment: environment, started: time.Now()}
}

func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", h.Health)
}

// Health reports liveness plus a database ping. A failed ping answers 503
// so load balancers take the instance out of rotation.
func (h *HealthHandler) Health(c *gin.Context) {
	body := gin.H{
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(h.started).Round(time.Second).String(),
		"environment": h.environment,
		"version":     h.version,
		"database":    "ok",
	}
	if err := database.Ping(c.Request.Context(), h.db); err != nil {
		_ = c.Error(err)
		body["status"] = "degraded"
		body["database"] = "unreachable"
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "data": body})
		return
	}
	response.Success(c, http.StatusOK, body)
}
