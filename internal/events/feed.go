package events

import (
	"net/http"

	"studiobook/internal/pkg/jwt"
	"studiobook/internal/pkg/request"
	"studiobook/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// FeedHandler upgrades staff dashboards to the live studio feed. Browsers
// cannot set headers on websocket requests, so the token comes in ?token=.
type FeedHandler struct {
	hub      *Hub
	jwt      *jwt.Service
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

func NewFeedHandler(hub *Hub, jwtService *jwt.Service, allowedOrigins []string, log logrus.FieldLogger) *FeedHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &FeedHandler{
		hub: hub,
		jwt: jwtService,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

func (h *FeedHandler) RegisterRoutes(studios *gin.RouterGroup) {
	studios.GET("/feed", h.Serve)
}

func (h *FeedHandler) Serve(c *gin.Context) {
	studioID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "token query parameter is required")
		return
	}
	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		return
	}
	if claims.StudioID != studioID {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Token is not valid for this studio")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	h.log.WithFields(logrus.Fields{"studio_id": studioID, "user_id": claims.UserID}).Info("feed connected")
	h.hub.ServeWS(conn, studioID)
}
