package handlers

import (
	"log"
	"net/http"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/services"
	"github.com/waseem-akram-senarios/surveybot-sub001/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub         *ws.Hub
	authService *services.AuthService
}

func NewWSHandler(hub *ws.Hub, authService *services.AuthService) *WSHandler {
	return &WSHandler{hub: hub, authService: authService}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleDashboard godoc
// @Summary      WebSocket connection for live dashboard events
// @Description  Authenticate with ?token=JWT; receives answer_received and survey_completed events for the admin's surveys
// @Tags         websocket
// @Param        token query string true "Admin JWT"
// @Router       /ws/dashboard [get]
func (h *WSHandler) HandleDashboard(c *gin.Context) {
	// Browsers cannot set Authorization headers on websocket upgrades,
	// so the JWT rides in the query string.
	adminID, err := h.authService.ValidateToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	h.hub.AddConnection(adminID, conn)
	defer h.hub.RemoveConnection(adminID, conn)

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
