package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans out live survey events (answer received, survey completed) to
// the dashboards of the admin who owns the survey.
type Hub struct {
	mu     sync.RWMutex
	admins map[uint]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		admins: make(map[uint]map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddConnection(adminID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.admins[adminID] == nil {
		h.admins[adminID] = make(map[*websocket.Conn]bool)
	}
	h.admins[adminID][conn] = true
	log.Printf("ws: dashboard connected for admin %d (total: %d)", adminID, len(h.admins[adminID]))
}

func (h *Hub) RemoveConnection(adminID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.admins[adminID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.admins, adminID)
		}
		log.Printf("ws: dashboard disconnected for admin %d", adminID)
	}
}

func (h *Hub) BroadcastToAdmin(adminID uint, message WSMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.admins[adminID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			conn.Close()
			delete(conns, conn)
		}
	}
}
