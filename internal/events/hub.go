package events

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

// subscriber is one staff dashboard listening to a studio feed.
type subscriber struct {
	studioID int64
	conn     *websocket.Conn
	send     chan []byte
}

// Hub fans events out to websocket subscribers of the event's studio.
type Hub struct {
	mu      sync.RWMutex
	studios map[int64]map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{studios: make(map[int64]map[*subscriber]struct{})}
}

func (h *Hub) register(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.studios[s.studioID]
	if !ok {
		subs = make(map[*subscriber]struct{})
		h.studios[s.studioID] = subs
	}
	subs[s] = struct{}{}
}

func (h *Hub) unregister(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.studios[s.studioID]
	if !ok {
		return
	}
	if _, ok := subs[s]; ok {
		delete(subs, s)
		close(s.send)
	}
	if len(subs) == 0 {
		delete(h.studios, s.studioID)
	}
}

// Subscribers reports how many dashboards are connected to a studio.
func (h *Hub) Subscribers(studioID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.studios[studioID])
}

// Publish queues e for every subscriber of e.StudioID. Slow subscribers
// miss events rather than block the caller.
func (h *Hub) Publish(_ context.Context, e Event) error {
	data, err := Marshal(e)
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.studios[e.StudioID] {
		select {
		case s.send <- data:
		default:
		}
	}
	return nil
}

// ServeWS attaches conn to a studio feed and blocks until it disconnects.
func (h *Hub) ServeWS(conn *websocket.Conn, studioID int64) {
	s := &subscriber{
		studioID: studioID,
		conn:     conn,
		send:     make(chan []byte, 64),
	}
	h.register(s)

	go h.writePump(s)
	h.readPump(s)
}

// readPump only services control frames; the feed is one-way.
func (h *Hub) readPump(s *subscriber) {
	defer func() {
		h.unregister(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(s *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
