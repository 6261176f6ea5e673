package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"tapdash/internal/session"
	"tapdash/internal/wshub"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// handleWS upgrades the connection and joins the hub. The client sends
// button presses; every render snapshot comes back down the socket.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("[WS] Accept error: %v\n", err)
		return
	}

	client := &wshub.Client{
		ID:   uuid.New().String(),
		Conn: conn,
		Send: make(chan []byte, 16),
	}
	s.Hub.Register(client)
	defer s.Hub.Unregister(client.ID)

	ctx := r.Context()
	go client.WritePump(ctx)

	// Greet with the current state so a late joiner is not blank.
	if sess := s.currentSession(); sess != nil {
		if data, err := json.Marshal(sess.Snapshot()); err == nil {
			select {
			case client.Send <- data:
			default:
			}
		}
	}

	s.readPump(ctx, conn, client)
	conn.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) readPump(ctx context.Context, conn *websocket.Conn, client *wshub.Client) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var msg wshub.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] Bad client message: %v\n", err)
			continue
		}

		sess := s.currentSession()
		if sess == nil {
			continue
		}
		running := sess.State() == session.StateRunning
		switch msg.Type {
		case "tap":
			sess.PrimaryTap()
			if running {
				s.recordTap(sess.ID(), "tap", true)
			}
		case "foe":
			sess.FoeTap()
			if running {
				s.recordTap(sess.ID(), "foe", false)
			}
		case "powerup":
			sess.PowerupTap()
			if running {
				s.recordTap(sess.ID(), "powerup", true)
			}
		}
	}
}
