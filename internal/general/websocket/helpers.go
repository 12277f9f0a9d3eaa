package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"city-guide/internal/general/contracts"

	"github.com/gorilla/websocket"
)

// wsWriteClose sends a close control frame with the given code and reason.
func (ws *WebSocket) wsWriteClose(conn *websocket.Conn, code int, reason string) {
	mu := ws.lockOf(conn)
	mu.Lock()
	defer mu.Unlock()

	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(wsCloseAckWindow),
	)
	ws.writeLocks.Delete(conn)
}

// wsWriteMessage sets a short write deadline and writes a message.
func (ws *WebSocket) wsWriteMessage(conn *websocket.Conn, mt int, payload []byte) error {
	mu := ws.lockOf(conn)
	mu.Lock()
	defer mu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteMessage(mt, payload)
}

// lockOf returns the mutex for a specific connection
func (ws *WebSocket) lockOf(conn *websocket.Conn) *sync.Mutex {
	if v, ok := ws.writeLocks.Load(conn); ok {
		if mu, ok := v.(*sync.Mutex); ok && mu != nil {
			return mu
		}
	}
	mu := &sync.Mutex{}
	actual, _ := ws.writeLocks.LoadOrStore(conn, mu)
	return actual.(*sync.Mutex)
}

// writeJSON marshals v and writes a single TextMessage to the given connection.
func (ws *WebSocket) writeJSON(conn *websocket.Conn, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.wsWriteMessage(conn, websocket.TextMessage, payload)
}

// IsUserConnected checks if a user currently has an open WebSocket.
func (ws *WebSocket) IsUserConnected(userID string) bool {
	conn, ok := ws.userConns.Load(userID)
	return ok && conn != nil
}

// Push delivers a navigation event to the user's connection, if any.
// Satisfies the publisher's event sink; delivery is best-effort.
func (ws *WebSocket) Push(userID string, msg contracts.NavigationEventMessage) {
	v, ok := ws.userConns.Load(userID)
	if !ok {
		return
	}
	conn, ok := v.(*websocket.Conn)
	if !ok || conn == nil {
		return
	}

	out := map[string]any{
		"type": "navigation_event",
		"data": msg,
	}
	if err := ws.writeJSON(conn, out); err != nil {
		ws.logger.Error(context.Background(), "ws_push_failed",
			"Failed to push navigation event to user", err,
			map[string]any{"user_id": userID, "event_type": msg.Type})
	}
}
