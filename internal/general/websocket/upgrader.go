package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"city-guide/internal/domain/user"
	"city-guide/internal/general/jwt"
	"city-guide/internal/general/logger"
	"city-guide/internal/ports"

	"github.com/gorilla/websocket"
)

const (
	wsWriteTimeout   = 5 * time.Second
	wsCloseAckWindow = 2 * time.Second
	ctrlTimeout      = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WebSocket handles user WebSocket connections with JWT auth.
type WebSocket struct {
	logger     *logger.Logger
	jwtMgr     *jwt.Manager
	nav        ports.NavigationService
	writeLocks sync.Map // key: *websocket.Conn -> *sync.Mutex
	userConns  sync.Map // key: userID(string) -> *websocket.Conn
}

// NewWebSocket creates a WebSocket handler with JWT auth.
func NewWebSocket(logger *logger.Logger, jwtMgr *jwt.Manager, nav ports.NavigationService) *WebSocket {
	return &WebSocket{
		logger: logger,
		jwtMgr: jwtMgr,
		nav:    nav,
	}
}

// ConnectUser handles WebSocket connections from users with JWT auth.
// The first frame must be an auth message; afterwards the connection
// carries position updates and route commands in, navigation events out.
func (ws *WebSocket) ConnectUser(w http.ResponseWriter, r *http.Request) {
	// 1) Upgrade HTTP -> WS
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Error(r.Context(), "websocket_upgrade_failed", "Failed to upgrade to WebSocket", err, nil)
		return
	}
	// Teardown order (LIFO on return):
	defer conn.Close()               // close the socket last
	defer ws.writeLocks.Delete(conn) // forget per-connection mutex (idempotent)

	// 2) Set auth deadline
	conn.SetReadLimit(1 << 20) // 1 MiB
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		ws.logger.Error(r.Context(), "ws_set_deadline_failed", "Failed to set initial read deadline", err, nil)
		ws.sendAuthError(conn, "internal server error")
		return
	}

	// 3) Auth check
	msgType, firstFrame, err := conn.ReadMessage()
	if err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
			ws.logger.Error(r.Context(), "ws_auth_timeout", "Client disconnected before authentication", err, nil)
		} else {
			ws.logger.Error(r.Context(), "ws_auth_read_failed", "Failed to read auth message", err, nil)
		}
		ws.sendAuthError(conn, "authentication timeout: please send auth message within 5 seconds")
		return
	}

	if msgType != websocket.TextMessage {
		ws.logger.Error(r.Context(), "ws_auth_invalid_format", "Auth message must be text format", nil, nil)
		ws.sendAuthError(conn, "auth message must be in text format")
		return
	}

	res, err := jwt.ValidateWSAuth(firstFrame, ws.jwtMgr, user.RoleUser, user.RoleAdmin)
	if err != nil {
		ws.logger.Error(r.Context(), "ws_auth_failed", "Invalid auth message or token", err, nil)
		ws.sendAuthError(conn, "authentication failed: invalid token")
		return
	}

	// 4) Path param must match the subject in claims
	if uid := r.PathValue("user_id"); uid != "" && uid != res.Claims.Subject {
		ws.logger.Error(r.Context(), "ws_auth_failed", "User ID mismatch", nil, map[string]any{
			"path_user_id":  uid,
			"token_subject": res.Claims.Subject,
		})
		ws.sendAuthError(conn, "user ID mismatch")
		return
	}
	userID := res.Claims.Subject

	// 5) Send authentication success message
	if err := ws.sendAuthSuccess(conn, userID); err != nil {
		ws.logger.Error(r.Context(), "ws_auth_success_failed", "Failed to send auth success message", err, nil)
		return
	}

	ws.logger.Info(r.Context(), "ws_connected", "User WebSocket connected",
		map[string]any{"user_id": userID})

	// 6) Reset read deadline after auth
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(_ string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	// 7) Start ping loop (every 30s) using the per-connection writer lock.
	// The done channel is closed when the handler returns so the loop
	// exits instead of parking on a stopped ticker.
	pingDone := make(chan struct{})
	defer close(pingDone)
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-pingDone:
				return
			case <-ticker.C:
			}

			mu := ws.lockOf(conn)
			mu.Lock()
			_ = conn.SetWriteDeadline(time.Now().Add(ctrlTimeout))
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctrlTimeout))
			mu.Unlock()
			if err != nil {
				// Close socket to unblock reader; goroutine exits.
				_ = conn.Close()
				ws.logger.Error(r.Context(), "ws_ping_failed", "Failed to send ping", err, nil)
				return
			}
		}
	}()

	// 8) Register this user for outbound navigation events; unregister on exit
	ws.userConns.Store(userID, conn)
	defer ws.userConns.Delete(userID)

	// 9) Read loop: route messages
	for {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				ws.logger.Error(r.Context(), "ws_unexpected_close", "User connection closed unexpectedly", err, map[string]any{
					"user_id": userID,
				})
				ws.wsWriteClose(conn, websocket.CloseInternalServerErr, "internal error")
			} else {
				ws.logger.Info(r.Context(), "ws_connection_closed", "User connection closed normally", map[string]any{
					"user_id": userID,
				})
				ws.wsWriteClose(conn, websocket.CloseNormalClosure, "bye")
			}
			break
		}

		// Minimal envelope
		var msg struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}

		if err := json.Unmarshal(payload, &msg); err != nil {
			_ = ws.wsWriteMessage(conn, websocket.TextMessage, []byte(`{"type":"error","error":"bad json"}`))
			continue
		}

		switch msg.Type {
		case "position_update":
			if err := ws.handlePositionUpdate(r.Context(), conn, userID, msg.Data); err != nil {
				ws.logger.Error(r.Context(), "user_ws_message_failed", "position update failed", err, map[string]any{
					"user_id": userID,
				})
				_ = ws.wsWriteMessage(conn, websocket.TextMessage, []byte(`{"type":"error","error":"failed to process position"}`))
			}

		case "route_request":
			if err := ws.handleRouteRequest(r.Context(), conn, userID, msg.Data); err != nil {
				ws.logger.Error(r.Context(), "user_ws_message_failed", "route request failed", err, map[string]any{
					"user_id": userID,
				})
			}

		case "route_cancel":
			if err := ws.handleRouteCancel(r.Context(), conn, userID); err != nil {
				ws.logger.Error(r.Context(), "user_ws_message_failed", "route cancel failed", err, map[string]any{
					"user_id": userID,
				})
				_ = ws.wsWriteMessage(conn, websocket.TextMessage, []byte(`{"type":"error","error":"failed to cancel route"}`))
			}

		case "where_am_i":
			if err := ws.handleWhereAmI(r.Context(), conn, userID); err != nil {
				ws.logger.Error(r.Context(), "user_ws_message_failed", "where-am-i failed", err, map[string]any{
					"user_id": userID,
				})
			}

		default:
			_ = ws.wsWriteMessage(conn, websocket.TextMessage, []byte(`{"type":"error","error":"unknown message type"}`))
		}
	}
}

// sendAuthError sends authentication error message to client
func (ws *WebSocket) sendAuthError(conn *websocket.Conn, message string) error {
	errorMsg := map[string]interface{}{
		"type":    "auth_error",
		"error":   message,
		"success": false,
	}
	msgBytes, err := json.Marshal(errorMsg)
	if err != nil {
		return err
	}
	return ws.wsWriteMessage(conn, websocket.TextMessage, msgBytes)
}

// sendAuthSuccess sends authentication success message to client
func (ws *WebSocket) sendAuthSuccess(conn *websocket.Conn, userID string) error {
	successMsg := map[string]interface{}{
		"type":      "auth_success",
		"message":   "Authentication successful",
		"success":   true,
		"user_id":   userID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	msgBytes, err := json.Marshal(successMsg)
	if err != nil {
		return err
	}
	return ws.wsWriteMessage(conn, websocket.TextMessage, msgBytes)
}
