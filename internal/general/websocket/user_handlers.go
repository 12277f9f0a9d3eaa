package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"city-guide/internal/domain/geo"
	"city-guide/internal/ports"

	"github.com/gorilla/websocket"
)

// handlePositionUpdate feeds one GPS fix into the navigation service.
// Resulting events reach the client through the publisher's sink, so
// only failures are answered here.
func (ws *WebSocket) handlePositionUpdate(ctx context.Context, conn *websocket.Conn, userID string, data json.RawMessage) error {
	var in struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode position: %w", err)
	}

	_, err := ws.nav.OnPositionUpdate(ctx, ports.PositionUpdateInput{
		UserID:   userID,
		Position: geo.Position{Lat: in.Lat, Lon: in.Lon},
	})
	return err
}

// handleRouteRequest plans a route to a free-text destination and
// answers with the planning summary.
func (ws *WebSocket) handleRouteRequest(ctx context.Context, conn *websocket.Conn, userID string, data json.RawMessage) error {
	var in struct {
		Destination string `json:"destination"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode route request: %w", err)
	}

	result, err := ws.nav.CreateRoute(ctx, ports.CreateRouteInput{
		UserID:      userID,
		Destination: in.Destination,
	})
	if err != nil {
		_ = ws.writeJSON(conn, map[string]any{
			"type":  "route_error",
			"error": err.Error(),
		})
		return err
	}

	return ws.writeJSON(conn, map[string]any{
		"type": "route_created",
		"data": result,
	})
}

// handleRouteCancel ends the user's active session.
func (ws *WebSocket) handleRouteCancel(ctx context.Context, conn *websocket.Conn, userID string) error {
	ev, err := ws.nav.CancelRoute(ctx, userID)
	if err != nil {
		return err
	}

	return ws.writeJSON(conn, map[string]any{
		"type": "route_cancelled",
		"data": map[string]any{"event": ev.Type.String()},
	})
}

// handleWhereAmI reverse-geocodes the last known position.
func (ws *WebSocket) handleWhereAmI(ctx context.Context, conn *websocket.Conn, userID string) error {
	result, err := ws.nav.WhereAmI(ctx, userID)
	if err != nil {
		_ = ws.writeJSON(conn, map[string]any{
			"type":  "where_am_i_error",
			"error": err.Error(),
		})
		return err
	}

	return ws.writeJSON(conn, map[string]any{
		"type": "where_am_i",
		"data": result,
	})
}
