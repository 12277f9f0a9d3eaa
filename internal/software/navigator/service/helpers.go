package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"city-guide/internal/domain/session"
)

// generateCorrelationID creates a simple correlation ID for tracing requests.
func generateCorrelationID() string {
	var b [3]byte // 6 hex chars
	_, _ = rand.Read(b[:])
	ts := time.Now().UTC().Format("20060102T150405") // e.g., 20251028T184523
	return "req_" + ts + "_" + hex.EncodeToString(b[:])
}

// publishEvents fans out the given events, skipping NO_OP which carries
// no information a user should see. The first publish failure stops the
// fan-out and is returned so the caller can refuse to commit.
func (service *navigationService) publishEvents(ctx context.Context, userID, routeID string, events []session.Event) error {
	for _, ev := range events {
		if ev.Type == session.EventNoOp {
			continue
		}
		if err := service.pub.PublishEvent(ctx, userID, routeID, ev); err != nil {
			service.logger.Error(ctx, "nav_event_publish_failed", "Failed to publish navigation event", err, map[string]any{
				"user_id": userID,
				"type":    ev.Type.String(),
			})
			return err
		}
	}
	return nil
}
