package service

import (
	"context"
	"strings"

	"city-guide/internal/domain/session"
	"city-guide/internal/ports"
)

// OnPositionUpdate consumes one position fix. Without an active session
// the fix is only recorded; with one, the session's state machine runs
// on a clone and the result is committed only after the produced events
// were published, so a failed update leaves the session untouched.
func (service *navigationService) OnPositionUpdate(ctx context.Context, in ports.PositionUpdateInput) ([]session.Event, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, session.ErrUserRequired
	}
	if err := in.Position.Validate(); err != nil {
		return nil, err
	}

	entry := service.registry.entryOrCreate(userID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session == nil {
		entry.lastPosition, entry.hasPosition = in.Position, true
		return nil, nil
	}

	routeID := entry.session.Route.ID
	ctx = service.logger.WithRouteID(ctx, routeID)

	tmp := entry.session.Clone()
	events, err := tmp.Observe(in.Position, service.limits)
	if err != nil {
		service.logger.Error(ctx, "position_update_rejected", "Position update failed", err, map[string]any{
			"user_id": userID,
		})
		return nil, err
	}

	if err := service.publishEvents(ctx, userID, routeID, events); err != nil {
		return nil, err
	}

	// commit
	*entry.session = *tmp
	entry.lastPosition, entry.hasPosition = in.Position, true

	if entry.session.Status.Terminal() {
		service.logger.Info(ctx, "session_ended", "Navigation session reached a terminal state", map[string]any{
			"user_id": userID,
			"status":  entry.session.Status.String(),
		})
		entry.session = nil
	}

	return events, nil
}
