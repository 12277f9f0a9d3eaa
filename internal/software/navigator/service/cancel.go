package service

import (
	"context"
	"fmt"
	"strings"

	"city-guide/internal/domain/session"
)

// CancelRoute ends the user's active session. Cancelling without an
// active route is not an error; the user just gets told there is none.
func (service *navigationService) CancelRoute(ctx context.Context, userID string) (session.Event, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return session.Event{}, session.ErrUserRequired
	}
	corrID := generateCorrelationID()

	entry := service.registry.entry(userID)
	if entry == nil {
		return session.NoActiveRouteEvent(), nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session == nil {
		return session.NoActiveRouteEvent(), nil
	}

	routeID := entry.session.Route.ID
	ctx = service.logger.WithRouteID(ctx, routeID)

	ev, err := entry.session.Cancel()
	if err != nil {
		return session.Event{}, err
	}
	entry.session = nil

	if err := service.publishEvents(ctx, userID, routeID, []session.Event{ev}); err != nil {
		service.logger.Error(ctx, "cancel_publish_failed", "Failed to publish cancellation", err, map[string]any{
			"user_id":    userID,
			"request_id": corrID,
		})
	}

	service.logger.Info(ctx, "route_cancelled",
		fmt.Sprintf("Route %s cancelled by user %s", routeID, userID),
		map[string]any{
			"user_id":    userID,
			"route_id":   routeID,
			"request_id": corrID,
		},
	)

	return ev, nil
}
