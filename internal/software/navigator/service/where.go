package service

import (
	"context"
	"strings"

	"city-guide/internal/domain/geo"
	"city-guide/internal/domain/session"
	"city-guide/internal/ports"
)

// WhereAmI reverse-geocodes the user's last known position.
func (service *navigationService) WhereAmI(ctx context.Context, userID string) (ports.WhereAmIResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ports.WhereAmIResult{}, session.ErrUserRequired
	}

	entry := service.registry.entry(userID)
	if entry == nil {
		return ports.WhereAmIResult{}, ErrNoKnownPosition
	}

	entry.mu.Lock()
	var pos geo.Position
	has := entry.hasPosition
	if has {
		pos = entry.lastPosition
	}
	entry.mu.Unlock()

	if !has {
		return ports.WhereAmIResult{}, ErrNoKnownPosition
	}

	// the entry lock is not held across the geocoder call
	place, err := service.geocoder.Reverse(ctx, pos)
	if err != nil {
		service.logger.Error(ctx, "reverse_geocode_failed", "Failed to reverse-geocode position", err, map[string]any{
			"user_id": userID,
		})
		return ports.WhereAmIResult{}, err
	}

	return ports.WhereAmIResult{Position: pos, Place: place}, nil
}
