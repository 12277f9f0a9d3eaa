package ports

import (
	"context"

	"city-guide/internal/domain/geo"
	"city-guide/internal/domain/nav"
	"city-guide/internal/domain/session"
)

// ----- DTOs for the Navigation Service -----

// CreateRouteInput is the validated input required to plan a route.
type CreateRouteInput struct {
	UserID      string
	Destination string // free text, resolved against the configured city
}

// CreateRouteResult is returned by NavigationService.CreateRoute.
type CreateRouteResult struct {
	RouteID           string       `json:"route_id"`
	Status            string       `json:"status"`
	LegCount          int          `json:"leg_count"`
	TotalLengthMeters float64      `json:"total_length_meters"`
	Destination       geo.Position `json:"destination"`
	DestinationName   string       `json:"destination_name"`

	// FirstLeg is nil when the route has no legs (already arrived).
	FirstLeg *nav.Leg `json:"first_leg,omitempty"`
}

// PositionUpdateInput is one live position fix for a user.
type PositionUpdateInput struct {
	UserID   string
	Position geo.Position
}

// WhereAmIResult describes the user's last known position.
type WhereAmIResult struct {
	Position geo.Position `json:"position"`
	Place    Place        `json:"place"`
}

// ----- Navigation Service Interface -----

// NavigationService is the boundary of the live-navigation core.
type NavigationService interface {
	// CreateRoute plans a route from the user's last known position to a
	// destination and replaces any session the user already has.
	CreateRoute(ctx context.Context, in CreateRouteInput) (CreateRouteResult, error)

	// OnPositionUpdate consumes one position fix and returns the events it
	// produced. A failed update leaves the session unchanged.
	OnPositionUpdate(ctx context.Context, in PositionUpdateInput) ([]session.Event, error)

	// CancelRoute ends the user's active session. Without an active route
	// it returns a NO_ACTIVE_ROUTE event, not an error.
	CancelRoute(ctx context.Context, userID string) (session.Event, error)

	// WhereAmI reverse-geocodes the user's last known position.
	WhereAmI(ctx context.Context, userID string) (WhereAmIResult, error)

	// RunBackgroundConsumers starts the queue consumers that feed position
	// updates and route commands into the service.
	RunBackgroundConsumers(ctx context.Context)
}
