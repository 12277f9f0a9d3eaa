package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"city-guide/internal/domain/nav"
	"city-guide/internal/domain/session"
	"city-guide/internal/ports"

	"github.com/google/uuid"
)

// ErrNoKnownPosition is returned when a route is requested before the
// user has ever shared a position.
var ErrNoKnownPosition = errors.New("no known position for user; share a location first")

// CreateRoute plans a walking route from the user's last known position
// to a free-text destination and replaces any session the user already
// has. The first instruction is published as a side effect.
func (service *navigationService) CreateRoute(ctx context.Context, in ports.CreateRouteInput) (ports.CreateRouteResult, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return ports.CreateRouteResult{}, session.ErrUserRequired
	}
	if strings.TrimSpace(in.Destination) == "" {
		return ports.CreateRouteResult{}, nav.ErrUnresolvedDestination
	}
	corrID := generateCorrelationID()

	entry := service.registry.entryOrCreate(userID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !entry.hasPosition {
		return ports.CreateRouteResult{}, ErrNoKnownPosition
	}
	origin := entry.lastPosition

	// destinations are resolved within the configured city only
	query := in.Destination + ", " + service.city
	destPos, place, err := service.geocoder.Geocode(ctx, query)
	if err != nil {
		service.logger.Error(ctx, "route_geocode_failed", "Failed to resolve destination", err, map[string]any{
			"user_id":     userID,
			"destination": in.Destination,
			"request_id":  corrID,
		})
		return ports.CreateRouteResult{}, err
	}

	fromNode, err := service.graph.NearestNode(ctx, origin)
	if err != nil {
		return ports.CreateRouteResult{}, err
	}
	toNode, err := service.graph.NearestNode(ctx, destPos)
	if err != nil {
		return ports.CreateRouteResult{}, err
	}

	route := nav.Route{ID: uuid.NewString(), Destination: destPos}

	// distinct snap nodes need a path; identical ones mean the user is
	// already on the destination street and the route has no legs
	if fromNode.ID != toNode.ID {
		path, err := service.graph.ShortestPath(ctx, fromNode.ID, toNode.ID)
		if err != nil {
			service.logger.Error(ctx, "route_planning_failed", "Failed to plan route", err, map[string]any{
				"user_id":    userID,
				"from_node":  fromNode.ID,
				"to_node":    toNode.ID,
				"request_id": corrID,
			})
			return ports.CreateRouteResult{}, err
		}

		decomposed, err := nav.Decompose(path)
		if err != nil {
			return ports.CreateRouteResult{}, err
		}
		route.Legs = decomposed.Legs

		// the shortest path ends at the snap node, which can lie past the
		// destination itself; trim the overshoot so the route ends at the
		// geocoded point
		route.TrimOvershoot()
	}

	sess, err := session.New(userID, route)
	if err != nil {
		return ports.CreateRouteResult{}, err
	}
	sess.LastPosition, sess.HasPosition = origin, true

	// atomic replace: any previous session for the user is discarded
	entry.session = sess

	result := ports.CreateRouteResult{
		RouteID:           route.ID,
		Status:            sess.Status.String(),
		LegCount:          len(route.Legs),
		TotalLengthMeters: route.TotalLength(),
		Destination:       destPos,
		DestinationName:   placeName(place, in.Destination),
	}

	// the first instruction goes out right away (best-effort, the session
	// is already installed)
	if len(route.Legs) > 0 {
		first := sess.FirstInstruction()
		leg := route.Legs[0]
		result.FirstLeg = &leg
		if err := service.publishEvents(ctx, userID, route.ID, []session.Event{first}); err != nil {
			service.logger.Error(ctx, "first_instruction_publish_failed", "Failed to publish first instruction", err, map[string]any{
				"user_id":    userID,
				"route_id":   route.ID,
				"request_id": corrID,
			})
		}
	}

	service.logger.Info(ctx, "route_created",
		fmt.Sprintf("Route %s created for user %s", route.ID, userID),
		map[string]any{
			"user_id":        userID,
			"route_id":       route.ID,
			"leg_count":      len(route.Legs),
			"total_length_m": result.TotalLengthMeters,
			"request_id":     corrID,
		},
	)

	return result, nil
}

// placeName returns the best human label for a resolved place.
func placeName(place ports.Place, fallback string) string {
	if place.Name != "" {
		return place.Name
	}
	if place.Street != "" {
		return place.Street
	}
	return fallback
}
