package contracts

import "time"

// PositionUpdateMessage reports a user's GPS fix.
type PositionUpdateMessage struct {
	Envelope
	UserID   string   `json:"user_id"`
	Position GeoPoint `json:"position"`
}

// RouteCommandMessage starts or cancels navigation for a user.
// Command is one of CommandGo, CommandCancel. Destination is the
// free-text destination query and is required for CommandGo.
type RouteCommandMessage struct {
	Envelope
	UserID      string `json:"user_id"`
	Command     string `json:"command"`
	Destination string `json:"destination,omitempty"`
}

// NavigationEventMessage is fanned out whenever a session emits
// guidance, a warning, or a terminal event.
type NavigationEventMessage struct {
	Envelope
	UserID          string    `json:"user_id"`
	RouteID         string    `json:"route_id"`
	Type            string    `json:"type"`
	LegIndex        int       `json:"leg_index"`
	CurrentName     string    `json:"current_name,omitempty"`
	NextName        string    `json:"next_name,omitempty"`
	AngleDegrees    float64   `json:"angle_degrees,omitempty"`
	LegLengthMeters float64   `json:"leg_length_meters,omitempty"`
	DistanceMeters  float64   `json:"distance_meters,omitempty"`
	Text            string    `json:"text,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}
