package contracts

import "time"

// Envelope carries correlation metadata shared by every queue message.
type Envelope struct {
	CorrelationID string    `json:"correlation_id"`
	Producer      string    `json:"producer"`
	SentAt        time.Time `json:"sent_at"`
}

// GeoPoint is the wire form of a geographic coordinate.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
