package session

import (
	"errors"
	"strings"
	"time"

	"city-guide/internal/domain/geo"
	"city-guide/internal/domain/nav"
)

var (
	ErrUserRequired  = errors.New("user id is required")
	ErrNotNavigating = errors.New("session is not navigating")
	ErrBadLimits     = errors.New("arrival radius and deviation threshold must be positive")
)

// Limits carries the geometric thresholds that drive leg advancement and
// deviation warnings. Values come from configuration, never constants.
type Limits struct {
	ArrivalRadiusM      float64
	DeviationThresholdM float64
}

// Validate checks that both thresholds are usable.
func (lim Limits) Validate() error {
	if lim.ArrivalRadiusM <= 0 || lim.DeviationThresholdM <= 0 {
		return ErrBadLimits
	}
	return nil
}

// Session tracks one user's progress through a Route. A session is created
// in NAVIGATING, advances monotonically through leg indexes on position
// updates, and ends in ARRIVED or CANCELLED. All mutation must be
// serialized by the caller; the session itself holds no lock.
type Session struct {
	UserID       string
	Route        nav.Route
	LegIndex     int
	Status       Status
	LastPosition geo.Position
	HasPosition  bool
	CreatedAt    time.Time

	// warnedLeg is the leg index of the off-route episode currently being
	// suppressed, or -1 when the user is on-route. One warning per episode.
	warnedLeg int
}

// New creates a session in NAVIGATING state at leg 0.
func New(userID string, route nav.Route) (*Session, error) {
	if userID = strings.TrimSpace(userID); userID == "" {
		return nil, ErrUserRequired
	}

	return &Session{
		UserID:    userID,
		Route:     route,
		Status:    StatusNavigating,
		CreatedAt: time.Now().UTC(),
		warnedLeg: -1,
	}, nil
}

// CurrentLeg returns the leg the user is expected to be traversing.
func (s *Session) CurrentLeg() (nav.Leg, bool) {
	if s.LegIndex < 0 || s.LegIndex >= len(s.Route.Legs) {
		return nav.Leg{}, false
	}
	return s.Route.Legs[s.LegIndex], true
}

// FirstInstruction returns the instruction event for leg 0, sent right
// after route creation. The route must not be empty.
func (s *Session) FirstInstruction() Event {
	return InstructionEvent(s.Route.Legs[0], 0, len(s.Route.Legs) == 1)
}

// Observe applies one position update and returns the resulting events.
// Failures are returned before any state changes, so an erroring update
// is a no-op for the state machine. An update that crosses no threshold
// yields a single NO_OP event.
func (s *Session) Observe(pos geo.Position, lim Limits) ([]Event, error) {
	if err := lim.Validate(); err != nil {
		return nil, err
	}
	if err := pos.Validate(); err != nil {
		return nil, err
	}
	if s.Status != StatusNavigating {
		return nil, ErrNotNavigating
	}

	// a route with no legs means the destination street was the starting
	// street; the first update confirms arrival
	if s.LegIndex >= len(s.Route.Legs) {
		s.LastPosition, s.HasPosition = pos, true
		s.Status = StatusArrived
		return []Event{ArrivedEvent(s.LegIndex)}, nil
	}

	s.LastPosition, s.HasPosition = pos, true

	leg := s.Route.Legs[s.LegIndex]
	final := s.LegIndex == len(s.Route.Legs)-1

	// checkpoint to close in on: Mid for intermediate legs, the
	// destination itself on the final leg
	target := leg.Mid
	if final {
		target = leg.Dst
	}

	if geo.Haversine(pos, target) <= lim.ArrivalRadiusM {
		s.LegIndex++
		s.warnedLeg = -1

		if s.LegIndex >= len(s.Route.Legs) {
			s.Status = StatusArrived
			return []Event{ArrivedEvent(s.LegIndex - 1)}, nil
		}

		next := s.Route.Legs[s.LegIndex]
		return []Event{InstructionEvent(next, s.LegIndex, s.LegIndex == len(s.Route.Legs)-1)}, nil
	}

	// deviation check against the segment currently being traversed
	if off := geo.DistanceToSegment(pos, leg.Src, leg.Mid); off > lim.DeviationThresholdM {
		if s.warnedLeg != s.LegIndex {
			s.warnedLeg = s.LegIndex
			return []Event{OffRouteEvent(s.LegIndex, leg.CurrentName, off)}, nil
		}
	} else if s.warnedLeg == s.LegIndex {
		// back under the threshold: the episode is over, a fresh
		// deviation may warn again
		s.warnedLeg = -1
	}

	return []Event{NoOpEvent(s.LegIndex)}, nil
}

// Cancel moves NAVIGATING -> CANCELLED.
func (s *Session) Cancel() (Event, error) {
	if !s.Status.CanTransitionTo(StatusCancelled) {
		return Event{}, ErrNotNavigating
	}
	s.Status = StatusCancelled
	return CancelledEvent(s.LegIndex), nil
}

// Clone returns a shallow copy. The route is immutable, so the copy can
// be mutated independently and committed back by the caller.
func (s *Session) Clone() *Session {
	c := *s
	return &c
}
