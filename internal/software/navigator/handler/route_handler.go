package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"city-guide/internal/domain/geo"
	"city-guide/internal/domain/nav"
	"city-guide/internal/general/jwt"
	"city-guide/internal/ports"
	"city-guide/internal/software/navigator/service"
)

// --- Request DTO (HTTP boundary) ---

type createRouteRequest struct {
	Destination string `json:"destination"`
}

// ----- Handler: POST /users/{user_id}/route -----

func (handler *NavigationHTTPHandler) handleCreateRoute(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	defer r.Body.Close()

	var req createRouteRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			handler.httpError(ctx, w, http.StatusRequestEntityTooLarge, "request body too large", err)
			return
		}
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON: "+err.Error(), err)
		return
	}

	userID, ok := handler.pathUser(ctx, w, r)
	if !ok {
		return
	}

	if strings.TrimSpace(req.Destination) == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "destination is required", nil)
		return
	}

	result, err := handler.svc.CreateRoute(ctx, ports.CreateRouteInput{
		UserID:      userID,
		Destination: strings.TrimSpace(req.Destination),
	})
	if err != nil {
		handler.serviceError(ctx, w, err)
		return
	}

	handler.jsonResponse(ctx, w, http.StatusCreated, result)
}

// ----- Handler: POST /users/{user_id}/route/cancel -----

func (handler *NavigationHTTPHandler) handleCancelRoute(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	userID, ok := handler.pathUser(ctx, w, r)
	if !ok {
		return
	}

	ev, err := handler.svc.CancelRoute(ctx, userID)
	if err != nil {
		handler.serviceError(ctx, w, err)
		return
	}

	handler.jsonResponse(ctx, w, http.StatusOK, map[string]any{
		"user_id": userID,
		"event":   ev.Type.String(),
	})
}

// pathUser extracts the user_id path parameter and verifies it matches
// the token subject.
func (handler *NavigationHTTPHandler) pathUser(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, bool) {
	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return "", false
	}

	sub := strings.TrimSpace(claims.Subject)
	userID := strings.TrimSpace(r.PathValue("user_id"))
	if userID == "" {
		userID = sub
	} else if userID != sub {
		handler.httpError(ctx, w, http.StatusForbidden, "user_id does not match token subject", errors.New("user/token mismatch"))
		return "", false
	}

	return userID, true
}

// serviceError maps navigation service failures to HTTP statuses.
func (handler *NavigationHTTPHandler) serviceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoKnownPosition):
		handler.httpError(ctx, w, http.StatusConflict, err.Error(), err)
	case errors.Is(err, nav.ErrUnresolvedDestination), errors.Is(err, nav.ErrUnreachable):
		handler.httpError(ctx, w, http.StatusUnprocessableEntity, err.Error(), err)
	case errors.Is(err, nav.ErrProviderUnavailable):
		handler.httpError(ctx, w, http.StatusServiceUnavailable, "routing or geocoding backend unavailable", err)
	case errors.Is(err, geo.ErrInvalidLatitude), errors.Is(err, geo.ErrInvalidLongitude):
		handler.httpError(ctx, w, http.StatusBadRequest, err.Error(), err)
	default:
		handler.httpError(ctx, w, http.StatusInternalServerError, "internal error", err)
	}
}
