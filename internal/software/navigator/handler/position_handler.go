package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"city-guide/internal/domain/geo"
	"city-guide/internal/domain/session"
	"city-guide/internal/ports"
)

type positionUpdateRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ----- Handler: POST /users/{user_id}/position -----

func (handler *NavigationHTTPHandler) handlePositionUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	defer r.Body.Close()

	var req positionUpdateRequest
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

	events, err := handler.svc.OnPositionUpdate(ctx, ports.PositionUpdateInput{
		UserID:   userID,
		Position: geo.Position{Lat: req.Lat, Lon: req.Lon},
	})
	if err != nil {
		handler.serviceError(ctx, w, err)
		return
	}

	types := make([]string, 0, len(events))
	for _, ev := range events {
		if ev.Type == session.EventNoOp {
			continue
		}
		types = append(types, ev.Type.String())
	}

	handler.jsonResponse(ctx, w, http.StatusOK, map[string]any{
		"user_id": userID,
		"events":  types,
	})
}

// ----- Handler: GET /users/{user_id}/position -----

func (handler *NavigationHTTPHandler) handleWhereAmI(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	userID, ok := handler.pathUser(ctx, w, r)
	if !ok {
		return
	}

	result, err := handler.svc.WhereAmI(ctx, userID)
	if err != nil {
		handler.serviceError(ctx, w, err)
		return
	}

	handler.jsonResponse(ctx, w, http.StatusOK, result)
}
