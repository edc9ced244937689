// README: Trip read handlers.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gonow/internal/modules/trip"
	"gonow/internal/types"
)

// TripReader is the slice of the trip store the handler needs.
type TripReader interface {
	Get(ctx context.Context, id types.ID) (*trip.Trip, error)
	ListEvents(ctx context.Context, tripID types.ID) ([]trip.Event, error)
}

type TripHandler struct {
	trips TripReader
}

func NewTripHandler(trips TripReader) *TripHandler {
	return &TripHandler{trips: trips}
}

type tripEventResp struct {
	Action       string    `json:"action"`
	CreatedBy    string    `json:"created_by"`
	Reason       string    `json:"reason,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreationDate time.Time `json:"creation_date"`
}

func (h *TripHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing trip id")
		return
	}
	t, err := h.trips.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeTripError(c, err)
		return
	}
	events, err := h.trips.ListEvents(c.Request.Context(), t.ID)
	if err != nil {
		writeTripError(c, err)
		return
	}
	out := make([]tripEventResp, 0, len(events))
	for _, e := range events {
		out = append(out, tripEventResp{
			Action:       e.Action,
			CreatedBy:    e.CreatedBy,
			Reason:       e.Reason,
			Notes:        e.Notes,
			CreationDate: e.CreationDate,
		})
	}
	writeJSON(c, http.StatusOK, gin.H{
		"trip_id":  t.ID,
		"status":   t.Status,
		"tour_id":  t.TourID,
		"guide_id": t.GuideID,
		"date":     t.Date,
		"persons":  t.Persons,
		"events":   out,
	})
}
