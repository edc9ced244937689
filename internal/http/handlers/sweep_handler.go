// README: Manual sweep triggers for operations.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TripSweeper runs the trip sweeps on demand.
type TripSweeper interface {
	SweepStalePending(ctx context.Context) error
	SweepReminders(ctx context.Context) error
}

// GuideSweeper runs the daily guide vehicle-selection sweep on demand.
type GuideSweeper interface {
	FlagDailyVehicleSelection(ctx context.Context) error
}

type SweepHandler struct {
	trips  TripSweeper
	guides GuideSweeper
}

func NewSweepHandler(trips TripSweeper, guides GuideSweeper) *SweepHandler {
	return &SweepHandler{trips: trips, guides: guides}
}

func (h *SweepHandler) RunPending(c *gin.Context) {
	h.run(c, h.trips.SweepStalePending)
}

func (h *SweepHandler) RunReminders(c *gin.Context) {
	h.run(c, h.trips.SweepReminders)
}

func (h *SweepHandler) RunDaily(c *gin.Context) {
	h.run(c, h.guides.FlagDailyVehicleSelection)
}

func (h *SweepHandler) run(c *gin.Context, sweep func(context.Context) error) {
	if err := sweep(c.Request.Context()); err != nil {
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "done"})
}
