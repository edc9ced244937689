// README: Guide service: daily vehicle re-selection sweep.
package guide

import (
	"context"
	"log"
	"time"

	"gonow/internal/types"
)

// Directory is the slice of the store the service needs.
type Directory interface {
	Active(ctx context.Context) ([]Guide, error)
	FlagVehicleSelection(ctx context.Context, id types.ID) error
}

type Service struct {
	dir Directory
	now func() time.Time
}

func NewService(dir Directory) *Service {
	return &Service{dir: dir, now: time.Now}
}

// FlagDailyVehicleSelection marks every active guide as needing to pick
// their tuk-tuk for the day. One guide's failure never aborts the sweep.
func (s *Service) FlagDailyVehicleSelection(ctx context.Context) error {
	guides, err := s.dir.Active(ctx)
	if err != nil {
		return err
	}
	for _, g := range guides {
		if err := s.dir.FlagVehicleSelection(ctx, g.ID); err != nil {
			log.Printf("daily sweep: flagging guide %s: %v", g.ID, err)
		}
	}
	return nil
}

// RunDailySweeper fires FlagDailyVehicleSelection once per day at the given
// hour. Checks hourly so a restart mid-day does not double-run.
func (s *Service) RunDailySweeper(ctx context.Context, hour int) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	var lastRun string
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := s.now()
			day := now.Format("2006-01-02")
			if now.Hour() != hour || day == lastRun {
				continue
			}
			if err := s.FlagDailyVehicleSelection(ctx); err != nil {
				log.Printf("daily sweep: %v", err)
				continue
			}
			lastRun = day
		}
	}
}
