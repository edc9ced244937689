// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gonow/internal/http/handlers"
	"gonow/internal/http/middleware"
)

type RouterDeps struct {
	Trips         handlers.TripReader
	TripSweeps    handlers.TripSweeper
	GuideSweeps   handlers.GuideSweeper
	Notifications handlers.PushSender
	Users         handlers.UserResolver
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	tripHandler := handlers.NewTripHandler(deps.Trips)
	r.GET("/api/trips/:id", tripHandler.Get)

	notificationHandler := handlers.NewNotificationHandler(deps.Notifications, deps.Users)
	r.POST("/api/notifications/send", notificationHandler.Send)

	sweepHandler := handlers.NewSweepHandler(deps.TripSweeps, deps.GuideSweeps)
	r.POST("/api/sweeps/pending/run", sweepHandler.RunPending)
	r.POST("/api/sweeps/reminders/run", sweepHandler.RunReminders)
	r.POST("/api/sweeps/daily/run", sweepHandler.RunDaily)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
