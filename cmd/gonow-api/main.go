// README: Entry point; loads config, wires services, starts HTTP server, watcher, and sweeps.
package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gonow/internal/config"
	httptransport "gonow/internal/http"
	"gonow/internal/infra"
	"gonow/internal/modules/availability"
	"gonow/internal/modules/guide"
	"gonow/internal/modules/matching"
	"gonow/internal/modules/trip"
	"gonow/internal/notify"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Firebase.ProjectID == "" {
		log.Fatal("GONOW_FIREBASE_PROJECT_ID is required")
	}
	fb, err := infra.NewFirebase(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatalf("firebase init: %v", err)
	}
	defer fb.Close()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	availStore := availability.NewFirestoreStore(fb.Firestore)
	availSvc := availability.NewService(availStore)

	guideStore := guide.NewStore(fb.Firestore)
	guideSvc := guide.NewService(guideStore)

	matcher := matching.NewSelector(rand.New(rand.NewSource(time.Now().UnixNano())))

	dispatcher := notify.NewDispatcher(
		notify.NewFCMSender(fb.Messaging),
		notify.NewFirestoreRecords(fb.Firestore),
	)

	tripStore := trip.NewStore(fb.Firestore)
	tripSvc := trip.NewService(
		tripStore,
		guideStore,
		availSvc,
		matcher,
		dispatcher,
		trip.NewRedisReminderMarks(redisClient),
		trip.NewPostgresAudit(dbPool),
	)

	watcher := trip.NewWatcher(fb.Firestore, tripSvc)
	go func() {
		if err := watcher.Run(ctx); err != nil {
			log.Fatalf("trip watcher: %v", err)
		}
	}()

	go tripSvc.RunStalePendingSweeper(ctx, time.Duration(cfg.Sweeps.PendingTickMinutes)*time.Minute)
	go tripSvc.RunReminderSweeper(ctx, time.Duration(cfg.Sweeps.ReminderTickMinutes)*time.Minute)
	go guideSvc.RunDailySweeper(ctx, cfg.Sweeps.DailyHour)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Trips:         tripStore,
		TripSweeps:    tripSvc,
		GuideSweeps:   guideSvc,
		Notifications: dispatcher,
		Users:         guideStore,
	})
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
