// README: Entry point; loads config, runs migrations, wires services, starts
// the HTTP server and the background reclassifier.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peloton/internal/config"
	httptransport "peloton/internal/http"
	"peloton/internal/infra"
	"peloton/internal/modules/activity"
	"peloton/internal/modules/calendar"
	"peloton/internal/modules/decision"
	"peloton/internal/modules/matching"
	"peloton/internal/modules/profile"
	"peloton/internal/modules/ride"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := infra.Migrate(cfg.DB.DSN); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("redis unreachable, search caching degraded: %v", err)
	}

	profileStore := profile.NewStore(dbPool)
	profileSvc := profile.NewService(profileStore)

	decisionStore := decision.NewStore(dbPool)
	decisionSvc := decision.NewService(decisionStore)

	matchCache := matching.NewCache(redisClient, time.Duration(cfg.Matching.CacheTTLSeconds)*time.Second)
	matchingSvc := matching.NewService(profileSvc, decisionSvc, matchCache, cfg.Matching)

	rideStore := ride.NewStore(dbPool)
	rideSvc := ride.NewService(rideStore)

	activityStore := activity.NewStore(dbPool)
	activitySvc := activity.NewService(activityStore)

	calendarStore := calendar.NewStore(dbPool)
	calendarSvc := calendar.NewService(calendarStore)

	reclassifier := profile.NewReclassifier(profileStore, cfg.Reclassify.CronSpec)
	if err := reclassifier.Start(ctx); err != nil {
		log.Fatalf("reclassifier: %v", err)
	}
	defer reclassifier.Stop()

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Profiles:  profileSvc,
		Matching:  matchingSvc,
		Decisions: decisionSvc,
		Rides:     rideSvc,
		Activity:  activitySvc,
		Calendar:  calendarSvc,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
