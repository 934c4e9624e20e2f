package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"swarm-duel/internal/api"
	"swarm-duel/internal/config"
	"swarm-duel/internal/game"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	cfg := config.Load()
	log.Printf("arena %gx%g, tick every %v (max delta %.2fs), room timeout %v",
		cfg.Arena.Width, cfg.Arena.Height, cfg.Sim.TickInterval, cfg.Sim.MaxDelta, cfg.Room.InactivityTimeout)

	// Match event log (optional audit trail)
	var matchLog *game.MatchLog
	if cfg.Server.EventLogPath != "" {
		matchLog = game.NewMatchLog()
		if err := matchLog.Start(cfg.Server.EventLogPath); err != nil {
			log.Printf("match log disabled: %v", err)
			matchLog = nil
		} else {
			log.Printf("match log: %s", cfg.Server.EventLogPath)
		}
	}

	registry := game.NewRegistry(game.RegistryConfig{
		ArenaWidth:        cfg.Arena.Width,
		ArenaHeight:       cfg.Arena.Height,
		InactivityTimeout: cfg.Room.InactivityTimeout,
	}, matchLog)

	hub := api.NewHub(registry)

	driver := game.NewDriver(registry, hub, cfg.Sim.TickInterval, cfg.Sim.MaxDelta)
	driver.OnTickDuration = func(d time.Duration) {
		api.RecordTick(d)
		api.UpdateRoomCount(registry.RoomCount())
	}

	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("debug server disabled: %v", err)
		}
	}

	router := api.NewRouter(api.RouterConfig{
		Registry:    registry,
		Broadcaster: hub,
		Hub:         hub,
	})

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	driver.Start()

	go func() {
		log.Printf("server on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("ready, press Ctrl+C to stop")
	<-quit

	log.Println("shutting down...")
	driver.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	if matchLog != nil {
		matchLog.Stop()
	}
	log.Println("goodbye")
}
