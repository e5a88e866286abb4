package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cancel-flow-be/internal/bootstrap"
	"cancel-flow-be/internal/config"
	"cancel-flow-be/internal/pkg/serverutils"
	"cancel-flow-be/internal/server"
	"cancel-flow-be/internal/tracer"
	"cancel-flow-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const devMonthlyPrice = 2500

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.Telemetry)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	var gormDB *gorm.DB
	if cfg.Database.Driver != config.DriverMemory {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.IsProduction())
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	if cfg.Database.Driver == config.DriverMemory {
		seedDevUser(container, cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Start Background Services
	log.Println("Background: Starting Event Relay...")
	if err := container.EventRelayService.Consume(ctx); err != nil {
		log.Printf("Background Event Relay Error: %v", err)
	}

	// 6. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 7. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}

// seedDevUser gives the in-memory store one active subscription to walk through.
func seedDevUser(container *bootstrap.Container, cfg *config.Config) {
	sub, err := container.SeedSubscription(context.Background(), uuid.Nil, devMonthlyPrice)
	if err != nil {
		log.Panicf("Unable to seed dev subscription: %v", err)
	}
	token, err := serverutils.GenerateToken(cfg.Auth.JwtSecret, sub.UserId, 24*time.Hour)
	if err != nil {
		log.Panicf("Unable to sign dev token: %v", err)
	}

	color.Cyan("In-memory store seeded")
	color.Green("  user_id:         %s", sub.UserId)
	color.Green("  subscription_id: %s", sub.Id)
	color.Yellow("  Authorization: Bearer %s", token)
}
