package main

import (
	"context"
	"log"

	"bzr-portal-be/internal/bootstrap"
	"bzr-portal-be/internal/config"
	"bzr-portal-be/internal/server"
	"bzr-portal-be/internal/tracer"
	"bzr-portal-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	// The NATS consumer runs inside the API process; a dedicated worker
	// binary is only needed once renderers move out of process.
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
