package main

import (
	"context"
	"log"

	"radiology-consult-be/internal/bootstrap"
	"radiology-consult-be/internal/config"
	"radiology-consult-be/internal/server"
	"radiology-consult-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Start Background Services
	go func() {
		log.Println("Background: Starting Progress Relay...")
		if err := container.ProgressRelayService.Consume(context.Background()); err != nil {
			log.Printf("Background Progress Relay Error: %v", err)
		}
	}()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
