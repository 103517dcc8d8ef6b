package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bzr-portal-be/pkg/events"
	pktNats "bzr-portal-be/pkg/nats"

	"github.com/joho/godotenv"
)

// Renderer-side worker: drains DOCUMENT_COMPLETED events from JetStream.
// The DOCX rendering itself lives in a separate service; this worker is
// the integration point and logs what it would hand over.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	sub, err := pktNats.NewSubscriber(natsURL)
	if err != nil {
		log.Fatalf("Failed to connect subscriber: %v", err)
	}
	defer sub.Close()

	err = sub.Subscribe(
		"events."+events.TypeDocumentCompleted,
		"doc-renderer",
		func(ctx context.Context, event events.Event) error {
			payload := event.Payload()
			log.Printf("Document ready for rendering: conversation=%v company=%v positions=%v high_risks=%v",
				payload["conversation_id"], payload["company_name"], payload["positions"], payload["high_risks"])
			return nil
		},
	)
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	log.Println("Document worker running, waiting for events...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Document worker shutting down")
}
