// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"bzr-portal-be/internal/dto"
	"bzr-portal-be/internal/pkg/mailer"
	"bzr-portal-be/internal/websocket"
	"bzr-portal-be/pkg/events"
	pktNats "bzr-portal-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService fans completed-document events out of the in-process
// bus: NATS for other services, websocket for the waiting client, mail
// for the back office. Each leg is independent and best effort.
type consumerService struct {
	pubSub        *gochannel.GoChannel
	topicName     string
	natsPublisher *pktNats.Publisher
	hub           *websocket.Hub
	emailService  mailer.IEmailService
	notifyEmail   string
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	natsPublisher *pktNats.Publisher,
	hub *websocket.Hub,
	emailService mailer.IEmailService,
	notifyEmail string,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		topicName:     topicName,
		natsPublisher: natsPublisher,
		hub:           hub,
		emailService:  emailService,
		notifyEmail:   notifyEmail,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.DocumentCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal document event: %v", err)
		msg.Ack() // invalid payloads never become valid, no retry
		return
	}

	log.Printf("[INFO] Document completed for conversation %s (company %q)", payload.ConversationId, payload.CompanyName)

	// 1. Cross-service event on NATS.
	if cs.natsPublisher != nil {
		event := events.NewDocumentCompletedEvent(
			payload.ConversationId, payload.UserId,
			payload.CompanyName, payload.Positions, payload.HighRisks,
			payload.GeneratedAt, payload.ValidYears,
		)
		if err := cs.natsPublisher.Publish(ctx, event); err != nil {
			log.Printf("[WARN] Failed to publish NATS event: %v", err)
		}
	}

	// 2. Push to the client still sitting in the chat.
	if cs.hub != nil {
		cs.hub.Send(payload.UserId, websocket.Notice{
			Type:    "document_completed",
			Title:   "Dokument je spreman",
			Message: fmt.Sprintf("Akt o proceni rizika za %s je spreman za preuzimanje.", payload.CompanyName),
			Data: map[string]interface{}{
				"conversation_id": payload.ConversationId.String(),
				"positions":       payload.Positions,
				"high_risks":      payload.HighRisks,
			},
			CreatedAt: time.Now(),
		})
	}

	// 3. Back-office notice.
	if cs.emailService != nil && cs.notifyEmail != "" {
		if err := cs.emailService.SendDocumentReady(cs.notifyEmail, payload.CompanyName, payload.Positions, payload.HighRisks); err != nil {
			log.Printf("[WARN] Failed to send document notice: %v", err)
		}
	}

	msg.Ack()
}
