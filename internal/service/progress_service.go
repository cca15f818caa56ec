package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"radiology-consult-be/internal/dto"
	"radiology-consult-be/internal/pkg/logger"
	"radiology-consult-be/internal/websocket"
	"radiology-consult-be/pkg/deliberation"
)

// ProgressTopicName carries round-by-round deliberation progress from the
// controller goroutine to the websocket relay.
const ProgressTopicName = "CONSULT_PROGRESS"

// ProgressPublisher bridges the round controller to the in-process pub/sub.
// Publishing is fire-and-forget; a failed publish never fails a session.
type ProgressPublisher struct {
	pubSub *gochannel.GoChannel
	logger logger.ILogger
}

var _ deliberation.ProgressNotifier = &ProgressPublisher{}

func NewProgressPublisher(pubSub *gochannel.GoChannel, log logger.ILogger) *ProgressPublisher {
	return &ProgressPublisher{pubSub: pubSub, logger: log}
}

func (p *ProgressPublisher) NotifyProgress(event deliberation.ProgressEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.pubSub.Publish(ProgressTopicName, msg); err != nil {
		p.logger.Warn("Progress", "Failed to publish progress event", map[string]interface{}{
			"session_id": event.SessionID,
			"error":      err.Error(),
		})
	}
}

type IProgressRelayService interface {
	Consume(ctx context.Context) error
}

// progressRelayService subscribes to the progress topic and fans events out
// to the websocket clients watching each session.
type progressRelayService struct {
	pubSub *gochannel.GoChannel
	hub    *websocket.Hub
	logger logger.ILogger
}

func NewProgressRelayService(pubSub *gochannel.GoChannel, hub *websocket.Hub, log logger.ILogger) IProgressRelayService {
	return &progressRelayService{
		pubSub: pubSub,
		hub:    hub,
		logger: log,
	}
}

func (s *progressRelayService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, ProgressTopicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()

	return nil
}

func (s *progressRelayService) processMessage(msg *message.Message) {
	var event deliberation.ProgressEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		s.logger.Warn("Progress", "Failed to unmarshal progress event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	sessionID, err := uuid.Parse(event.SessionID)
	if err != nil {
		msg.Ack()
		return
	}

	s.hub.SendToSession(sessionID, dto.ProgressEventDTO{
		SessionId: sessionID,
		Round:     event.Round,
		Stage:     event.Stage,
		Status:    event.Status,
	})
	msg.Ack()
}
