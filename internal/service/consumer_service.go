package service

import (
	"context"
	"encoding/json"

	"ai-tablechat-be/internal/pkg/logger"
	"ai-tablechat-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

const activityModule = "activity"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventForwarder ships activity events out of the process (NATS).
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	forwarder  EventForwarder
	logger     logger.ILogger
}

// NewConsumerService logs every activity event and forwards it when a
// forwarder is configured. forwarder may be nil.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	forwarder EventForwarder,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		forwarder:  forwarder,
		logger:     logger,
	}
}

// Consume subscribes and blocks until ctx is cancelled.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	for msg := range messages {
		cs.processMessage(ctx, msg)
	}
	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var event events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error(activityModule, "Failed to unmarshal activity event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite redelivery
		return
	}

	cs.logger.Info(activityModule, event.Type, event.Data)

	if cs.forwarder != nil {
		if err := cs.forwarder.Publish(ctx, event); err != nil {
			cs.logger.Warn(activityModule, "Failed to forward activity event", map[string]interface{}{
				"type":  event.Type,
				"error": err.Error(),
			})
		}
	}
	msg.Ack()
}
