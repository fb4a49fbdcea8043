package service

import (
	"context"
	"encoding/json"
	"log"

	"forensichub-be/pkg/events"
	pktNats "forensichub-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process reminder-due topic and forwards
// each firing onto the durable event bus, where the notification worker
// picks it up.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	eventPublisher *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		eventPublisher: eventPublisher,
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
	var payload ReminderDuePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal reminder message: %v", err)
		msg.Ack() // malformed payloads never become valid on retry
		return
	}

	if cs.eventPublisher != nil {
		event := events.ReminderDue(payload.UserId, payload.Id, payload.ItemTitle, payload.ItemType)
		if err := cs.eventPublisher.Publish(ctx, event); err != nil {
			log.Printf("[ERROR] Failed to forward reminder %s to event bus: %v", payload.Id, err)
			msg.Nack()
			return
		}
	}

	msg.Ack()
}
