package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessMessageAcksWellFormedPayload(t *testing.T) {
	cs := &consumerService{topicName: TopicReminderDue}

	payload, err := json.Marshal(ReminderDuePayload{
		UserId: uuid.New().String(), Id: uuid.New().String(),
		ItemId: "art-101", ItemTitle: "t", ItemType: "article", RemindAt: time.Now(),
	})
	require.NoError(t, err)

	msg := message.NewMessage(uuid.New().String(), payload)
	cs.processMessage(context.Background(), msg)

	select {
	case <-msg.Acked():
	case <-time.After(time.Second):
		t.Fatal("expected ack")
	}
}

func TestProcessMessageAcksMalformedPayload(t *testing.T) {
	cs := &consumerService{topicName: TopicReminderDue}

	msg := message.NewMessage(uuid.New().String(), []byte("{not json"))
	cs.processMessage(context.Background(), msg)

	// Malformed payloads are dropped, not retried forever.
	select {
	case <-msg.Acked():
	case <-time.After(time.Second):
		t.Fatal("expected ack")
	}
}

func TestConsumeDrainsTopic(t *testing.T) {
	// The gochannel hands each subscriber a copy, so acknowledgement is
	// observed through the blocking publish, not the original message.
	pubSub := gochannel.NewGoChannel(gochannel.Config{BlockPublishUntilSubscriberAck: true}, watermill.NopLogger{})
	cs := NewConsumerService(pubSub, TopicReminderDue, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, cs.Consume(ctx))

	payload, _ := json.Marshal(ReminderDuePayload{UserId: uuid.New().String(), Id: "r1"})

	published := make(chan error, 1)
	go func() {
		published <- pubSub.Publish(TopicReminderDue, message.NewMessage(uuid.New().String(), payload))
	}()

	select {
	case err := <-published:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("message was not consumed")
	}

	assert.NoError(t, pubSub.Close())
}
