package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"forensichub-be/internal/dto"
	"forensichub-be/pkg/kvstore"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingPublisher records published messages per topic.
type capturingPublisher struct {
	mu   sync.Mutex
	msgs map[string][]*message.Message
}

func newCapturingPublisher() *capturingPublisher {
	return &capturingPublisher{msgs: make(map[string][]*message.Message)}
}

func (p *capturingPublisher) Publish(topic string, messages ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs[topic] = append(p.msgs[topic], messages...)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func (p *capturingPublisher) published(topic string) []*message.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*message.Message(nil), p.msgs[topic]...)
}

func newReminderFixture() (IReminderService, *capturingPublisher, kvstore.Store) {
	store := kvstore.NewMemoryStore()
	pub := newCapturingPublisher()
	svc := NewReminderService(store, pub, noopLogger{}, time.Hour)
	return svc, pub, store
}

func TestCreateAndListReminders(t *testing.T) {
	svc, _, _ := newReminderFixture()
	userId := uuid.New()

	created, err := svc.Create(context.Background(), userId, &dto.CreateReminderRequest{
		ItemId:    "art-311",
		ItemTitle: "Entomology in Death Investigations",
		ItemType:  "article",
		RemindAt:  time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.Id)
	assert.False(t, created.IsCompleted)

	list, err := svc.List(context.Background(), userId)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "art-311", list[0].ItemId)

	// Another user's schedule is empty.
	other, err := svc.List(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestDeleteReminder(t *testing.T) {
	svc, _, _ := newReminderFixture()
	userId := uuid.New()

	created, err := svc.Create(context.Background(), userId, &dto.CreateReminderRequest{
		ItemId: "note-001", ItemTitle: "t", ItemType: "note", RemindAt: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), userId, created.Id))

	list, err := svc.List(context.Background(), userId)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, svc.Delete(context.Background(), userId, created.Id), ErrReminderNotFound)
}

func TestSweepFiresDueRemindersExactlyOnce(t *testing.T) {
	svcIface, pub, _ := newReminderFixture()
	svc := svcIface.(*reminderService)
	userId := uuid.New()

	_, err := svc.Create(context.Background(), userId, &dto.CreateReminderRequest{
		ItemId:    "case-NG-2024-001",
		ItemTitle: "The Riverside Incident",
		ItemType:  "case",
		RemindAt:  time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), userId, &dto.CreateReminderRequest{
		ItemId:    "art-101",
		ItemTitle: "Intro to Forensic Science",
		ItemType:  "article",
		RemindAt:  time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	svc.sweep()

	msgs := pub.published(TopicReminderDue)
	require.Len(t, msgs, 1)

	var payload ReminderDuePayload
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &payload))
	assert.Equal(t, userId.String(), payload.UserId)
	assert.Equal(t, "case-NG-2024-001", payload.ItemId)
	assert.Equal(t, "The Riverside Incident", payload.ItemTitle)

	// The fired reminder is marked completed and never fires again.
	list, err := svc.List(context.Background(), userId)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, r := range list {
		if r.ItemId == "case-NG-2024-001" {
			assert.True(t, r.IsCompleted)
		} else {
			assert.False(t, r.IsCompleted)
		}
	}

	svc.sweep()
	assert.Len(t, pub.published(TopicReminderDue), 1)
}

func TestSweepMarksBeforePublishing(t *testing.T) {
	svcIface, pub, store := newReminderFixture()
	svc := svcIface.(*reminderService)
	userId := uuid.New()

	created, err := svc.Create(context.Background(), userId, &dto.CreateReminderRequest{
		ItemId: "art-203", ItemTitle: "t", ItemType: "article", RemindAt: time.Now().Add(-time.Second),
	})
	require.NoError(t, err)

	svc.sweep()
	require.Len(t, pub.published(TopicReminderDue), 1)

	// The persisted schedule already carries the completion flag.
	raw, err := store.Load(context.Background(), reminderKeyPrefix+userId.String())
	require.NoError(t, err)
	var stored []struct {
		Id          string `json:"id"`
		IsCompleted bool   `json:"isCompleted"`
	}
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, created.Id, stored[0].Id)
	assert.True(t, stored[0].IsCompleted)
}

func TestSweepCoversEveryUsersSchedule(t *testing.T) {
	svcIface, pub, _ := newReminderFixture()
	svc := svcIface.(*reminderService)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateReminderRequest{
			ItemId: "art-101", ItemTitle: "t", ItemType: "article", RemindAt: time.Now().Add(-time.Second),
		})
		require.NoError(t, err)
	}

	svc.sweep()
	assert.Len(t, pub.published(TopicReminderDue), 3)
}

func TestStartStopIdempotent(t *testing.T) {
	svc, _, _ := newReminderFixture()
	svc.Start()
	svc.Stop()
	svc.Stop()
}
