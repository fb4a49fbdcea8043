package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"forensichub-be/internal/dto"
	"forensichub-be/internal/entity"
	"forensichub-be/internal/pkg/logger"
	"forensichub-be/pkg/kvstore"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const (
	reminderKeyPrefix = "study_reminders:"

	// TopicReminderDue carries fired reminders to the notification fan-out.
	TopicReminderDue = "reminder.due"
)

var ErrReminderNotFound = errors.New("reminder not found")

// ReminderDuePayload is the wire body published on TopicReminderDue.
type ReminderDuePayload struct {
	UserId    string    `json:"user_id"`
	Id        string    `json:"id"`
	ItemId    string    `json:"item_id"`
	ItemTitle string    `json:"item_title"`
	ItemType  string    `json:"item_type"`
	RemindAt  time.Time `json:"remind_at"`
}

type IReminderService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateReminderRequest) (*dto.ReminderResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]dto.ReminderResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, reminderId string) error
	Start()
	Stop()
}

// reminderService persists reminders per user in the key-value store and
// runs one polling loop for every user's schedule. A reminder fires at
// most once: the completion flag is persisted before the event goes out.
type reminderService struct {
	store     kvstore.Store
	publisher message.Publisher
	log       logger.ILogger
	interval  time.Duration

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func NewReminderService(store kvstore.Store, publisher message.Publisher, log logger.ILogger, interval time.Duration) IReminderService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &reminderService{
		store:     store,
		publisher: publisher,
		log:       log,
		interval:  interval,
		stop:      make(chan struct{}),
	}
}

func (s *reminderService) key(userId uuid.UUID) string {
	return reminderKeyPrefix + userId.String()
}

func (s *reminderService) load(ctx context.Context, key string) ([]entity.StudyReminder, error) {
	raw, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []entity.StudyReminder{}, nil
	}
	var reminders []entity.StudyReminder
	if err := json.Unmarshal(raw, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

func (s *reminderService) save(ctx context.Context, key string, reminders []entity.StudyReminder) error {
	raw, err := json.Marshal(reminders)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, key, raw)
}

func (s *reminderService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateReminderRequest) (*dto.ReminderResponse, error) {
	key := s.key(userId)
	reminders, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	reminder := entity.StudyReminder{
		Id:        uuid.New().String(),
		UserId:    userId.String(),
		ItemId:    req.ItemId,
		ItemTitle: req.ItemTitle,
		ItemType:  req.ItemType,
		RemindAt:  req.RemindAt,
		CreatedAt: time.Now(),
	}
	reminders = append(reminders, reminder)

	if err := s.save(ctx, key, reminders); err != nil {
		return nil, err
	}
	resp := toReminderResponse(reminder)
	return &resp, nil
}

func (s *reminderService) List(ctx context.Context, userId uuid.UUID) ([]dto.ReminderResponse, error) {
	reminders, err := s.load(ctx, s.key(userId))
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReminderResponse, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, toReminderResponse(r))
	}
	return out, nil
}

func (s *reminderService) Delete(ctx context.Context, userId uuid.UUID, reminderId string) error {
	key := s.key(userId)
	reminders, err := s.load(ctx, key)
	if err != nil {
		return err
	}

	next := make([]entity.StudyReminder, 0, len(reminders))
	for _, r := range reminders {
		if r.Id == reminderId {
			continue
		}
		next = append(next, r)
	}
	if len(next) == len(reminders) {
		return ErrReminderNotFound
	}
	return s.save(ctx, key, next)
}

// Start launches the single polling loop. One ticker covers every user;
// the due check and the completion stamp happen in the same pass.
func (s *reminderService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *reminderService) Stop() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
}

// sweep walks every user's schedule and fires due reminders. The
// completed flag is saved before publishing so a crash between the two
// drops the notification instead of doubling it.
func (s *reminderService) sweep() {
	ctx := context.Background()
	keys, err := s.store.Keys(ctx, reminderKeyPrefix)
	if err != nil {
		s.log.Error("reminder", "sweep failed listing keys", map[string]interface{}{"error": err.Error()})
		return
	}

	now := time.Now()
	for _, key := range keys {
		reminders, err := s.load(ctx, key)
		if err != nil {
			s.log.Error("reminder", "sweep failed loading schedule", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
			continue
		}

		var due []entity.StudyReminder
		dirty := false
		for i := range reminders {
			if reminders[i].Due(now) {
				reminders[i].IsCompleted = true
				due = append(due, reminders[i])
				dirty = true
			}
		}
		if !dirty {
			continue
		}

		if err := s.save(ctx, key, reminders); err != nil {
			s.log.Error("reminder", "sweep failed saving schedule", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
			continue
		}

		for _, r := range due {
			s.publish(r)
		}
	}
}

func (s *reminderService) publish(r entity.StudyReminder) {
	payload, err := json.Marshal(ReminderDuePayload{
		UserId:    r.UserId,
		Id:        r.Id,
		ItemId:    r.ItemId,
		ItemTitle: r.ItemTitle,
		ItemType:  r.ItemType,
		RemindAt:  r.RemindAt,
	})
	if err != nil {
		return
	}

	msg := message.NewMessage(uuid.New().String(), payload)
	if err := s.publisher.Publish(TopicReminderDue, msg); err != nil {
		s.log.Error("reminder", "failed publishing due reminder", map[string]interface{}{
			"reminder_id": r.Id,
			"error":       err.Error(),
		})
	}
}

func toReminderResponse(r entity.StudyReminder) dto.ReminderResponse {
	return dto.ReminderResponse{
		Id:          r.Id,
		ItemId:      r.ItemId,
		ItemTitle:   r.ItemTitle,
		ItemType:    r.ItemType,
		RemindAt:    r.RemindAt,
		IsCompleted: r.IsCompleted,
		CreatedAt:   r.CreatedAt,
	}
}
