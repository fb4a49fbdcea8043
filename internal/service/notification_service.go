package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"forensichub-be/internal/model"
	"forensichub-be/internal/pkg/logger"
	"forensichub-be/internal/repository"
	"forensichub-be/pkg/events"
	pktNats "forensichub-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates. Implemented
// by the websocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	payload := event.Payload()

	userIdRaw, _ := payload["user_id"].(string)
	userId, err := uuid.Parse(userIdRaw)
	if err != nil {
		// Events without a user target are ignored here.
		return nil
	}

	var title, body string
	switch typeCode {
	case events.TypeUserVerified:
		title = "Identity Confirmed"
		body = "Your ForensicHub credentials are active. Full portal access granted."
	case events.TypePaymentConfirmed:
		itemType, _ := payload["item_type"].(string)
		if itemType == "premium_access" {
			title = "Premium Access Unlocked"
			body = "Your transfer was verified. Premium dossiers are now open."
		} else {
			title = "Purchase Complete"
			body = fmt.Sprintf("Lecturer note %v is now in your library.", payload["item_id"])
		}
	case events.TypeReminderDue:
		title = "Study Reminder"
		body = fmt.Sprintf("Scheduled review due: %v", payload["target_title"])
	default:
		return nil
	}

	notification := model.Notification{
		Id:        uuid.New(),
		UserId:    userId,
		TypeCode:  typeCode,
		Title:     title,
		Message:   body,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateNotification(ctx, &notification); err != nil {
		s.logger.Error("NotificationService", "Failed to persist notification", map[string]interface{}{
			"type":  typeCode,
			"error": err.Error(),
		})
		return err
	}

	if s.delivery != nil {
		s.delivery.Send(userId, notification)
	}
	return nil
}
