package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "USER_REGISTERED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used across the portal.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes published by the portal.
const (
	TypeUserRegistered   = "USER_REGISTERED"
	TypeUserVerified     = "USER_VERIFIED"
	TypePaymentConfirmed = "PAYMENT_CONFIRMED"
	TypeReminderDue      = "REMINDER_DUE"
)

// UserRegistered fires after a successful registration.
func UserRegistered(userID, email string) Event {
	return BaseEvent{
		Type:       TypeUserRegistered,
		Data:       map[string]interface{}{"user_id": userID, "email": email},
		OccurredAt: time.Now(),
	}
}

// UserVerified fires once the email OTP is confirmed.
func UserVerified(userID, email string) Event {
	return BaseEvent{
		Type:       TypeUserVerified,
		Data:       map[string]interface{}{"user_id": userID, "email": email},
		OccurredAt: time.Now(),
	}
}

// PaymentConfirmed fires when a manual transfer is verified and the
// entitlement granted.
func PaymentConfirmed(userID, intentID, itemID, itemType string) Event {
	return BaseEvent{
		Type: TypePaymentConfirmed,
		Data: map[string]interface{}{
			"user_id":   userID,
			"intent_id": intentID,
			"item_id":   itemID,
			"item_type": itemType,
		},
		OccurredAt: time.Now(),
	}
}

// ReminderDue fires when the poller triggers a study reminder.
func ReminderDue(userID, reminderID, targetTitle, targetType string) Event {
	return BaseEvent{
		Type: TypeReminderDue,
		Data: map[string]interface{}{
			"user_id":      userID,
			"reminder_id":  reminderID,
			"target_title": targetTitle,
			"target_type":  targetType,
		},
		OccurredAt: time.Now(),
	}
}
