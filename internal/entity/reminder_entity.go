// FILE: internal/entity/reminder_entity.go
package entity

import "time"

// StudyReminder is a one-shot alarm set against a catalog item. Fired
// reminders stay in the store with IsCompleted stamped so a restart
// never replays them.
type StudyReminder struct {
	Id          string    `json:"id"`
	UserId      string    `json:"userId"`
	ItemId      string    `json:"itemId"`
	ItemTitle   string    `json:"itemTitle"`
	ItemType    string    `json:"itemType"`
	RemindAt    time.Time `json:"remindAt"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (r *StudyReminder) Due(now time.Time) bool {
	return !r.IsCompleted && !now.Before(r.RemindAt)
}
