// FILE: internal/dto/reminder_dto.go
package dto

import "time"

type CreateReminderRequest struct {
	ItemId    string    `json:"item_id" validate:"required"`
	ItemTitle string    `json:"item_title" validate:"required"`
	ItemType  string    `json:"item_type" validate:"required,oneof=article note case"`
	RemindAt  time.Time `json:"remind_at" validate:"required"`
}

type ReminderResponse struct {
	Id          string    `json:"id"`
	ItemId      string    `json:"item_id"`
	ItemTitle   string    `json:"item_title"`
	ItemType    string    `json:"item_type"`
	RemindAt    time.Time `json:"remind_at"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
}
