package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentIntent struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemKind    string    `gorm:"type:varchar(50);not null"`
	ItemId      string    `gorm:"type:varchar(100);not null"`
	AmountNaira int       `gorm:"not null"`
	Step        string    `gorm:"type:varchar(50);not null;default:'selection'"`
	ReceiptPath string    `gorm:"type:text"`
	CompletedAt *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (PaymentIntent) TableName() string {
	return "payment_intents"
}
