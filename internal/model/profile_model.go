package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Profile struct {
	UserId            uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Institution       string                      `gorm:"type:varchar(255)"`
	Discipline        string                      `gorm:"type:varchar(255)"`
	CompletedArticles datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	CompletedCases    datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	PurchasedNotes    datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Bookmarks         datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	UpdatedAt         time.Time                   `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}
