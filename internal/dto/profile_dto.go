// FILE: internal/dto/profile_dto.go
package dto

import "time"

type SyncProfileRequest struct {
	Institution       string   `json:"institution" validate:"omitempty,max=255"`
	Discipline        string   `json:"discipline" validate:"omitempty,max=255"`
	CompletedArticles []string `json:"completed_articles" validate:"omitempty,dive,required"`
	CompletedCases    []string `json:"completed_cases" validate:"omitempty,dive,required"`
	PurchasedNotes    []string `json:"purchased_notes" validate:"omitempty,dive,required"`
	Bookmarks         []string `json:"bookmarks" validate:"omitempty,dive,required"`
}

type ProfileResponse struct {
	Institution       string    `json:"institution"`
	Discipline        string    `json:"discipline"`
	CompletedArticles []string  `json:"completed_articles"`
	CompletedCases    []string  `json:"completed_cases"`
	PurchasedNotes    []string  `json:"purchased_notes"`
	Bookmarks         []string  `json:"bookmarks"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type ToggleBookmarkRequest struct {
	ItemId string `json:"item_id" validate:"required"`
}

type ToggleBookmarkResponse struct {
	Bookmarked bool     `json:"bookmarked"`
	Bookmarks  []string `json:"bookmarks"`
}
