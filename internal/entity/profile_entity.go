// FILE: internal/entity/profile_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Profile carries the learner's portal state that follows them across
// devices. The slice fields are grow-only sets keyed by content id.
type Profile struct {
	UserId            uuid.UUID
	Institution       string
	Discipline        string
	CompletedArticles []string
	CompletedCases    []string
	PurchasedNotes    []string
	Bookmarks         []string
	UpdatedAt         time.Time
}
