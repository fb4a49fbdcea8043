package contract

import (
	"context"

	"forensichub-be/internal/entity"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	// Upsert writes the row, creating it when absent.
	Upsert(ctx context.Context, profile *entity.Profile) error
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.Profile, error)
}
