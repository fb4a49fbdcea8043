package contract

import (
	"context"

	"forensichub-be/internal/entity"
	"forensichub-be/internal/repository/specification"
)

type PaymentRepository interface {
	Create(ctx context.Context, intent *entity.PaymentIntent) error
	Update(ctx context.Context, intent *entity.PaymentIntent) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentIntent, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentIntent, error)
}
