package unitofwork

import (
	"context"

	"forensichub-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ProfileRepository() contract.ProfileRepository
	PaymentRepository() contract.PaymentRepository
}
