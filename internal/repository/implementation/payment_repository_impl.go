package implementation

import (
	"context"
	"errors"

	"forensichub-be/internal/entity"
	"forensichub-be/internal/mapper"
	"forensichub-be/internal/model"
	"forensichub-be/internal/repository/contract"
	"forensichub-be/internal/repository/specification"

	"gorm.io/gorm"
)

type PaymentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PaymentMapper
}

func NewPaymentRepository(db *gorm.DB) contract.PaymentRepository {
	return &PaymentRepositoryImpl{
		db:     db,
		mapper: mapper.NewPaymentMapper(),
	}
}

func (r *PaymentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PaymentRepositoryImpl) Create(ctx context.Context, intent *entity.PaymentIntent) error {
	modelIntent := r.mapper.ToModel(intent)
	if err := r.db.WithContext(ctx).Create(modelIntent).Error; err != nil {
		return err
	}
	*intent = *r.mapper.ToEntity(modelIntent)
	return nil
}

func (r *PaymentRepositoryImpl) Update(ctx context.Context, intent *entity.PaymentIntent) error {
	modelIntent := r.mapper.ToModel(intent)
	if err := r.db.WithContext(ctx).Save(modelIntent).Error; err != nil {
		return err
	}
	*intent = *r.mapper.ToEntity(modelIntent)
	return nil
}

func (r *PaymentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentIntent, error) {
	var modelIntent model.PaymentIntent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelIntent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelIntent), nil
}

func (r *PaymentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentIntent, error) {
	var modelIntents []*model.PaymentIntent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelIntents).Error; err != nil {
		return nil, err
	}

	intents := make([]*entity.PaymentIntent, 0, len(modelIntents))
	for _, m := range modelIntents {
		intents = append(intents, r.mapper.ToEntity(m))
	}
	return intents, nil
}
